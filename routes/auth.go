package routes

import (
	"errors"
	"net/http"

	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/services"
	"ascendia-notes/ascendia/utils/token"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username   string `json:"username" form:"username" binding:"required"`
	Password   string `json:"password" form:"password" binding:"required"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

type passwordResetRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type passwordResetConfirmRequest struct {
	Token     string `json:"token" form:"token" binding:"required"`
	Password1 string `json:"password1" form:"password1" binding:"required"`
	Password2 string `json:"password2" form:"password2" binding:"required"`
}

// RegisterAuthRoutes wires the public authentication surface: signup, login,
// logout and the password reset flow.
func RegisterAuthRoutes(router gin.IRouter, db *database.Database, authService services.AuthServiceInterface, cookieSecure bool) {
	router.GET("/signup", func(c *gin.Context) { authEntryPoint(c, authService) })
	router.POST("/signup", func(c *gin.Context) { Signup(c, db, authService, cookieSecure) })
	router.GET("/login", func(c *gin.Context) { authEntryPoint(c, authService) })
	router.POST("/login", func(c *gin.Context) { Login(c, db, authService, cookieSecure) })
	router.POST("/logout", func(c *gin.Context) { Logout(c, cookieSecure) })
	router.POST("/password_reset", func(c *gin.Context) { PasswordReset(c, db, authService) })
	router.GET("/password_reset/done", PasswordResetDone)
	router.POST("/password_reset/confirm", func(c *gin.Context) { PasswordResetConfirm(c, db, authService) })
}

// authEntryPoint sends already-authenticated visitors home without
// reprocessing; everyone else gets the entry page payload.
func authEntryPoint(c *gin.Context, authService services.AuthServiceInterface) {
	if isAuthenticated(c, authService) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Ascendia"})
}

func isAuthenticated(c *gin.Context, authService services.AuthServiceInterface) bool {
	tokenString, err := token.ExtractToken(c)
	if err != nil {
		return false
	}
	_, err = authService.ValidateToken(tokenString)
	return err == nil
}

func Signup(c *gin.Context, db *database.Database, authService services.AuthServiceInterface, cookieSecure bool) {
	if isAuthenticated(c, authService) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var input services.SignupInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enter a valid email address.", "field": "email"})
		return
	}

	user, err := authService.Register(db, input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Establish a session right away, same as a fresh login without
	// remember-me.
	tokenString, maxAge, err := authService.Login(db, user.Username, input.Password1, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	setSessionCookie(c, tokenString, maxAge, cookieSecure)

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func Login(c *gin.Context, db *database.Database, authService services.AuthServiceInterface, cookieSecure bool) {
	if isAuthenticated(c, authService) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var request loginRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	tokenString, maxAge, err := authService.Login(db, request.Username, request.Password, request.RememberMe)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// One generic message, never revealing whether the username exists.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	setSessionCookie(c, tokenString, maxAge, cookieSecure)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func Logout(c *gin.Context, cookieSecure bool) {
	setSessionCookie(c, "", -1, cookieSecure)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// PasswordReset always answers the same way, whether or not the email maps to
// an account.
func PasswordReset(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request passwordResetRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enter a valid email address.", "field": "email"})
		return
	}

	if _, err := authService.RequestPasswordReset(db, request.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to process request"})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Check your inbox for reset instructions"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/password_reset/done")
}

func PasswordResetDone(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Check your inbox for reset instructions"})
}

func PasswordResetConfirm(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request passwordResetConfirmRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and both password fields are required"})
		return
	}

	err := authService.ResetPassword(db, request.Token, request.Password1, request.Password2)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		if errors.Is(err, services.ErrResetTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This reset link is invalid or has expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func setSessionCookie(c *gin.Context, tokenString string, maxAge int, secure bool) {
	// maxAge 0 issues a browser-session cookie (no Max-Age attribute), the
	// ephemeral expiry used when remember-me is not checked.
	c.SetCookie(token.SessionCookieName, tokenString, maxAge, "/", "", secure, true)
}
