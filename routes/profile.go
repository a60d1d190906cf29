package routes

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/services"

	"github.com/gin-gonic/gin"
)

// RegisterProfileRoutes wires the account page and the avatar endpoint.
// /update_avatar only answers POST; the router's method-not-allowed handling
// turns other verbs into a 405.
func RegisterProfileRoutes(router gin.IRouter, db *database.Database, userService services.UserServiceInterface, profileService services.ProfileServiceInterface) {
	router.GET("/profile", func(c *gin.Context) { GetProfile(c, db, userService, profileService) })
	router.POST("/profile", func(c *gin.Context) { UpdateProfile(c, db, userService, profileService) })
	router.POST("/update_avatar", func(c *gin.Context) { UpdateAvatar(c, db, profileService) })
}

func GetProfile(c *gin.Context, db *database.Database, userService services.UserServiceInterface, profileService services.ProfileServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := userService.GetUserById(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile, err := profileService.GetOrCreateProfile(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"profile":       profile,
		"avatar_url":    profile.AvatarURL(),
		"whatsapp_link": profile.WhatsappLink(),
	})
}

type profileForm struct {
	Email     string `json:"email" form:"email" binding:"required,email"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Whatsapp  string `json:"whatsapp" form:"whatsapp"`
}

// UpdateProfile saves the account fields and the contact number together,
// the way the profile form submits them.
func UpdateProfile(c *gin.Context, db *database.Database, userService services.UserServiceInterface, profileService services.ProfileServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The form saves account fields and the contact number together, so the
	// number is checked up front: a bad number must not leave a half-applied
	// submission behind.
	whatsapp, err := services.ValidateWhatsapp(form.Whatsapp)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := userService.UpdateUser(db, userID, services.UserUpdateInput{
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile, err := profileService.UpdateWhatsapp(db, userID, whatsapp)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"user":          user,
			"profile":       profile,
			"avatar_url":    profile.AvatarURL(),
			"whatsapp_link": profile.WhatsappLink(),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile")
}

// UpdateAvatar handles the three avatar instructions the profile page can
// send: delete, an uploaded file, or a client-side-cropped data URI. Exactly
// one instruction must be present.
func UpdateAvatar(c *gin.Context, db *database.Database, profileService services.ProfileServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if c.PostForm("delete_avatar") == "true" {
		profile, err := profileService.DeleteAvatar(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Avatar removed.",
			"avatar_url": profile.AvatarURL(),
		})
		return
	}

	if dataURI := c.PostForm("avatar_cropped"); dataURI != "" {
		profile, err := profileService.UpdateAvatarFromDataURI(db, userID, dataURI)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Avatar updated.",
			"avatar_url": profile.AvatarURL(),
		})
		return
	}

	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		ext := filepath.Ext(fileHeader.Filename)
		if ext == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "avatar file has no extension"})
			return
		}

		profile, err := profileService.UpdateAvatar(db, userID, data, ext)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Avatar updated.",
			"avatar_url": profile.AvatarURL(),
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no avatar data provided"})
}
