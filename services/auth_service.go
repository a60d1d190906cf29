package services

import (
	"errors"
	"time"
	"unicode"

	"ascendia-notes/ascendia/broker"
	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/models"
	"ascendia-notes/ascendia/utils/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

const (
	// RememberMeMaxAge is the session lifetime when remember-me is checked:
	// exactly 14 days, in seconds.
	RememberMeMaxAge = 1209600

	// MinPasswordLength is the signup password policy floor.
	MinPasswordLength = 8

	// ResetTokenTTL bounds how long a password reset token stays redeemable.
	ResetTokenTTL = 24 * time.Hour
)

// SignupInput carries the signup form fields.
type SignupInput struct {
	Username  string `json:"username" form:"username"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password1 string `json:"password1" form:"password1"`
	Password2 string `json:"password2" form:"password2"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
}

type AuthServiceInterface interface {
	Register(db *database.Database, input SignupInput) (models.User, error)
	Login(db *database.Database, username, password string, rememberMe bool) (string, int, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
	RequestPasswordReset(db *database.Database, email string) (string, error)
	ResetPassword(db *database.Database, resetToken, password1, password2 string) error
}

type AuthService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
}

func NewAuthService(jwtSecret string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
	}
}

// Register validates the signup form and creates the User together with its
// Profile in one transaction, so every user has exactly one profile from the
// moment it exists.
func (s *AuthService) Register(db *database.Database, input SignupInput) (models.User, error) {
	if input.Username == "" {
		return models.User{}, NewFieldError("username", "username is required")
	}
	if input.Password1 != input.Password2 {
		return models.User{}, NewFieldError("password2", "the two password fields didn't match")
	}
	if err := checkPasswordStrength(input.Password1); err != nil {
		return models.User{}, err
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, NewFieldError("username", "a user with that username already exists")
	}

	if err := db.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, NewFieldError("email", "a user with that email already exists")
	}

	hash, err := s.HashPassword(input.Password1)
	if err != nil {
		return models.User{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	profile := models.Profile{
		ID:     uuid.New(),
		UserID: user.ID,
	}

	if err := tx.Create(&profile).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	event, err := models.NewEvent(
		broker.UserCreatedEvent,
		"user",
		user.ID.String(),
		map[string]interface{}{
			"user_id":  user.ID.String(),
			"username": user.Username,
			"email":    user.Email,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	return user, nil
}

// Login checks credentials and issues a session token. The returned max-age
// is what the session cookie should carry: RememberMeMaxAge seconds when
// remember-me is set, zero (browser-session cookie) when it is not. Failures
// never distinguish an unknown user from a wrong password.
func (s *AuthService) Login(db *database.Database, username, password string, rememberMe bool) (string, int, error) {
	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return "", 0, ErrInvalidCredentials
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return "", 0, ErrInvalidCredentials
	}

	expiration := s.jwtExpiration
	maxAge := 0
	if rememberMe {
		expiration = RememberMeMaxAge * time.Second
		maxAge = RememberMeMaxAge
	}

	tokenString, err := token.GenerateToken(user.ID, user.Username, s.jwtSecret, expiration)
	if err != nil {
		return "", 0, err
	}

	return tokenString, maxAge, nil
}

// ValidateToken uses the token utility to validate tokens
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	return token.ValidateToken(tokenString, s.jwtSecret)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// RequestPasswordReset stores a single-use reset token when the email matches
// an account and returns it for delivery. An unknown email returns an empty
// token and no error, so the caller's response is identical either way and
// account existence never leaks.
func (s *AuthService) RequestPasswordReset(db *database.Database, email string) (string, error) {
	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return "", tx.Error
	}

	reset := models.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(ResetTokenTTL),
	}

	if err := tx.Create(&reset).Error; err != nil {
		tx.Rollback()
		return "", err
	}

	event, err := models.NewEvent(
		broker.PasswordResetRequested,
		"user",
		user.ID.String(),
		map[string]interface{}{
			"user_id": user.ID.String(),
			"email":   user.Email,
		},
	)
	if err != nil {
		tx.Rollback()
		return "", err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return "", err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return "", err
	}

	return reset.Token, nil
}

// ResetPassword redeems a reset token: the password pair must match and pass
// the strength policy, the token must be unused and unexpired. On success the
// credential is rehashed and the token marked used, permanently.
func (s *AuthService) ResetPassword(db *database.Database, resetToken, password1, password2 string) error {
	if password1 != password2 {
		return NewFieldError("password2", "the two password fields didn't match")
	}
	if err := checkPasswordStrength(password1); err != nil {
		return err
	}

	var reset models.PasswordResetToken
	if err := db.DB.Where("token = ?", resetToken).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if !reset.Valid(time.Now().UTC()) {
		return ErrResetTokenInvalid
	}

	hash, err := s.HashPassword(password1)
	if err != nil {
		return err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
		Update("password_hash", hash).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&reset).Update("used", true).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		broker.PasswordResetCompleted,
		"user",
		reset.UserID.String(),
		map[string]interface{}{
			"user_id": reset.UserID.String(),
		},
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func checkPasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return NewFieldError("password1", "password must be at least 8 characters")
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return NewFieldError("password1", "password cannot be entirely numeric")
	}
	return nil
}

var AuthServiceInstance AuthServiceInterface
