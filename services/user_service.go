package services

import (
	"errors"

	"ascendia-notes/ascendia/broker"
	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserUpdateInput carries the account fields a user may edit.
type UserUpdateInput struct {
	Email     string `json:"email" form:"email" binding:"required,email"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
}

type UserServiceInterface interface {
	GetUserById(db *database.Database, id uuid.UUID) (models.User, error)
	UpdateUser(db *database.Database, id uuid.UUID, input UserUpdateInput) (models.User, error)
}

type UserService struct{}

func (s *UserService) GetUserById(db *database.Database, id uuid.UUID) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(db *database.Database, id uuid.UUID, input UserUpdateInput) (models.User, error) {
	// The new email must stay unique across other accounts.
	var count int64
	if err := db.DB.Model(&models.User{}).
		Where("email = ? AND id <> ?", input.Email, id).
		Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, NewFieldError("email", "a user with that email already exists")
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	updates := map[string]interface{}{
		"email":      input.Email,
		"first_name": input.FirstName,
		"last_name":  input.LastName,
	}

	if err := tx.Model(&user).Updates(updates).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	event, err := models.NewEvent(
		broker.UserUpdatedEvent,
		"user",
		user.ID.String(),
		map[string]interface{}{
			"user_id": user.ID.String(),
			"email":   user.Email,
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

var UserServiceInstance UserServiceInterface = &UserService{}
