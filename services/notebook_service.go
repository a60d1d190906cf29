package services

import (
	"errors"
	"strings"

	"ascendia-notes/ascendia/broker"
	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotebookInput carries the form/JSON fields a caller may set on a notebook.
type NotebookInput struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Color       string `json:"color" form:"color"`
	IsFavorite  bool   `json:"is_favorite" form:"is_favorite"`
}

// NotebookServiceInterface is ownership-scoped: every method takes the acting
// user's id and folds it into the lookup predicate. A notebook that exists but
// belongs to someone else is reported as not found.
type NotebookServiceInterface interface {
	CreateNotebook(db *database.Database, userID uuid.UUID, input NotebookInput) (models.Notebook, error)
	GetNotebookById(db *database.Database, userID uuid.UUID, id string) (models.Notebook, error)
	UpdateNotebook(db *database.Database, userID uuid.UUID, id string, input NotebookInput) (models.Notebook, error)
	DeleteNotebook(db *database.Database, userID uuid.UUID, id string) error
	ListNotebooksByUser(db *database.Database, userID uuid.UUID) ([]models.Notebook, error)
	ToggleFavorite(db *database.Database, userID uuid.UUID, id string) (bool, error)
}

type NotebookService struct{}

func (s *NotebookService) CreateNotebook(db *database.Database, userID uuid.UUID, input NotebookInput) (models.Notebook, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Notebook{}, NewFieldError("title", "title is required")
	}

	color := input.Color
	if color == "" {
		color = models.DefaultColor
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Notebook{}, tx.Error
	}

	notebook := models.Notebook{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Color:       color,
		IsFavorite:  input.IsFavorite,
	}

	if err := tx.Create(&notebook).Error; err != nil {
		tx.Rollback()
		return models.Notebook{}, err
	}

	event, err := models.NewEvent(
		broker.NotebookCreatedEvent,
		"notebook",
		userID.String(),
		map[string]interface{}{
			"notebook_id": notebook.ID.String(),
			"user_id":     notebook.UserID.String(),
			"title":       notebook.Title,
			"created_at":  notebook.CreatedAt,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Notebook{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Notebook{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Notebook{}, err
	}

	return notebook, nil
}

func (s *NotebookService) GetNotebookById(db *database.Database, userID uuid.UUID, id string) (models.Notebook, error) {
	var notebook models.Notebook
	if err := db.DB.First(&notebook, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Notebook{}, ErrNotebookNotFound
		}
		return models.Notebook{}, err
	}
	return notebook, nil
}

func (s *NotebookService) UpdateNotebook(db *database.Database, userID uuid.UUID, id string, input NotebookInput) (models.Notebook, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Notebook{}, NewFieldError("title", "title is required")
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Notebook{}, tx.Error
	}

	var notebook models.Notebook
	if err := tx.First(&notebook, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Notebook{}, ErrNotebookNotFound
		}
		return models.Notebook{}, err
	}

	color := input.Color
	if color == "" {
		color = notebook.Color
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"color":       color,
		"is_favorite": input.IsFavorite,
	}

	if err := tx.Model(&notebook).Updates(updates).Error; err != nil {
		tx.Rollback()
		return models.Notebook{}, err
	}

	event, err := models.NewEvent(
		broker.NotebookUpdatedEvent,
		"notebook",
		userID.String(),
		map[string]interface{}{
			"notebook_id": notebook.ID.String(),
			"user_id":     notebook.UserID.String(),
			"title":       notebook.Title,
			"updated_at":  notebook.UpdatedAt,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Notebook{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Notebook{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Notebook{}, err
	}

	return notebook, nil
}

// DeleteNotebook hard-deletes a notebook and cascades to its notes and their
// tag associations, all in one transaction.
func (s *NotebookService) DeleteNotebook(db *database.Database, userID uuid.UUID, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var notebook models.Notebook
	if err := tx.First(&notebook, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotebookNotFound
		}
		return err
	}

	if err := tx.Where("note_id IN (SELECT id FROM notes WHERE notebook_id = ?)", notebook.ID).
		Delete(&models.NoteTag{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("notebook_id = ?", notebook.ID).Delete(&models.Note{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&notebook).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		broker.NotebookDeletedEvent,
		"notebook",
		userID.String(),
		map[string]interface{}{
			"notebook_id": notebook.ID.String(),
			"user_id":     notebook.UserID.String(),
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

// ListNotebooksByUser returns the user's notebooks, favorites first, most
// recently updated next.
func (s *NotebookService) ListNotebooksByUser(db *database.Database, userID uuid.UUID) ([]models.Notebook, error) {
	var notebooks []models.Notebook
	if err := db.DB.Where("user_id = ?", userID).
		Order("is_favorite DESC, updated_at DESC").
		Find(&notebooks).Error; err != nil {
		return nil, err
	}
	return notebooks, nil
}

// ToggleFavorite flips the favorite flag and returns the resulting state.
// Last committed write wins when two toggles race; the store's row locking
// resolves the order.
func (s *NotebookService) ToggleFavorite(db *database.Database, userID uuid.UUID, id string) (bool, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return false, tx.Error
	}

	var notebook models.Notebook
	if err := tx.First(&notebook, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotebookNotFound
		}
		return false, err
	}

	newState := !notebook.IsFavorite
	if err := tx.Model(&notebook).Update("is_favorite", newState).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	event, err := models.NewEvent(
		broker.NotebookToggledEvent,
		"notebook",
		userID.String(),
		map[string]interface{}{
			"notebook_id": notebook.ID.String(),
			"user_id":     notebook.UserID.String(),
			"is_favorite": newState,
		},
	)
	if err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return false, err
	}

	return newState, nil
}

var NotebookServiceInstance NotebookServiceInterface = &NotebookService{}
