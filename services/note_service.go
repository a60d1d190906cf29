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

// NoteInput carries the form/JSON fields a caller may set on a note.
type NoteInput struct {
	Title     string `json:"title" form:"title"`
	Content   string `json:"content" form:"content"`
	SortOrder int    `json:"order" form:"order"`
}

// NoteServiceInterface is ownership-scoped like the notebook service. Create
// additionally resolves the parent notebook once, up front, against the same
// owner before the note form is processed.
type NoteServiceInterface interface {
	CreateNote(db *database.Database, userID uuid.UUID, notebookID string, input NoteInput) (models.Note, error)
	GetNoteById(db *database.Database, userID uuid.UUID, id string) (models.Note, error)
	UpdateNote(db *database.Database, userID uuid.UUID, id string, input NoteInput) (models.Note, error)
	DeleteNote(db *database.Database, userID uuid.UUID, id string) error
	ListNotesByNotebook(db *database.Database, userID uuid.UUID, notebookID string) ([]models.Note, error)
	TogglePin(db *database.Database, userID uuid.UUID, id string) (bool, error)
}

type NoteService struct{}

func (s *NoteService) CreateNote(db *database.Database, userID uuid.UUID, notebookID string, input NoteInput) (models.Note, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Note{}, NewFieldError("title", "title is required")
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	// Resolve the parent notebook against the acting user before touching the
	// note. Missing and not-owned are indistinguishable to the caller.
	var notebook models.Notebook
	if err := tx.First(&notebook, "id = ? AND user_id = ?", notebookID, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNotebookNotFound
		}
		return models.Note{}, err
	}

	note := models.Note{
		ID:         uuid.New(),
		UserID:     userID,
		NotebookID: notebook.ID,
		Title:      input.Title,
		Content:    input.Content,
		SortOrder:  input.SortOrder,
	}

	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	event, err := models.NewEvent(
		broker.NoteCreatedEvent,
		"note",
		userID.String(),
		map[string]interface{}{
			"note_id":     note.ID.String(),
			"notebook_id": note.NotebookID.String(),
			"user_id":     note.UserID.String(),
			"title":       note.Title,
			"created_at":  note.CreatedAt,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	return note, nil
}

func (s *NoteService) GetNoteById(db *database.Database, userID uuid.UUID, id string) (models.Note, error) {
	var note models.Note
	if err := db.DB.First(&note, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}
	return note, nil
}

func (s *NoteService) UpdateNote(db *database.Database, userID uuid.UUID, id string, input NoteInput) (models.Note, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Note{}, NewFieldError("title", "title is required")
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	var note models.Note
	if err := tx.First(&note, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}

	updates := map[string]interface{}{
		"title":      input.Title,
		"content":    input.Content,
		"sort_order": input.SortOrder,
	}

	if err := tx.Model(&note).Updates(updates).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	event, err := models.NewEvent(
		broker.NoteUpdatedEvent,
		"note",
		userID.String(),
		map[string]interface{}{
			"note_id":     note.ID.String(),
			"notebook_id": note.NotebookID.String(),
			"user_id":     note.UserID.String(),
			"title":       note.Title,
			"updated_at":  note.UpdatedAt,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	return note, nil
}

// DeleteNote removes the note and its tag associations. The parent notebook
// and the tags themselves are untouched.
func (s *NoteService) DeleteNote(db *database.Database, userID uuid.UUID, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var note models.Note
	if err := tx.First(&note, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteTag{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&note).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		broker.NoteDeletedEvent,
		"note",
		userID.String(),
		map[string]interface{}{
			"note_id":     note.ID.String(),
			"notebook_id": note.NotebookID.String(),
			"user_id":     note.UserID.String(),
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

// ListNotesByNotebook returns the notebook's notes: pinned first, then manual
// order ascending, then most recently updated. The notebook itself is
// resolved ownership-scoped first.
func (s *NoteService) ListNotesByNotebook(db *database.Database, userID uuid.UUID, notebookID string) ([]models.Note, error) {
	var notebook models.Notebook
	if err := db.DB.First(&notebook, "id = ? AND user_id = ?", notebookID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotebookNotFound
		}
		return nil, err
	}

	var notes []models.Note
	if err := db.DB.Where("notebook_id = ? AND user_id = ?", notebook.ID, userID).
		Order("is_pinned DESC, sort_order ASC, updated_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// TogglePin flips the pinned flag and returns the resulting state.
func (s *NoteService) TogglePin(db *database.Database, userID uuid.UUID, id string) (bool, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return false, tx.Error
	}

	var note models.Note
	if err := tx.First(&note, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNoteNotFound
		}
		return false, err
	}

	newState := !note.IsPinned
	if err := tx.Model(&note).Update("is_pinned", newState).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	event, err := models.NewEvent(
		broker.NoteToggledEvent,
		"note",
		userID.String(),
		map[string]interface{}{
			"note_id":   note.ID.String(),
			"user_id":   note.UserID.String(),
			"is_pinned": newState,
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

var NoteServiceInstance NoteServiceInterface = &NoteService{}
