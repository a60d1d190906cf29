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

// TagInput carries the form/JSON fields a caller may set on a tag.
type TagInput struct {
	Name  string `json:"name" form:"name"`
	Color string `json:"color" form:"color"`
}

// TagServiceInterface handles per-user tags and note associations. CreateTag
// absorbs duplicate names as a no-op success; association add/remove are both
// idempotent.
type TagServiceInterface interface {
	ListTagsByUser(db *database.Database, userID uuid.UUID) ([]models.Tag, error)
	CreateTag(db *database.Database, userID uuid.UUID, input TagInput) (models.Tag, bool, error)
	ListTagsForNote(db *database.Database, userID uuid.UUID, noteID string) ([]models.Tag, error)
	AddTagToNote(db *database.Database, userID uuid.UUID, noteID, tagID string) (models.NoteTag, bool, error)
	RemoveTagFromNote(db *database.Database, userID uuid.UUID, noteID, tagID string) error
}

type TagService struct{}

// ListTagsByUser returns the user's tags in alphabetical order.
func (s *TagService) ListTagsByUser(db *database.Database, userID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := db.DB.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag owned by the acting user. When the user already has
// a tag with that name the existing row is returned with created=false and no
// second row is written.
func (s *TagService) CreateTag(db *database.Database, userID uuid.UUID, input TagInput) (models.Tag, bool, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Tag{}, false, NewFieldError("name", "name is required")
	}

	var existing models.Tag
	err := db.DB.First(&existing, "user_id = ? AND name = ?", userID, name).Error
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, false, err
	}

	color := input.Color
	if color == "" {
		color = models.DefaultColor
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Tag{}, false, tx.Error
	}

	tag := models.Tag{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  color,
	}

	if err := tx.Create(&tag).Error; err != nil {
		tx.Rollback()
		return models.Tag{}, false, err
	}

	event, err := models.NewEvent(
		broker.TagCreatedEvent,
		"tag",
		userID.String(),
		map[string]interface{}{
			"tag_id":  tag.ID.String(),
			"user_id": tag.UserID.String(),
			"name":    tag.Name,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Tag{}, false, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Tag{}, false, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Tag{}, false, err
	}

	return tag, true, nil
}

// ListTagsForNote returns the tags associated with a note the acting user
// owns, alphabetically.
func (s *TagService) ListTagsForNote(db *database.Database, userID uuid.UUID, noteID string) ([]models.Tag, error) {
	var note models.Note
	if err := db.DB.First(&note, "id = ? AND user_id = ?", noteID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	var tags []models.Tag
	if err := db.DB.
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id = ?", note.ID).
		Order("tags.name ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// AddTagToNote associates a tag with a note, get-or-create style. Both the
// note and the tag are resolved against the acting user; repeating the call
// is a no-op and reports created=false.
func (s *TagService) AddTagToNote(db *database.Database, userID uuid.UUID, noteID, tagID string) (models.NoteTag, bool, error) {
	var note models.Note
	if err := db.DB.First(&note, "id = ? AND user_id = ?", noteID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NoteTag{}, false, ErrNoteNotFound
		}
		return models.NoteTag{}, false, err
	}

	var tag models.Tag
	if err := db.DB.First(&tag, "id = ? AND user_id = ?", tagID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NoteTag{}, false, ErrTagNotFound
		}
		return models.NoteTag{}, false, err
	}

	var existing models.NoteTag
	err := db.DB.First(&existing, "note_id = ? AND tag_id = ?", note.ID, tag.ID).Error
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NoteTag{}, false, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.NoteTag{}, false, tx.Error
	}

	noteTag := models.NoteTag{
		ID:     uuid.New(),
		NoteID: note.ID,
		TagID:  tag.ID,
	}

	if err := tx.Create(&noteTag).Error; err != nil {
		tx.Rollback()
		return models.NoteTag{}, false, err
	}

	event, err := models.NewEvent(
		broker.TagAddedEvent,
		"note_tag",
		userID.String(),
		map[string]interface{}{
			"note_id": note.ID.String(),
			"tag_id":  tag.ID.String(),
			"user_id": userID.String(),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.NoteTag{}, false, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.NoteTag{}, false, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.NoteTag{}, false, err
	}

	return noteTag, true, nil
}

// RemoveTagFromNote drops the association between a note and a tag. Removing
// an association that does not exist is not an error. The tag row survives.
func (s *TagService) RemoveTagFromNote(db *database.Database, userID uuid.UUID, noteID, tagID string) error {
	var note models.Note
	if err := db.DB.First(&note, "id = ? AND user_id = ?", noteID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	var tag models.Tag
	if err := db.DB.First(&tag, "id = ? AND user_id = ?", tagID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("note_id = ? AND tag_id = ?", note.ID, tag.ID).
		Delete(&models.NoteTag{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		broker.TagRemovedEvent,
		"note_tag",
		userID.String(),
		map[string]interface{}{
			"note_id": note.ID.String(),
			"tag_id":  tag.ID.String(),
			"user_id": userID.String(),
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

var TagServiceInstance TagServiceInterface = &TagService{}
