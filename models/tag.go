package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a per-user label. The (user_id, name) pair is unique so one user
// never owns two tags with the same name; different users may reuse names.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"name"`
	Color     string    `gorm:"not null;default:'#06b6d4'" json:"color"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

// NoteTag links one note to one tag. The (note_id, tag_id) pair is unique;
// deleting a row removes only the association.
type NoteTag struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	NoteID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_note_tags_note_tag" json:"note_id"`
	TagID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_note_tags_note_tag" json:"tag_id"`
	AddedAt time.Time `gorm:"not null;default:now()" json:"added_at"`
}
