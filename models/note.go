package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	NotebookID uuid.UUID `gorm:"type:uuid;not null;index" json:"notebook_id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `json:"content"`
	IsPinned   bool      `gorm:"not null;default:false" json:"is_pinned"`
	SortOrder  int       `gorm:"not null;default:0" json:"order"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (n *Note) FromJSON(data []byte) error {
	return json.Unmarshal(data, n)
}

func (n *Note) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}
