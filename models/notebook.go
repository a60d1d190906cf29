package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const DefaultColor = "#06b6d4"

type Notebook struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Color       string    `gorm:"not null;default:'#06b6d4'" json:"color"`
	IsFavorite  bool      `gorm:"not null;default:false" json:"is_favorite"`
	Notes       []Note    `gorm:"foreignKey:NotebookID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (nb *Notebook) FromJSON(data []byte) error {
	return json.Unmarshal(data, nb)
}

func (nb *Notebook) ToJSON() ([]byte, error) {
	return json.Marshal(nb)
}
