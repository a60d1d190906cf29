package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Profile extends User with presentation data. Exactly one row per user;
// the row is created inside the user signup transaction and lazily repaired
// by the profile service if it is ever missing.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Avatar    string    `json:"-"`
	Whatsapp  string    `json:"whatsapp"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// AvatarURL returns the public URL of the stored avatar, or empty when none is set.
func (p *Profile) AvatarURL() string {
	if p.Avatar == "" {
		return ""
	}
	return "/media/avatars/" + p.Avatar
}

// WhatsappLink builds the click-to-chat URL for the stored number.
// Every character except digits and a leading plus is stripped, then the
// plus itself is dropped. Empty when no number is set.
func (p *Profile) WhatsappLink() string {
	if p.Whatsapp == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range p.Whatsapp {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return "https://wa.me/" + b.String()
}
