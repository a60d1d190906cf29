package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"ascendia-notes/ascendia/broker"
	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/models"
	"ascendia-notes/ascendia/storage"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// MinWhatsappDigits is the minimum digit count for a stored WhatsApp number.
const MinWhatsappDigits = 10

type ProfileServiceInterface interface {
	GetOrCreateProfile(db *database.Database, userID uuid.UUID) (models.Profile, error)
	UpdateWhatsapp(db *database.Database, userID uuid.UUID, whatsapp string) (models.Profile, error)
	UpdateAvatar(db *database.Database, userID uuid.UUID, data []byte, ext string) (models.Profile, error)
	UpdateAvatarFromDataURI(db *database.Database, userID uuid.UUID, dataURI string) (models.Profile, error)
	DeleteAvatar(db *database.Database, userID uuid.UUID) (models.Profile, error)
}

type ProfileService struct {
	avatars *storage.AvatarStorage
}

func NewProfileService(avatars *storage.AvatarStorage) *ProfileService {
	return &ProfileService{avatars: avatars}
}

// GetOrCreateProfile returns the user's profile, creating the row if it is
// missing. Signup creates profiles up front; this lazily repairs older rows
// and is idempotent.
func (s *ProfileService) GetOrCreateProfile(db *database.Database, userID uuid.UUID) (models.Profile, error) {
	var profile models.Profile
	err := db.DB.First(&profile, "user_id = ?", userID).Error
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{}, err
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return models.Profile{}, err
	}
	if count == 0 {
		return models.Profile{}, ErrUserNotFound
	}

	profile = models.Profile{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := db.DB.Create(&profile).Error; err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// ValidateWhatsapp normalizes and checks a contact number without touching
// the database. Empty is valid and clears the stored number; otherwise the
// number must start with + and carry at least ten digits once separators are
// stripped. Callers saving several fields at once run this first so nothing
// is written when the number is rejected.
func ValidateWhatsapp(whatsapp string) (string, error) {
	whatsapp = strings.TrimSpace(whatsapp)
	if whatsapp == "" {
		return "", nil
	}
	if !strings.HasPrefix(whatsapp, "+") {
		return "", NewFieldError("whatsapp", "number must include the country code (e.g., +55 11 98765-4321)")
	}
	digits := 0
	for _, r := range whatsapp {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < MinWhatsappDigits {
		return "", NewFieldError("whatsapp", "number is too short")
	}
	return whatsapp, nil
}

// UpdateWhatsapp validates and stores the contact number.
func (s *ProfileService) UpdateWhatsapp(db *database.Database, userID uuid.UUID, whatsapp string) (models.Profile, error) {
	whatsapp, err := ValidateWhatsapp(whatsapp)
	if err != nil {
		return models.Profile{}, err
	}

	profile, err := s.GetOrCreateProfile(db, userID)
	if err != nil {
		return models.Profile{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Profile{}, tx.Error
	}

	if err := tx.Model(&profile).Update("whatsapp", whatsapp).Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	event, err := models.NewEvent(
		broker.ProfileUpdatedEvent,
		"profile",
		userID.String(),
		map[string]interface{}{
			"profile_id": profile.ID.String(),
			"user_id":    userID.String(),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	profile.Whatsapp = whatsapp
	return profile, nil
}

// UpdateAvatar stores new avatar image bytes under a generated filename and
// points the profile at it. The previously stored file is removed first so
// replaced avatars never pile up on disk.
func (s *ProfileService) UpdateAvatar(db *database.Database, userID uuid.UUID, data []byte, ext string) (models.Profile, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Profile{}, ErrUserNotFound
		}
		return models.Profile{}, err
	}

	profile, err := s.GetOrCreateProfile(db, userID)
	if err != nil {
		return models.Profile{}, err
	}

	filename, err := avatarFilename(user.Username, ext)
	if err != nil {
		return models.Profile{}, err
	}

	if profile.Avatar != "" {
		if err := s.avatars.Delete(profile.Avatar); err != nil {
			return models.Profile{}, err
		}
	}

	if err := s.avatars.Save(filename, data); err != nil {
		return models.Profile{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Profile{}, tx.Error
	}

	if err := tx.Model(&profile).Update("avatar", filename).Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	event, err := models.NewEvent(
		broker.ProfileAvatarUpdatedEvent,
		"profile",
		userID.String(),
		map[string]interface{}{
			"profile_id": profile.ID.String(),
			"user_id":    userID.String(),
			"avatar":     filename,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	profile.Avatar = filename
	return profile, nil
}

// UpdateAvatarFromDataURI decodes a base64 data URI (client-side cropped
// image) and stores it as the new avatar.
func (s *ProfileService) UpdateAvatarFromDataURI(db *database.Database, userID uuid.UUID, dataURI string) (models.Profile, error) {
	data, ext, err := DecodeAvatarDataURI(dataURI)
	if err != nil {
		return models.Profile{}, err
	}
	return s.UpdateAvatar(db, userID, data, ext)
}

// DeleteAvatar clears the stored reference and removes the underlying file.
func (s *ProfileService) DeleteAvatar(db *database.Database, userID uuid.UUID) (models.Profile, error) {
	profile, err := s.GetOrCreateProfile(db, userID)
	if err != nil {
		return models.Profile{}, err
	}

	if profile.Avatar != "" {
		if err := s.avatars.Delete(profile.Avatar); err != nil {
			return models.Profile{}, err
		}
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Profile{}, tx.Error
	}

	if err := tx.Model(&profile).Update("avatar", "").Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	event, err := models.NewEvent(
		broker.ProfileAvatarDeletedEvent,
		"profile",
		userID.String(),
		map[string]interface{}{
			"profile_id": profile.ID.String(),
			"user_id":    userID.String(),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Profile{}, err
	}

	profile.Avatar = ""
	return profile, nil
}

// DecodeAvatarDataURI parses a data:image/...;base64,... URI and returns the
// raw image bytes plus a file extension for the detected media type.
func DecodeAvatarDataURI(dataURI string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return nil, "", fmt.Errorf("malformed data URI: missing data: prefix")
	}

	rest := dataURI[len("data:"):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return nil, "", fmt.Errorf("malformed data URI: not base64 encoded")
	}

	mediaType := rest[:sep]
	encoded := rest[sep+len(";base64,"):]

	var ext string
	switch mediaType {
	case "image/png":
		ext = "png"
	case "image/jpeg", "image/jpg":
		ext = "jpg"
	case "image/gif":
		ext = "gif"
	case "image/webp":
		ext = "webp"
	default:
		return nil, "", fmt.Errorf("unsupported avatar media type %q", mediaType)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode avatar data: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("avatar data is empty")
	}

	return data, ext, nil
}

// avatarFilename builds a globally unique filename from the username, a
// random token and the image extension.
func avatarFilename(username, ext string) (string, error) {
	nano, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate avatar token: %w", err)
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	return fmt.Sprintf("%s-%s.%s", username, nano, ext), nil
}

var ProfileServiceInstance ProfileServiceInterface
