package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"ascendia-notes/ascendia/storage"
	"ascendia-notes/ascendia/testutils"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestProfileService(t *testing.T) *ProfileService {
	t.Helper()
	avatars, err := storage.NewAvatarStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewProfileService(avatars)
}

func TestGetOrCreateProfile_ReturnsExisting(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	profileID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "avatar", "whatsapp"}).
			AddRow(profileID, userID, "", ""))

	profileService := newTestProfileService(t)
	profile, err := profileService.GetOrCreateProfile(db, userID)

	assert.NoError(t, err)
	assert.Equal(t, profileID, profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateProfile_LazilyCreates(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	profileService := newTestProfileService(t)
	profile, err := profileService.GetOrCreateProfile(db, userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateProfile_UnknownUser(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	profileService := newTestProfileService(t)
	_, err := profileService.GetOrCreateProfile(db, uuid.New())

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWhatsapp_RejectsMissingPlus(t *testing.T) {
	db, _, close := testutils.SetupMockDB()
	defer close()

	profileService := newTestProfileService(t)
	_, err := profileService.UpdateWhatsapp(db, uuid.New(), "55 11 98765-4321")

	assert.ErrorIs(t, err, ErrValidation)
	var fieldErr *FieldError
	assert.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "whatsapp", fieldErr.Field)
}

func TestUpdateWhatsapp_RejectsTooFewDigits(t *testing.T) {
	db, _, close := testutils.SetupMockDB()
	defer close()

	profileService := newTestProfileService(t)
	_, err := profileService.UpdateWhatsapp(db, uuid.New(), "+55 11 98")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateWhatsapp(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"   ", "", false},
		{"+55 11 98765-4321", "+55 11 98765-4321", false},
		{"  +55 11 98765-4321  ", "+55 11 98765-4321", false},
		{"55 11 98765-4321", "", true},
		{"+55 11", "", true},
	}

	for _, tt := range tests {
		got, err := ValidateWhatsapp(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrValidation, "input %q", tt.input)
			continue
		}
		assert.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestDecodeAvatarDataURI(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, ext, err := DecodeAvatarDataURI(uri)

	assert.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "png", ext)
}

func TestDecodeAvatarDataURI_Jpeg(t *testing.T) {
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8})

	_, ext, err := DecodeAvatarDataURI(uri)

	assert.NoError(t, err)
	assert.Equal(t, "jpg", ext)
}

func TestDecodeAvatarDataURI_Malformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-data-uri",
		"data:image/png,not-base64-marked",
		"data:application/pdf;base64,AAAA",
		"data:image/png;base64,@@@not-base64@@@",
		"data:image/png;base64,",
	}
	for _, uri := range cases {
		_, _, err := DecodeAvatarDataURI(uri)
		assert.Error(t, err, "expected %q to be rejected", uri)
	}
}

func TestAvatarFilename(t *testing.T) {
	name, err := avatarFilename("ada", ".PNG")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "ada-"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	// A second call never collides.
	other, err := avatarFilename("ada", ".PNG")
	assert.NoError(t, err)
	assert.NotEqual(t, name, other)
}
