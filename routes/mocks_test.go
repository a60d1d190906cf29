package routes

import (
	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/models"
	"ascendia-notes/ascendia/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockNotebookService struct {
	mock.Mock
}

func (m *MockNotebookService) CreateNotebook(db *database.Database, userID uuid.UUID, input services.NotebookInput) (models.Notebook, error) {
	args := m.Called(db, userID, input)
	return args.Get(0).(models.Notebook), args.Error(1)
}

func (m *MockNotebookService) GetNotebookById(db *database.Database, userID uuid.UUID, id string) (models.Notebook, error) {
	args := m.Called(db, userID, id)
	return args.Get(0).(models.Notebook), args.Error(1)
}

func (m *MockNotebookService) UpdateNotebook(db *database.Database, userID uuid.UUID, id string, input services.NotebookInput) (models.Notebook, error) {
	args := m.Called(db, userID, id, input)
	return args.Get(0).(models.Notebook), args.Error(1)
}

func (m *MockNotebookService) DeleteNotebook(db *database.Database, userID uuid.UUID, id string) error {
	args := m.Called(db, userID, id)
	return args.Error(0)
}

func (m *MockNotebookService) ListNotebooksByUser(db *database.Database, userID uuid.UUID) ([]models.Notebook, error) {
	args := m.Called(db, userID)
	return args.Get(0).([]models.Notebook), args.Error(1)
}

func (m *MockNotebookService) ToggleFavorite(db *database.Database, userID uuid.UUID, id string) (bool, error) {
	args := m.Called(db, userID, id)
	return args.Bool(0), args.Error(1)
}

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) CreateNote(db *database.Database, userID uuid.UUID, notebookID string, input services.NoteInput) (models.Note, error) {
	args := m.Called(db, userID, notebookID, input)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) GetNoteById(db *database.Database, userID uuid.UUID, id string) (models.Note, error) {
	args := m.Called(db, userID, id)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) UpdateNote(db *database.Database, userID uuid.UUID, id string, input services.NoteInput) (models.Note, error) {
	args := m.Called(db, userID, id, input)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) DeleteNote(db *database.Database, userID uuid.UUID, id string) error {
	args := m.Called(db, userID, id)
	return args.Error(0)
}

func (m *MockNoteService) ListNotesByNotebook(db *database.Database, userID uuid.UUID, notebookID string) ([]models.Note, error) {
	args := m.Called(db, userID, notebookID)
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockNoteService) TogglePin(db *database.Database, userID uuid.UUID, id string) (bool, error) {
	args := m.Called(db, userID, id)
	return args.Bool(0), args.Error(1)
}

type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) ListTagsByUser(db *database.Database, userID uuid.UUID) ([]models.Tag, error) {
	args := m.Called(db, userID)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagService) CreateTag(db *database.Database, userID uuid.UUID, input services.TagInput) (models.Tag, bool, error) {
	args := m.Called(db, userID, input)
	return args.Get(0).(models.Tag), args.Bool(1), args.Error(2)
}

func (m *MockTagService) ListTagsForNote(db *database.Database, userID uuid.UUID, noteID string) ([]models.Tag, error) {
	args := m.Called(db, userID, noteID)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagService) AddTagToNote(db *database.Database, userID uuid.UUID, noteID, tagID string) (models.NoteTag, bool, error) {
	args := m.Called(db, userID, noteID, tagID)
	return args.Get(0).(models.NoteTag), args.Bool(1), args.Error(2)
}

func (m *MockTagService) RemoveTagFromNote(db *database.Database, userID uuid.UUID, noteID, tagID string) error {
	args := m.Called(db, userID, noteID, tagID)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserById(db *database.Database, id uuid.UUID) (models.User, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(db *database.Database, id uuid.UUID, input services.UserUpdateInput) (models.User, error) {
	args := m.Called(db, id, input)
	return args.Get(0).(models.User), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetOrCreateProfile(db *database.Database, userID uuid.UUID) (models.Profile, error) {
	args := m.Called(db, userID)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateWhatsapp(db *database.Database, userID uuid.UUID, whatsapp string) (models.Profile, error) {
	args := m.Called(db, userID, whatsapp)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateAvatar(db *database.Database, userID uuid.UUID, data []byte, ext string) (models.Profile, error) {
	args := m.Called(db, userID, data, ext)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateAvatarFromDataURI(db *database.Database, userID uuid.UUID, dataURI string) (models.Profile, error) {
	args := m.Called(db, userID, dataURI)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) DeleteAvatar(db *database.Database, userID uuid.UUID) (models.Profile, error) {
	args := m.Called(db, userID)
	return args.Get(0).(models.Profile), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(db *database.Database, input services.SignupInput) (models.User, error) {
	args := m.Called(db, input)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) Login(db *database.Database, username, password string, rememberMe bool) (string, int, error) {
	args := m.Called(db, username, password, rememberMe)
	return args.String(0), args.Int(1), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*services.JWTClaims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

func (m *MockAuthService) RequestPasswordReset(db *database.Database, email string) (string, error) {
	args := m.Called(db, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResetPassword(db *database.Database, resetToken, password1, password2 string) error {
	args := m.Called(db, resetToken, password1, password2)
	return args.Error(0)
}
