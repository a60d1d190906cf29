package services

import (
	"testing"
	"time"

	"ascendia-notes/ascendia/models"
	"ascendia-notes/ascendia/testutils"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCreateNotebook_Success(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notebooks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(testutils.MockEventInsert())
	mock.ExpectCommit()

	notebookService := &NotebookService{}
	notebook, err := notebookService.CreateNotebook(db, userID, NotebookInput{
		Title:       "Algebra",
		Description: "Linear algebra notes",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Algebra", notebook.Title)
	assert.Equal(t, models.DefaultColor, notebook.Color)
	assert.Equal(t, userID, notebook.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotebook_TitleRequired(t *testing.T) {
	db, _, close := testutils.SetupMockDB()
	defer close()

	notebookService := &NotebookService{}
	_, err := notebookService.CreateNotebook(db, uuid.New(), NotebookInput{Title: "   "})

	assert.ErrorIs(t, err, ErrValidation)
	var fieldErr *FieldError
	assert.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "title", fieldErr.Field)
}

func TestGetNotebookById_Success(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	notebookID := uuid.New()
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "color", "is_favorite"}).
		AddRow(notebookID, userID, "Algebra", "#06b6d4", false)

	mock.ExpectQuery(`SELECT \* FROM "notebooks"`).
		WithArgs(notebookID.String(), userID, 1).
		WillReturnRows(rows)

	notebookService := &NotebookService{}
	notebook, err := notebookService.GetNotebookById(db, userID, notebookID.String())

	assert.NoError(t, err)
	assert.Equal(t, "Algebra", notebook.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotebookById_OtherUsersNotebookIsNotFound(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT \* FROM "notebooks"`).
		WillReturnError(gorm.ErrRecordNotFound)

	notebookService := &NotebookService{}
	_, err := notebookService.GetNotebookById(db, uuid.New(), uuid.New().String())

	assert.ErrorIs(t, err, ErrNotebookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotebook_Success(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	notebookID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "notebooks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "color"}).
			AddRow(notebookID, userID, "Old Title", "#06b6d4"))
	mock.ExpectExec(`UPDATE "notebooks"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(testutils.MockEventInsert())
	mock.ExpectCommit()

	notebookService := &NotebookService{}
	notebook, err := notebookService.UpdateNotebook(db, userID, notebookID.String(), NotebookInput{
		Title: "New Title",
	})

	assert.NoError(t, err)
	assert.Equal(t, notebookID, notebook.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotebook_CascadesNotesAndAssociations(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	notebookID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "notebooks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(notebookID, userID, "Algebra"))
	mock.ExpectExec(`DELETE FROM "note_tags"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "notes"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "notebooks"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(testutils.MockEventInsert())
	mock.ExpectCommit()

	notebookService := &NotebookService{}
	err := notebookService.DeleteNotebook(db, userID, notebookID.String())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotebook_NotFound(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "notebooks"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	notebookService := &NotebookService{}
	err := notebookService.DeleteNotebook(db, uuid.New(), uuid.New().String())

	assert.ErrorIs(t, err, ErrNotebookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotebooksByUser_FavoritesFirst(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	userID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "is_favorite", "updated_at"}).
		AddRow(uuid.New(), userID, "Pinned Favorite", true, now).
		AddRow(uuid.New(), userID, "Ordinary", false, now)

	mock.ExpectQuery(`SELECT \* FROM "notebooks"(.+)ORDER BY is_favorite DESC, updated_at DESC`).
		WithArgs(userID).
		WillReturnRows(rows)

	notebookService := &NotebookService{}
	notebooks, err := notebookService.ListNotebooksByUser(db, userID)

	assert.NoError(t, err)
	assert.Len(t, notebooks, 2)
	assert.True(t, notebooks[0].IsFavorite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFavorite_FlipsState(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	notebookID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "notebooks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "is_favorite"}).
			AddRow(notebookID, userID, "Algebra", false))
	mock.ExpectExec(`UPDATE "notebooks"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(testutils.MockEventInsert())
	mock.ExpectCommit()

	notebookService := &NotebookService{}
	isFavorite, err := notebookService.ToggleFavorite(db, userID, notebookID.String())

	assert.NoError(t, err)
	assert.True(t, isFavorite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFavorite_NotFound(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "notebooks"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	notebookService := &NotebookService{}
	_, err := notebookService.ToggleFavorite(db, uuid.New(), uuid.New().String())

	assert.ErrorIs(t, err, ErrNotebookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
