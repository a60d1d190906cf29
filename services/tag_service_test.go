package services

import (
	"testing"

	"ascendia-notes/ascendia/testutils"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCreateTag_Success(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "tags"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(testutils.MockEventInsert())
	mock.ExpectCommit()

	tagService := &TagService{}
	tag, created, err := tagService.CreateTag(db, userID, TagInput{Name: "exam"})

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "exam", tag.Name)
	assert.Equal(t, userID, tag.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTag_DuplicateNameIsNoOp(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	tagID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "color"}).
			AddRow(tagID, userID, "exam", "#06b6d4"))

	tagService := &TagService{}
	tag, created, err := tagService.CreateTag(db, userID, TagInput{Name: "exam"})

	// The existing row comes back; no insert happens and no error surfaces.
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, tagID, tag.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTag_NameRequired(t *testing.T) {
	db, _, close := testutils.SetupMockDB()
	defer close()

	tagService := &TagService{}
	_, _, err := tagService.CreateTag(db, uuid.New(), TagInput{Name: "  "})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddTagToNote_Success(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	tagID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID, userID, "Eigenvalues"))
	mock.ExpectQuery(`SELECT \* FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(tagID, userID, "exam"))
	mock.ExpectQuery(`SELECT \* FROM "note_tags"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "note_tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(testutils.MockEventInsert())
	mock.ExpectCommit()

	tagService := &TagService{}
	noteTag, created, err := tagService.AddTagToNote(db, userID, noteID.String(), tagID.String())

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, noteID, noteTag.NoteID)
	assert.Equal(t, tagID, noteTag.TagID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTagToNote_ExistingAssociationIsNoOp(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	tagID := uuid.New()
	userID := uuid.New()
	existingID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID, userID, "Eigenvalues"))
	mock.ExpectQuery(`SELECT \* FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(tagID, userID, "exam"))
	mock.ExpectQuery(`SELECT \* FROM "note_tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "note_id", "tag_id"}).
			AddRow(existingID, noteID, tagID))

	tagService := &TagService{}
	noteTag, created, err := tagService.AddTagToNote(db, userID, noteID.String(), tagID.String())

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existingID, noteTag.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTagToNote_TagNotOwned(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID, userID, "Eigenvalues"))
	mock.ExpectQuery(`SELECT \* FROM "tags"`).
		WillReturnError(gorm.ErrRecordNotFound)

	tagService := &TagService{}
	_, _, err := tagService.AddTagToNote(db, userID, noteID.String(), uuid.New().String())

	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveTagFromNote_MissingAssociationIsNoOp(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	tagID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID, userID, "Eigenvalues"))
	mock.ExpectQuery(`SELECT \* FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(tagID, userID, "exam"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "note_tags"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(testutils.MockEventInsert())
	mock.ExpectCommit()

	tagService := &TagService{}
	err := tagService.RemoveTagFromNote(db, userID, noteID.String(), tagID.String())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTagsForNote_Alphabetical(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID, userID, "Eigenvalues"))

	rows := sqlmock.NewRows([]string{"id", "user_id", "name"}).
		AddRow(uuid.New(), userID, "algebra").
		AddRow(uuid.New(), userID, "exam")

	mock.ExpectQuery(`SELECT (.+) FROM "tags" JOIN note_tags`).
		WillReturnRows(rows)

	tagService := &TagService{}
	tags, err := tagService.ListTagsForNote(db, userID, noteID.String())

	assert.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Equal(t, "algebra", tags[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
