package routes

import (
	"errors"
	"net/http"

	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/services"

	"github.com/gin-gonic/gin"
)

// RegisterNoteRoutes wires the note surface. Creation hangs off the parent
// notebook path so the ownership check on the notebook happens before any
// note row exists.
func RegisterNoteRoutes(router gin.IRouter, db *database.Database, noteService services.NoteServiceInterface, tagService services.TagServiceInterface) {
	router.POST("/notebook/:id/note/create", func(c *gin.Context) { CreateNote(c, db, noteService) })

	group := router.Group("/note/:id")
	{
		group.GET("", func(c *gin.Context) { GetNoteById(c, db, noteService, tagService) })
		group.POST("/edit", func(c *gin.Context) { UpdateNote(c, db, noteService) })
		group.POST("/delete", func(c *gin.Context) { DeleteNote(c, db, noteService) })
		group.POST("/toggle-pin", func(c *gin.Context) { ToggleNotePin(c, db, noteService) })
	}
}

func CreateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notebookID := c.Param("id")
	var input services.NoteInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := noteService.CreateNote(db, userID, notebookID, input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		if errors.Is(err, services.ErrNotebookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, note)
		return
	}
	c.Redirect(http.StatusSeeOther, "/note/"+note.ID.String())
}

func GetNoteById(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	note, err := noteService.GetNoteById(db, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tags, err := tagService.ListTagsForNote(db, userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"note": note,
		"tags": tags,
	})
}

func UpdateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	var input services.NoteInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := noteService.UpdateNote(db, userID, id, input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, note)
		return
	}
	c.Redirect(http.StatusSeeOther, "/note/"+note.ID.String())
}

func DeleteNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	note, err := noteService.GetNoteById(db, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := noteService.DeleteNote(db, userID, id); err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusNoContent, gin.H{})
		return
	}
	c.Redirect(http.StatusSeeOther, "/notebook/"+note.NotebookID.String())
}

func ToggleNotePin(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	isPinned, err := noteService.TogglePin(db, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "is_pinned": isPinned})
		return
	}
	c.Redirect(http.StatusSeeOther, "/note/"+id)
}
