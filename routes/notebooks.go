package routes

import (
	"errors"
	"net/http"

	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/services"

	"github.com/gin-gonic/gin"
)

// RegisterNotebookRoutes wires the notebook surface. Every route runs behind
// the auth middleware; lookups are scoped to the acting user so another
// user's notebook is indistinguishable from a missing one.
func RegisterNotebookRoutes(router gin.IRouter, db *database.Database, notebookService services.NotebookServiceInterface, noteService services.NoteServiceInterface) {
	router.GET("/notebooks", func(c *gin.Context) { ListNotebooks(c, db, notebookService) })
	router.POST("/notebook/create", func(c *gin.Context) { CreateNotebook(c, db, notebookService) })

	group := router.Group("/notebook/:id")
	{
		group.GET("", func(c *gin.Context) { GetNotebookById(c, db, notebookService, noteService) })
		group.POST("/edit", func(c *gin.Context) { UpdateNotebook(c, db, notebookService) })
		group.POST("/delete", func(c *gin.Context) { DeleteNotebook(c, db, notebookService) })
		group.POST("/toggle-favorite", func(c *gin.Context) { ToggleNotebookFavorite(c, db, notebookService) })
	}
}

func ListNotebooks(c *gin.Context, db *database.Database, notebookService services.NotebookServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notebooks, err := notebookService.ListNotebooksByUser(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notebooks)
}

func CreateNotebook(c *gin.Context, db *database.Database, notebookService services.NotebookServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.NotebookInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notebook, err := notebookService.CreateNotebook(db, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, notebook)
		return
	}
	c.Redirect(http.StatusSeeOther, "/notebook/"+notebook.ID.String())
}

func GetNotebookById(c *gin.Context, db *database.Database, notebookService services.NotebookServiceInterface, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	notebook, err := notebookService.GetNotebookById(db, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotebookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	notes, err := noteService.ListNotesByNotebook(db, userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notebook":    notebook,
		"notes":       notes,
		"notes_count": len(notes),
	})
}

func UpdateNotebook(c *gin.Context, db *database.Database, notebookService services.NotebookServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	var input services.NotebookInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notebook, err := notebookService.UpdateNotebook(db, userID, id, input)
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
		c.JSON(http.StatusOK, notebook)
		return
	}
	c.Redirect(http.StatusSeeOther, "/notebook/"+notebook.ID.String())
}

func DeleteNotebook(c *gin.Context, db *database.Database, notebookService services.NotebookServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := notebookService.DeleteNotebook(db, userID, id); err != nil {
		if errors.Is(err, services.ErrNotebookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusNoContent, gin.H{})
		return
	}
	c.Redirect(http.StatusSeeOther, "/notebooks")
}

// ToggleNotebookFavorite flips the flag via one shared service call, then
// answers in the shape the caller asked for: a structured payload for
// asynchronous requests, a redirect for form submitters.
func ToggleNotebookFavorite(c *gin.Context, db *database.Database, notebookService services.NotebookServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	isFavorite, err := notebookService.ToggleFavorite(db, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotebookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "is_favorite": isFavorite})
		return
	}
	c.Redirect(http.StatusSeeOther, "/notebook/"+id)
}
