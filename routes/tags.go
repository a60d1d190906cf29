package routes

import (
	"errors"
	"fmt"
	"net/http"

	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/services"

	"github.com/gin-gonic/gin"
)

// RegisterTagRoutes wires the tag surface plus the note/tag association
// endpoints. Tag rows never cascade away when an association is removed.
func RegisterTagRoutes(router gin.IRouter, db *database.Database, tagService services.TagServiceInterface) {
	router.GET("/tags", func(c *gin.Context) { ListTags(c, db, tagService) })
	router.POST("/tag/create", func(c *gin.Context) { CreateTag(c, db, tagService) })
	router.POST("/note/:id/tag/add", func(c *gin.Context) { AddTagToNote(c, db, tagService) })
	router.POST("/note/:id/tag/:tag_id/remove", func(c *gin.Context) { RemoveTagFromNote(c, db, tagService) })
}

func ListTags(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tags, err := tagService.ListTagsByUser(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tags)
}

// CreateTag reports a duplicate name as a success pointing at the existing
// tag, so double submits from the tag form never surface an error.
func CreateTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.TagInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, created, err := tagService.CreateTag(db, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		status := http.StatusOK
		payload := gin.H{"success": true, "created": created, "tag": tag}
		if created {
			status = http.StatusCreated
		} else {
			payload["message"] = fmt.Sprintf("Tag %q already exists.", tag.Name)
		}
		c.JSON(status, payload)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tags")
}

func AddTagToNote(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	noteID := c.Param("id")
	tagID := c.PostForm("tag_id")
	if tagID == "" {
		var body struct {
			TagID string `json:"tag_id"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			tagID = body.TagID
		}
	}
	if tagID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tag_id is required"})
		return
	}

	noteTag, created, err := tagService.AddTagToNote(db, userID, noteID, tagID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		case errors.Is(err, services.ErrTagNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if wantsJSON(c) {
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"success": true, "created": created, "note_tag": noteTag})
		return
	}
	c.Redirect(http.StatusSeeOther, "/note/"+noteID)
}

func RemoveTagFromNote(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	noteID := c.Param("id")
	tagID := c.Param("tag_id")

	if err := tagService.RemoveTagFromNote(db, userID, noteID, tagID); err != nil {
		switch {
		case errors.Is(err, services.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		case errors.Is(err, services.ErrTagNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Redirect(http.StatusSeeOther, "/note/"+noteID)
}
