package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sujalbistaa/unlinked/internal/board"
	"github.com/sujalbistaa/unlinked/internal/messaging"
	"github.com/sujalbistaa/unlinked/internal/translator"
)

type ModerateInput struct {
	Action string      `json:"action" binding:"required"`
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
}

type CategoryCreateInput struct {
	Name        string `json:"name" binding:"required,max=50"`
	Slug        string `json:"slug" binding:"max=50"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"max=10"`
	Order       int    `json:"order"`
}

// Moderate applies one bulk action to items of one content type.
func (e *Env) Moderate(c *gin.Context) {
	contentType := c.Param("content_type")
	var input ModerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	affected, err := e.Board.Moderate(c.Request.Context(), contentType, input.Action, input.IDs)
	if err != nil {
		respondError(c, err, "moderate content")
		return
	}

	if input.Action == board.ActionHide {
		e.broadcastMessage(WsMessage{Type: "hidden", Data: gin.H{"contentType": contentType, "ids": input.IDs}})
	}
	e.publish(messaging.SubjectModerated, messaging.ModeratedEvent{
		ContentType: contentType,
		Action:      input.Action,
		IDs:         input.IDs,
		Affected:    affected,
		Timestamp:   messaging.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// GetReported lists the report queue for one content type.
func (e *Env) GetReported(c *gin.Context) {
	items, err := e.Board.Reported(c.Request.Context(), c.Param("content_type"))
	if err != nil {
		respondError(c, err, "fetch reported content")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (e *Env) CreateCategory(c *gin.Context) {
	var input CategoryCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	cat, err := e.Board.CreateCategory(c.Request.Context(), board.CategoryInput{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Icon:        input.Icon,
		Order:       input.Order,
	})
	if err != nil {
		respondError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (e *Env) DeleteCategory(c *gin.Context) {
	if err := e.Board.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err, "delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// GetTranslations lists saved translations, newest first.
func (e *Env) GetTranslations(c *gin.Context) {
	page := pageParam(c)
	items, total, err := e.Translations.Recent(c.Request.Context(), page)
	if err != nil {
		respondError(c, err, "fetch translations")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"page":     page,
		"pageSize": translator.RecentPageSize,
		"total":    total,
	})
}
