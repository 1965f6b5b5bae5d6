package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"github.com/sujalbistaa/unlinked/internal/board"
	"github.com/sujalbistaa/unlinked/internal/config"
	"github.com/sujalbistaa/unlinked/internal/messaging"
	"github.com/sujalbistaa/unlinked/internal/translator"
	"github.com/sujalbistaa/unlinked/internal/ws"
)

// --- WebSocket Payloads ---

// WsMessage is the JSON envelope pushed to browsers.
type WsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// --- Handlers ---

// Env carries the dependencies every handler needs.
type Env struct {
	Config       *config.Config
	Board        *board.Service
	Translator   *translator.Translator
	Translations *translator.Store
	Hub          *ws.Hub
	Bus          messaging.Publisher
	Sessions     sessions.Store
}

// NewEnv wires the services over one database handle.
// cfg, cache and bus may be nil.
func NewEnv(cfg *config.Config, db *gorm.DB, hub *ws.Hub, cache board.CategoryCache, bus messaging.Publisher) *Env {
	if bus == nil {
		bus = messaging.Noop{}
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Env{
		Config:       cfg,
		Board:        board.NewService(db, cache),
		Translator:   translator.New(cfg),
		Translations: translator.NewStore(db),
		Hub:          hub,
		Bus:          bus,
		Sessions:     NewSessionStore(cfg.SessionSecret),
	}
}

// broadcastMessage pushes msg to every websocket client without blocking.
func (e *Env) broadcastMessage(msg WsMessage) {
	if e.Hub == nil {
		return
	}
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshalling WS message: %v", err)
		return
	}
	e.Hub.Publish(jsonMsg)
}

// publish sends an event on the bus; failures are logged only.
func (e *Env) publish(subject string, event interface{}) {
	if err := e.Bus.Publish(subject, event); err != nil {
		log.Printf("Error publishing %s: %v", subject, err)
	}
}

// isHTMX reports whether the request came from an htmx swap.
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// parseID reads a UUID path parameter. A malformed id is a missing page.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return uuid.Nil, false
	}
	return id, true
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// respondError maps service errors onto status codes. what names the
// failed operation in the log and the 500 message.
func respondError(c *gin.Context, err error, what string) {
	var fallback *translator.FallbackError
	switch {
	case errors.Is(err, board.ErrNotFound), errors.Is(err, translator.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, board.ErrInvalidContentType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type"})
	case errors.Is(err, board.ErrInvalidReaction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reaction type"})
	case errors.Is(err, board.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid moderation action"})
	case errors.Is(err, board.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
	case errors.Is(err, board.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrCategoryInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has rants"})
	case errors.Is(err, translator.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
	case errors.Is(err, translator.ErrInvalidMode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mode"})
	case errors.Is(err, translator.ErrNoProviders):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No AI providers configured"})
	case errors.As(err, &fallback):
		log.Printf("Error %s: %v", what, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		log.Printf("Error %s: %v", what, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + what})
	}
}
