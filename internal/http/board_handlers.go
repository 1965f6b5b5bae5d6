package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sujalbistaa/unlinked/internal/board"
	"github.com/sujalbistaa/unlinked/internal/messaging"
	"github.com/sujalbistaa/unlinked/internal/models"
)

// --- Structs for request binding ---

type AuthorInput struct {
	IsAnonymous bool   `form:"is_anonymous" json:"is_anonymous"`
	DisplayName string `form:"display_name" json:"display_name" binding:"max=100"`
	Email       string `form:"email" json:"email" binding:"omitempty,email,max=254"`
}

func (a AuthorInput) author() board.Author {
	return board.Author{IsAnonymous: a.IsAnonymous, DisplayName: a.DisplayName, Email: a.Email}
}

type CreateRantInput struct {
	Title    string `form:"title" json:"title" binding:"max=200"`
	Body     string `form:"body" json:"body" binding:"required,max=10000"`
	Category string `form:"category" json:"category" binding:"required"`
	AuthorInput
}

type CreateSideBySideInput struct {
	Context         string `form:"context" json:"context" binding:"max=200"`
	LinkedInVersion string `form:"linkedin_version" json:"linkedin_version" binding:"required,max=10000"`
	RealityVersion  string `form:"reality_version" json:"reality_version" binding:"required,max=10000"`
	AuthorInput
}

type CreateGhostingInput struct {
	RecruiterName string `form:"recruiter_name" json:"recruiter_name" binding:"max=100"`
	Company       string `form:"company" json:"company" binding:"required,max=200"`
	Platform      string `form:"platform" json:"platform"`
	Stage         string `form:"stage" json:"stage"`
	Story         string `form:"story" json:"story" binding:"required,max=10000"`
	AuthorInput
}

// --- Feeds ---

func (e *Env) GetHome(c *gin.Context) {
	feed, err := e.Board.Home(c.Request.Context(), c.Query("category"), c.Query("sort"), pageParam(c))
	if err != nil {
		respondError(c, err, "fetch rants")
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (e *Env) GetCategory(c *gin.Context) {
	feed, err := e.Board.CategoryRants(c.Request.Context(), c.Param("slug"), pageParam(c))
	if err != nil {
		respondError(c, err, "fetch category")
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (e *Env) GetHallOfFame(c *gin.Context) {
	page, err := e.Board.HallOfFame(c.Request.Context(), pageParam(c))
	if err != nil {
		respondError(c, err, "fetch hall of fame")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (e *Env) GetWallOfShame(c *gin.Context) {
	filter := board.ShameFilter{
		Company: c.Query("company"),
		Stage:   c.Query("stage"),
		Sort:    c.Query("sort"),
	}
	feed, err := e.Board.WallOfShame(c.Request.Context(), filter, pageParam(c))
	if err != nil {
		respondError(c, err, "fetch wall of shame")
		return
	}
	c.JSON(http.StatusOK, feed)
}

// --- Detail pages ---

func (e *Env) GetRant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := e.Board.Rant(c.Request.Context(), id, e.sessionKey(c))
	if err != nil {
		respondError(c, err, "fetch rant")
		return
	}
	e.showDetail(c, models.ContentRant, detail.ID, detail)
}

func (e *Env) GetSideBySide(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := e.Board.SideBySide(c.Request.Context(), id, e.sessionKey(c))
	if err != nil {
		respondError(c, err, "fetch side-by-side")
		return
	}
	e.showDetail(c, models.ContentSideBySide, detail.ID, detail)
}

func (e *Env) GetGhostingStory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := e.Board.GhostingStory(c.Request.Context(), id, e.sessionKey(c))
	if err != nil {
		respondError(c, err, "fetch ghosting story")
		return
	}
	e.showDetail(c, models.ContentGhosting, detail.ID, detail)
}

func (e *Env) GetSharedRant(c *gin.Context) {
	detail, err := e.Board.RantBySlug(c.Request.Context(), c.Param("slug"), e.sessionKey(c))
	if err != nil {
		respondError(c, err, "fetch rant")
		return
	}
	e.showDetail(c, models.ContentRant, detail.ID, detail)
}

func (e *Env) GetSharedSideBySide(c *gin.Context) {
	detail, err := e.Board.SideBySideBySlug(c.Request.Context(), c.Param("slug"), e.sessionKey(c))
	if err != nil {
		respondError(c, err, "fetch side-by-side")
		return
	}
	e.showDetail(c, models.ContentSideBySide, detail.ID, detail)
}

// showDetail records the visit and writes the item with its view count.
func (e *Env) showDetail(c *gin.Context, contentType string, id uuid.UUID, item interface{}) {
	ctx := c.Request.Context()
	if err := e.Board.RecordView(ctx, contentType, id, c.Request.Referer()); err != nil {
		respondError(c, err, "record view")
		return
	}
	views, err := e.Board.ViewCount(ctx, contentType, id)
	if err != nil {
		respondError(c, err, "count views")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":          item,
		"viewCount":     views,
		"reactionTypes": models.ReactionTypes,
	})
}

// --- Submission ---

func (e *Env) CreateRant(c *gin.Context) {
	var input CreateRantInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	rant, err := e.Board.CreateRant(c.Request.Context(), board.RantInput{
		Title:        input.Title,
		Body:         input.Body,
		CategorySlug: input.Category,
		Author:       input.author(),
	})
	if err != nil {
		respondError(c, err, "create rant")
		return
	}
	e.announceCreated(models.ContentRant, rant.ID, rant)
	c.JSON(http.StatusCreated, rant)
}

func (e *Env) CreateSideBySide(c *gin.Context) {
	var input CreateSideBySideInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	sb, err := e.Board.CreateSideBySide(c.Request.Context(), board.SideBySideInput{
		Context:         input.Context,
		LinkedInVersion: input.LinkedInVersion,
		RealityVersion:  input.RealityVersion,
		Author:          input.author(),
	})
	if err != nil {
		respondError(c, err, "create side-by-side")
		return
	}
	e.announceCreated(models.ContentSideBySide, sb.ID, sb)
	c.JSON(http.StatusCreated, sb)
}

func (e *Env) CreateGhostingStory(c *gin.Context) {
	var input CreateGhostingInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	g, err := e.Board.CreateGhostingStory(c.Request.Context(), board.GhostingInput{
		RecruiterName: input.RecruiterName,
		Company:       input.Company,
		Platform:      strings.ToLower(strings.TrimSpace(input.Platform)),
		Stage:         strings.ToLower(strings.TrimSpace(input.Stage)),
		Story:         input.Story,
		Author:        input.author(),
	})
	if err != nil {
		respondError(c, err, "create ghosting story")
		return
	}
	e.announceCreated(models.ContentGhosting, g.ID, g)
	c.JSON(http.StatusCreated, g)
}

func (e *Env) announceCreated(contentType string, id uuid.UUID, item interface{}) {
	e.broadcastMessage(WsMessage{Type: "new_" + contentType, Data: item})
	e.publish(messaging.SubjectContentCreated, messaging.ContentCreatedEvent{
		ContentType: contentType,
		ContentID:   id,
		Timestamp:   messaging.Now(),
	})
}

// --- Reactions and reports ---

func (e *Env) ToggleReaction(c *gin.Context) {
	contentType := c.Param("content_type")
	if err := board.CheckContentType(contentType); err != nil {
		respondError(c, err, "process reaction")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reactionType := c.Param("reaction_type")
	key := e.sessionKey(c)
	ctx := c.Request.Context()

	res, err := e.Board.ToggleReaction(ctx, contentType, id, reactionType, key)
	if err != nil {
		respondError(c, err, "process reaction")
		return
	}

	payload := gin.H{"contentType": contentType, "id": id, "counts": res.Counts}
	e.broadcastMessage(WsMessage{Type: "reaction", Data: payload})
	e.publish(messaging.SubjectReaction, messaging.ReactionEvent{
		ContentType:  contentType,
		ContentID:    id,
		ReactionType: reactionType,
		Active:       res.Active,
		Counts:       res.Counts,
		Timestamp:    messaging.Now(),
	})

	if isHTMX(c) {
		mine, err := e.Board.SessionReactions(ctx, contentType, id, key)
		if err != nil {
			respondError(c, err, "process reaction")
			return
		}
		renderFragment(c, "reactions", newReactionsFragment(contentType, id.String(), res.Counts, mine))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     res.Count(),
		"is_active": res.Active,
		"counts":    res.Counts,
	})
}

func (e *Env) ReportContent(c *gin.Context) {
	contentType := c.Param("content_type")
	if err := board.CheckContentType(contentType); err != nil {
		respondError(c, err, "report content")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := e.Board.Report(c.Request.Context(), contentType, id)
	if err != nil {
		respondError(c, err, "report content")
		return
	}

	// Reports go to moderators only, never to the public socket.
	e.publish(messaging.SubjectReport, messaging.ReportEvent{
		ContentType: contentType,
		ContentID:   id,
		ReportCount: res.ReportCount,
		Timestamp:   messaging.Now(),
	})

	if isHTMX(c) {
		renderFragment(c, "reported", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reported": true})
}
