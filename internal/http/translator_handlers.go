package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/unlinked/internal/messaging"
	"github.com/sujalbistaa/unlinked/internal/models"
	"github.com/sujalbistaa/unlinked/internal/translator"
)

type TranslateInput struct {
	Text string `form:"text" json:"text"`
	Mode string `form:"mode" json:"mode"`
}

type providerInfo struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Model string `json:"model"`
}

// GetTranslator reports whether translation is available and which modes exist.
func (e *Env) GetTranslator(c *gin.Context) {
	providers := []providerInfo{}
	for _, p := range e.Translator.Providers() {
		providers = append(providers, providerInfo{Key: p.Key, Name: p.Name, Model: p.Model})
	}
	c.JSON(http.StatusOK, gin.H{
		"has_api_key": e.Translator.Available(),
		"providers":   providers,
		"modes":       translator.Modes(),
	})
}

// PostTranslateForm handles the translator page form. htmx callers always get
// a 200 partial so the error text is swapped into the page.
func (e *Env) PostTranslateForm(c *gin.Context) {
	var input TranslateInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	saved, res, err := e.translateAndSave(c.Request.Context(), input)
	if err != nil {
		if isHTMX(c) {
			renderFragment(c, "translation", translationFragment{Error: formErrorText(err)})
			return
		}
		respondError(c, err, "translate")
		return
	}

	shareURL := e.shareURL(c, saved.ShareSlug)
	if isHTMX(c) {
		renderFragment(c, "translation", translationFragment{
			ModeDisplay: models.ModeDisplay(saved.Mode),
			Translated:  saved.TranslatedText,
			PoweredBy:   res.ProviderName,
			ShareURL:    shareURL,
		})
		return
	}
	c.JSON(http.StatusOK, translationResponse(saved, res, shareURL))
}

// PostTranslateAPI is the JSON translator endpoint.
func (e *Env) PostTranslateAPI(c *gin.Context) {
	var input TranslateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	saved, res, err := e.translateAndSave(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "translate")
		return
	}
	c.JSON(http.StatusOK, translationResponse(saved, res, e.shareURL(c, saved.ShareSlug)))
}

// GetSharedTranslation shows a saved translation and counts the visit.
func (e *Env) GetSharedTranslation(c *gin.Context) {
	t, err := e.Translations.GetBySlugAndCountView(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "fetch translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"translation":  t,
		"mode_display": models.ModeDisplay(t.Mode),
	})
}

// translateAndSave runs the provider fallback and stores the result.
// Failed translations are not stored.
func (e *Env) translateAndSave(ctx context.Context, input TranslateInput) (*models.Translation, *translator.Result, error) {
	mode := input.Mode
	if mode == "" {
		mode = models.ModeToLinkedIn
	}
	text := strings.TrimSpace(input.Text)

	res, err := e.Translator.Translate(ctx, text, mode)
	if err != nil {
		return nil, nil, err
	}

	saved, err := e.Translations.Save(ctx, text, mode, res)
	if err != nil {
		return nil, nil, err
	}

	e.publish(messaging.SubjectTranslated, messaging.TranslatedEvent{
		Slug:      saved.ShareSlug,
		Mode:      saved.Mode,
		Provider:  res.Provider,
		Model:     res.Model,
		Timestamp: messaging.Now(),
	})
	return saved, res, nil
}

func translationResponse(t *models.Translation, res *translator.Result, shareURL string) gin.H {
	return gin.H{
		"original":   t.OriginalText,
		"translated": t.TranslatedText,
		"mode":       t.Mode,
		"powered_by": res.ProviderName,
		"share_url":  shareURL,
	}
}

// shareURL builds the absolute share link, preferring PUBLIC_BASE_URL.
func (e *Env) shareURL(c *gin.Context, slug string) string {
	path := "/translator/share/" + slug + "/"
	if e.Config != nil && e.Config.PublicBaseURL != "" {
		return e.Config.PublicBaseURL + path
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + path
}

func formErrorText(err error) string {
	switch {
	case errors.Is(err, translator.ErrEmptyText):
		return "Please enter some text to translate."
	case errors.Is(err, translator.ErrInvalidMode):
		return "Unknown translation mode."
	case errors.Is(err, translator.ErrNoProviders):
		return "No AI providers configured. Translation unavailable."
	}
	return "Translation failed: " + err.Error()
}
