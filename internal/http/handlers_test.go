package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sujalbistaa/unlinked/internal/board"
	"github.com/sujalbistaa/unlinked/internal/config"
	"github.com/sujalbistaa/unlinked/internal/db"
	"github.com/sujalbistaa/unlinked/internal/db/dbtest"
	"github.com/sujalbistaa/unlinked/internal/models"
	"github.com/sujalbistaa/unlinked/internal/translator"
	"github.com/sujalbistaa/unlinked/internal/ws"
)

const testAdminToken = "let-me-in"

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingBus struct {
	mu       sync.Mutex
	subjects []string
}

func (b *recordingBus) Publish(subject string, event interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subjects = append(b.subjects, subject)
	return nil
}

func (b *recordingBus) count(subject string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(ctx context.Context, systemPrompt, text string) (string, error) {
	return s.reply, s.err
}

type testServer struct {
	router *gin.Engine
	env    *Env
	db     *gorm.DB
	bus    *recordingBus
	addrs  atomic.Int64
}

// newTestServer wires the real router over an in-memory database. stubs maps
// fake provider keys to their canned replies, tried in key order a, b, c.
func newTestServer(t *testing.T, stubs map[string]stubCompleter) *testServer {
	t.Helper()
	gdb := dbtest.Open(t)
	require.NoError(t, db.SeedCategories(gdb))

	var providers []translator.Provider
	keys := map[string]string{}
	for _, key := range []string{"a", "b", "c"} {
		if _, ok := stubs[key]; ok {
			providers = append(providers, translator.Provider{Key: key, Name: strings.ToUpper(key) + "-bot", Model: key + "-1", Weight: 1})
			keys[key] = "k-" + key
		}
	}
	tr := translator.NewWithClients(providers, keys, func(p translator.Provider, apiKey string) (translator.Completer, error) {
		return stubs[p.Key], nil
	})
	tr.SetShuffle(func([]translator.Provider) {})

	bus := &recordingBus{}
	env := &Env{
		Config:       &config.Config{AdminToken: testAdminToken, PublicBaseURL: "https://unlinked.test"},
		Board:        board.NewService(gdb, nil),
		Translator:   tr,
		Translations: translator.NewStore(gdb),
		Hub:          ws.NewHub(),
		Bus:          bus,
		Sessions:     NewSessionStore("test-session-secret"),
	}

	router := gin.New()
	SetupRoutes(router, env)
	return &testServer{router: router, env: env, db: gdb, bus: bus}
}

type call struct {
	method      string
	path        string
	body        string
	contentType string
	headers     map[string]string
	cookies     []*http.Cookie
	remoteAddr  string
}

func (ts *testServer) do(c call) *httptest.ResponseRecorder {
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	// Each call is its own client unless told otherwise, so rate limits stay out of the way.
	if c.remoteAddr != "" {
		req.RemoteAddr = c.remoteAddr
	} else {
		n := ts.addrs.Add(1)
		req.RemoteAddr = fmt.Sprintf("10.%d.%d.%d:4242", n/65536%256, n/256%256, n%256)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) seedRant(t *testing.T, mutate func(*models.Rant)) models.Rant {
	t.Helper()
	var cat models.Category
	require.NoError(t, ts.db.Where("slug = ?", "recruiters").First(&cat).Error)
	r := models.Rant{
		Title:      "Synergy",
		Body:       "Asked to **circle back** on a Sunday",
		CategoryID: cat.ID,
		Moderation: models.Moderation{IsAnonymous: true, IsApproved: true},
	}
	if mutate != nil {
		mutate(&r)
	}
	require.NoError(t, ts.db.Create(&r).Error)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func sessionCookies(w *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionName {
			out = append(out, ck)
		}
	}
	return out
}

func formBody(values map[string]string) string {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	return form.Encode()
}

const formType = "application/x-www-form-urlencoded"

// --- Reactions ---

type reactResponse struct {
	Count    int            `json:"count"`
	IsActive bool           `json:"is_active"`
	Counts   map[string]int `json:"counts"`
}

func TestReactTogglesPerSession(t *testing.T) {
	ts := newTestServer(t, nil)
	rant := ts.seedRant(t, nil)
	path := fmt.Sprintf("/react/rant/%s/drink/", rant.ID)

	first := ts.do(call{method: http.MethodPost, path: path})
	require.Equal(t, http.StatusOK, first.Code)
	var res reactResponse
	decode(t, first, &res)
	assert.Equal(t, 1, res.Count)
	assert.True(t, res.IsActive)
	assert.Len(t, res.Counts, len(models.ReactionTypes))

	cookies := sessionCookies(first)
	require.NotEmpty(t, cookies)

	second := ts.do(call{method: http.MethodPost, path: path, cookies: cookies})
	require.Equal(t, http.StatusOK, second.Code)
	decode(t, second, &res)
	assert.Equal(t, 0, res.Count)
	assert.False(t, res.IsActive)

	// A different visitor has their own toggle.
	other := ts.do(call{method: http.MethodPost, path: path})
	decode(t, other, &res)
	assert.Equal(t, 1, res.Count)
	assert.True(t, res.IsActive)

	assert.Equal(t, 3, ts.bus.count("board.reaction"))
}

func TestReactHTMXReturnsButtons(t *testing.T) {
	ts := newTestServer(t, nil)
	rant := ts.seedRant(t, nil)

	w := ts.do(call{
		method:  http.MethodPost,
		path:    fmt.Sprintf("/react/rant/%s/peak/", rant.ID),
		headers: map[string]string{"HX-Request": "true"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, fmt.Sprintf(`hx-post="/react/rant/%s/peak/"`, rant.ID))
	assert.Contains(t, body, `reaction-btn active`)
	assert.Equal(t, 1, strings.Count(body, "reaction-btn active"))
	assert.Equal(t, len(models.ReactionTypes), strings.Count(body, "<button"))
}

func TestReactValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	rant := ts.seedRant(t, nil)
	hidden := ts.seedRant(t, func(r *models.Rant) { r.IsApproved = false })

	cases := []struct {
		name string
		path string
		code int
	}{
		{"unknown reaction", fmt.Sprintf("/react/rant/%s/like/", rant.ID), http.StatusBadRequest},
		{"unknown content type", fmt.Sprintf("/react/post/%s/drink/", rant.ID), http.StatusBadRequest},
		{"malformed id", "/react/rant/not-a-uuid/drink/", http.StatusNotFound},
		{"unknown content type and malformed id", "/react/bogus/not-a-uuid/drink/", http.StatusBadRequest},
		{"missing item", fmt.Sprintf("/react/rant/%s/drink/", uuid.New()), http.StatusNotFound},
		{"unapproved item", fmt.Sprintf("/react/rant/%s/drink/", hidden.ID), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(call{method: http.MethodPost, path: tc.path})
			assert.Equal(t, tc.code, w.Code, w.Body.String())
		})
	}

	var n int64
	require.NoError(t, ts.db.Model(&models.Reaction{}).Count(&n).Error)
	assert.Zero(t, n)
}

// --- Reports ---

func TestReportContent(t *testing.T) {
	ts := newTestServer(t, nil)
	rant := ts.seedRant(t, nil)
	path := fmt.Sprintf("/report/rant/%s/", rant.ID)

	w := ts.do(call{method: http.MethodPost, path: path})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reported":true}`, w.Body.String())

	w = ts.do(call{method: http.MethodPost, path: path, headers: map[string]string{"HX-Request": "true"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `<span class="text-gray-400">Reported</span>`, w.Body.String())

	w = ts.do(call{method: http.MethodPost, path: "/report/bogus/not-a-uuid/"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var got models.Rant
	require.NoError(t, ts.db.First(&got, "id = ?", rant.ID).Error)
	assert.True(t, got.IsReported)
	assert.Equal(t, 2, got.ReportCount)
	assert.Equal(t, 2, ts.bus.count("board.report"))

	w = ts.do(call{method: http.MethodPost, path: fmt.Sprintf("/report/rant/%s/", uuid.New())})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(call{method: http.MethodPost, path: fmt.Sprintf("/report/article/%s/", rant.ID)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Submission ---

func TestSubmitRant(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(call{
		method:      http.MethodPost,
		path:        "/submit/",
		contentType: formType,
		body: formBody(map[string]string{
			"title":        "Per my last email",
			"body":         "Three rounds of *take-home* tests",
			"category":     "interview-horror",
			"display_name": "Sam",
		}),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID          uuid.UUID `json:"id"`
		ShareSlug   string    `json:"shareSlug"`
		IsAnonymous bool      `json:"isAnonymous"`
	}
	decode(t, w, &created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Len(t, created.ShareSlug, 11)
	assert.False(t, created.IsAnonymous)
	assert.Equal(t, 1, ts.bus.count("board.created"))

	w = ts.do(call{method: http.MethodGet, path: fmt.Sprintf("/rant/%s/", created.ID)})
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Item struct {
			Author   string `json:"author"`
			BodyHTML string `json:"bodyHtml"`
		} `json:"item"`
	}
	decode(t, w, &detail)
	assert.Equal(t, "Sam", detail.Item.Author)
	assert.Contains(t, detail.Item.BodyHTML, "<em>take-home</em>")
}

func TestSubmitRantValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	cases := []struct {
		name   string
		fields map[string]string
	}{
		{"missing body", map[string]string{"category": "other"}},
		{"unknown category", map[string]string{"body": "text", "category": "nope"}},
		{"title too long", map[string]string{"body": "text", "category": "other", "title": strings.Repeat("x", 201)}},
		{"bad email", map[string]string{"body": "text", "category": "other", "email": "not-an-email"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(call{method: http.MethodPost, path: "/submit/", contentType: formType, body: formBody(tc.fields)})
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	var n int64
	require.NoError(t, ts.db.Model(&models.Rant{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubmitIsRateLimited(t *testing.T) {
	ts := newTestServer(t, nil)
	body := `{"linkedin_version":"Humbled to announce","reality_version":"I got a job"}`

	first := ts.do(call{method: http.MethodPost, path: "/submit/sidebyside/", contentType: "application/json", body: body, remoteAddr: "192.0.2.7:1111"})
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := ts.do(call{method: http.MethodPost, path: "/submit/sidebyside/", contentType: "application/json", body: body, remoteAddr: "192.0.2.7:2222"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestSubmitGhostingStory(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(call{
		method:      http.MethodPost,
		path:        "/submit/ghosting/",
		contentType: "application/json",
		body:        `{"company":"Acme","story":"Five rounds then silence","stage":" Final "}`,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.GhostingStory
	decode(t, w, &created)
	assert.Equal(t, "linkedin", created.Platform)
	assert.Equal(t, "final", created.Stage)

	w = ts.do(call{
		method:      http.MethodPost,
		path:        "/submit/ghosting/",
		contentType: "application/json",
		body:        `{"company":"Acme","story":"x","stage":"vanished"}`,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Feeds and detail pages ---

func TestHomeFeed(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seedRant(t, nil)
	ts.seedRant(t, func(r *models.Rant) { r.IsApproved = false })

	w := ts.do(call{method: http.MethodGet, path: "/?sort=bogus&page=0"})
	require.Equal(t, http.StatusOK, w.Code)

	var feed struct {
		Rants struct {
			Items []json.RawMessage `json:"items"`
			Total int64             `json:"total"`
			Page  int               `json:"page"`
		} `json:"rants"`
		Categories  []models.Category `json:"categories"`
		CurrentSort string            `json:"currentSort"`
	}
	decode(t, w, &feed)
	assert.Len(t, feed.Rants.Items, 1)
	assert.EqualValues(t, 1, feed.Rants.Total)
	assert.Equal(t, 1, feed.Rants.Page)
	assert.Equal(t, "recent", feed.CurrentSort)
	assert.Len(t, feed.Categories, len(db.DefaultCategories))

	for _, path := range []string{"/hall-of-fame/", "/wall-of-shame/?stage=interview&company=acme", "/category/recruiters/"} {
		w := ts.do(call{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w = ts.do(call{method: http.MethodGet, path: "/category/unknown/"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetailRecordsViews(t *testing.T) {
	ts := newTestServer(t, nil)
	rant := ts.seedRant(t, nil)

	var body struct {
		ViewCount int64 `json:"viewCount"`
		Item      struct {
			ID            uuid.UUID `json:"id"`
			BodyHTML      string    `json:"bodyHtml"`
			UserReactions []string  `json:"userReactions"`
		} `json:"item"`
	}

	for i := 1; i <= 2; i++ {
		w := ts.do(call{
			method:  http.MethodGet,
			path:    fmt.Sprintf("/rant/%s/", rant.ID),
			headers: map[string]string{"Referer": "https://www.linkedin.com/feed/"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &body)
		assert.EqualValues(t, i, body.ViewCount)
	}
	assert.Equal(t, rant.ID, body.Item.ID)
	assert.Contains(t, body.Item.BodyHTML, "<strong>circle back</strong>")

	var view models.ContentView
	require.NoError(t, ts.db.First(&view).Error)
	assert.Equal(t, "https://www.linkedin.com/feed/", view.Referrer)

	shared := ts.do(call{method: http.MethodGet, path: fmt.Sprintf("/share/rant/%s/", rant.ShareSlug)})
	require.Equal(t, http.StatusOK, shared.Code)
	decode(t, shared, &body)
	assert.Equal(t, rant.ID, body.Item.ID)
	assert.EqualValues(t, 3, body.ViewCount)

	hidden := ts.seedRant(t, func(r *models.Rant) { r.IsApproved = false })
	w := ts.do(call{method: http.MethodGet, path: fmt.Sprintf("/rant/%s/", hidden.ID)})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(call{method: http.MethodGet, path: "/share/sidebyside/doesnotexist/"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetailShowsSessionReactions(t *testing.T) {
	ts := newTestServer(t, nil)
	rant := ts.seedRant(t, nil)

	react := ts.do(call{method: http.MethodPost, path: fmt.Sprintf("/react/rant/%s/clap/", rant.ID)})
	require.Equal(t, http.StatusOK, react.Code)

	w := ts.do(call{method: http.MethodGet, path: fmt.Sprintf("/rant/%s/", rant.ID), cookies: sessionCookies(react)})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Item struct {
			UserReactions []string `json:"userReactions"`
		} `json:"item"`
	}
	decode(t, w, &body)
	assert.Equal(t, []string{"clap"}, body.Item.UserReactions)
}

// --- Translator ---

type translateResponse struct {
	Original  string `json:"original"`
	Translate string `json:"translated"`
	Mode      string `json:"mode"`
	PoweredBy string `json:"powered_by"`
	ShareURL  string `json:"share_url"`
}

func TestTranslateAPIFallsBackAndShares(t *testing.T) {
	ts := newTestServer(t, map[string]stubCompleter{
		"a": {err: errors.New("quota exceeded")},
		"b": {reply: "I'm thrilled to announce... Agree?"},
	})

	w := ts.do(call{
		method:      http.MethodPost,
		path:        "/translator/api/",
		contentType: "application/json",
		body:        `{"text":"  I got a job  ","mode":"to_linkedin"}`,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res translateResponse
	decode(t, w, &res)
	assert.Equal(t, "I got a job", res.Original)
	assert.Equal(t, "I'm thrilled to announce... Agree?", res.Translate)
	assert.Equal(t, "to_linkedin", res.Mode)
	assert.Equal(t, "B-bot", res.PoweredBy)
	require.True(t, strings.HasPrefix(res.ShareURL, "https://unlinked.test/translator/share/"))
	assert.Equal(t, 1, ts.bus.count("translator.translated"))

	sharePath := strings.TrimPrefix(res.ShareURL, "https://unlinked.test")
	for want := 1; want <= 2; want++ {
		share := ts.do(call{method: http.MethodGet, path: sharePath})
		require.Equal(t, http.StatusOK, share.Code)
		var shared struct {
			Translation models.Translation `json:"translation"`
			ModeDisplay string             `json:"mode_display"`
		}
		decode(t, share, &shared)
		assert.Equal(t, want, shared.Translation.ViewCount)
		assert.Equal(t, "Make it LinkedIn", shared.ModeDisplay)
	}

	missing := ts.do(call{method: http.MethodGet, path: "/translator/share/nope/"})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestTranslateAPIErrors(t *testing.T) {
	ts := newTestServer(t, map[string]stubCompleter{"a": {reply: "ok"}})

	cases := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{"text":`, http.StatusBadRequest},
		{"empty text", `{"text":"   ","mode":"to_reality"}`, http.StatusBadRequest},
		{"bad mode", `{"text":"hi","mode":"to_pirate"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(call{method: http.MethodPost, path: "/translator/api/", contentType: "application/json", body: tc.body})
			assert.Equal(t, tc.code, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}

	var n int64
	require.NoError(t, ts.db.Model(&models.Translation{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTranslateAPIWithoutProviders(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(call{method: http.MethodPost, path: "/translator/api/", contentType: "application/json", body: `{"text":"hi"}`})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	info := ts.do(call{method: http.MethodGet, path: "/translator/"})
	require.Equal(t, http.StatusOK, info.Code)
	var body struct {
		HasAPIKey bool              `json:"has_api_key"`
		Modes     []translator.Mode `json:"modes"`
	}
	decode(t, info, &body)
	assert.False(t, body.HasAPIKey)
	assert.Len(t, body.Modes, 2)
}

func TestTranslateAPIAllProvidersFail(t *testing.T) {
	ts := newTestServer(t, map[string]stubCompleter{
		"a": {err: errors.New("timeout")},
		"b": {err: errors.New("invalid key")},
	})

	w := ts.do(call{method: http.MethodPost, path: "/translator/api/", contentType: "application/json", body: `{"text":"hi","mode":"to_reality"}`})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "invalid key")

	var n int64
	require.NoError(t, ts.db.Model(&models.Translation{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTranslateFormHTMX(t *testing.T) {
	ts := newTestServer(t, map[string]stubCompleter{"a": {reply: "Honestly, I was bored."}})
	htmx := map[string]string{"HX-Request": "true"}

	w := ts.do(call{
		method:      http.MethodPost,
		path:        "/translator/",
		contentType: formType,
		body:        formBody(map[string]string{"text": "Embracing a new chapter", "mode": "to_reality"}),
		headers:     htmx,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Make it Real")
	assert.Contains(t, body, "Honestly, I was bored.")
	assert.Contains(t, body, "Powered by A-bot")
	assert.Contains(t, body, "https://unlinked.test/translator/share/")

	w = ts.do(call{
		method:      http.MethodPost,
		path:        "/translator/",
		contentType: formType,
		body:        formBody(map[string]string{"text": " "}),
		headers:     htmx,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter some text to translate.")

	w = ts.do(call{
		method:      http.MethodPost,
		path:        "/translator/",
		contentType: formType,
		body:        formBody(map[string]string{"text": " "}),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Admin ---

func TestAdminRequiresToken(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(call{method: http.MethodGet, path: "/admin/reported/rant"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(call{method: http.MethodGet, path: "/admin/reported/rant", headers: map[string]string{"X-Admin-Token": "guess"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminWithoutConfiguredTokenRefusesEveryone(t *testing.T) {
	ts := newTestServer(t, nil)
	router := gin.New()
	env := *ts.env
	env.Config = &config.Config{}
	SetupRoutes(router, &env)

	req := httptest.NewRequest(http.MethodGet, "/admin/translations", nil)
	req.Header.Set("X-Admin-Token", "anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminModerateHideAndReportQueue(t *testing.T) {
	ts := newTestServer(t, nil)
	admin := map[string]string{"X-Admin-Token": testAdminToken}
	rant := ts.seedRant(t, nil)

	for i := 0; i < 2; i++ {
		ts.do(call{method: http.MethodPost, path: fmt.Sprintf("/report/rant/%s/", rant.ID)})
	}

	w := ts.do(call{method: http.MethodGet, path: "/admin/reported/rant", headers: admin})
	require.Equal(t, http.StatusOK, w.Code)
	var queue []board.ReportedItem
	decode(t, w, &queue)
	require.Len(t, queue, 1)
	assert.Equal(t, rant.ID, queue[0].ID)
	assert.Equal(t, 2, queue[0].ReportCount)

	w = ts.do(call{
		method:      http.MethodPost,
		path:        "/admin/moderate/rant",
		contentType: "application/json",
		body:        fmt.Sprintf(`{"action":"hide","ids":["%s"]}`, rant.ID),
		headers:     admin,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"affected":1}`, w.Body.String())
	assert.Equal(t, 1, ts.bus.count("board.moderated"))

	w = ts.do(call{method: http.MethodGet, path: fmt.Sprintf("/rant/%s/", rant.ID)})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(call{
		method:      http.MethodPost,
		path:        "/admin/moderate/rant",
		contentType: "application/json",
		body:        fmt.Sprintf(`{"action":"delete","ids":["%s"]}`, rant.ID),
		headers:     admin,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCategories(t *testing.T) {
	ts := newTestServer(t, nil)
	admin := map[string]string{"X-Admin-Token": testAdminToken}

	w := ts.do(call{
		method:      http.MethodPost,
		path:        "/admin/categories",
		contentType: "application/json",
		body:        `{"name":"Return To Office","icon":"🏢"}`,
		headers:     admin,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat models.Category
	decode(t, w, &cat)
	assert.Equal(t, "return-to-office", cat.Slug)

	w = ts.do(call{method: http.MethodDelete, path: "/admin/categories/return-to-office", headers: admin})
	assert.Equal(t, http.StatusOK, w.Code)

	ts.seedRant(t, nil)
	w = ts.do(call{method: http.MethodDelete, path: "/admin/categories/recruiters", headers: admin})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(call{method: http.MethodDelete, path: "/admin/categories/ghosts", headers: admin})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminTranslations(t *testing.T) {
	ts := newTestServer(t, map[string]stubCompleter{"a": {reply: "ok"}})
	for i := 0; i < 2; i++ {
		w := ts.do(call{method: http.MethodPost, path: "/translator/api/", contentType: "application/json", body: `{"text":"hi"}`})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := ts.do(call{method: http.MethodGet, path: "/admin/translations", headers: map[string]string{"X-Admin-Token": testAdminToken}})
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items    []models.Translation `json:"items"`
		Total    int64                `json:"total"`
		PageSize int                  `json:"pageSize"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, translator.RecentPageSize, page.PageSize)
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(call{method: http.MethodGet, path: "/translator/"})
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
}
