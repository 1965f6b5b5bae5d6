package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/sujalbistaa/unlinked/internal/models"
)

// htmx partials. Full pages are rendered by the frontend from the JSON routes.
var fragments = template.Must(template.New("fragments").Parse(`
{{define "reactions"}}<div class="reactions flex flex-wrap gap-2" id="reactions-{{.ContentType}}-{{.ContentID}}">
{{- range .Buttons}}
<button class="reaction-btn{{if .Active}} active{{end}}" hx-post="/react/{{$.ContentType}}/{{$.ContentID}}/{{.Code}}/" hx-target="#reactions-{{$.ContentType}}-{{$.ContentID}}" hx-swap="outerHTML" title="{{.Label}}">{{.Emoji}} <span class="count">{{.Count}}</span></button>
{{- end}}
</div>{{end}}

{{define "reported"}}<span class="text-gray-400">Reported</span>{{end}}

{{define "translation"}}<div class="translation-result">
{{- if .Error}}
<p class="text-red-500">{{.Error}}</p>
{{- else}}
<h3>{{.ModeDisplay}}</h3>
<div class="translated whitespace-pre-line">{{.Translated}}</div>
{{- if .PoweredBy}}<p class="text-gray-400 text-sm">Powered by {{.PoweredBy}}</p>{{end}}
{{- if .ShareURL}}<a class="share-link" href="{{.ShareURL}}">{{.ShareURL}}</a>{{end}}
{{- end}}
</div>{{end}}
`))

type reactionButton struct {
	models.ReactionType
	Count  int
	Active bool
}

type reactionsFragment struct {
	ContentType string
	ContentID   string
	Buttons     []reactionButton
}

func newReactionsFragment(contentType, contentID string, counts map[string]int, mine []string) reactionsFragment {
	active := make(map[string]bool, len(mine))
	for _, code := range mine {
		active[code] = true
	}

	f := reactionsFragment{ContentType: contentType, ContentID: contentID}
	for _, rt := range models.ReactionTypes {
		f.Buttons = append(f.Buttons, reactionButton{
			ReactionType: rt,
			Count:        counts[rt.Code],
			Active:       active[rt.Code],
		})
	}
	return f
}

type translationFragment struct {
	ModeDisplay string
	Translated  string
	PoweredBy   string
	ShareURL    string
	Error       string
}

// renderFragment writes one named partial as text/html.
func renderFragment(c *gin.Context, name string, data interface{}) {
	c.Render(http.StatusOK, render.HTML{Template: fragments, Name: name, Data: data})
}
