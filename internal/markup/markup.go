// Package markup turns user-written markdown into HTML that is safe to embed.
package markup

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// AllowedTags are the only elements that survive sanitising.
var AllowedTags = []string{
	"p", "br", "strong", "em", "ul", "ol", "li", "blockquote",
	"code", "pre", "h1", "h2", "h3", "a",
}

var (
	// Raw HTML is let through goldmark on purpose; the policy below decides what stays.
	md = goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))

	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowStandardURLs()
	// AllowStandardURLs also forces rel="nofollow"; links carry href and title only.
	p.RequireNoFollowOnLinks(false)
	return p
}

// Render converts markdown (CommonMark, fenced code included) to sanitised HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}

// RenderOrSanitize is Render for callers that would rather show the sanitised
// source than fail a page when conversion breaks.
func RenderOrSanitize(source string) string {
	out, err := Render(source)
	if err != nil {
		return policy.Sanitize(source)
	}
	return out
}
