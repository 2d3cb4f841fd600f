// Package content serves the static text pages of the site, written in Markdown.
package content

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed pages/*.md
var pagesFS embed.FS

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// raw HTML stays disabled; no html.WithUnsafe()
		html.WithHardWraps(),
	),
)

// Page is a rendered content page
type Page struct {
	Slug  string
	Title string
	HTML  template.HTML
}

// Slugs lists the available pages, sorted
func Slugs() []string {
	entries, err := fs.Glob(pagesFS, "pages/*.md")
	if err != nil {
		return nil
	}
	var slugs []string
	for _, p := range entries {
		slugs = append(slugs, strings.TrimSuffix(path.Base(p), ".md"))
	}
	sort.Strings(slugs)
	return slugs
}

// Get renders the page called slug
func Get(slug string) (Page, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || strings.ContainsAny(slug, "/.") {
		return Page{}, false
	}
	src, err := pagesFS.ReadFile("pages/" + slug + ".md")
	if err != nil {
		return Page{}, false
	}
	return Page{Slug: slug, Title: title(src, slug), HTML: Render(string(src))}, true
}

// Render converts Markdown to HTML
func Render(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var b bytes.Buffer
	if err := markdown.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

func title(src []byte, fallback string) string {
	for _, line := range strings.Split(string(src), "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}
