package content

import (
	"strings"
	"testing"
)

func TestSlugs(t *testing.T) {
	slugs := Slugs()
	if len(slugs) != 2 || slugs[0] != "historia" || slugs[1] != "vestimenta" {
		t.Errorf("Slugs() = %v", slugs)
	}
}

func TestGet(t *testing.T) {
	page, ok := Get("Vestimenta")
	if !ok {
		t.Fatal("Get(Vestimenta) not found")
	}
	if page.Title != "Código de Vestimenta" {
		t.Errorf("Title = %q", page.Title)
	}
	if !strings.Contains(string(page.HTML), "<h2>Homens: Esporte fino</h2>") {
		t.Errorf("HTML missing section heading: %s", page.HTML)
	}

	for _, slug := range []string{"", "../content", "nope"} {
		if _, ok := Get(slug); ok {
			t.Errorf("Get(%q) found a page", slug)
		}
	}
}

func TestRenderEscapesRawHTML(t *testing.T) {
	out := string(Render("olá <script>alert(1)</script>"))
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML passed through: %s", out)
	}
}
