package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"casamento/internal/content"
	"casamento/internal/countdown"
)

// galleryDir is where the gallery pictures live, relative to the static root
const galleryDir = "img/gallery"

var pictureExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// Home renders the landing page with the countdown
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	data := HomeViewData{
		PageData:    s.page(r, "Nosso Casamento", "home"),
		WeddingDate: s.cfg.WeddingDate,
		Countdown:   newCountdownView(countdown.Compute(s.cfg.WeddingDate, now), nil, now),
	}
	s.tmpl.Render(w, http.StatusOK, "home", data)
}

// CountdownStream pushes the countdown over SSE once a second until the client leaves
// or the wedding starts. Units that changed carry their previous value while flipping.
func (s *Site) CountdownStream(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	flips := countdown.NewFlipTracker(countdown.FlipDuration)

	countdown.Run(sse.Context(), s.cfg.WeddingDate, countdown.Interval, s.now, func(tr countdown.TimeRemaining) {
		at := s.now()
		flips.Observe(tr, at)

		html, err := s.tmpl.Partial("countdown", newCountdownView(tr, flips, at))
		if err != nil {
			s.log.Error().Err(err).Msg("Error rendering countdown")
			return
		}
		if err := sse.PatchElements(html, datastar.WithSelector("#countdown"), datastar.WithMode(datastar.ElementPatchModeOuter)); err != nil {
			s.log.Debug().Err(err).Msg("countdown stream closed")
		}
	})
}

// Pictures renders the photo gallery from the static directory
func (s *Site) Pictures(w http.ResponseWriter, r *http.Request) {
	data := PicturesViewData{
		PageData: s.page(r, "Fotos", "pictures"),
		Pictures: s.listPictures(),
	}
	s.tmpl.Render(w, http.StatusOK, "pictures", data)
}

// listPictures returns the gallery image URLs sorted by file name
func (s *Site) listPictures() []string {
	entries, err := os.ReadDir(filepath.Join(s.cfg.StaticPath, galleryDir))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Msg("Error reading gallery directory")
		}
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !pictureExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	urls := make([]string, 0, len(names))
	for _, n := range names {
		urls = append(urls, "/static/"+path.Join(galleryDir, n))
	}
	return urls
}

// ContentPage serves one of the embedded Markdown pages
func (s *Site) ContentPage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := content.Get(slug)
		if !ok {
			s.NotFound(w, r)
			return
		}
		data := ContentViewData{
			PageData: s.page(r, page.Title, slug),
			Body:     page.HTML,
		}
		s.tmpl.Render(w, http.StatusOK, "content", data)
	}
}

// Success is the payment provider's return page
func (s *Site) Success(w http.ResponseWriter, r *http.Request) {
	data := RedirectViewData{
		PageData: s.page(r, "Pagamento Realizado com Sucesso!", ""),
		Message:  "Obrigado pelo presente! Seu pagamento foi processado com sucesso.",
		Delay:    int(SuccessRedirectDelay.Seconds()),
	}
	s.tmpl.Render(w, http.StatusOK, "redirect", data)
}

// Failure is the payment provider's error page
func (s *Site) Failure(w http.ResponseWriter, r *http.Request) {
	data := RedirectViewData{
		PageData: s.page(r, "Falha no Pagamento", ""),
		Message:  "Não foi possível concluir o pagamento. Tente novamente.",
		Delay:    int(FailureRedirectDelay.Seconds()),
	}
	s.tmpl.Render(w, http.StatusOK, "redirect", data)
}
