// internal/server/pages.go
package server

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/render"
)

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var samples []cards.Sample
	if s.dataset != nil {
		samples = s.dataset.Samples
	}

	var buf bytes.Buffer
	page := render.Page{Samples: samples, Bare: r.URL.Query().Get("bare") == "1"}
	if err := s.renderer.RenderPage(&buf, page); err != nil {
		s.log.Error("render cards page", zap.String("request_id", requestID(r.Context())), zap.Error(err))
		http.Error(w, "failed to render cards", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func handlePlaceholder(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(render.PlaceholderSVG))
}
