// internal/render/render.go
// Package render turns card view models into the HTML that the browser-driven
// exporters rasterize.
package render

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/mwiater/reasoncards/internal/cards"
)

const (
	// PlaceholderPath is substituted for any missing image reference.
	PlaceholderPath = "/placeholder.svg"
	// LocalImagePath is the image proxy route for files under an allowed root.
	LocalImagePath = "/api/local-image"
	// MaxFrames caps the generated-video strip.
	MaxFrames = 8
	// DefaultTitle heads the cards page.
	DefaultTitle = "Reasoning Cards"
)

// Ticks are the horizontal guide lines of the 0-10 score chart.
var Ticks = []int{10, 8, 6, 4, 2, 0}

// Options configures a Renderer.
type Options struct {
	// LocalRoots are directory names whose files are served through the
	// image proxy instead of as static paths.
	LocalRoots []string
}

// Renderer renders cards and the cards page. It is safe for concurrent use.
type Renderer struct {
	tmpl  *template.Template
	roots map[string]struct{}
}

// Page is the data for the cards page.
type Page struct {
	Title   string
	Samples []cards.Sample
	// Bare hides the header and export controls, as requested by ?bare=1.
	Bare bool
}

type cardView struct {
	CardID      string
	Prompt      string
	Difficulty  string
	ModelName   string
	InputImage  string
	Icon        string
	Transparent bool
	Bars        []barView
	Ticks       []int
	FinalScore  string
	TSR         string
	Frames      []frameView
}

type barView struct {
	Module string
	Score  string
	Style  template.CSS
}

type frameView struct {
	URL string
	Alt string
}

type pageView struct {
	Title string
	Count int
	Bare  bool
	Cards []cardView
}

// New builds a Renderer.
func New(opts Options) *Renderer {
	roots := make(map[string]struct{}, len(opts.LocalRoots))
	for _, root := range opts.LocalRoots {
		root = strings.Trim(strings.TrimSpace(root), "/")
		if root != "" {
			roots[root] = struct{}{}
		}
	}
	return &Renderer{tmpl: pageTemplate, roots: roots}
}

// RenderCard writes a single card wrapped in its data-card-id element.
func (r *Renderer) RenderCard(w io.Writer, s cards.Sample) error {
	return r.tmpl.ExecuteTemplate(w, "card", r.view(s))
}

// RenderPage writes the full cards page.
func (r *Renderer) RenderPage(w io.Writer, p Page) error {
	title := p.Title
	if title == "" {
		title = DefaultTitle
	}
	pv := pageView{Title: title, Count: len(p.Samples), Bare: p.Bare, Cards: make([]cardView, 0, len(p.Samples))}
	for _, s := range p.Samples {
		pv.Cards = append(pv.Cards, r.view(s))
	}
	return r.tmpl.ExecuteTemplate(w, "page", pv)
}

// ImageURL maps a dataset image reference to the URL the page loads it from.
// Empty references become the placeholder, absolute URLs pass through, files
// under a local root go through the image proxy, and other relative paths
// gain a leading slash.
func (r *Renderer) ImageURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return PlaceholderPath
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
		return ref
	}
	rel := strings.TrimLeft(strings.ReplaceAll(ref, "\\", "/"), "/")
	first, _, _ := strings.Cut(rel, "/")
	if _, ok := r.roots[first]; ok {
		return LocalImagePath + "?" + url.Values{"path": {rel}}.Encode()
	}
	if strings.HasPrefix(ref, "/") {
		return ref
	}
	return "/" + ref
}

func (r *Renderer) view(s cards.Sample) cardView {
	cv := cardView{
		CardID:      s.CardID,
		Prompt:      s.Prompt,
		Difficulty:  s.Difficulty,
		ModelName:   s.ModelName,
		InputImage:  r.ImageURL(s.InputImage),
		Icon:        r.ImageURL(s.ModelIcon),
		Transparent: s.TransparentIcon,
		Ticks:       Ticks,
		FinalScore:  fmt.Sprintf("%.2f", s.FinalScore()),
		TSR:         fmt.Sprintf("%.1f%%", s.TSR),
	}
	for _, sc := range s.Scores {
		cv.Bars = append(cv.Bars, barView{
			Module: sc.Module,
			Score:  formatScore(sc.Score),
			Style:  template.CSS(fmt.Sprintf("height: %s%%", formatScore(BarHeight(sc.Score)))),
		})
	}
	frames := s.VideoFrames
	if len(frames) > MaxFrames {
		frames = frames[:MaxFrames]
	}
	for i, f := range frames {
		cv.Frames = append(cv.Frames, frameView{URL: r.ImageURL(f), Alt: fmt.Sprintf("Frame %d", i+1)})
	}
	return cv
}

// BarHeight converts a 0-10 score to a bar height percentage, clamped to 0-100.
func BarHeight(score float64) float64 {
	h := score / 10 * 100
	switch {
	case h < 0:
		return 0
	case h > 100:
		return 100
	}
	return h
}

func formatScore(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
