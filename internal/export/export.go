// internal/export/export.go
// Package export implements the card export pathways: local files, uploads
// to the export endpoint, and the sequential batch runners built on them.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/reasoncards/internal/browser"
	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/dataurl"
)

// Rasterizer produces PNG bytes for a named card.
type Rasterizer interface {
	Rasterize(ctx context.Context, cardID string) ([]byte, error)
}

// FailurePolicy decides what a batch does when one card fails.
type FailurePolicy int

const (
	// AbortOnError stops the batch at the first failed card.
	AbortOnError FailurePolicy = iota
	// SkipOnError skips cards whose element never appeared and keeps going.
	// Any other failure still stops the batch.
	SkipOnError
)

func (p FailurePolicy) String() string {
	switch p {
	case AbortOnError:
		return "abort-on-error"
	case SkipOnError:
		return "skip-on-error"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// skips reports whether err lets the batch continue under p.
func (p FailurePolicy) skips(err error) bool {
	return p == SkipOnError && errors.Is(err, browser.ErrCardNotFound)
}

// Progress is reported after every card of a batch.
type Progress struct {
	Processed int
	Total     int
	Status    string
}

// ProgressFunc receives batch progress. It is called from the batch goroutine.
type ProgressFunc func(Progress)

// BatchFilename names a card uploaded by the batch exporter:
// NNN_<video stem>.png with NNN the sample id padded to three digits.
func BatchFilename(s cards.Sample) string {
	return fmt.Sprintf("%03d_%s.png", s.ID, cards.StemName(s.VideoName))
}

// ScreenshotFilename names the card at position index written by the
// screenshot driver.
func ScreenshotFilename(index int, s cards.Sample) string {
	name := s.VideoName
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("card-%d", index+1)
	}
	return fmt.Sprintf("%03d_%s.png", index+1, dataurl.SanitizeFilename(cards.StemName(name)))
}
