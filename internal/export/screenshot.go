// internal/export/screenshot.go
package export

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/util"
)

// Screenshotter writes one numbered PNG per card into Dir. Its policy is
// SkipOnError: a card that never appears is logged and skipped.
type Screenshotter struct {
	Rasterizer Rasterizer
	Dir        string
	OnProgress ProgressFunc
	Log        *zap.Logger
}

// Policy is the screenshot driver's failure policy.
func (s *Screenshotter) Policy() FailurePolicy { return SkipOnError }

// Run screenshots samples in order.
func (s *Screenshotter) Run(ctx context.Context, samples []cards.Sample) (Report, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	dir := s.Dir
	if dir == "" {
		dir = filepath.Join("exports", "puppeteer")
	}

	report := func(p Progress) {
		if s.OnProgress != nil {
			s.OnProgress(p)
		}
	}

	rep, err := runSequential(ctx, samples, s.Policy(), report, func(ctx context.Context, i int, sample cards.Sample) (string, error) {
		data, err := s.Rasterizer.Rasterize(ctx, sample.CardID)
		if err != nil {
			if s.Policy().skips(err) {
				log.Warn("card element not found, skipping", zap.String("card", sample.CardID), zap.Error(err))
			}
			return "", err
		}
		name := ScreenshotFilename(i, sample)
		if err := util.WriteFileAtomic(dir, name, data); err != nil {
			return "", err
		}
		path := filepath.Join(dir, name)
		log.Info("exported", zap.String("card", sample.CardID), zap.String("path", path))
		return path, nil
	})
	if err != nil {
		return rep, err
	}
	log.Info("screenshots complete", zap.Int("exported", len(rep.Exported)), zap.Int("skipped", len(rep.Skipped)))
	return rep, nil
}
