// internal/export/batch.go
package export

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/dataurl"
)

// ErrBatchInFlight is returned when Run is called while a batch is running.
var ErrBatchInFlight = errors.New("a batch export is already running")

// Report lists what a batch produced, in dataset order.
type Report struct {
	Exported []string
	Skipped  []string
}

// BatchUploader uploads every card to the export endpoint, strictly one after
// another. Its policy is AbortOnError: the first failure ends the batch.
type BatchUploader struct {
	raster     Rasterizer
	client     *Client
	onProgress ProgressFunc
	log        *zap.Logger
	running    atomic.Bool
}

// NewBatchUploader builds a batch uploader. onProgress and log may be nil.
func NewBatchUploader(raster Rasterizer, client *Client, onProgress ProgressFunc, log *zap.Logger) *BatchUploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchUploader{raster: raster, client: client, onProgress: onProgress, log: log}
}

// Policy is the batch uploader's failure policy.
func (b *BatchUploader) Policy() FailurePolicy { return AbortOnError }

// Run uploads samples in order and returns the saved server paths.
func (b *BatchUploader) Run(ctx context.Context, samples []cards.Sample) (Report, error) {
	if !b.running.CompareAndSwap(false, true) {
		return Report{}, ErrBatchInFlight
	}
	defer b.running.Store(false)

	total := len(samples)
	b.progress(Progress{Total: total, Status: "starting export..."})

	rep, err := runSequential(ctx, samples, b.Policy(), b.progress, func(ctx context.Context, _ int, s cards.Sample) (string, error) {
		data, err := b.raster.Rasterize(ctx, s.CardID)
		if err != nil {
			return "", err
		}
		return b.client.SaveCard(ctx, BatchFilename(s), dataurl.EncodePNG(data))
	})
	if err != nil {
		b.log.Error("batch export failed", zap.Int("processed", len(rep.Exported)), zap.Int("total", total), zap.Error(err))
		b.progress(Progress{Processed: len(rep.Exported), Total: total, Status: "export failed"})
		return rep, err
	}

	b.log.Info("batch export complete", zap.Int("exported", len(rep.Exported)))
	b.progress(Progress{Processed: total, Total: total, Status: "export complete, files are in exported_cards"})
	return rep, nil
}

func (b *BatchUploader) progress(p Progress) {
	if b.onProgress != nil {
		b.onProgress(p)
	}
}

type batchStep func(ctx context.Context, index int, s cards.Sample) (string, error)

// runSequential runs step for each sample in order, applying policy to
// failures and reporting progress after every card.
func runSequential(ctx context.Context, samples []cards.Sample, policy FailurePolicy, report ProgressFunc, step batchStep) (Report, error) {
	var rep Report
	total := len(samples)
	for i, s := range samples {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		out, err := step(ctx, i, s)
		var status string
		switch {
		case err == nil:
			rep.Exported = append(rep.Exported, out)
			status = fmt.Sprintf("exported %d/%d", i+1, total)
		case policy.skips(err):
			rep.Skipped = append(rep.Skipped, s.CardID)
			status = fmt.Sprintf("skipped %s (%d/%d)", s.CardID, i+1, total)
		default:
			return rep, fmt.Errorf("card %d/%d (%s): %w", i+1, total, s.CardID, err)
		}
		report(Progress{Processed: i + 1, Total: total, Status: status})
	}
	return rep, nil
}
