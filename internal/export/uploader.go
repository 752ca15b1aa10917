// internal/export/uploader.go
package export

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/mwiater/reasoncards/internal/dataurl"
)

// ErrSaveInFlight is returned when Save is called while a save is running.
var ErrSaveInFlight = errors.New("a save is already in progress")

// Uploader rasterizes a card and sends it to the export endpoint. At most
// one save runs at a time.
type Uploader struct {
	raster Rasterizer
	client *Client
	busy   atomic.Bool
}

// NewUploader wires a rasterizer to an endpoint client.
func NewUploader(raster Rasterizer, client *Client) *Uploader {
	return &Uploader{raster: raster, client: client}
}

// Save uploads cardID as filename and returns the server-relative path.
func (u *Uploader) Save(ctx context.Context, cardID, filename string) (string, error) {
	if !u.busy.CompareAndSwap(false, true) {
		return "", ErrSaveInFlight
	}
	defer u.busy.Store(false)

	data, err := u.raster.Rasterize(ctx, cardID)
	if err != nil {
		return "", fmt.Errorf("rasterize %s: %w", cardID, err)
	}
	path, err := u.client.SaveCard(ctx, filename, dataurl.EncodePNG(data))
	if err != nil {
		return "", fmt.Errorf("save %s: %w", cardID, err)
	}
	return path, nil
}
