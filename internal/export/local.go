// internal/export/local.go
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mwiater/reasoncards/internal/util"
)

// LocalExporter writes one rasterized card straight to disk.
type LocalExporter struct {
	Rasterizer Rasterizer
	Dir        string
	Now        func() time.Time
	Log        *zap.Logger
}

// Export rasterizes cardID and writes reasoning-card-<unix millis>.png into
// Dir. Nothing is written when rasterization fails.
func (e *LocalExporter) Export(ctx context.Context, cardID string) (string, error) {
	data, err := e.Rasterizer.Rasterize(ctx, cardID)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", cardID, err)
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	name := fmt.Sprintf("reasoning-card-%d.png", now().UnixMilli())
	if err := util.WriteFileAtomic(dir, name, data); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if e.Log != nil {
		e.Log.Info("card exported", zap.String("card", cardID), zap.String("path", path))
	}
	return path, nil
}
