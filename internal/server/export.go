// internal/server/export.go
package server

import (
	"errors"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mwiater/reasoncards/internal/dataurl"
	"github.com/mwiater/reasoncards/internal/util"
)

// ExportRequest is the body of POST /api/export-card. ImageData takes
// precedence over DataURL.
type ExportRequest struct {
	Filename  string `json:"filename"`
	ImageData string `json:"imageData,omitempty"`
	DataURL   string `json:"dataUrl,omitempty"`
}

// ExportResponse reports the saved file relative to the server's work dir.
type ExportResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}

func (s *Server) handleExportCard(w http.ResponseWriter, r *http.Request) {
	var req *ExportRequest
	if err := decodeJSON(w, r, &req, s.maxBodyBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, &apiError{Status: http.StatusRequestEntityTooLarge, Message: "Payload too large"})
			return
		}
		writeError(w, &apiError{Status: http.StatusBadRequest, Message: "Invalid payload"})
		return
	}
	if req == nil {
		writeError(w, &apiError{Status: http.StatusBadRequest, Message: "Invalid payload"})
		return
	}

	image := req.ImageData
	if image == "" {
		image = req.DataURL
	}
	if req.Filename == "" || image == "" {
		writeError(w, &apiError{Status: http.StatusBadRequest, Message: "Missing filename or image data"})
		return
	}

	payload, err := dataurl.Decode(image)
	if err != nil {
		writeError(w, &apiError{Status: http.StatusBadRequest, Message: "Unsupported image data"})
		return
	}

	name := dataurl.PNGFilename(req.Filename)
	dir := filepath.Join(s.workDir, s.exportDir)
	if err := util.WriteFileAtomic(dir, name, payload.Data); err != nil {
		s.log.Error("failed to save image",
			zap.String("request_id", requestID(r.Context())),
			zap.String("file", name),
			zap.Error(err),
		)
		writeError(w, &apiError{Status: http.StatusInternalServerError, Message: "Failed to save image"})
		return
	}

	rel, err := filepath.Rel(s.workDir, filepath.Join(dir, name))
	if err != nil {
		rel = filepath.Join(s.exportDir, name)
	}
	s.log.Debug("card exported", zap.String("path", rel), zap.Int("bytes", len(payload.Data)))
	writeJSON(w, http.StatusOK, ExportResponse{Success: true, Path: filepath.ToSlash(rel)})
}
