// internal/server/image.go
package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var (
	errMissingPath  = &apiError{Status: http.StatusBadRequest, Message: "Missing path parameter"}
	errAccessDenied = &apiError{Status: http.StatusForbidden, Message: "Access denied"}
	errNotFound     = &apiError{Status: http.StatusNotFound, Message: "Image not found"}
)

func (s *Server) handleLocalImage(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Query().Get("path")
	if requested == "" {
		writeError(w, errMissingPath)
		return
	}

	resolved, err := s.resolveLocalImage(requested)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		s.log.Warn("failed to read image",
			zap.String("request_id", requestID(r.Context())),
			zap.String("path", requested),
			zap.Error(err),
		)
		writeError(w, errNotFound)
		return
	}

	w.Header().Set("Content-Type", imageContentType(resolved))
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// resolveLocalImage maps a requested relative path to a file under the work
// dir. The first segment must name an allowed root, and the resolved path must
// still sit inside that root.
func (s *Server) resolveLocalImage(requested string) (string, error) {
	normalized := path.Clean(strings.ReplaceAll(requested, "\\", "/"))
	var segments []string
	for _, seg := range strings.Split(normalized, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return "", errAccessDenied
	}
	if _, ok := s.roots[segments[0]]; !ok {
		return "", errAccessDenied
	}

	root := filepath.Join(s.workDir, segments[0])
	resolved := filepath.Join(append([]string{s.workDir}, segments...)...)
	if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return "", errAccessDenied
	}
	return resolved, nil
}

func imageContentType(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
