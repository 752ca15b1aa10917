package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/dataurl"
)

func newTestServer(t *testing.T, opts Options) (*Server, string) {
	t.Helper()
	if opts.WorkDir == "" {
		opts.WorkDir = t.TempDir()
	}
	if opts.AllowedRoots == nil {
		opts.AllowedRoots = []string{"first_frames", "extracted_frames"}
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return s, opts.WorkDir
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		img.Set(x, 2, color.RGBA{R: 164, G: 190, B: 194, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func postExport(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/export-card", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestNewRequiresWorkDir(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without work dir")
	}
}

func TestExportCardRoundTrip(t *testing.T) {
	s, workDir := newTestServer(t, Options{})
	data := pngBytes(t)

	rec := postExport(t, s.Handler(), mustJSON(t, ExportRequest{Filename: "001_bag_zoom", ImageData: dataurl.EncodePNG(data)}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ExportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Path != "exported_cards/001_bag_zoom.png" {
		t.Fatalf("unexpected response %+v", resp)
	}

	got, err := os.ReadFile(filepath.Join(workDir, filepath.FromSlash(resp.Path)))
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("exported bytes differ from the uploaded image")
	}
}

func TestExportCardSanitizesAndOverwrites(t *testing.T) {
	s, workDir := newTestServer(t, Options{ExportDir: "out"})
	h := s.Handler()

	first := postExport(t, h, mustJSON(t, ExportRequest{Filename: "../bag zoom.png", DataURL: dataurl.EncodePNG([]byte("first"))}))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	second := postExport(t, h, mustJSON(t, ExportRequest{
		Filename:  "../bag zoom.png",
		ImageData: dataurl.EncodePNG([]byte("second")),
		DataURL:   dataurl.EncodePNG([]byte("ignored")),
	}))
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", second.Code)
	}

	got, err := os.ReadFile(filepath.Join(workDir, "out", ".._bag_zoom.png"))
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected imageData to win and overwrite, got %q", got)
	}
	entries, err := os.ReadDir(filepath.Join(workDir, "out"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
}

func TestExportCardRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"not a data url", `{"filename":"x.png","imageData":"not-a-data-url"}`, "Unsupported image data"},
		{"gif payload", `{"filename":"x.png","imageData":"data:image/gif;base64,R0lGOD"}`, "Unsupported image data"},
		{"malformed json", `{"filename":`, "Invalid payload"},
		{"null body", `null`, "Invalid payload"},
		{"wrong types", `{"filename":7,"imageData":"data:image/png;base64,AA=="}`, "Invalid payload"},
		{"missing filename", `{"imageData":"data:image/png;base64,AA=="}`, "Missing filename or image data"},
		{"missing image", `{"filename":"x.png"}`, "Missing filename or image data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, workDir := newTestServer(t, Options{})
			rec := postExport(t, s.Handler(), tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := errorMessage(t, rec); got != tc.want {
				t.Fatalf("error = %q, want %q", got, tc.want)
			}
			if _, err := os.Stat(filepath.Join(workDir, "exported_cards")); !os.IsNotExist(err) {
				t.Fatalf("expected no export directory, stat err = %v", err)
			}
		})
	}
}

func TestExportCardBodyLimit(t *testing.T) {
	s, _ := newTestServer(t, Options{MaxBodyBytes: 64})
	big := dataurl.EncodePNG(bytes.Repeat([]byte{0x89}, 256))
	rec := postExport(t, s.Handler(), mustJSON(t, ExportRequest{Filename: "big", ImageData: big}))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestExportCardWriteFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s, workDir := newTestServer(t, Options{Logger: zap.New(core)})
	// A regular file where the export directory should be makes MkdirAll fail.
	if err := os.WriteFile(filepath.Join(workDir, "exported_cards"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	rec := postExport(t, s.Handler(), mustJSON(t, ExportRequest{Filename: "card", ImageData: dataurl.EncodePNG(pngBytes(t))}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorMessage(t, rec); got != "Failed to save image" {
		t.Fatalf("unexpected error %q", got)
	}
	if logs.FilterMessage("failed to save image").Len() != 1 {
		t.Fatal("expected the write failure to be logged")
	}
}

func seedImages(t *testing.T, workDir string) {
	t.Helper()
	files := map[string]string{
		"first_frames/bag.png":           "png-bytes",
		"extracted_frames/bag/frame.jpg": "jpg-bytes",
		"secrets/token.txt":              "secret",
	}
	for name, content := range files {
		p := filepath.Join(workDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func getImage(h http.Handler, p string) *httptest.ResponseRecorder {
	target := "/api/local-image"
	if p != "" {
		target += "?" + url.Values{"path": {p}}.Encode()
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLocalImageServesAllowedFiles(t *testing.T) {
	s, workDir := newTestServer(t, Options{})
	seedImages(t, workDir)
	h := s.Handler()

	rec := getImage(h, "first_frames/bag.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "png-bytes" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Fatalf("unexpected cache control %q", cc)
	}

	rec = getImage(h, `extracted_frames\bag\frame.jpg`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for backslash path, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("unexpected content type %q", ct)
	}

	rec = getImage(h, "/first_frames/./bag.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for normalized path, got %d", rec.Code)
	}
}

func TestLocalImageRejections(t *testing.T) {
	s, workDir := newTestServer(t, Options{})
	seedImages(t, workDir)
	h := s.Handler()

	cases := []struct {
		path string
		code int
	}{
		{"", http.StatusBadRequest},
		{"../../etc/passwd", http.StatusForbidden},
		{"secrets/token.txt", http.StatusForbidden},
		{"first_frames/../secrets/token.txt", http.StatusForbidden},
		{"first_frames/../../etc/passwd", http.StatusForbidden},
		{`..\..\etc\passwd`, http.StatusForbidden},
		{"first_frames_evil/x.png", http.StatusForbidden},
		{"/", http.StatusForbidden},
		{"first_frames/missing.png", http.StatusNotFound},
		{"first_frames", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := getImage(h, tc.path)
		if rec.Code != tc.code {
			t.Fatalf("path %q: expected %d, got %d", tc.path, tc.code, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "secret") {
			t.Fatalf("path %q leaked file content", tc.path)
		}
	}
}

func testDataset() *cards.Dataset {
	return cards.NewDataset([]cards.Record{
		{VideoName: "bag_zoom.mp4", PromptType: "strict", GenerationModel: "sora_2"},
		{VideoName: "ball_drop.mp4", PromptType: "relax", GenerationModel: "veo3.1", InputImage: "first_frames/ball.jpg"},
	}, cards.DefaultIconTable())
}

func TestCardsPage(t *testing.T) {
	s, _ := newTestServer(t, Options{Dataset: testDataset()})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	if doc.Find("[data-card-id]").Length() != 2 {
		t.Fatalf("expected 2 cards, got %d", doc.Find("[data-card-id]").Length())
	}
	if doc.Find("header").Length() != 1 {
		t.Fatal("expected header on the full page")
	}
	src, _ := doc.Find(`[data-card-id="ball_drop-relax"] img.input-image`).Attr("src")
	if !strings.HasPrefix(src, "/api/local-image?path=") {
		t.Fatalf("expected proxied input image, got %q", src)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards?bare=1", nil))
	doc, err = goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse bare page: %v", err)
	}
	if doc.Find("header").Length() != 0 {
		t.Fatal("bare page should hide the header")
	}
}

func TestAuxiliaryRoutes(t *testing.T) {
	iconsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(iconsDir, "veo.png"), []byte("icon"), 0o644); err != nil {
		t.Fatalf("write icon: %v", err)
	}
	core, logs := observer.New(zapcore.InfoLevel)
	s, _ := newTestServer(t, Options{IconsDir: iconsDir, Logger: zap.New(core)})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/cards" {
		t.Fatalf("expected redirect to /cards, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/placeholder.svg", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("unexpected placeholder content type %q", ct)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/icons/veo.png", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "icon" {
		t.Fatalf("unexpected icon response %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 request log entries, got %d", len(entries))
	}
	last := entries[len(entries)-1].ContextMap()
	if last["path"] != "/icons/veo.png" || last["status"] != int64(http.StatusOK) {
		t.Fatalf("unexpected request log fields %v", last)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
