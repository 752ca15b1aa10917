// internal/browser/session.go
// Package browser drives a headless Chrome through go-rod to screenshot
// rendered cards.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ErrCardNotFound is returned when a card element does not appear before the
// element timeout.
var ErrCardNotFound = errors.New("card element not found")

// Config controls how the browser is obtained and how pages are captured.
type Config struct {
	// ControlURL attaches to a running Chrome. When empty a headless
	// browser is launched, from Bin when set.
	ControlURL        string
	Bin               string
	ShowWindow        bool
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64
	NavigationTimeout time.Duration
	ElementTimeout    time.Duration
	SettleDelay       time.Duration
}

func (c Config) withDefaults() Config {
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1600
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 1200
	}
	if c.DeviceScaleFactor <= 0 {
		c.DeviceScaleFactor = 2
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 60 * time.Second
	}
	if c.ElementTimeout <= 0 {
		c.ElementTimeout = 20 * time.Second
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	return c
}

// Session owns one browser and one page showing the cards.
type Session struct {
	cfg Config
	log *zap.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// New prepares a session. Nothing is started until Open.
func New(cfg Config, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{cfg: cfg.withDefaults(), log: log}
}

// Open connects to (or launches) Chrome, creates a page with the capture
// viewport and a white default background, and loads url.
func (s *Session) Open(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		return errors.New("browser session already open")
	}

	controlURL := s.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(!s.cfg.ShowWindow)
		if s.cfg.Bin != "" {
			l = l.Bin(s.cfg.Bin)
		}
		u, err := l.Context(ctx).Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		s.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		s.killLocked()
		return fmt.Errorf("connect to chrome: %w", err)
	}
	s.browser = b

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.closeLocked()
		return fmt.Errorf("create page: %w", err)
	}
	s.page = page

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.ViewportWidth,
		Height:            s.cfg.ViewportHeight,
		DeviceScaleFactor: s.cfg.DeviceScaleFactor,
	}); err != nil {
		s.closeLocked()
		return fmt.Errorf("set viewport: %w", err)
	}
	alpha := 1.0
	if err := (proto.EmulationSetDefaultBackgroundColorOverride{
		Color: &proto.DOMRGBA{R: 255, G: 255, B: 255, A: &alpha},
	}).Call(page); err != nil {
		s.log.Warn("failed to force white background", zap.Error(err))
	}

	nav := page.Context(ctx).Timeout(s.cfg.NavigationTimeout)
	if err := nav.Navigate(url); err != nil {
		s.closeLocked()
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := nav.WaitLoad(); err != nil {
		s.closeLocked()
		return fmt.Errorf("wait for %s: %w", url, err)
	}

	s.log.Debug("browser page loaded",
		zap.String("url", url),
		zap.Int("width", s.cfg.ViewportWidth),
		zap.Int("height", s.cfg.ViewportHeight),
		zap.Float64("scale", s.cfg.DeviceScaleFactor),
	)
	return nil
}

// Rasterize waits for the card element, scrolls it to the centre of the
// viewport, lets lazy images settle and returns a PNG of the element.
func (s *Session) Rasterize(ctx context.Context, cardID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return nil, errors.New("browser session is not open")
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.ElementTimeout)
	el, err := s.page.Context(waitCtx).Element(CardSelector(cardID))
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
		}
		return nil, fmt.Errorf("find card %s: %w", cardID, err)
	}
	el = el.Context(ctx)

	if _, err := el.Eval(`() => this.scrollIntoView({block: "center", inline: "center"})`); err != nil {
		return nil, fmt.Errorf("scroll card %s: %w", cardID, err)
	}
	if s.cfg.SettleDelay > 0 {
		select {
		case <-time.After(s.cfg.SettleDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("screenshot card %s: %w", cardID, err)
	}
	return data, nil
}

// Close releases the page and browser, and stops a launched Chrome.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	s.page = nil
	s.killLocked()
	return err
}

func (s *Session) killLocked() {
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
}

// CardSelector builds the attribute selector addressing a card.
func CardSelector(cardID string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(cardID)
	return `[data-card-id="` + escaped + `"]`
}
