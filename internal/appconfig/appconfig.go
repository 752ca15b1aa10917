// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// CardsURLEnv overrides the page the browser-driven exporters load.
	CardsURLEnv = "CARD_EXPORT_URL"

	defaultAddr          = ":3000"
	defaultDataset       = "data/card_data_merged.json"
	defaultIconsDir      = "public/icons"
	defaultExportDir     = "exported_cards"
	defaultScreenshotDir = "exports/puppeteer"
	defaultCardsURL      = "http://localhost:3000/cards?bare=1"
	defaultServerURL     = "http://localhost:3000"
	defaultMaxBodyMB     = 32
	defaultLogFile       = "reasoncards.log"

	defaultViewportWidth     = 1600
	defaultViewportHeight    = 1200
	defaultDeviceScale       = 2.0
	defaultNavigationTimeout = 60 * time.Second
	defaultElementTimeout    = 20 * time.Second
	defaultSettleDelay       = 300 * time.Millisecond
)

var defaultAllowedRoots = []string{"first_frames", "extracted_frames"}

// Config represents the top-level application configuration.
type Config struct {
	Addr          string        `json:"addr" mapstructure:"addr"`
	Debug         bool          `json:"debug" mapstructure:"debug"`
	LogFile       string        `json:"logFile,omitempty" mapstructure:"logFile"`
	WorkDir       string        `json:"workDir,omitempty" mapstructure:"workDir"`
	Dataset       string        `json:"dataset,omitempty" mapstructure:"dataset"`
	IconTable     string        `json:"iconTable,omitempty" mapstructure:"iconTable"`
	IconsDir      string        `json:"iconsDir,omitempty" mapstructure:"iconsDir"`
	ExportDir     string        `json:"exportDir,omitempty" mapstructure:"exportDir"`
	ScreenshotDir string        `json:"screenshotDir,omitempty" mapstructure:"screenshotDir"`
	DownloadDir   string        `json:"downloadDir,omitempty" mapstructure:"downloadDir"`
	AllowedRoots  []string      `json:"allowedRoots,omitempty" mapstructure:"allowedRoots"`
	CardsURL      string        `json:"cardsURL,omitempty" mapstructure:"cardsURL"`
	ServerURL     string        `json:"serverURL,omitempty" mapstructure:"serverURL"`
	MaxBodyMB     int           `json:"maxBodyMB,omitempty" mapstructure:"maxBodyMB"`
	Browser       BrowserConfig `json:"browser" mapstructure:"browser"`
	ConfigPath    string        `json:"-" mapstructure:"-"`
}

// BrowserConfig holds the headless browser settings shared by the
// browser-driven exporters.
type BrowserConfig struct {
	Bin                      string  `json:"bin,omitempty" mapstructure:"bin"`
	ControlURL               string  `json:"controlURL,omitempty" mapstructure:"controlURL"`
	ShowWindow               bool    `json:"showWindow,omitempty" mapstructure:"showWindow"`
	ViewportWidth            int     `json:"viewportWidth,omitempty" mapstructure:"viewportWidth"`
	ViewportHeight           int     `json:"viewportHeight,omitempty" mapstructure:"viewportHeight"`
	DeviceScaleFactor        float64 `json:"deviceScaleFactor,omitempty" mapstructure:"deviceScaleFactor"`
	NavigationTimeoutSeconds int     `json:"navigationTimeout,omitempty" mapstructure:"navigationTimeout"`
	ElementTimeoutSeconds    int     `json:"elementTimeout,omitempty" mapstructure:"elementTimeout"`
	SettleMillis             int     `json:"settleMillis,omitempty" mapstructure:"settleMillis"`
}

// ListenAddr returns the HTTP listen address.
func (c Config) ListenAddr() string {
	return orDefault(c.Addr, defaultAddr)
}

// DatasetPath returns the path to the record dataset.
func (c Config) DatasetPath() string {
	return orDefault(c.Dataset, defaultDataset)
}

// IconsDirPath returns the directory served under /icons/.
func (c Config) IconsDirPath() string {
	return orDefault(c.IconsDir, defaultIconsDir)
}

// ExportDirName returns the directory, relative to the working directory,
// that the export endpoint writes into.
func (c Config) ExportDirName() string {
	return orDefault(c.ExportDir, defaultExportDir)
}

// ScreenshotDirPath returns the batch screenshot output directory.
func (c Config) ScreenshotDirPath() string {
	return orDefault(c.ScreenshotDir, defaultScreenshotDir)
}

// DownloadDirPath returns where local exports are written.
func (c Config) DownloadDirPath() string {
	return orDefault(c.DownloadDir, ".")
}

// Roots returns the directory names the image proxy may serve from.
func (c Config) Roots() []string {
	if len(c.AllowedRoots) == 0 {
		return append([]string(nil), defaultAllowedRoots...)
	}
	return append([]string(nil), c.AllowedRoots...)
}

// CardsPageURL returns the cards page loaded by the browser-driven
// exporters. The CARD_EXPORT_URL environment variable takes precedence.
func (c Config) CardsPageURL() string {
	if env := strings.TrimSpace(os.Getenv(CardsURLEnv)); env != "" {
		return env
	}
	return orDefault(c.CardsURL, defaultCardsURL)
}

// ExportServerURL returns the base URL of the server hosting /api/export-card.
func (c Config) ExportServerURL() string {
	return strings.TrimRight(orDefault(c.ServerURL, defaultServerURL), "/")
}

// MaxBodyBytes returns the export request body limit.
func (c Config) MaxBodyBytes() int64 {
	if c.MaxBodyMB <= 0 {
		return defaultMaxBodyMB << 20
	}
	return int64(c.MaxBodyMB) << 20
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	return orDefault(c.LogFile, defaultLogFile)
}

// WorkDirPath returns the directory export paths are resolved against,
// defaulting to the process working directory.
func (c Config) WorkDirPath() (string, error) {
	if dir := strings.TrimSpace(c.WorkDir); dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// Viewport returns the browser viewport size.
func (b BrowserConfig) Viewport() (int, int) {
	w, h := b.ViewportWidth, b.ViewportHeight
	if w <= 0 {
		w = defaultViewportWidth
	}
	if h <= 0 {
		h = defaultViewportHeight
	}
	return w, h
}

// Scale returns the device pixel ratio used for rasterization.
func (b BrowserConfig) Scale() float64 {
	if b.DeviceScaleFactor <= 0 {
		return defaultDeviceScale
	}
	return b.DeviceScaleFactor
}

// NavigationTimeout bounds page loads.
func (b BrowserConfig) NavigationTimeout() time.Duration {
	if b.NavigationTimeoutSeconds <= 0 {
		return defaultNavigationTimeout
	}
	return time.Duration(b.NavigationTimeoutSeconds) * time.Second
}

// ElementTimeout bounds the wait for a card element.
func (b BrowserConfig) ElementTimeout() time.Duration {
	if b.ElementTimeoutSeconds <= 0 {
		return defaultElementTimeout
	}
	return time.Duration(b.ElementTimeoutSeconds) * time.Second
}

// SettleDelay is the pause after scrolling a card into view.
func (b BrowserConfig) SettleDelay() time.Duration {
	if b.SettleMillis < 0 {
		return 0
	}
	if b.SettleMillis == 0 {
		return defaultSettleDelay
	}
	return time.Duration(b.SettleMillis) * time.Millisecond
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

// Load reads the application configuration from path. A missing file at the
// default path yields the zero Config, whose accessors supply defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
