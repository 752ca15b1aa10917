// internal/commands/common.go
package reasoncards

import (
	"fmt"

	"github.com/mwiater/reasoncards/internal/appconfig"
	"github.com/mwiater/reasoncards/internal/browser"
	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/logging"
	"github.com/spf13/cobra"
)

// loadDataset reads the configured dataset and icon table.
func loadDataset(cfg *appconfig.Config) (*cards.Dataset, error) {
	icons, err := cards.LoadIconTable(cfg.IconTable)
	if err != nil {
		return nil, err
	}
	ds, err := cards.LoadDataset(cfg.DatasetPath(), icons)
	if err != nil {
		return nil, err
	}
	logging.LogEvent("loaded %d cards from %s (%d icons)", ds.Len(), ds.Path, icons.Len())
	return ds, nil
}

// browserConfig maps the application browser settings onto a session config.
func browserConfig(cfg *appconfig.Config) browser.Config {
	w, h := cfg.Browser.Viewport()
	return browser.Config{
		ControlURL:        cfg.Browser.ControlURL,
		Bin:               cfg.Browser.Bin,
		ShowWindow:        cfg.Browser.ShowWindow,
		ViewportWidth:     w,
		ViewportHeight:    h,
		DeviceScaleFactor: cfg.Browser.Scale(),
		NavigationTimeout: cfg.Browser.NavigationTimeout(),
		ElementTimeout:    cfg.Browser.ElementTimeout(),
		SettleDelay:       cfg.Browser.SettleDelay(),
	}
}

// cardsURL returns the page the browser loads: --url, then the environment,
// then the config file.
func cardsURL(cmd *cobra.Command, cfg *appconfig.Config) string {
	if f := cmd.Flags().Lookup("url"); f != nil && f.Changed {
		return f.Value.String()
	}
	return cfg.CardsPageURL()
}

// warnDuplicateIDs prints a warning when card ids collide. Lookups by id then
// only ever reach the first card.
func warnDuplicateIDs(cmd *cobra.Command, ds *cards.Dataset) {
	if err := cards.CheckIDs(ds.Samples); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}
