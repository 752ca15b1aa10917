package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	width, height := cfg.Browser.Viewport()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Listen Address:   %s\n", cfg.ListenAddr())
	fmt.Fprintf(out, "  Dataset:          %s\n", cfg.DatasetPath())
	if cfg.IconTable != "" {
		fmt.Fprintf(out, "  Icon Table:       %s\n", cfg.IconTable)
	}
	fmt.Fprintf(out, "  Icons Dir:        %s\n", cfg.IconsDirPath())
	fmt.Fprintf(out, "  Export Dir:       %s\n", cfg.ExportDirName())
	fmt.Fprintf(out, "  Screenshot Dir:   %s\n", cfg.ScreenshotDirPath())
	fmt.Fprintf(out, "  Download Dir:     %s\n", cfg.DownloadDirPath())
	fmt.Fprintf(out, "  Allowed Roots:    %v\n", cfg.Roots())
	fmt.Fprintf(out, "  Cards URL:        %s\n", cfg.CardsPageURL())
	fmt.Fprintf(out, "  Server URL:       %s\n", cfg.ExportServerURL())
	fmt.Fprintf(out, "  Max Body:         %d MiB\n", cfg.MaxBodyBytes()>>20)
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintln(out, "  Browser:")
	if cfg.Browser.ControlURL != "" {
		fmt.Fprintf(out, "    Control URL:    %s\n", cfg.Browser.ControlURL)
	} else if cfg.Browser.Bin != "" {
		fmt.Fprintf(out, "    Binary:         %s\n", cfg.Browser.Bin)
	}
	fmt.Fprintf(out, "    Viewport:       %dx%d @%gx\n", width, height, cfg.Browser.Scale())
	fmt.Fprintf(out, "    Navigation:     %s\n", cfg.Browser.NavigationTimeout())
	fmt.Fprintf(out, "    Element Wait:   %s\n", cfg.Browser.ElementTimeout())
	fmt.Fprintf(out, "    Settle Delay:   %s\n", cfg.Browser.SettleDelay())
}
