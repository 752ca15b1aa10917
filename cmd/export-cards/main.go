// cmd/export-cards/main.go
// Command export-cards screenshots every card of a running cards page into
// exports/puppeteer. The page URL comes from CARD_EXPORT_URL, which may be set
// in a .env file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mwiater/reasoncards/internal/appconfig"
	cmd "github.com/mwiater/reasoncards/internal/commands"
	"github.com/mwiater/reasoncards/internal/logging"
)

// configEnv names an alternative config file.
const configEnv = "REASONCARDS_CONFIG"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "export-cards: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer) error {
	_ = godotenv.Load()

	cfg, err := appconfig.Load(os.Getenv(configEnv))
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()

	_, err = cmd.RunScreenshots(ctx, &cfg, cfg.CardsPageURL(), out)
	return err
}
