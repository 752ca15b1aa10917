// internal/commands/serve.go
package reasoncards

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mwiater/reasoncards/internal/logging"
	"github.com/mwiater/reasoncards/internal/render"
	"github.com/mwiater/reasoncards/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd runs the cards page, the export endpoint and the image proxy.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cards page and the export endpoint",
	Long: `Serve the rendered cards at /cards, accept rasterized cards on
POST /api/export-card (saved under exported_cards/), and proxy frame images
from the allowed local roots at /api/local-image.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		log := logging.L()

		workDir, err := cfg.WorkDirPath()
		if err != nil {
			return err
		}
		ds, err := loadDataset(cfg)
		if err != nil {
			return err
		}
		warnDuplicateIDs(cmd, ds)

		srv, err := server.New(server.Options{
			Addr:         cfg.ListenAddr(),
			WorkDir:      workDir,
			ExportDir:    cfg.ExportDirName(),
			AllowedRoots: cfg.Roots(),
			IconsDir:     cfg.IconsDirPath(),
			MaxBodyBytes: cfg.MaxBodyBytes(),
			Dataset:      ds,
			Renderer:     render.New(render.Options{LocalRoots: cfg.Roots()}),
			Logger:       log,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Serving %d cards on %s (Ctrl+C to stop)\n", ds.Len(), cfg.ListenAddr())

		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().String("workdir", "", "directory exports and image roots resolve against (default: current directory)")
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("workDir", serveCmd.Flags().Lookup("workdir"))

	rootCmd.AddCommand(serveCmd)
}
