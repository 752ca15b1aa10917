// internal/commands/export.go
package reasoncards

import (
	"context"
	"fmt"

	"github.com/mwiater/reasoncards/cli"
	"github.com/mwiater/reasoncards/internal/appconfig"
	"github.com/mwiater/reasoncards/internal/browser"
	"github.com/mwiater/reasoncards/internal/export"
	"github.com/mwiater/reasoncards/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exportCmd groups the browser-driven export pathways.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export rendered cards to PNG",
	Long: `Export rasterizes cards from the cards page in a headless browser.
'card' writes one card locally, 'save' sends one card to the export endpoint,
and 'all' sends every card in dataset order, stopping at the first failure.`,
}

var exportCardCmd = &cobra.Command{
	Use:   "card <card-id>",
	Short: "Rasterize one card and save it locally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		return withSession(cmd, cfg, func(ctx context.Context, s *browser.Session) error {
			exp := &export.LocalExporter{Rasterizer: s, Dir: cfg.DownloadDirPath(), Log: logging.L()}
			path, err := exp.Export(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		})
	},
}

var exportSaveCmd = &cobra.Command{
	Use:   "save <card-id>",
	Short: "Rasterize one card and save it through the export endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		filename, _ := cmd.Flags().GetString("filename")
		if filename == "" {
			filename = args[0] + ".png"
		}
		return withSession(cmd, cfg, func(ctx context.Context, s *browser.Session) error {
			up := export.NewUploader(s, export.NewClient(cfg.ExportServerURL(), nil))
			path, err := up.Save(ctx, args[0], filename)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		})
	},
}

var exportAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Send every card to the export endpoint in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		plain, _ := cmd.Flags().GetBool("plain")

		ds, err := loadDataset(cfg)
		if err != nil {
			return err
		}
		warnDuplicateIDs(cmd, ds)

		client := export.NewClient(cfg.ExportServerURL(), nil)
		out := cmd.OutOrStdout()

		return withSession(cmd, cfg, func(ctx context.Context, s *browser.Session) error {
			if plain {
				batch := export.NewBatchUploader(s, client, func(p export.Progress) {
					fmt.Fprintf(out, "[%d/%d] %s\n", p.Processed, p.Total, p.Status)
				}, logging.L())
				_, err := batch.Run(ctx, ds.Samples)
				return err
			}

			_, err := cli.RunProgress(ctx, fmt.Sprintf("Exporting %d cards", ds.Len()), func(ctx context.Context, report export.ProgressFunc) (export.Report, error) {
				return export.NewBatchUploader(s, client, report, nil).Run(ctx, ds.Samples)
			})
			return err
		})
	},
}

// withSession opens a browser on the cards page for the duration of fn.
func withSession(cmd *cobra.Command, cfg *appconfig.Config, fn func(ctx context.Context, s *browser.Session) error) error {
	ctx := cmd.Context()
	session := browser.New(browserConfig(cfg), logging.L())
	defer session.Close()

	if err := session.Open(ctx, cardsURL(cmd, cfg)); err != nil {
		return err
	}
	return fn(ctx, session)
}

func init() {
	exportCardCmd.Flags().String("out", "", "directory the PNG is written to (default: current directory)")
	_ = viper.BindPFlag("downloadDir", exportCardCmd.Flags().Lookup("out"))

	exportSaveCmd.Flags().String("filename", "", "filename requested from the server (default: <card-id>.png)")

	exportAllCmd.Flags().Bool("plain", false, "print progress lines instead of the interactive view")

	exportCmd.PersistentFlags().String("server", "", "export server base URL (default http://localhost:3000)")
	_ = viper.BindPFlag("serverURL", exportCmd.PersistentFlags().Lookup("server"))

	exportCmd.AddCommand(exportCardCmd, exportSaveCmd, exportAllCmd)
	rootCmd.AddCommand(exportCmd)
}
