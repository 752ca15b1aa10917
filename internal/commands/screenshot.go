// internal/commands/screenshot.go
package reasoncards

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/reasoncards/internal/appconfig"
	"github.com/mwiater/reasoncards/internal/browser"
	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/export"
	"github.com/mwiater/reasoncards/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// screenshotCmd runs the batch screenshot driver in-process.
var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Screenshot every card into numbered PNG files",
	Long: `Screenshot loads the cards page in a headless browser and writes one
NNN_<name>.png per card into exports/puppeteer. Cards that never appear are
skipped with a warning; any other failure stops the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		_, err := RunScreenshots(cmd.Context(), cfg, cardsURL(cmd, cfg), cmd.OutOrStdout())
		return err
	},
}

// RunScreenshots screenshots every card of the configured dataset from url
// and prints one line per card to out.
func RunScreenshots(ctx context.Context, cfg *appconfig.Config, url string, out io.Writer) (export.Report, error) {
	ds, err := loadDataset(cfg)
	if err != nil {
		return export.Report{}, err
	}
	if err := cards.CheckIDs(ds.Samples); err != nil {
		fmt.Fprintf(out, "%s %v\n", color.YellowString("warning:"), err)
	}

	session := browser.New(browserConfig(cfg), logging.L())
	defer session.Close()

	fmt.Fprintf(out, "Loading %s\n", url)
	if err := session.Open(ctx, url); err != nil {
		return export.Report{}, err
	}

	shots := &export.Screenshotter{
		Rasterizer: session,
		Dir:        cfg.ScreenshotDirPath(),
		OnProgress: func(p export.Progress) { printProgress(out, p) },
		Log:        logging.L(),
	}
	rep, err := shots.Run(ctx, ds.Samples)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", color.RedString("failed:"), err)
		return rep, err
	}

	summary := fmt.Sprintf("%d exported", len(rep.Exported))
	if n := len(rep.Skipped); n > 0 {
		summary += ", " + color.YellowString("%d skipped", n)
	}
	fmt.Fprintf(out, "%s %s into %s\n", color.GreenString("done:"), summary, cfg.ScreenshotDirPath())
	return rep, nil
}

func printProgress(out io.Writer, p export.Progress) {
	counter := color.CyanString("[%d/%d]", p.Processed, p.Total)
	status := p.Status
	if strings.HasPrefix(status, "skipped") {
		status = color.YellowString("%s", status)
	}
	fmt.Fprintf(out, "%s %s\n", counter, status)
}

func init() {
	screenshotCmd.Flags().String("out", "", "output directory (default exports/puppeteer)")
	_ = viper.BindPFlag("screenshotDir", screenshotCmd.Flags().Lookup("out"))

	rootCmd.AddCommand(screenshotCmd)
}
