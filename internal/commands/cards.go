// internal/commands/cards.go
package reasoncards

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/mwiater/reasoncards/internal/cards"
	"github.com/mwiater/reasoncards/internal/util"
	"github.com/spf13/cobra"
)

var (
	headerText = color.New(color.Bold).SprintFunc()
	highScore  = color.New(color.FgGreen).SprintFunc()
	midScore   = color.New(color.FgYellow).SprintFunc()
	lowScore   = color.New(color.FgRed).SprintFunc()
	passed     = color.New(color.FgGreen).SprintFunc()
	failed     = color.New(color.FgRed).SprintFunc()
)

// cardsCmd groups commands that read the dataset without a browser.
var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Inspect the card dataset",
	Long:  `The 'cards' command groups subcommands that list, inspect, and validate the card dataset.`,
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards with their model and scores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(GetConfig())
		if err != nil {
			return err
		}
		listCards(cmd.OutOrStdout(), ds.Samples)
		return nil
	},
}

var cardsInspectCmd = &cobra.Command{
	Use:   "inspect <card-id>",
	Short: "Pretty-print the view model of one card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(GetConfig())
		if err != nil {
			return err
		}
		sample, err := ds.Find(args[0])
		if err != nil {
			return err
		}
		_, err = pp.Fprintln(cmd.OutOrStdout(), sample)
		return err
	},
}

var cardsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset schema and card id uniqueness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		path := cfg.DatasetPath()

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read dataset %s: %w", path, err)
		}
		icons, err := cards.LoadIconTable(cfg.IconTable)
		if err != nil {
			return err
		}
		ds, err := cards.ParseDataset(data, icons)
		if err != nil {
			fmt.Fprintf(out, "%s %s\n", failed("FAIL"), path)
			return err
		}
		if err := cards.CheckIDs(ds.Samples); err != nil {
			fmt.Fprintf(out, "%s %s\n", failed("FAIL"), path)
			return err
		}
		fmt.Fprintf(out, "%s %s (%d cards)\n", passed("OK"), path, ds.Len())
		return nil
	},
}

// listCards prints one row per card. Padding is applied before colouring so
// the columns stay aligned.
func listCards(out io.Writer, samples []cards.Sample) {
	idWidth, modelWidth := len("CARD ID"), len("MODEL")
	for _, s := range samples {
		idWidth = max(idWidth, len(s.CardID))
		modelWidth = max(modelWidth, len(s.ModelName))
	}
	modelWidth = min(modelWidth, 32)

	fmt.Fprintf(out, "%s  %s  %s  %s  %s\n",
		headerText(fmt.Sprintf("%4s", "ID")),
		headerText(fmt.Sprintf("%-*s", idWidth, "CARD ID")),
		headerText(fmt.Sprintf("%-*s", modelWidth, "MODEL")),
		headerText(fmt.Sprintf("%6s", "FINAL")),
		headerText(fmt.Sprintf("%7s", "TSR")))
	for _, s := range samples {
		final := s.FinalScore()
		fmt.Fprintf(out, "%4d  %-*s  %-*s  %s  %6.1f%%\n",
			s.ID,
			idWidth, s.CardID,
			modelWidth, util.TruncateRunes(s.ModelName, modelWidth),
			scoreColor(final)(fmt.Sprintf("%6.2f", final)),
			s.TSR)
	}
	fmt.Fprintf(out, "\n%d cards\n", len(samples))
}

func scoreColor(final float64) func(a ...interface{}) string {
	switch {
	case final >= 7:
		return highScore
	case final >= 4:
		return midScore
	default:
		return lowScore
	}
}

func init() {
	cardsCmd.AddCommand(cardsListCmd, cardsInspectCmd, cardsValidateCmd)
	rootCmd.AddCommand(cardsCmd)
}
