// internal/commands/show_config.go
package reasoncards

import (
	"github.com/mwiater/reasoncards/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display configuration and command information.`,
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := *GetConfig()
		if f := cmd.Flags().Lookup("url"); f != nil && f.Changed {
			cfg.CardsURL = f.Value.String()
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
