// internal/commands/list_commands.go
package reasoncards

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// commandsCmd implements 'show commands', which prints the command tree with
// each command's short description beside it.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printCommandTree(cmd.OutOrStdout(), collectCommands(rootCmd, "", 0))
	},
}

func init() {
	showCmd.AddCommand(commandsCmd)
}

type commandRow struct {
	path  string
	depth int
	short string
}

// collectCommands walks the tree depth-first. Generated help and completion
// commands are left out.
func collectCommands(cmd *cobra.Command, parent string, depth int) []commandRow {
	path := cmd.Name()
	if parent != "" {
		path = parent + " " + path
	}
	rows := []commandRow{{path: path, depth: depth, short: cmd.Short}}
	for _, sub := range cmd.Commands() {
		if sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		rows = append(rows, collectCommands(sub, path, depth+1)...)
	}
	return rows
}

func printCommandTree(out io.Writer, rows []commandRow) {
	width := 0
	for _, r := range rows {
		width = max(width, 2*r.depth+len(r.path))
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, r := range rows {
		label := strings.Repeat("  ", r.depth) + r.path
		fmt.Fprintf(out, "  %-*s  %s\n", width, label, r.short)
	}
}
