// cmd/reasoncards/main.go
package main

import (
	cmd "github.com/mwiater/reasoncards/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the reasoncards CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
