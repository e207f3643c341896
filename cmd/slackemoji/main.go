// Command slackemoji resolves Slack-style :shortcode: emoji from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/ssoriche/obsidian-slack-emoji/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
