package cli

import (
	"github.com/spf13/cobra"

	"github.com/ssoriche/obsidian-slack-emoji/internal/registry"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Limit int
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find emoji by substring",
		Long: `Find emoji whose shortcode, aliases or label contain the query,
ignoring case. Standard emoji are listed before custom emoji.

Examples:
  slackemoji search thumb
  slackemoji search logo --limit 5 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", registry.DefaultSearchLimit, "maximum number of results")

	return cmd
}

func runSearch(opts *SearchOptions, query string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	s, err := openSession(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	return f.Success(entityList(s.Registry.Search(trimToken(query), opts.Limit)))
}
