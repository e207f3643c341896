package cli

import (
	"github.com/spf13/cobra"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <shortcode>...",
		Short: "Look up shortcodes or aliases",
		Long: `Look up each shortcode or alias and print the entity it resolves to.
Surrounding colons are optional.

Exit codes:
  0 - Every token resolved
  1 - A token did not resolve
  2 - Command error

Examples:
  slackemoji resolve thumbsup
  slackemoji resolve :+1: :company_logo: --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runResolve(opts *RootOptions, tokens []string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	s, err := openSession(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer s.Close()

	results := make(EntityList, 0, len(tokens))
	for _, raw := range tokens {
		token := trimToken(raw)
		e, ok := s.Registry.Resolve(token)
		if !ok {
			return f.Fail(ExitFailure, emoji.NewNotFoundError(token))
		}
		v := NewEntityView(e)
		v.Token = token
		results = append(results, v)
	}
	return f.Success(results)
}
