package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssoriche/obsidian-slack-emoji/internal/registry"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Verify bool
}

// StatsResult is the output of the stats command.
type StatsResult struct {
	registry.Stats
	Verified bool `json:"verified,omitempty"`
	// Saved alias records matched to registered entities (--verify only).
	Reattached int `json:"reattached,omitempty"`
}

// RenderText prints the counts.
func (r StatsResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "unicode: %d\n", r.Standard)
	fmt.Fprintf(w, "custom: %d\n", r.Custom)
	fmt.Fprintf(w, "aliases: %d\n", r.Aliases)
	if r.Verified {
		fmt.Fprintf(w, "saved aliases attached: %d\n", r.Reattached)
		fmt.Fprintln(w, "✓ Alias index verified")
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print registry counts",
		Long: `Print the number of standard and custom emoji and indexed aliases.

With --verify, the metadata database is pinged, saved aliases are applied
to their emoji again, and the alias index is rebuilt from the registered
entities and compared with the live index.

Exit codes:
  0 - Success
  1 - The alias index does not match the entities
  2 - Command error

Examples:
  slackemoji stats
  slackemoji stats --verify --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "check the alias index against the entities")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	s, err := openSession(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()
	f.VerboseLog("session: %s", s)

	result := StatsResult{Stats: s.Registry.Stats()}
	if opts.Verify {
		if s.Store != nil {
			if err := s.Store.Ping(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "database unavailable", err)
			}
			n, err := s.Store.Reattach(cmd.Context(), s.Registry)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read saved aliases", err)
			}
			result.Reattached = n
			result.Stats = s.Registry.Stats()
		}
		if err := s.Registry.VerifyIndex(); err != nil {
			if outErr := f.Error(CodeIndex, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitFailure, "alias index mismatch", err)
		}
		result.Verified = true
	}
	return f.Success(result)
}
