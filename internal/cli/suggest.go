package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
	"github.com/ssoriche/obsidian-slack-emoji/internal/suggest"
)

// SuggestOptions holds flags for the suggest command.
type SuggestOptions struct {
	*RootOptions
	Cursor int
	Select int
}

// SuggestResult is the output of the suggest command.
type SuggestResult struct {
	Query       string               `json:"query"`
	Start       int                  `json:"start"`
	End         int                  `json:"end"`
	Suggestions []suggest.Suggestion `json:"suggestions"`

	// Set with --select: the line after accepting a suggestion and the
	// cursor placed after the inserted text.
	Line   string `json:"line,omitempty"`
	Cursor int    `json:"cursor,omitempty"`
}

// RenderText prints one suggestion per line, or the completed line.
func (r SuggestResult) RenderText(w io.Writer) {
	if r.Line != "" {
		fmt.Fprintln(w, r.Line)
		return
	}
	if len(r.Suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions.")
		return
	}
	for _, s := range r.Suggestions {
		preview := s.Preview
		if s.Kind == emoji.KindCustom {
			preview = "[image]"
		}
		fmt.Fprintf(w, "%s %s", preview, s.Insert)
		if s.Label != "" {
			fmt.Fprintf(w, " %q", s.Label)
		}
		fmt.Fprintln(w)
	}
}

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuggestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "suggest <line>",
		Short: "Complete a partially typed :shortcode",
		Long: `Print completions for the ":query" that ends at the cursor.
The cursor is a byte offset into the line and defaults to its end.
With --select N the Nth suggestion is accepted and the completed line is
printed instead.

Exit codes:
  0 - Success
  1 - --select is out of range
  2 - Command error

Examples:
  slackemoji suggest "great work :thu"
  slackemoji suggest "a :ro b" --cursor 5 --format json
  slackemoji suggest "great work :thu" --select 1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Cursor, "cursor", -1, "cursor byte offset (default end of line)")
	cmd.Flags().IntVar(&opts.Select, "select", 0, "accept the Nth suggestion (1-based)")

	return cmd
}

func runSuggest(opts *SuggestOptions, line string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	s, err := openSession(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.Settings.EnableAutocomplete {
		return NewExitError(ExitCommandError, "autocomplete is disabled")
	}

	cursor := opts.Cursor
	if cursor < 0 {
		cursor = len(line)
	}

	sg := suggest.New(s.Registry, s.Settings.AutocompleteMinChars)
	result := SuggestResult{Suggestions: []suggest.Suggestion{}}
	c, ok := sg.Trigger(line, suggest.Position{Ch: cursor})
	if !ok {
		return f.Success(result)
	}

	result.Query = c.Query
	result.Start = c.Start.Ch
	result.End = c.End.Ch
	entities := sg.Suggestions(c)
	for _, e := range entities {
		result.Suggestions = append(result.Suggestions, suggest.Describe(e))
	}

	if opts.Select > 0 {
		if opts.Select > len(entities) {
			return f.Fail(ExitFailure, emoji.NewInvalidInputError(
				fmt.Sprintf("--select %d: only %d suggestions", opts.Select, len(entities))))
		}
		completed, pos := suggest.Select(line, c, entities[opts.Select-1])
		result.Line = completed
		result.Cursor = pos.Ch
	}
	return f.Success(result)
}
