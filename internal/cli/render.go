package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
	"github.com/ssoriche/obsidian-slack-emoji/internal/render"
	"github.com/ssoriche/obsidian-slack-emoji/internal/scanner"
)

// Render modes.
const (
	ModeLive   = "live"
	ModeStatic = "static"
	ModeText   = "text"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Mode string
}

// RenderResult is the output of the render command.
type RenderResult struct {
	Mode string `json:"mode"`
	HTML string `json:"html,omitempty"`
	Text string `json:"text,omitempty"` // text mode only
}

// RenderText prints the rendered document as is.
func (r RenderResult) RenderText(w io.Writer) {
	fmt.Fprint(w, r.HTML+r.Text)
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Replace shortcodes with emoji elements",
		Long: `Replace every resolvable :shortcode: with an emoji element.

In live mode the input is a Markdown document; code spans, fenced blocks
and escapes are left alone. In static mode the input is an HTML fragment;
text inside <code> and <pre> is left alone. In text mode standard emoji
are replaced by their characters and custom emoji are kept as typed.
Reads stdin when no file is given.

Examples:
  slackemoji render notes/today.md
  echo '<p>ship it :rocket:</p>' | slackemoji render --mode static
  echo 'ship it :rocket:' | slackemoji render --mode text`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", ModeLive, "input kind (live|static|text)")

	return cmd
}

func runRender(opts *RenderOptions, args []string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	switch opts.Mode {
	case ModeLive, ModeStatic, ModeText:
	default:
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid mode %q: must be %s, %s or %s", opts.Mode, ModeLive, ModeStatic, ModeText))
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	s, err := openSession(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	sc := scanner.New(s.Registry)
	result := RenderResult{Mode: opts.Mode}
	switch opts.Mode {
	case ModeLive:
		result.HTML = render.NewLiveView(sc, input).Render()
	case ModeStatic:
		out, err := render.NewStaticView(sc).Render(input)
		if err != nil {
			return f.Fail(ExitCommandError, err)
		}
		result.HTML = out
	case ModeText:
		result.Text = sc.Replace(input, plainText)
	}
	return f.Success(result)
}

// plainText is the text-mode substitution for a match.
func plainText(m scanner.Match) string {
	if e, ok := m.Entity.(emoji.StandardEntity); ok {
		return e.Glyph
	}
	return emoji.Display(m.Token)
}

// readInput reads the named file, or stdin when args is empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}
