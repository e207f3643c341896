package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
	"github.com/ssoriche/obsidian-slack-emoji/internal/syncer"
)

var validAlias = regexp.MustCompile(`^[A-Za-z0-9_+-]+$`)

// validFileName rejects names that would leave the emoji folder.
func validFileName(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Name string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <image>",
		Short: "Copy an image into the custom emoji folder",
		Long: `Copy an image into the custom emoji folder and register it. The
shortcode is derived from the file name, or from --name.

Examples:
  slackemoji add ~/Downloads/party-parrot.gif
  slackemoji add logo.png --name company_logo`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "file name (without extension) to store the image as")

	return cmd
}

func runAdd(opts *AddOptions, image string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	if opts.Name != "" && !validFileName(opts.Name) {
		return f.Fail(ExitCommandError, emoji.NewInvalidInputError(
			fmt.Sprintf("invalid --name %q: must be a plain file name", opts.Name)))
	}

	s, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireCustom(); err != nil {
		return err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(image), "."))
	if !supportedExtension(ext) {
		return f.Fail(ExitCommandError, emoji.NewInvalidInputError(
			fmt.Sprintf("unsupported image type %q: must be one of %v", ext, syncer.DefaultExtensions)))
	}

	name := filepath.Base(image)
	if opts.Name != "" {
		name = opts.Name + filepath.Ext(image)
	}
	rel := path.Join(s.FolderPath(), name)
	dest := filepath.Join(s.Settings.Root, filepath.FromSlash(rel))

	if _, err := os.Stat(dest); err == nil {
		return f.Fail(ExitCommandError, emoji.NewInvalidInputError(fmt.Sprintf("%s already exists", rel)))
	}

	data, err := os.ReadFile(image)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read image", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create emoji folder", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write image", err)
	}

	s.Sync.Apply(ctx, syncer.Event{Kind: syncer.EventCreate, Item: syncer.NewItem(rel, time.Now())})
	e, ok := s.Registry.CustomByPath(rel)
	if !ok {
		_ = os.Remove(dest)
		return f.Fail(ExitFailure, emoji.NewSourceReadError(rel, errors.New("image was not registered")))
	}
	if err := s.Store.SaveMetadata(ctx, e.Metadata()); err != nil {
		return WrapExitError(ExitCommandError, "failed to save metadata", err)
	}

	return f.Success(EntityList{NewEntityView(e)})
}

func supportedExtension(ext string) bool {
	for _, e := range syncer.DefaultExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <shortcode>",
		Short: "Delete a custom emoji and its image",
		Long: `Delete the image behind a custom emoji, deregister it, and forget
its saved aliases.

Example:
  slackemoji remove party_parrot`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, trimToken(args[0]), cmd)
		},
	}
	return cmd
}

func runRemove(opts *RootOptions, shortcode string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)
	ctx := cmd.Context()

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireCustom(); err != nil {
		return err
	}

	e, ok := s.customEntity(shortcode)
	if !ok {
		return f.Fail(ExitFailure, emoji.NewNotFoundError(shortcode))
	}

	err = os.Remove(filepath.Join(s.Settings.Root, filepath.FromSlash(e.SourcePath)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return WrapExitError(ExitCommandError, "failed to delete image", err)
	}
	s.Sync.Apply(ctx, syncer.Event{Kind: syncer.EventDelete, Item: syncer.NewItem(e.SourcePath, e.CreatedAt)})

	if err := s.Store.DeleteMetadata(ctx, e.Shortcode); err != nil && !emoji.IsNotFound(err) {
		return WrapExitError(ExitCommandError, "failed to delete metadata", err)
	}

	return f.Success(EntityList{NewEntityView(e)})
}

// NewAliasCommand creates the alias command.
func NewAliasCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias <shortcode> [alias]...",
		Short: "Set the aliases of a custom emoji",
		Long: `Replace the aliases of a custom emoji. The list is saved and
re-applied whenever the image is registered again. With no aliases the
list is cleared.

Examples:
  slackemoji alias company_logo logo brand
  slackemoji alias company_logo`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlias(rootOpts, trimToken(args[0]), args[1:], cmd)
		},
	}
	return cmd
}

func runAlias(opts *RootOptions, shortcode string, rawAliases []string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)
	ctx := cmd.Context()

	aliases := make([]string, 0, len(rawAliases))
	for _, raw := range rawAliases {
		a := trimToken(raw)
		if !validAlias.MatchString(a) {
			return f.Fail(ExitCommandError, emoji.NewInvalidInputError(fmt.Sprintf("invalid alias %q", raw)))
		}
		aliases = append(aliases, a)
	}

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireCustom(); err != nil {
		return err
	}

	e, ok := s.customEntity(shortcode)
	if !ok {
		return f.Fail(ExitFailure, emoji.NewNotFoundError(shortcode))
	}

	// Images dropped into the folder by hand have no record yet.
	err = s.Store.SetAliases(ctx, e.Shortcode, aliases)
	if emoji.IsNotFound(err) {
		m := e.Metadata()
		m.Aliases = aliases
		err = s.Store.SaveMetadata(ctx, m)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to save metadata", err)
	}
	s.Registry.PatchCustom(e.Shortcode, emoji.CustomPatch{Aliases: aliases})

	updated, _ := s.customEntity(e.Shortcode)
	return f.Success(EntityList{NewEntityView(updated)})
}

// customEntity finds the registered custom entity with the given canonical
// shortcode.
func (s *Session) customEntity(shortcode string) (emoji.CustomEntity, bool) {
	for _, e := range s.Registry.Custom() {
		if e.Shortcode == shortcode {
			return e, true
		}
	}
	return emoji.CustomEntity{}, false
}
