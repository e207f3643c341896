package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep custom emoji in sync with the folder",
		Long: `Load the registry, then follow changes to the custom emoji folder
until interrupted. Each registration re-applies saved aliases from the
metadata database.

Example:
  slackemoji watch --root ~/vault --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(rootOpts, cmd)
		},
	}
	return cmd
}

func runWatch(opts *RootOptions, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.requireCustom(); err != nil {
		return err
	}

	stats := s.Registry.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (%d custom, %d unicode). Press Ctrl-C to stop.\n",
		s.FolderDir(), stats.Custom, stats.Standard)

	if err := watch(ctx, s); err != nil {
		return WrapExitError(ExitFailure, "watch failed", err)
	}

	slog.Info("watch stopped gracefully")
	return nil
}

// watch runs the file watcher and the synchronizer's event loop until ctx
// is cancelled or either fails.
func watch(ctx context.Context, s *Session) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Source.Watch(gctx)
	})
	g.Go(func() error {
		err := s.Sync.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return g.Wait()
}
