package fsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ssoriche/obsidian-slack-emoji/internal/syncer"
)

// DefaultRenameWindow is how long a rename waits for its matching create.
const DefaultRenameWindow = 100 * time.Millisecond

type subscription struct {
	kind    syncer.EventKind
	handler syncer.Handler
}

// Source is a directory-backed syncer.Source.
//
// Thread-safety: all methods are safe for concurrent use. Handlers run on
// the goroutine calling Watch.
type Source struct {
	root         string
	gen          syncer.HandleGenerator
	renameWindow time.Duration

	mu    sync.Mutex
	subs  map[syncer.Handle]subscription
	order []syncer.Handle
}

// Option configures a Source.
type Option func(*Source)

// WithHandleGenerator overrides the UUIDv7 subscription handles.
func WithHandleGenerator(gen syncer.HandleGenerator) Option {
	return func(s *Source) {
		s.gen = gen
	}
}

// WithRenameWindow overrides DefaultRenameWindow.
func WithRenameWindow(d time.Duration) Option {
	return func(s *Source) {
		s.renameWindow = d
	}
}

// New creates a Source rooted at root.
func New(root string, opts ...Option) *Source {
	s := &Source{
		root:         root,
		gen:          syncer.UUIDv7Generator{},
		renameWindow: DefaultRenameWindow,
		subs:         make(map[syncer.Handle]subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory the source is rooted at.
func (s *Source) Root() string {
	return s.root
}

// List walks the root and returns every regular file.
func (s *Source) List(ctx context.Context) ([]syncer.Item, error) {
	var items []syncer.Item
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := s.rel(p)
		if err != nil {
			return err
		}
		items = append(items, syncer.NewItem(rel, info.ModTime()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}
	return items, nil
}

// ReadBinary reads item from disk.
func (s *Source) ReadBinary(ctx context.Context, item syncer.Item) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.abs(item.Path))
}

// On subscribes h to kind.
func (s *Source) On(kind syncer.EventKind, h syncer.Handler) syncer.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := syncer.Handle(s.gen.Generate())
	s.subs[handle] = subscription{kind: kind, handler: h}
	s.order = append(s.order, handle)
	return handle
}

// Off releases a subscription. Unknown handles are ignored.
func (s *Source) Off(h syncer.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[h]; !ok {
		return
	}
	delete(s.subs, h)
	for i, existing := range s.order {
		if existing == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Watch delivers change notifications to subscribers until ctx is
// cancelled. Returns nil on cancellation.
func (s *Source) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if _, err := os.Stat(s.root); err != nil {
		return fmt.Errorf("watch %s: %w", s.root, err)
	}
	if err := s.addTree(w, s.root); err != nil {
		return err
	}
	slog.Info("watching folder", "root", s.root)

	t := &translator{stat: s.modTime}
	var expire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			s.dispatch(t.expire())
			return nil

		case <-expire:
			expire = nil
			s.dispatch(t.expire())

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "root", s.root, "error", err)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			rel, err := s.rel(ev.Name)
			if err != nil {
				slog.Warn("event outside root", "path", ev.Name, "error", err)
				continue
			}

			switch {
			case ev.Has(fsnotify.Create):
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := s.addTree(w, ev.Name); err != nil {
						slog.Warn("failed to watch directory", "path", rel, "error", err)
					}
					s.dispatch(t.expire())
					continue
				}
				s.dispatch(t.create(rel))
				expire = nil
			case ev.Has(fsnotify.Write):
				s.dispatch(t.write(rel))
			case ev.Has(fsnotify.Remove):
				s.dispatch(t.remove(rel))
			case ev.Has(fsnotify.Rename):
				s.dispatch(t.rename(rel))
				expire = time.After(s.renameWindow)
			}
		}
	}
}

func (s *Source) dispatch(events []syncer.Event) {
	for _, ev := range events {
		s.mu.Lock()
		var handlers []syncer.Handler
		for _, h := range s.order {
			if sub := s.subs[h]; sub.kind == ev.Kind {
				handlers = append(handlers, sub.handler)
			}
		}
		s.mu.Unlock()

		slog.Debug("file event", "kind", ev.Kind, "path", ev.Item.Path, "old_path", ev.OldPath)
		for _, fn := range handlers {
			fn(ev)
		}
	}
}

func (s *Source) addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

func (s *Source) rel(p string) (string, error) {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (s *Source) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// modTime stands in for creation time, which the standard file API does
// not expose portably.
func (s *Source) modTime(rel string) time.Time {
	info, err := os.Stat(s.abs(rel))
	if err != nil {
		return time.Now()
	}
	return info.ModTime()
}

var _ syncer.Source = (*Source)(nil)
