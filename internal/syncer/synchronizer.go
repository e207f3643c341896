package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// State is the synchronizer lifecycle state.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Target is the registry surface the synchronizer mutates.
// Implemented by *registry.Registry.
type Target interface {
	UpsertCustom(e emoji.CustomEntity)
	RemoveCustom(shortcode string) bool
}

// RegisterHook runs after every successful registration, on the
// synchronizer's goroutine.
type RegisterHook func(ctx context.Context, e emoji.CustomEntity)

// Synchronizer mirrors the image files under a folder into the registry.
type Synchronizer struct {
	source     Source
	target     Target
	folder     string
	extensions map[string]bool
	onRegister RegisterHook

	mu      sync.Mutex
	state   State
	handles []Handle
	queue   *eventQueue
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithExtensions replaces the recognized image extensions (without dots).
func WithExtensions(exts ...string) Option {
	return func(s *Synchronizer) {
		s.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			s.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
		}
	}
}

// WithRegisterHook sets a hook called after each registration, e.g. to
// re-attach persisted aliases.
func WithRegisterHook(fn RegisterHook) Option {
	return func(s *Synchronizer) {
		s.onRegister = fn
	}
}

// New creates a stopped synchronizer watching folder within source.
// folder is slash-separated and relative to the source root; "" watches the
// whole source.
func New(source Source, target Target, folder string, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		source: source,
		target: target,
		folder: strings.TrimSuffix(folder, "/"),
		queue:  newEventQueue(),
	}
	s.queue.Close()
	WithExtensions(DefaultExtensions...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Folder returns the watched folder.
func (s *Synchronizer) Folder() string {
	return s.folder
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start reconciles the registry with the folder's current contents and
// subscribes to change notifications. Items that fail to load are logged and
// skipped. Returns an error if the synchronizer is not stopped or the source
// cannot be listed; the state is then left (or reset to) Stopped.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateStopped {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("start synchronizer: already %s", state)
	}
	s.state = StateStarting
	s.queue = newEventQueue()
	s.mu.Unlock()

	slog.Info("synchronizer starting", "folder", s.folder)

	if err := s.Reconcile(ctx); err != nil {
		s.mu.Lock()
		s.state = StateStopped
		s.queue.Close()
		s.mu.Unlock()
		return fmt.Errorf("start synchronizer: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range EventKinds {
		s.handles = append(s.handles, s.source.On(kind, s.enqueue))
	}
	s.state = StateRunning
	slog.Info("synchronizer running", "folder", s.folder, "subscriptions", len(s.handles))
	return nil
}

// Stop releases every subscription and closes the event queue. Events
// already queued are still applied by Run; later notifications are not.
// Registered entities are left in place.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.handles {
		s.source.Off(h)
	}
	s.handles = nil
	s.queue.Close()
	if s.state != StateStopped {
		slog.Info("synchronizer stopped", "folder", s.folder)
	}
	s.state = StateStopped
}

// Reconcile registers every in-scope item currently in the source,
// sequentially. Per-item failures are logged and skipped; only a failure
// to list the source is returned.
func (s *Synchronizer) Reconcile(ctx context.Context) error {
	items, err := s.source.List(ctx)
	if err != nil {
		return fmt.Errorf("list source: %w", err)
	}

	loaded, failed := 0, 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.InScope(item.Path) {
			continue
		}
		if err := s.register(ctx, item); err != nil {
			failed++
			continue
		}
		loaded++
	}

	slog.Info("custom emoji reconciled",
		"folder", s.folder,
		"loaded", loaded,
		"failed", failed,
	)
	return nil
}

// InScope reports whether p lies under the watched folder and has a
// recognized image extension.
func (s *Synchronizer) InScope(p string) bool {
	if s.folder != "" && p != s.folder && !strings.HasPrefix(p, s.folder+"/") {
		return false
	}
	return s.extensions[extension(p)]
}

// enqueue is the Handler subscribed to the source.
func (s *Synchronizer) enqueue(ev Event) {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()

	if !q.Enqueue(ev) {
		slog.Debug("event dropped: synchronizer stopped", "kind", ev.Kind, "path", ev.Item.Path)
	}
}

// Pending returns the number of queued events.
func (s *Synchronizer) Pending() int {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()
	return q.Len()
}

// ProcessPending applies every queued event on the calling goroutine and
// returns how many were applied.
func (s *Synchronizer) ProcessPending(ctx context.Context) int {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()

	n := 0
	for ctx.Err() == nil {
		ev, ok := q.TryDequeue()
		if !ok {
			break
		}
		s.Apply(ctx, ev)
		n++
	}
	return n
}

// Run applies queued events until ctx is cancelled or the synchronizer is
// stopped and its queue drained. Each Start opens a new queue, so after a
// restart the previous Run returns and Run must be called again.
//
// Must be called from exactly one goroutine.
func (s *Synchronizer) Run(ctx context.Context) error {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()

	for {
		if ev, ok := q.TryDequeue(); ok {
			s.Apply(ctx, ev)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.Wait():
			// The signal channel is closed by Stop; return once drained.
			if q.Closed() && q.Len() == 0 {
				return nil
			}
		}
	}
}

// Apply handles a single change notification.
func (s *Synchronizer) Apply(ctx context.Context, ev Event) {
	slog.Debug("applying event",
		"kind", ev.Kind,
		"path", ev.Item.Path,
		"old_path", ev.OldPath,
	)

	switch ev.Kind {
	case EventCreate:
		if s.InScope(ev.Item.Path) {
			_ = s.register(ctx, ev.Item)
		}

	case EventDelete:
		if s.InScope(ev.Item.Path) {
			s.deregister(ShortcodeForPath(ev.Item.Path))
		}

	case EventModify:
		if s.InScope(ev.Item.Path) {
			s.deregister(ShortcodeForPath(ev.Item.Path))
			_ = s.register(ctx, ev.Item)
		}

	case EventRename:
		was := ev.OldPath != "" && s.InScope(ev.OldPath)
		is := s.InScope(ev.Item.Path)
		switch {
		case was && !is:
			s.deregister(ShortcodeForPath(ev.OldPath))
		case !was && is:
			_ = s.register(ctx, ev.Item)
		case was && is:
			s.deregister(ShortcodeForPath(ev.OldPath))
			_ = s.register(ctx, ev.Item)
		}

	default:
		slog.Warn("unknown event kind", "kind", ev.Kind, "path", ev.Item.Path)
	}
}

// register reads item and upserts it as a custom entity with no aliases.
func (s *Synchronizer) register(ctx context.Context, item Item) error {
	data, err := s.source.ReadBinary(ctx, item)
	if err != nil {
		readErr := emoji.NewSourceReadError(item.Path, err)
		slog.Error("failed to load custom emoji", "path", item.Path, "error", readErr)
		return readErr
	}

	name := item.Name
	if name == "" {
		name = ShortcodeForPath(item.Path)
	}
	e := emoji.CustomEntity{
		Shortcode:  NormalizeShortcode(name),
		Aliases:    []string{},
		SourceName: name,
		SourcePath: item.Path,
		Payload:    DataURL(extension(item.Path), data),
		CreatedAt:  item.CreatedAt,
	}
	s.target.UpsertCustom(e)

	if s.onRegister != nil {
		s.onRegister(ctx, e)
	}
	return nil
}

func (s *Synchronizer) deregister(shortcode string) {
	if s.target.RemoveCustom(shortcode) {
		slog.Debug("custom emoji deregistered", "shortcode", shortcode)
	}
}
