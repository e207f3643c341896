package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ssoriche/obsidian-slack-emoji/internal/syncer"
)

// BaseTime is the CreatedAt of the first file added to a MemorySource.
// Each later file is one second newer.
var BaseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type memFile struct {
	data      []byte
	createdAt time.Time
}

type subscription struct {
	kind    syncer.EventKind
	handler syncer.Handler
}

// MemorySource is an in-memory syncer.Source.
//
// Mutators (Create, Write, Remove, Rename) change the file set and then
// deliver the matching event synchronously to every subscriber, in
// subscription order. Put changes the file set silently.
//
// Thread-safety: all methods are safe for concurrent use. Handlers are
// invoked without the internal lock held.
type MemorySource struct {
	mu        sync.Mutex
	gen       syncer.HandleGenerator
	files     map[string]memFile
	added     int
	readFails map[string]error
	listErr   error
	subs      map[syncer.Handle]subscription
	subOrder  []syncer.Handle
}

// NewMemorySource creates an empty source. A nil gen uses a
// SequenceGenerator with prefix "handle".
func NewMemorySource(gen syncer.HandleGenerator) *MemorySource {
	if gen == nil {
		gen = NewSequenceGenerator("handle")
	}
	return &MemorySource{
		gen:       gen,
		files:     make(map[string]memFile),
		readFails: make(map[string]error),
		subs:      make(map[syncer.Handle]subscription),
	}
}

// Put stores a file without emitting an event.
func (m *MemorySource) Put(path string, data []byte) syncer.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(path, data)
}

func (m *MemorySource) putLocked(path string, data []byte) syncer.Item {
	f, ok := m.files[path]
	if !ok {
		f.createdAt = BaseTime.Add(time.Duration(m.added) * time.Second)
		m.added++
	}
	f.data = append([]byte(nil), data...)
	m.files[path] = f
	return syncer.NewItem(path, f.createdAt)
}

// Create stores a file and emits a create event.
func (m *MemorySource) Create(path string, data []byte) {
	m.mu.Lock()
	item := m.putLocked(path, data)
	m.mu.Unlock()

	m.Emit(syncer.Event{Kind: syncer.EventCreate, Item: item})
}

// Write replaces a file's content and emits a modify event.
func (m *MemorySource) Write(path string, data []byte) {
	m.mu.Lock()
	item := m.putLocked(path, data)
	m.mu.Unlock()

	m.Emit(syncer.Event{Kind: syncer.EventModify, Item: item})
}

// Remove deletes a file and emits a delete event. The event is emitted even
// if the file was unknown.
func (m *MemorySource) Remove(path string) {
	m.mu.Lock()
	f := m.files[path]
	delete(m.files, path)
	m.mu.Unlock()

	m.Emit(syncer.Event{Kind: syncer.EventDelete, Item: syncer.NewItem(path, f.createdAt)})
}

// Rename moves a file and emits a rename event carrying the old path.
func (m *MemorySource) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	f, ok := m.files[oldPath]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("rename %s: no such file", oldPath)
	}
	delete(m.files, oldPath)
	m.files[newPath] = f
	m.mu.Unlock()

	m.Emit(syncer.Event{
		Kind:    syncer.EventRename,
		Item:    syncer.NewItem(newPath, f.createdAt),
		OldPath: oldPath,
	})
	return nil
}

// FailRead makes ReadBinary fail for path with err. A nil err clears it.
func (m *MemorySource) FailRead(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.readFails, path)
		return
	}
	m.readFails[path] = err
}

// FailList makes List fail with err. A nil err clears it.
func (m *MemorySource) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// Emit delivers ev to every subscriber of ev.Kind.
func (m *MemorySource) Emit(ev syncer.Event) {
	m.mu.Lock()
	var handlers []syncer.Handler
	for _, h := range m.subOrder {
		if sub := m.subs[h]; sub.kind == ev.Kind {
			handlers = append(handlers, sub.handler)
		}
	}
	m.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// Subscriptions returns the number of live subscriptions.
func (m *MemorySource) Subscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// List returns every file sorted by path.
func (m *MemorySource) List(ctx context.Context) ([]syncer.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	items := make([]syncer.Item, 0, len(m.files))
	for p, f := range m.files {
		items = append(items, syncer.NewItem(p, f.createdAt))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// ReadBinary returns a copy of the file's content.
func (m *MemorySource) ReadBinary(ctx context.Context, item syncer.Item) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.readFails[item.Path]; ok {
		return nil, err
	}
	f, ok := m.files[item.Path]
	if !ok {
		return nil, fmt.Errorf("read %s: no such file", item.Path)
	}
	return append([]byte(nil), f.data...), nil
}

// On subscribes h to kind.
func (m *MemorySource) On(kind syncer.EventKind, h syncer.Handler) syncer.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	handle := syncer.Handle(m.gen.Generate())
	m.subs[handle] = subscription{kind: kind, handler: h}
	m.subOrder = append(m.subOrder, handle)
	return handle
}

// Off releases a subscription. Unknown handles are ignored.
func (m *MemorySource) Off(h syncer.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subs[h]; !ok {
		return
	}
	delete(m.subs, h)
	for i, existing := range m.subOrder {
		if existing == h {
			m.subOrder = append(m.subOrder[:i], m.subOrder[i+1:]...)
			break
		}
	}
}

var _ syncer.Source = (*MemorySource)(nil)
