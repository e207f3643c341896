package syncer

import (
	"context"
	"path"
	"strings"
	"time"
)

// EventKind identifies a change notification.
type EventKind string

const (
	EventCreate EventKind = "create"
	EventDelete EventKind = "delete"
	EventRename EventKind = "rename"
	EventModify EventKind = "modify"
)

// EventKinds lists every kind the synchronizer subscribes to, in
// subscription order.
var EventKinds = []EventKind{EventCreate, EventDelete, EventRename, EventModify}

// Item is a file in the source. Path is slash-separated and relative to the
// source root.
type Item struct {
	Path      string
	Name      string // base name, e.g. "logo.png"
	Ext       string // lowercase extension without dot, e.g. "png"
	CreatedAt time.Time
}

// NewItem derives Name and Ext from p.
func NewItem(p string, createdAt time.Time) Item {
	return Item{
		Path:      p,
		Name:      path.Base(p),
		Ext:       extension(p),
		CreatedAt: createdAt,
	}
}

// Event is a change notification. OldPath is set for renames only.
type Event struct {
	Kind    EventKind
	Item    Item
	OldPath string
}

// Handler receives change notifications.
type Handler func(Event)

// Handle is the opaque token returned by Source.On.
type Handle string

// HandleGenerator produces subscription handles for Source implementations.
// Implemented by UUIDv7Generator (production) and testutil.FixedGenerator.
type HandleGenerator interface {
	Generate() string
}

// Source is the host's file facility.
type Source interface {
	// List returns every file currently in the source.
	List(ctx context.Context) ([]Item, error)
	// ReadBinary returns the content of item.
	ReadBinary(ctx context.Context, item Item) ([]byte, error)
	// On subscribes h to events of the given kind.
	On(kind EventKind, h Handler) Handle
	// Off releases a subscription. Unknown handles are ignored.
	Off(h Handle)
}

func extension(p string) string {
	ext := path.Ext(p)
	if len(ext) <= 1 {
		return ""
	}
	return strings.ToLower(ext[1:])
}
