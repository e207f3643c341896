package fsource

import (
	"time"

	"github.com/ssoriche/obsidian-slack-emoji/internal/syncer"
)

// translator pairs fsnotify's rename-then-create sequence into a single
// rename event. Not safe for concurrent use; owned by the Watch loop.
type translator struct {
	pending string // old path of an unpaired rename, "" if none
	stat    func(rel string) time.Time
}

// create handles a new file at rel.
func (t *translator) create(rel string) []syncer.Event {
	item := syncer.NewItem(rel, t.stat(rel))
	if t.pending != "" {
		old := t.pending
		t.pending = ""
		return []syncer.Event{{Kind: syncer.EventRename, Item: item, OldPath: old}}
	}
	return []syncer.Event{{Kind: syncer.EventCreate, Item: item}}
}

// rename records rel as the old half of a rename. An earlier unpaired
// rename is flushed as a delete.
func (t *translator) rename(rel string) []syncer.Event {
	out := t.expire()
	t.pending = rel
	return out
}

// remove handles a deleted file.
func (t *translator) remove(rel string) []syncer.Event {
	return append(t.expire(), syncer.Event{Kind: syncer.EventDelete, Item: syncer.NewItem(rel, time.Time{})})
}

// write handles a content change.
func (t *translator) write(rel string) []syncer.Event {
	return append(t.expire(), syncer.Event{Kind: syncer.EventModify, Item: syncer.NewItem(rel, t.stat(rel))})
}

// expire flushes an unpaired rename as a delete: the file left the tree.
func (t *translator) expire() []syncer.Event {
	if t.pending == "" {
		return nil
	}
	old := t.pending
	t.pending = ""
	return []syncer.Event{{Kind: syncer.EventDelete, Item: syncer.NewItem(old, time.Time{})}}
}
