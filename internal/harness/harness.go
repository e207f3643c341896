package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
	"github.com/ssoriche/obsidian-slack-emoji/internal/registry"
	"github.com/ssoriche/obsidian-slack-emoji/internal/syncer"
	"github.com/ssoriche/obsidian-slack-emoji/internal/testutil"
)

// ErrInjectedRead is returned by reads of files marked with a fail_read event.
var ErrInjectedRead = errors.New("injected read failure")

// Harness is the scenario execution environment.
// It wires an in-memory source to a real registry through a synchronizer.
type Harness struct {
	source   *testutil.MemorySource
	registry *registry.Registry
	sync     *syncer.Synchronizer
	result   *Result
	logger   *slog.Logger
}

// recorder is the synchronizer target. It forwards to the registry and
// records each effective mutation in the trace.
type recorder struct {
	reg    *registry.Registry
	result *Result
}

func (r *recorder) UpsertCustom(e emoji.CustomEntity) {
	r.reg.UpsertCustom(e)
	r.result.addTrace(TraceEvent{
		Op:        OpUpsert,
		Shortcode: e.Shortcode,
		Path:      e.SourcePath,
		Aliases:   e.Aliases,
	})
}

func (r *recorder) RemoveCustom(shortcode string) bool {
	if !r.reg.RemoveCustom(shortcode) {
		return false
	}
	r.result.addTrace(TraceEvent{Op: OpRemove, Shortcode: shortcode})
	return true
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh source and registry. Subscription
// handles come from a sequence generator and file times from
// testutil.BaseTime, so identical scenarios produce identical traces.
//
// Execution flow:
// 1. Seed standard entities and initial files
// 2. Start the synchronizer (reconciles the initial files)
// 3. Apply each event and process the notifications it produced
// 4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	result := NewResult()
	reg := registry.New()
	src := testutil.NewMemorySource(testutil.NewSequenceGenerator("handle"))

	var opts []syncer.Option
	if len(scenario.Extensions) > 0 {
		opts = append(opts, syncer.WithExtensions(scenario.Extensions...))
	}
	target := &recorder{reg: reg, result: result}

	h := &Harness{
		source:   src,
		registry: reg,
		sync:     syncer.New(src, target, scenario.Folder, opts...),
		result:   result,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	h.seed(scenario)

	if err := h.sync.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start synchronizer: %w", err)
	}
	defer h.sync.Stop()

	for i, ev := range scenario.Events {
		if err := h.apply(ev); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, ev.Op, err)
		}
		n := h.sync.ProcessPending(ctx)
		h.logger.Info("event applied", "step", i, "op", ev.Op, "processed", n)
	}

	result.Stats = reg.Stats()
	for _, msg := range EvaluateAssertions(result, reg, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// seed loads standard entities and initial files without emitting events.
func (h *Harness) seed(scenario *Scenario) {
	if len(scenario.Standard) > 0 {
		entities := make([]emoji.StandardEntity, 0, len(scenario.Standard))
		for _, s := range scenario.Standard {
			aliases := s.Aliases
			if aliases == nil {
				aliases = []string{}
			}
			entities = append(entities, emoji.StandardEntity{
				Shortcode: s.Shortcode,
				Aliases:   aliases,
				Glyph:     s.Glyph,
				Label:     s.Label,
			})
		}
		h.registry.LoadStandard(entities)
	}

	for _, f := range scenario.Files {
		h.source.Put(f.Path, []byte(f.Content))
	}
}

// apply performs one event step.
func (h *Harness) apply(ev EventStep) error {
	switch ev.Op {
	case EventCreate:
		h.source.Create(ev.Path, []byte(ev.Content))
	case EventWrite:
		h.source.Write(ev.Path, []byte(ev.Content))
	case EventRemove:
		h.source.Remove(ev.Path)
	case EventRename:
		return h.source.Rename(ev.Path, ev.To)
	case EventFailRead:
		h.source.FailRead(ev.Path, ErrInjectedRead)
	case EventAlias:
		aliases := ev.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		if !h.registry.PatchCustom(ev.Shortcode, emoji.CustomPatch{Aliases: aliases}) {
			return emoji.NewNotFoundError(ev.Shortcode)
		}
		h.result.addTrace(TraceEvent{Op: OpPatch, Shortcode: ev.Shortcode, Aliases: aliases})
	case EventStop:
		h.sync.Stop()
	default:
		return fmt.Errorf("unknown op %q", ev.Op)
	}
	return nil
}
