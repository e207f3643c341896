package harness

import "github.com/ssoriche/obsidian-slack-emoji/internal/registry"

// Trace operations.
const (
	OpUpsert = "upsert"
	OpRemove = "remove"
	OpPatch  = "patch"
)

// TraceEvent records one registry mutation performed during a scenario.
type TraceEvent struct {
	Seq       int64    `json:"seq"`
	Op        string   `json:"op"` // "upsert", "remove" or "patch"
	Shortcode string   `json:"shortcode"`
	Path      string   `json:"path,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Trace contains the registry mutations in the order they happened.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Stats is the registry summary after the last event.
	Stats registry.Stats `json:"stats"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addTrace appends a mutation with the next sequence number.
func (r *Result) addTrace(ev TraceEvent) {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
}
