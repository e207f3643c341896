package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFolder is used when a scenario does not name a watched folder.
const DefaultFolder = ".obsidian/emoji"

// Scenario defines a synchronization scenario.
// Scenarios seed a source and a registry, replay a sequence of file events
// through a synchronizer, and assert on the resulting trace and registry.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Folder is the watched folder. Defaults to DefaultFolder.
	Folder string `yaml:"folder,omitempty"`

	// Extensions overrides the recognized image extensions.
	Extensions []string `yaml:"extensions,omitempty"`

	// Standard seeds the registry with catalog entities before start.
	Standard []StandardStep `yaml:"standard,omitempty"`

	// Files exist in the source before the synchronizer starts.
	Files []FileStep `yaml:"files,omitempty"`

	// Events are applied in order after start. Each event's notifications
	// are processed before the next event runs.
	Events []EventStep `yaml:"events,omitempty"`

	// Assertions validate the final trace and registry.
	Assertions []Assertion `yaml:"assertions"`
}

// StandardStep declares a catalog entity.
type StandardStep struct {
	Shortcode string   `yaml:"shortcode"`
	Aliases   []string `yaml:"aliases,omitempty"`
	Glyph     string   `yaml:"glyph"`
	Label     string   `yaml:"label,omitempty"`
}

// FileStep declares a file present before start.
type FileStep struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// EventStep is one change applied to the source or registry.
type EventStep struct {
	// Op is one of the Event* constants.
	Op string `yaml:"op"`

	// Path is the affected file (create, write, remove, fail_read) or the
	// original path (rename).
	Path string `yaml:"path,omitempty"`

	// To is the destination path (rename).
	To string `yaml:"to,omitempty"`

	// Content is the new file content (create, write).
	Content string `yaml:"content,omitempty"`

	// Shortcode and Aliases describe an alias patch (alias).
	Shortcode string   `yaml:"shortcode,omitempty"`
	Aliases   []string `yaml:"aliases,omitempty"`
}

// Event operations.
const (
	EventCreate   = "create"
	EventWrite    = "write"
	EventRemove   = "remove"
	EventRename   = "rename"
	EventFailRead = "fail_read"
	EventAlias    = "alias"
	EventStop     = "stop"
)

// Assertion validates the trace or the final registry.
type Assertion struct {
	// Type specifies the assertion type:
	// - "resolves": Token resolves to Shortcode (and Kind, if set)
	// - "absent": Token does not resolve
	// - "stats": registry counts match Stats exactly
	// - "trace_contains": a trace event with Op and Shortcode exists
	// - "trace_count": Op appears exactly Count times
	Type string `yaml:"type"`

	// Token is the looked-up shortcode or alias (resolves, absent).
	Token string `yaml:"token,omitempty"`

	// Shortcode is the expected canonical shortcode (resolves,
	// trace_contains).
	Shortcode string `yaml:"shortcode,omitempty"`

	// Kind is the expected entity kind, "unicode" or "custom" (resolves).
	Kind string `yaml:"kind,omitempty"`

	// Stats are the expected registry counts (stats).
	Stats *StatsExpect `yaml:"stats,omitempty"`

	// Op is the trace operation (trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`
}

// StatsExpect mirrors registry.Stats for scenario files.
type StatsExpect struct {
	Standard int `yaml:"unicode"`
	Custom   int `yaml:"custom"`
	Aliases  int `yaml:"total_aliases"`
}

// Assertion type constants.
const (
	AssertResolves      = "resolves"
	AssertAbsent        = "absent"
	AssertStats         = "stats"
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Folder == "" {
		scenario.Folder = DefaultFolder
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, std := range s.Standard {
		if std.Shortcode == "" {
			return fmt.Errorf("standard[%d]: shortcode is required", i)
		}
	}

	for i, f := range s.Files {
		if f.Path == "" {
			return fmt.Errorf("files[%d]: path is required", i)
		}
	}

	for i, ev := range s.Events {
		if err := validateEvent(i, &ev); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateEvent validates a single event based on its operation.
func validateEvent(index int, ev *EventStep) error {
	switch ev.Op {
	case EventCreate, EventWrite, EventRemove, EventFailRead:
		if ev.Path == "" {
			return fmt.Errorf("events[%d]: path is required for %s", index, ev.Op)
		}
	case EventRename:
		if ev.Path == "" || ev.To == "" {
			return fmt.Errorf("events[%d]: path and to are required for rename", index)
		}
	case EventAlias:
		if ev.Shortcode == "" {
			return fmt.Errorf("events[%d]: shortcode is required for alias", index)
		}
	case EventStop:
	case "":
		return fmt.Errorf("events[%d]: op is required", index)
	default:
		return fmt.Errorf("events[%d]: unknown op %q", index, ev.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertResolves:
		if a.Token == "" || a.Shortcode == "" {
			return fmt.Errorf("assertions[%d]: token and shortcode are required for resolves", index)
		}
	case AssertAbsent:
		if a.Token == "" {
			return fmt.Errorf("assertions[%d]: token is required for absent", index)
		}
	case AssertStats:
		if a.Stats == nil {
			return fmt.Errorf("assertions[%d]: stats is required for stats", index)
		}
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
