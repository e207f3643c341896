package harness

import (
	"fmt"
	"strings"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
	"github.com/ssoriche/obsidian-slack-emoji/internal/registry"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s", event.Seq, event.Op, event.Shortcode)
		if event.Path != "" {
			fmt.Fprintf(&buf, " %s", event.Path)
		}
		if len(event.Aliases) > 0 {
			fmt.Fprintf(&buf, " %v", event.Aliases)
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// Resolver is the registry surface assertions query.
type Resolver interface {
	Resolve(token string) (emoji.Entity, bool)
	Stats() registry.Stats
}

// assertResolves checks that the token resolves to the expected entity.
func assertResolves(res Resolver, trace []TraceEvent, assertion Assertion) error {
	e, ok := res.Resolve(assertion.Token)
	if !ok {
		return &AssertionError{
			Type:     AssertResolves,
			Expected: fmt.Sprintf("%s resolves to %s", emoji.Display(assertion.Token), assertion.Shortcode),
			Actual:   "not found",
			Trace:    trace,
		}
	}
	if e.Code() != assertion.Shortcode {
		return &AssertionError{
			Type:     AssertResolves,
			Expected: fmt.Sprintf("%s resolves to %s", emoji.Display(assertion.Token), assertion.Shortcode),
			Actual:   fmt.Sprintf("resolves to %s", e.Code()),
			Trace:    trace,
		}
	}
	if assertion.Kind != "" && string(e.Kind()) != assertion.Kind {
		return &AssertionError{
			Type:     AssertResolves,
			Expected: fmt.Sprintf("%s is %s", assertion.Shortcode, assertion.Kind),
			Actual:   fmt.Sprintf("%s is %s", e.Code(), e.Kind()),
			Trace:    trace,
		}
	}
	return nil
}

// assertAbsent checks that the token does not resolve.
func assertAbsent(res Resolver, trace []TraceEvent, assertion Assertion) error {
	if e, ok := res.Resolve(assertion.Token); ok {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("%s does not resolve", emoji.Display(assertion.Token)),
			Actual:   fmt.Sprintf("resolves to %s (%s)", e.Code(), e.Kind()),
			Trace:    trace,
		}
	}
	return nil
}

// assertStats checks the registry counts exactly.
func assertStats(res Resolver, trace []TraceEvent, assertion Assertion) error {
	got := res.Stats()
	want := registry.Stats{
		Standard: assertion.Stats.Standard,
		Custom:   assertion.Stats.Custom,
		Aliases:  assertion.Stats.Aliases,
	}
	if got != want {
		return &AssertionError{
			Type:     AssertStats,
			Expected: formatStats(want),
			Actual:   formatStats(got),
			Trace:    trace,
		}
	}
	return nil
}

func formatStats(s registry.Stats) string {
	return fmt.Sprintf("unicode=%d custom=%d total_aliases=%d", s.Standard, s.Custom, s.Aliases)
}

// assertTraceContains checks if the trace contains an event with the
// assertion's op and, when set, shortcode.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if matchEvent(event, assertion) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s %s", assertion.Op, assertion.Shortcode),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceCount checks if the op appears exactly the specified number of
// times, restricted to the shortcode when one is set.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if matchEvent(event, assertion) {
			count++
		}
	}

	if count != assertion.Count {
		target := assertion.Op
		if assertion.Shortcode != "" {
			target += " " + assertion.Shortcode
		}
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, target),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

func matchEvent(event TraceEvent, assertion Assertion) bool {
	if event.Op != assertion.Op {
		return false
	}
	return assertion.Shortcode == "" || event.Shortcode == assertion.Shortcode
}

// EvaluateAssertions evaluates all assertions against the result and the
// final registry. Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, res Resolver, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertResolves:
			err = assertResolves(res, result.Trace, assertion)
		case AssertAbsent:
			err = assertAbsent(res, result.Trace, assertion)
		case AssertStats:
			if assertion.Stats == nil {
				err = fmt.Errorf("assertion[%d]: stats requires expected counts", i)
			} else {
				err = assertStats(res, result.Trace, assertion)
			}
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
