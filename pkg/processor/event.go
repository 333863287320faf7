package processor

import (
	"fmt"

	"github.com/rfkalmar/logan/pkg/pattern"
)

// EventDefinition describes a span of lines delimited by a start match and
// a later end match, both boundaries included.
type EventDefinition struct {
	Start *pattern.Matcher
	End   *pattern.Matcher
	Color ColorTag
}

// EventTracker is the per-event state machine. It starts closed, opens on
// a start match, and closes again on an end match; it may reopen any
// number of times during a run.
type EventTracker struct {
	def       EventDefinition
	open      bool
	completed int
}

// NewEventTracker creates a closed tracker for def.
func NewEventTracker(def EventDefinition) *EventTracker {
	return &EventTracker{def: def}
}

// Observe advances the tracker with the next input line and reports
// whether the line belongs to the event.
func (t *EventTracker) Observe(line string) bool {
	if t.open {
		// Everything between start and end is part of the event; the end
		// line itself is included before closing.
		if t.def.End.Matches(line) {
			t.open = false
			t.completed++
		}
		return true
	}
	if !t.def.Start.Matches(line) {
		return false
	}
	if t.def.End.Matches(line) {
		// Single-line event: opens and closes on the same line.
		t.completed++
		return true
	}
	t.open = true
	return true
}

// Open reports whether a start match has been seen without its end.
func (t *EventTracker) Open() bool {
	return t.open
}

// Completed returns the number of events closed so far.
func (t *EventTracker) Completed() int {
	return t.completed
}

// Color returns the tag applied to included lines.
func (t *EventTracker) Color() ColorTag {
	return t.def.Color
}

// Summary describes the tracker's findings at end of input.
func (t *EventTracker) Summary() string {
	s := fmt.Sprintf("event [%s .. %s]: %d completed", t.def.Start, t.def.End, t.completed)
	if t.open {
		s += ", one still open at end of input"
	}
	return s
}
