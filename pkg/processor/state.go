package processor

import (
	"fmt"

	"github.com/rfkalmar/logan/pkg/pattern"
)

// StateDefinition describes a discrete condition whose transitions are
// signaled by single pattern matches.
type StateDefinition struct {
	Matcher *pattern.Matcher
	Color   ColorTag
}

// StateTracker surfaces state transition lines. Unlike EventTracker it
// never includes the lines between matches: only the matching lines
// themselves are part of the output.
type StateTracker struct {
	def            StateDefinition
	active         bool
	lastTransition string
	transitions    int
}

// NewStateTracker creates an inactive tracker for def.
func NewStateTracker(def StateDefinition) *StateTracker {
	return &StateTracker{def: def}
}

// Observe advances the tracker with the next input line and reports
// whether the line is a transition. Every match records the line as the
// most recent transition and (re-)enters the active state.
func (t *StateTracker) Observe(line string) bool {
	if !t.def.Matcher.Matches(line) {
		return false
	}
	t.lastTransition = line
	t.transitions++
	t.active = true
	return true
}

// Active reports whether the state has been entered at least once.
func (t *StateTracker) Active() bool {
	return t.active
}

// LastTransition returns the text of the most recent matching line, or ""
// if the state was never entered.
func (t *StateTracker) LastTransition() string {
	return t.lastTransition
}

// Color returns the tag applied to transition lines.
func (t *StateTracker) Color() ColorTag {
	return t.def.Color
}

// Summary describes the tracker's findings at end of input.
func (t *StateTracker) Summary() string {
	if !t.active {
		return fmt.Sprintf("state [%s]: never entered", t.def.Matcher)
	}
	return fmt.Sprintf("state [%s]: %d transitions, last %q", t.def.Matcher, t.transitions, t.lastTransition)
}
