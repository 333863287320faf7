// Package processor implements the line-processing engine: colorize rules,
// event and state trackers, and the per-line orchestration that combines
// them into a single emit-or-suppress decision.
//
// The engine performs no I/O and cannot fail once constructed; all pattern
// validation happens while building the LineProcessor. Lines must be fed
// strictly in input order because tracker correctness depends on it.
package processor

// Decision is the engine's verdict for one line: whether the line is
// emitted and which color tags decorate it. Tags are ordered: event tags
// first (in declaration order), then state tags, then the colorize tag.
// Decisions are transient and never stored by the engine.
type Decision struct {
	Emit   bool
	Colors []ColorTag
}

// LineProcessor owns the configured rules and trackers for one run and
// evaluates them against each input line. It must not be shared between
// runs or goroutines.
type LineProcessor struct {
	colors ColorRules
	events []*EventTracker
	states []*StateTracker
}

// NewLineProcessor builds a processor from already-compiled definitions.
func NewLineProcessor(colors ColorRules, events []EventDefinition, states []StateDefinition) *LineProcessor {
	p := &LineProcessor{colors: colors}
	for _, def := range events {
		p.events = append(p.events, NewEventTracker(def))
	}
	for _, def := range states {
		p.states = append(p.states, NewStateTracker(def))
	}
	return p
}

// Tracking reports whether any event or state trackers are configured.
// Without trackers every line is emitted and colorize rules alone decide
// decoration; with trackers, they decide visibility.
func (p *LineProcessor) Tracking() bool {
	return len(p.events) > 0 || len(p.states) > 0
}

// Process evaluates one line against every configured rule and tracker.
func (p *LineProcessor) Process(line string) Decision {
	var d Decision

	if !p.Tracking() {
		// Pure colorize mode (which includes a run with no rules at all):
		// every line passes through, color is optional.
		d.Emit = true
		if color, ok := p.colors.FindColor(line); ok {
			d.Colors = append(d.Colors, color)
		}
		return d
	}

	for _, t := range p.events {
		if t.Observe(line) {
			d.Emit = true
			d.Colors = append(d.Colors, t.Color())
		}
	}
	for _, t := range p.states {
		if t.Observe(line) {
			d.Emit = true
			d.Colors = append(d.Colors, t.Color())
		}
	}
	// Colorize decorates but does not decide visibility here.
	if color, ok := p.colors.FindColor(line); ok {
		d.Colors = append(d.Colors, color)
	}
	return d
}

// Summaries returns one end-of-run report line per tracker, events first.
func (p *LineProcessor) Summaries() []string {
	var out []string
	for _, t := range p.events {
		out = append(out, t.Summary())
	}
	for _, t := range p.states {
		out = append(out, t.Summary())
	}
	return out
}
