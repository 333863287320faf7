package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rfkalmar/logan/pkg/processor"
	"github.com/rfkalmar/logan/pkg/render"
)

// maxLineSize caps scanner lines at 1 MiB so one oversized log line does
// not abort the whole run.
const maxLineSize = 1024 * 1024

// Application drives one processing run: it reads lines from the input in
// order, feeds them to the line processor, and writes decorated output.
type Application struct {
	proc     *processor.LineProcessor
	renderer *render.Renderer
	out      io.Writer

	// ShowSummary controls the end-of-run tracker report.
	ShowSummary bool

	debug bool
}

// NewApplication wires a processor and renderer to an output stream.
func NewApplication(proc *processor.LineProcessor, renderer *render.Renderer, out io.Writer) *Application {
	return &Application{
		proc:        proc,
		renderer:    renderer,
		out:         out,
		ShowSummary: true,
		debug:       os.Getenv("LOGAN_DEBUG") == "1",
	}
}

// Run processes r to EOF. Lines are handled strictly in input order; the
// loop itself cannot fail once the processor is built, so the only error
// paths are I/O.
func (a *Application) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	tracking := a.proc.Tracking()
	lineNo := 0
	lastEmitted := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		decision := a.proc.Process(line)
		if a.debug {
			fmt.Fprintf(os.Stderr, "logan: line %d emit=%v colors=%v\n", lineNo, decision.Emit, decision.Colors)
		}
		if !decision.Emit {
			continue
		}

		// A gap between emitted lines means a new event/state block.
		if tracking && lastEmitted > 0 && lineNo != lastEmitted+1 {
			fmt.Fprintln(a.out, a.renderer.Separator())
		}
		fmt.Fprintln(a.out, a.renderer.Line(line, decision))
		lastEmitted = lineNo
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if a.ShowSummary && tracking {
		fmt.Fprintln(a.out)
		for _, summary := range a.proc.Summaries() {
			fmt.Fprintln(a.out, summary)
		}
	}
	return nil
}
