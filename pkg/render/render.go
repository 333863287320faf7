// Package render turns engine decisions into decorated terminal output.
package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/rfkalmar/logan/pkg/processor"
)

// Mode controls whether escape sequences are written at all.
type Mode int

const (
	// ModeAuto decorates only when the destination is a terminal.
	ModeAuto Mode = iota
	// ModeAlways decorates unconditionally, pipes included.
	ModeAlways
	// ModeNever strips all decoration.
	ModeNever
)

// ParseMode parses the --color flag value.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto":
		return ModeAuto, nil
	case "always":
		return ModeAlways, nil
	case "never":
		return ModeNever, nil
	default:
		return ModeAuto, fmt.Errorf("invalid color mode %q (use auto, always or never)", s)
	}
}

// Enabled resolves mode against the actual output destination.
func Enabled(mode Mode, f *os.File) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

// gutterMark flags membership in trackers beyond the first; the line body
// can only carry one foreground color.
const gutterMark = "▎"

// separatorWidth matches the divider the original tool printed between
// event blocks.
const separatorWidth = 50

// Renderer renders emitted lines. One lipgloss style is built per palette
// index and cached for the rest of the run.
type Renderer struct {
	enabled bool
	styles  map[processor.ColorTag]lipgloss.Style
}

// NewRenderer creates a renderer. When enabled it pins the color profile
// to the 256-color palette so output is identical on terminals and pipes.
func NewRenderer(enabled bool) *Renderer {
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
	return &Renderer{
		enabled: enabled,
		styles:  make(map[processor.ColorTag]lipgloss.Style),
	}
}

// Line renders one emitted line. The first tag colors the whole line;
// every further tag contributes a colored gutter marker so overlapping
// event/state membership stays visible.
func (r *Renderer) Line(line string, d processor.Decision) string {
	if !r.enabled || len(d.Colors) == 0 {
		return line
	}
	var b strings.Builder
	for _, tag := range d.Colors[1:] {
		b.WriteString(r.style(tag).Render(gutterMark))
	}
	b.WriteString(r.style(d.Colors[0]).Render(line))
	return b.String()
}

// Separator returns the divider written between discontiguous emitted
// regions.
func (r *Renderer) Separator() string {
	return strings.Repeat("-", separatorWidth)
}

func (r *Renderer) style(tag processor.ColorTag) lipgloss.Style {
	s, ok := r.styles[tag]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(int(tag))))
		r.styles[tag] = s
	}
	return s
}
