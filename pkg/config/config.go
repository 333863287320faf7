// Package config holds the declarative rule configuration: the schema read
// from a config file, its validation, and the build step that compiles it
// into a running line processor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rfkalmar/logan/pkg/pattern"
	"github.com/rfkalmar/logan/pkg/processor"
)

// Config describes one processing run. The zero value is a valid empty
// configuration (every line passes through unannotated).
type Config struct {
	// Prefix is prepended to every pattern before compilation.
	Prefix string `yaml:"prefix" json:"prefix" toml:"prefix"`

	PatternColors []PatternColor `yaml:"pattern_colors" json:"pattern_colors" toml:"pattern_colors"`
	EventPatterns []EventPattern `yaml:"event_patterns" json:"event_patterns" toml:"event_patterns"`
	StatePatterns []StatePattern `yaml:"state_patterns" json:"state_patterns" toml:"state_patterns"`
}

// PatternColor becomes one colorize rule.
type PatternColor struct {
	Pattern string     `yaml:"pattern" json:"pattern" toml:"pattern"`
	Color   ColorValue `yaml:"color" json:"color" toml:"color"`
}

// EventPattern becomes one event tracker.
type EventPattern struct {
	StartPattern string     `yaml:"start_pattern" json:"start_pattern" toml:"start_pattern"`
	EndPattern   string     `yaml:"end_pattern" json:"end_pattern" toml:"end_pattern"`
	Color        ColorValue `yaml:"color" json:"color" toml:"color"`
}

// StatePattern becomes one state tracker.
type StatePattern struct {
	Pattern string     `yaml:"pattern" json:"pattern" toml:"pattern"`
	Color   ColorValue `yaml:"color" json:"color" toml:"color"`
}

// ColorValue is a terminal palette index in 0-255. YAML and JSON accept
// either an integer or a digit string ("28"); TOML uses integers.
type ColorValue uint8

// ParseColor parses a palette index from its decimal string form.
func ParseColor(s string) (ColorValue, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid color value %q: palette index must be 0-255", s)
	}
	return ColorValue(n), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ColorValue) UnmarshalJSON(data []byte) error {
	parsed, err := ParseColor(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Load reads and decodes a config file. The format is chosen by file
// extension: .yaml/.yml, .toml, or .json (the format the original logan
// configs used).
func Load(path string) (*Config, error) {
	// #nosec G304 - the config path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml, .toml or .json)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the declarative fields before any pattern is compiled.
func (c *Config) Validate() error {
	for i, pc := range c.PatternColors {
		if pc.Pattern == "" {
			return fmt.Errorf("pattern_colors[%d]: pattern must not be empty", i)
		}
	}
	for i, ep := range c.EventPatterns {
		if ep.StartPattern == "" {
			return fmt.Errorf("event_patterns[%d]: start_pattern must not be empty", i)
		}
		if ep.EndPattern == "" {
			return fmt.Errorf("event_patterns[%d]: end_pattern must not be empty", i)
		}
	}
	for i, sp := range c.StatePatterns {
		if sp.Pattern == "" {
			return fmt.Errorf("state_patterns[%d]: pattern must not be empty", i)
		}
	}
	return nil
}

// Build compiles every pattern (with the shared prefix) and assembles the
// line processor. The first pattern that fails to compile aborts the
// build; no partial processor is ever returned.
func (c *Config) Build() (*processor.LineProcessor, error) {
	rules := make(processor.ColorRules, 0, len(c.PatternColors))
	for i, pc := range c.PatternColors {
		m, err := pattern.New(c.Prefix, pc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern_colors[%d]: %w", i, err)
		}
		rules = append(rules, processor.ColorRule{Matcher: m, Color: processor.ColorTag(pc.Color)})
	}

	events := make([]processor.EventDefinition, 0, len(c.EventPatterns))
	for i, ep := range c.EventPatterns {
		start, err := pattern.New(c.Prefix, ep.StartPattern)
		if err != nil {
			return nil, fmt.Errorf("event_patterns[%d].start_pattern: %w", i, err)
		}
		end, err := pattern.New(c.Prefix, ep.EndPattern)
		if err != nil {
			return nil, fmt.Errorf("event_patterns[%d].end_pattern: %w", i, err)
		}
		events = append(events, processor.EventDefinition{
			Start: start,
			End:   end,
			Color: processor.ColorTag(ep.Color),
		})
	}

	states := make([]processor.StateDefinition, 0, len(c.StatePatterns))
	for i, sp := range c.StatePatterns {
		m, err := pattern.New(c.Prefix, sp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("state_patterns[%d]: %w", i, err)
		}
		states = append(states, processor.StateDefinition{
			Matcher: m,
			Color:   processor.ColorTag(sp.Color),
		})
	}

	return processor.NewLineProcessor(rules, events, states), nil
}
