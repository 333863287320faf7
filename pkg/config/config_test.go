package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rfkalmar/logan/pkg/pattern"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
prefix: '[\w]{3} [\d]{2} '
pattern_colors:
  - pattern: 'NetworkManager '
    color: 28
event_patterns:
  - start_pattern: 'Starting Network Manager'
    end_pattern: 'Started Network Manager'
    color: "33"
state_patterns:
  - pattern: 'Switched to [^ ]+'
    color: 135
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Prefix != `[\w]{3} [\d]{2} ` {
		t.Errorf("unexpected prefix %q", cfg.Prefix)
	}
	if len(cfg.PatternColors) != 1 || cfg.PatternColors[0].Color != 28 {
		t.Errorf("unexpected pattern_colors %+v", cfg.PatternColors)
	}
	// Quoted digit strings are accepted too, as in the original configs.
	if len(cfg.EventPatterns) != 1 || cfg.EventPatterns[0].Color != 33 {
		t.Errorf("unexpected event_patterns %+v", cfg.EventPatterns)
	}
	if cfg.EventPatterns[0].StartPattern != "Starting Network Manager" {
		t.Errorf("unexpected start_pattern %q", cfg.EventPatterns[0].StartPattern)
	}
	if len(cfg.StatePatterns) != 1 || cfg.StatePatterns[0].Color != 135 {
		t.Errorf("unexpected state_patterns %+v", cfg.StatePatterns)
	}
}

func TestLoad_JSON(t *testing.T) {
	// The original tool's config format: JSON with string color values.
	path := writeConfigFile(t, "config.json", `{
		"prefix": "[\\w]{3} [\\d]{2} ",
		"pattern_colors": [
			{ "pattern": "NetworkManager ", "color": "28" }
		],
		"event_patterns": [
			{
				"start_pattern": "Starting Network Manager",
				"end_pattern": "Started Network Manager",
				"color": "28"
			}
		],
		"state_patterns": [
			{ "pattern": "Switched to [^ ]+", "color": "28" }
		]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PatternColors[0].Color != 28 || cfg.EventPatterns[0].Color != 28 || cfg.StatePatterns[0].Color != 28 {
		t.Errorf("expected all colors to be 28, got %+v", cfg)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfigFile(t, "config.toml", `
prefix = '[\w]{3} '

[[pattern_colors]]
pattern = 'NetworkManager '
color = 28

[[state_patterns]]
pattern = 'Switched to [^ ]+'
color = 135
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Prefix != `[\w]{3} ` {
		t.Errorf("unexpected prefix %q", cfg.Prefix)
	}
	if len(cfg.PatternColors) != 1 || cfg.PatternColors[0].Color != 28 {
		t.Errorf("unexpected pattern_colors %+v", cfg.PatternColors)
	}
	if len(cfg.StatePatterns) != 1 || cfg.StatePatterns[0].Color != 135 {
		t.Errorf("unexpected state_patterns %+v", cfg.StatePatterns)
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.PatternColors) != 0 || len(cfg.EventPatterns) != 0 || len(cfg.StatePatterns) != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected empty config to validate, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantIn  string
	}{
		{
			name:    "unsupported extension",
			file:    "config.ini",
			content: "prefix=x",
			wantIn:  "unsupported config format",
		},
		{
			name:    "malformed yaml",
			file:    "config.yaml",
			content: "pattern_colors: [",
			wantIn:  "failed to parse config file",
		},
		{
			name:    "color out of range",
			file:    "config.yaml",
			content: "pattern_colors:\n  - pattern: x\n    color: 300\n",
			wantIn:  "palette index must be 0-255",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.file, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("expected error containing %q but got %v", tt.wantIn, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to open config file") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorValue
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "28", want: 28},
		{in: "255", want: 255},
		{in: " 7 ", want: 7},
		{in: "256", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "teal", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseColor(%q) expected error but got %d", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		wantIn string
	}{
		{
			name:   "empty colorize pattern",
			cfg:    Config{PatternColors: []PatternColor{{Pattern: ""}}},
			wantIn: "pattern_colors[0]",
		},
		{
			name:   "empty start pattern",
			cfg:    Config{EventPatterns: []EventPattern{{EndPattern: "x"}}},
			wantIn: "event_patterns[0]: start_pattern",
		},
		{
			name:   "empty end pattern",
			cfg:    Config{EventPatterns: []EventPattern{{StartPattern: "x"}}},
			wantIn: "event_patterns[0]: end_pattern",
		},
		{
			name:   "empty state pattern",
			cfg:    Config{StatePatterns: []StatePattern{{Pattern: ""}}},
			wantIn: "state_patterns[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error but got nil")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("expected error containing %q but got %v", tt.wantIn, err)
			}
		})
	}
}

func TestBuild_AppliesPrefix(t *testing.T) {
	cfg := &Config{
		Prefix:        `^\d{4} `,
		PatternColors: []PatternColor{{Pattern: "INFO", Color: 28}},
	}

	proc, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	// Matches only with the prefix satisfied.
	if d := proc.Process("2020 INFO ready"); len(d.Colors) != 1 {
		t.Errorf("expected prefixed line to match, got %+v", d)
	}
	if d := proc.Process("INFO ready"); len(d.Colors) != 0 {
		t.Errorf("expected unprefixed line not to match, got %+v", d)
	}
}

func TestBuild_InvalidPattern(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		wantIn string
	}{
		{
			name:   "bad colorize pattern",
			cfg:    Config{PatternColors: []PatternColor{{Pattern: "(", Color: 1}}},
			wantIn: "pattern_colors[0]",
		},
		{
			name: "bad event end pattern",
			cfg: Config{EventPatterns: []EventPattern{
				{StartPattern: "ok", EndPattern: "(", Color: 1},
			}},
			wantIn: "event_patterns[0].end_pattern",
		},
		{
			name: "bad prefix breaks a valid pattern",
			cfg: Config{
				Prefix:        "(",
				StatePatterns: []StatePattern{{Pattern: "x", Color: 1}},
			},
			wantIn: "state_patterns[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc, err := tt.cfg.Build()
			if err == nil {
				t.Fatal("expected build error but got nil")
			}
			if !errors.Is(err, pattern.ErrInvalidPattern) {
				t.Errorf("expected ErrInvalidPattern but got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("expected error naming %q but got %v", tt.wantIn, err)
			}
			if proc != nil {
				t.Error("expected no processor on build failure")
			}
		})
	}
}
