// Package testutil provides small helpers shared by tests.
package testutil

import (
	"testing"

	"github.com/rfkalmar/logan/pkg/pattern"
)

// MustMatcher compiles prefix+expr or fails the test immediately.
func MustMatcher(tb testing.TB, prefix, expr string) *pattern.Matcher {
	tb.Helper()
	m, err := pattern.New(prefix, expr)
	if err != nil {
		tb.Fatalf("failed to compile pattern %q: %v", prefix+expr, err)
	}
	return m
}
