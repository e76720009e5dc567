// Package diag collects non-fatal generation diagnostics.
//
// The generator reports every node it cannot express (mixed array and
// object shapes, conflicting element types, unsupported nesting, name
// collisions) to a Sink and carries on. The caller chooses the sink: a
// Collector for tests and reports, a LogSink for terminal output, or both
// through Multi.
package diag

import (
	"context"
	"log/slog"
)

// Diagnostic is one warning about a configuration key.
type Diagnostic struct {
	Key    string `json:"key"`    // Full configuration key, e.g. "Servers:1:Port"
	Reason string `json:"reason"` // Human-readable explanation
}

// Sink receives diagnostics. Report must not panic.
type Sink interface {
	Report(key, reason string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(key, reason string)

// Report implements Sink.
func (f SinkFunc) Report(key, reason string) {
	f(key, reason)
}

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(string, string) {})

// Collector records diagnostics in the order they are reported.
type Collector struct {
	items []Diagnostic
}

// Report implements Sink.
func (c *Collector) Report(key, reason string) {
	c.items = append(c.items, Diagnostic{Key: key, Reason: reason})
}

// Diagnostics returns the recorded diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	return len(c.items)
}

// ForKey returns the diagnostics reported for key.
func (c *Collector) ForKey(key string) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.items {
		if d.Key == key {
			out = append(out, d)
		}
	}
	return out
}

// LogSink writes each diagnostic as a warning to a slog.Logger.
type LogSink struct {
	Logger *slog.Logger
}

// Report implements Sink.
func (s LogSink) Report(key, reason string) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(context.Background(), slog.LevelWarn, "invalid configuration node",
		slog.String("key", key),
		slog.String("reason", reason),
	)
}

// Multi fans a diagnostic out to every sink in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(key, reason string) {
		for _, s := range sinks {
			s.Report(key, reason)
		}
	})
}
