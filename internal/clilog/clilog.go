// Package clilog wires a slog.Handler from a --log-format flag value, for
// command-line front ends over the core token/scanner packages.
package clilog

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format is an output format a Handler can be built for.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// NewHandler builds a slog.Handler writing to w in the named format.
// Unrecognized formats fall back to FormatText.
func NewHandler(w io.Writer, format string) slog.Handler {
	switch Format(strings.ToLower(format)) {
	case FormatJSON:
		return slog.NewJSONHandler(w, nil)
	default:
		return slog.NewTextHandler(w, nil)
	}
}

// AllFormats returns the recognized format strings, for flag help text.
func AllFormats() []string {
	return []string{string(FormatText), string(FormatJSON)}
}

// ParseFormat validates a format string against AllFormats.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown log format %q, want one of %v", s, AllFormats())
}
