// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package logging provides structured logging with OpenTelemetry trace context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// BuildInfo identifies the running binary on every log record it stamps:
// the service name plus the three values jsonmap's linker flags set
// (cmd/jsonmap.version/commit/date). Commit and Date are omitted from a
// record when empty, so tests and ad-hoc tools that only care about
// Service/Version don't have to fill them in.
type BuildInfo struct {
	Service string
	Version string
	Commit  string
	Date    string
}

// traceHandler wraps a slog.Handler, stamping build identity and trace
// context onto every record.
type traceHandler struct {
	handler slog.Handler
	build   BuildInfo
}

// Handle adds build and trace context to the log record.
func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("service", h.build.Service),
		slog.String("version", h.build.Version),
	)
	if h.build.Commit != "" {
		r.AddAttrs(slog.String("commit", h.build.Commit))
	}
	if h.build.Date != "" {
		r.AddAttrs(slog.String("build_date", h.build.Date))
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.handler.Handle(ctx, r)
}

// Enabled returns true if the level is enabled.
func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs returns a new handler with the given attributes.
func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{
		handler: h.handler.WithAttrs(attrs),
		build:   h.build,
	}
}

// WithGroup returns a new handler with the given group.
func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{
		handler: h.handler.WithGroup(name),
		build:   h.build,
	}
}

// Setup creates a configured slog.Logger that stamps build identity and
// trace context onto every record.
// format: "json" or "text" (defaults to "json" if empty)
// If w is nil, writes to os.Stderr.
func Setup(build BuildInfo, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	var baseHandler slog.Handler
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	if format == "text" {
		baseHandler = slog.NewTextHandler(w, opts)
	} else {
		baseHandler = slog.NewJSONHandler(w, opts)
	}

	handler := &traceHandler{
		handler: baseHandler,
		build:   build,
	}

	return slog.New(handler)
}

// SetDefault sets up and configures the default logger.
func SetDefault(build BuildInfo, format string) {
	logger := Setup(build, format, nil)
	slog.SetDefault(logger)
}
