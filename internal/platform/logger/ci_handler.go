package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ciEnvVars lists the environment variables copied onto every record by
// CIHandler, keyed by the attribute name they are logged under.
var ciEnvVars = map[string]string{
	"ci_provider": "CI_PROVIDER",
	"ci_run_id":   "GITHUB_RUN_ID",
	"ci_workflow": "GITHUB_WORKFLOW",
	"ci_job":      "GITHUB_JOB",
	"ci_ref":      "GITHUB_REF",
	"ci_sha":      "GITHUB_SHA",
	"ci_pipeline": "CI_PIPELINE_ID",
}

// IsCIEnvironment reports whether the process runs under a CI system.
func IsCIEnvironment() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" || os.Getenv("GITLAB_CI") != ""
}

func getCIMetadata() []slog.Attr {
	var attrs []slog.Attr
	for attr, env := range ciEnvVars {
		if v := os.Getenv(env); v != "" {
			attrs = append(attrs, slog.String(attr, v))
		}
	}
	return attrs
}

// CIHandler is a slog.Handler that adds CI environment metadata to log records.
type CIHandler struct {
	handler slog.Handler
}

// NewCIHandler creates a CIHandler writing JSON to out. The CI metadata is
// resolved once at construction.
func NewCIHandler(out io.Writer, opts *slog.HandlerOptions) *CIHandler {
	var handlerOpts slog.HandlerOptions
	if opts != nil {
		handlerOpts = *opts
	}

	var h slog.Handler = slog.NewJSONHandler(out, &handlerOpts)
	if meta := getCIMetadata(); len(meta) > 0 {
		h = h.WithAttrs(meta)
	}

	return &CIHandler{handler: h}
}

// Enabled implements the slog.Handler interface.
func (h *CIHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *CIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CIHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup implements the slog.Handler interface.
func (h *CIHandler) WithGroup(name string) slog.Handler {
	return &CIHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements the slog.Handler interface.
func (h *CIHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.handler.Handle(ctx, record)
}
