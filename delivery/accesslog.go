package delivery

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"equipchain-web/logging"
)

// accessLog is a chi log formatter writing one entry per request through
// the application logger.
type accessLog struct {
	log logging.Logger
}

func (a accessLog) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &accessLogEntry{log: a.log, r: r}
}

type accessLogEntry struct {
	log logging.Logger
	r   *http.Request
}

// Write logs 5xx at error, 4xx at warn and everything else at info.
func (e *accessLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	args := []any{
		"method", e.r.Method,
		"path", e.r.URL.Path,
		"status", status,
		"bytes", bytes,
		"elapsed", elapsed,
		"request_id", middleware.GetReqID(e.r.Context()),
	}

	switch {
	case status >= http.StatusInternalServerError:
		e.log.Error(e.r.Context(), "request served", args...)
	case status >= http.StatusBadRequest:
		e.log.Warn(e.r.Context(), "request served", args...)
	default:
		e.log.Info(e.r.Context(), "request served", args...)
	}
}

func (e *accessLogEntry) Panic(v any, stack []byte) {
	e.log.Error(e.r.Context(), "request panicked",
		"panic", v,
		"stack", string(stack),
		"request_id", middleware.GetReqID(e.r.Context()))
}
