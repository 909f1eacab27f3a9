package observability

import (
	"context"

	"github.com/charmbracelet/log"
)

// LogSink writes events as structured log lines. Responses are logged at
// info level, everything else at debug.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a sink that logs to l.
func NewLogSink(l *log.Logger) *LogSink { return &LogSink{logger: l} }

func (s *LogSink) Emit(_ context.Context, e Event) {
	kv := []any{"duration", e.Duration}
	switch e.Kind {
	case ParseDone:
		kv = append(kv, "name", e.Name, "commands", e.Count)
	case RenderDone:
		kv = append(kv, "name", e.Name, "elements", e.Count)
	case ExportDone, CacheStore:
		kv = append(kv, "name", e.Name, "formats", e.Formats, "bytes", e.Count)
	case CacheHit, CacheMiss:
		kv = []any{"name", e.Name, "formats", e.Formats}
	case Response:
		s.logger.Info("response", "method", e.Method, "path", e.Name, "status", e.Status, "duration", e.Duration)
		return
	}
	if e.Err != nil {
		s.logger.Debug(e.Kind.String()+" failed", append(kv, "err", e.Err)...)
		return
	}
	s.logger.Debug(e.Kind.String(), kv...)
}

var _ Sink = (*LogSink)(nil)
