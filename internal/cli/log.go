package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger: "HH:MM:SS.ms" timestamps, messages below
// level dropped, file names highlighted.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	styles := log.DefaultStyles()
	styles.Keys["file"] = lipgloss.NewStyle().Foreground(colorCyan)
	styles.Values["file"] = lipgloss.NewStyle().Bold(true)
	l.SetStyles(styles)
	return l
}

// progress times one description through reading, rendering and writing.
type progress struct {
	logger *log.Logger
	file   string
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger, file string) *progress {
	now := time.Now()
	return &progress{logger: l, file: file, start: now, last: now}
}

// stage logs the time since the previous stage at debug level.
func (p *progress) stage(name string) {
	now := time.Now()
	p.logger.Debug("stage", "file", p.file, "stage", name, "took", now.Sub(p.last).Round(time.Millisecond))
	p.last = now
}

// done logs msg with the total time at info level.
func (p *progress) done(msg string) {
	p.logger.Info(msg, "file", p.file, "took", time.Since(p.start).Round(time.Millisecond))
}

// withLogger attaches l to ctx. Library code reads it with log.FromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return log.WithContext(ctx, l)
}

// loggerFromContext returns the attached logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}
