package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// exportSpinner animates on w while a PNG or PDF export runs. After the
// first second it also shows the elapsed time.
type exportSpinner struct {
	w      io.Writer
	msg    string
	style  spinner.Spinner
	start  time.Time
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// startSpinner draws until stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, msg string) *exportSpinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &exportSpinner{
		w:      w,
		msg:    msg,
		style:  spinner.MiniDot,
		start:  time.Now(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *exportSpinner) run(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(s.style.FPS)
	defer tick.Stop()

	width := 0
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			if width > 0 {
				fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", width))
			}
			return
		case <-tick.C:
			line := styleIconSpinner.Render(s.style.Frames[frame%len(s.style.Frames)]) + " " +
				styleDim.Render(s.msg+elapsedLabel(time.Since(s.start)))
			width = max(width, lipgloss.Width(line))
			fmt.Fprint(s.w, "\r"+line)
		}
	}
}

// stop ends the animation and clears the line. Calling it again is a no-op.
func (s *exportSpinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

func elapsedLabel(d time.Duration) string {
	if d < time.Second {
		return ""
	}
	return fmt.Sprintf(" (%.1fs)", d.Seconds())
}
