package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// phase names a long-running step a command reports progress for.
type phase string

const (
	phaseLoad    phase = "load"
	phaseLayout  phase = "layout"
	phaseRender  phase = "render"
	phaseExtract phase = "extract"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates the current phase on one terminal line until stopped or
// until its context is cancelled.
type spinner struct {
	con     console
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	phase   phase
	message string
	drawn   int // width of the last frame, for clearing
}

// startSpinner starts animating p with msg on con.
func startSpinner(ctx context.Context, con console, p phase, msg string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		con:     con,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		phase:   p,
		message: msg,
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

// advance switches to the next phase without restarting the animation.
func (s *spinner) advance(p phase, msg string) {
	s.mu.Lock()
	s.phase, s.message = p, msg
	s.mu.Unlock()
}

// current returns the phase being animated.
func (s *spinner) current() phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := fmt.Sprintf("%s %s %s", frame, s.phase, s.message)
	pad := max(s.drawn-len(text), 0)
	fmt.Fprintf(s.con.w, "\r%s %s %s%s",
		StyleHighlight.Render(frame), styleMuted.Render(string(s.phase)), StyleDim.Render(s.message), strings.Repeat(" ", pad))
	s.drawn = len(text)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprintf(s.con.w, "\r%s\r", strings.Repeat(" ", s.drawn))
		s.drawn = 0
	}
}

// stop ends the animation and clears its line. It is safe to call more
// than once.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// fail stops the spinner and reports err against the current phase. The
// returned error is marked as shown so Execute does not print it again.
// Errors caused by cancellation are returned unreported.
func (s *spinner) fail(err error) error {
	p := s.current()
	cancelled := s.cancelled()
	s.stop()
	if cancelled {
		return err
	}
	s.con.fail(string(p)+" failed", err)
	return reported{err}
}

// reported marks an error the user has already seen.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// cancelled reports whether the command's context has ended.
func (s *spinner) cancelled() bool {
	return s.parent.Err() != nil
}
