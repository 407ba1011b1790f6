package job

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mungerd/rembobine/internal/model"
	"github.com/mungerd/rembobine/internal/progress"
	"github.com/mungerd/rembobine/internal/util"
)

// Handle is one running encode. It reaches exactly one terminal state.
type Handle struct {
	ID        string
	Spec      util.CmdSpec
	Options   model.Options
	StartedAt time.Time

	proc   util.Process
	grace  time.Duration
	logger *slog.Logger

	cancelOnce sync.Once
	cancelled  atomic.Bool

	mu   sync.Mutex
	last progress.Event
	seen bool

	done   chan struct{}
	result progress.Result
}

// Done is closed once the encode has finished and its result was reported.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the encode finishes and returns its result.
func (h *Handle) Wait() progress.Result {
	<-h.done
	return h.result
}

// Result returns the final result without blocking. ok is false while the
// encode is still running.
func (h *Handle) Result() (res progress.Result, ok bool) {
	select {
	case <-h.done:
		return h.result, true
	default:
		return progress.Result{}, false
	}
}

// LastEvent returns the most recent progress event, if any.
func (h *Handle) LastEvent() (progress.Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.seen
}

func (h *Handle) setLast(ev progress.Event) {
	h.mu.Lock()
	h.last = ev
	h.seen = true
	h.mu.Unlock()
}

// Cancelled reports whether Cancel took effect.
func (h *Handle) Cancelled() bool {
	return h.cancelled.Load()
}

// Cancel asks the encoder to stop: SIGTERM now, kill after the grace period.
// Only the first call has an effect; calls after the encode finished are
// no-ops. Cancel never blocks.
func (h *Handle) Cancel() {
	select {
	case <-h.done:
		return
	default:
	}
	h.cancelOnce.Do(func() {
		h.cancelled.Store(true)
		h.logger.Info("cancelling encode", slog.Duration("grace_period", h.grace))

		if h.grace <= 0 {
			h.kill()
			return
		}
		if err := h.proc.Terminate(); err != nil {
			h.logger.Warn("terminate encoder", slog.Any("error", err))
			h.kill()
			return
		}
		go func() {
			t := time.NewTimer(h.grace)
			defer t.Stop()
			select {
			case <-h.done:
			case <-t.C:
				h.logger.Warn("encoder ignored SIGTERM, killing")
				h.kill()
			}
		}()
	})
}

func (h *Handle) kill() {
	if err := h.proc.Kill(); err != nil {
		h.logger.Warn("kill encoder", slog.Any("error", err))
	}
}
