package starboard

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// Throttle absorbs reaction bursts. Each channel gets one pass per window:
// the first event of a window runs immediately, later ones collapse into a
// single trailing pass per message and emoji once the window closes.
type Throttle struct {
	window   time.Duration
	limiters *lru.Cache
	run      func(ctx context.Context, ref MessageRef)

	mu      sync.Mutex
	pending map[MessageRef]*time.Timer
	closed  bool
}

func NewThrottle(window time.Duration, size int, run func(ctx context.Context, ref MessageRef)) (*Throttle, error) {
	if window <= 0 {
		window = config.DefaultThrottleWindow
	}
	if size <= 0 {
		size = config.ThrottleRegistrySize
	}
	limiters, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Throttle{
		window:   window,
		limiters: limiters,
		run:      run,
		pending:  make(map[MessageRef]*time.Timer),
	}, nil
}

func (t *Throttle) limiter(channelID snowflake.ID) *rate.Limiter {
	if l, ok := t.limiters.Get(channelID); ok {
		return l.(*rate.Limiter)
	}
	l := rate.NewLimiter(rate.Every(t.window), 1)
	t.limiters.Add(channelID, l)
	return l
}

// Submit runs or schedules a pass for ref. It reports whether the pass ran
// in the caller's goroutine.
func (t *Throttle) Submit(ctx context.Context, ref MessageRef) bool {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return false
	}
	if _, ok := t.pending[ref]; ok {
		t.mu.Unlock()
		return false
	}
	if t.limiter(ref.ChannelID).Allow() {
		t.mu.Unlock()
		t.run(ctx, ref)
		return true
	}

	t.pending[ref] = time.AfterFunc(t.window, func() {
		t.mu.Lock()
		delete(t.pending, ref)
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()
		t.run(ctx, ref)
	})
	t.mu.Unlock()
	return false
}

// Pending reports how many trailing passes are scheduled.
func (t *Throttle) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Close cancels every scheduled trailing pass.
func (t *Throttle) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for ref, timer := range t.pending {
		timer.Stop()
		delete(t.pending, ref)
	}
}
