// Package debounce coalesces bursts of input into a single downstream pass
// that runs once the input has been quiet for a fixed delay.
package debounce

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by the live search.
const DefaultDelay = 300 * time.Millisecond

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d on its own goroutine.
type AfterFunc func(d time.Duration, f func()) Timer

// Func is one pass. ctx is canceled as soon as a newer pass starts or the
// debouncer stops; seq increases by one with every pass.
type Func[T any] func(ctx context.Context, seq uint64, value T)

type options struct {
	afterFunc AfterFunc
	parent    context.Context
}

type Option func(*options)

// WithAfterFunc replaces the wall clock, mostly for tests.
func WithAfterFunc(af AfterFunc) Option {
	return func(o *options) { o.afterFunc = af }
}

// WithContext derives every pass context from ctx.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.parent = ctx }
}

type Debouncer[T any] struct {
	delay     time.Duration
	fn        Func[T]
	afterFunc AfterFunc
	parent    context.Context

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	pending T
	seq     uint64
	cancel  context.CancelFunc
	stopped bool
}

func New[T any](delay time.Duration, fn Func[T], opts ...Option) *Debouncer[T] {
	o := options{
		afterFunc: func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		parent:    context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		delay:     delay,
		fn:        fn,
		afterFunc: o.afterFunc,
		parent:    o.parent,
	}
}

// Push records v as the latest input and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	// A timer that lost the race with Stop or a later Push is ignored.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(d.parent)
	d.cancel = cancel
	d.seq++
	seq := d.seq
	v := d.pending
	d.mu.Unlock()

	d.fn(ctx, seq, v)
}

// IsLatest reports whether seq belongs to the most recent pass.
func (d *Debouncer[T]) IsLatest(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && seq == d.seq
}

// Stop drops any pending input and cancels the in-flight pass. Pushes
// after Stop are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
