package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/comalice/fsmx/internal/core"
	"github.com/comalice/fsmx/internal/primitives"
)

var (
	// ErrQueueFull is returned by Submit when the current batch is at capacity.
	ErrQueueFull = errors.New("trigger queue full")
	// ErrAlreadyStarted is returned by Start on a running or stopped Loop.
	ErrAlreadyStarted = errors.New("loop already started")
	// ErrStopped is returned by Attach once Stop has been called.
	ErrStopped = errors.New("loop stopped")
)

// Source is anything that produces triggers on a channel, such as
// extensibility.ChannelSource or extensibility.TimerSource.
type Source[T comparable] interface {
	Triggers() <-chan T
}

// Loop hosts a StateMachine and fires queued triggers once per tick.
// Submit, Attach and the accessors are safe for concurrent use.
type Loop[S, T comparable] struct {
	machine *core.StateMachine[S, T]
	logger  *slog.Logger

	// Guards machine and tickNum.
	mu      sync.Mutex
	tickNum uint64

	tickRate time.Duration
	ticker   *time.Ticker

	// Trigger batching
	batch       []TriggerWithMeta[T]
	batchMu     sync.Mutex
	sequenceNum uint64

	// Control
	started  bool
	stopping bool
	cancel   context.CancelFunc
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	sources  sync.WaitGroup
}

// Config configures a Loop.
type Config struct {
	TickRate         time.Duration // Fixed tick rate (default: 16.67ms, 60 FPS)
	MaxEventsPerTick int           // Trigger queue capacity (default: 1000)
	Logger           *slog.Logger  // Defaults to slog.Default()
}

// NewLoop creates a Loop around machine. The Loop owns the machine from now
// on: callers must not Fire it directly while the Loop is running.
func NewLoop[S, T comparable](machine *core.StateMachine[S, T], cfg Config) *Loop[S, T] {
	if cfg.MaxEventsPerTick <= 0 {
		cfg.MaxEventsPerTick = 1000
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loop[S, T]{
		machine:  machine,
		logger:   cfg.Logger.With(slog.String("machine_id", machine.ID())),
		tickRate: cfg.TickRate,
		batch:    make([]TriggerWithMeta[T], 0, cfg.MaxEventsPerTick),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start begins tick-based execution. A Loop can be started once.
func (l *Loop[S, T]) Start(ctx context.Context) error {
	l.batchMu.Lock()
	defer l.batchMu.Unlock()
	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true

	ctx, l.cancel = context.WithCancel(ctx)
	l.ticker = time.NewTicker(l.tickRate)
	go l.tickLoop(ctx)
	return nil
}

// Stop halts the tick loop and waits for attached sources to detach.
// Triggers still queued are discarded.
func (l *Loop[S, T]) Stop() error {
	l.stopOnce.Do(func() {
		l.batchMu.Lock()
		close(l.done)
		started := l.started
		l.started = true
		l.stopping = true
		l.batchMu.Unlock()
		if started {
			l.cancel()
			l.ticker.Stop()
			<-l.stopped
		}
	})
	l.sources.Wait()
	return nil
}

func (l *Loop[S, T]) tickLoop(ctx context.Context) {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.ticker.C:
			l.safeStep(ctx)
		}
	}
}

// safeStep runs one tick, recovering a panic raised by a guard or callback so
// the loop keeps ticking.
func (l *Loop[S, T]) safeStep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.ErrorContext(ctx, "tick panicked", slog.Any("panic", r))
		}
	}()
	_, _ = l.Step(ctx)
}

// Submit queues trigger for the next tick with default priority.
func (l *Loop[S, T]) Submit(trigger T) error {
	return l.SubmitWithPriority(trigger, 0)
}

// SubmitWithPriority queues trigger for the next tick. Higher priorities fire first.
func (l *Loop[S, T]) SubmitWithPriority(trigger T, priority int) error {
	var zero T
	if trigger == zero {
		return primitives.ErrInvalidTrigger
	}
	l.batchMu.Lock()
	defer l.batchMu.Unlock()

	if len(l.batch) >= cap(l.batch) {
		return ErrQueueFull
	}
	l.batch = append(l.batch, TriggerWithMeta[T]{
		Trigger:     trigger,
		SequenceNum: l.sequenceNum,
		Priority:    priority,
	})
	l.sequenceNum++
	return nil
}

// Attach forwards every trigger produced by src into the queue until src's
// channel closes or the Loop stops. Triggers that find the queue full are
// dropped and logged. A stopped Loop refuses new sources with ErrStopped.
func (l *Loop[S, T]) Attach(src Source[T]) error {
	l.batchMu.Lock()
	if l.stopping {
		l.batchMu.Unlock()
		return ErrStopped
	}
	l.sources.Add(1)
	l.batchMu.Unlock()

	go func() {
		defer l.sources.Done()
		ch := src.Triggers()
		for {
			select {
			case <-l.done:
				return
			case trigger, ok := <-ch:
				if !ok {
					return
				}
				if err := l.Submit(trigger); err != nil {
					l.logger.Warn("trigger dropped", slog.Any("trigger", trigger), slog.Any("error", err))
				}
			}
		}
	}()
	return nil
}

// TickNumber returns the number of completed ticks.
func (l *Loop[S, T]) TickNumber() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tickNum
}

// CurrentState returns the machine's current state.
func (l *Loop[S, T]) CurrentState() S {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.machine.CurrentState()
}

// LastOutcome returns the outcome of the most recently fired trigger.
func (l *Loop[S, T]) LastOutcome() primitives.Outcome[S, T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.machine.LastOutcome()
}
