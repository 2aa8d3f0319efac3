package extensibility

import (
	"sync"
	"time"
)

// ChannelSource is a trigger source backed by a Go channel.
type ChannelSource[T comparable] struct {
	ch chan T
}

// NewChannelSource creates a ChannelSource over ch. The channel should be
// buffered if producers must not block.
func NewChannelSource[T comparable](ch chan T) *ChannelSource[T] {
	return &ChannelSource[T]{ch: ch}
}

// Triggers returns the receive-only trigger channel.
func (s *ChannelSource[T]) Triggers() <-chan T {
	return s.ch
}

// TimerSource emits the same trigger periodically, e.g. a POLL heartbeat.
type TimerSource[T comparable] struct {
	ch      chan T
	trigger T
	ticker  *time.Ticker
	stop    chan struct{}
	once    sync.Once
}

// NewTimerSource starts a TimerSource emitting trigger every d.
func NewTimerSource[T comparable](trigger T, d time.Duration) *TimerSource[T] {
	s := &TimerSource[T]{
		ch:      make(chan T, 10),
		trigger: trigger,
		ticker:  time.NewTicker(d),
		stop:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *TimerSource[T]) run() {
	for {
		select {
		case <-s.ticker.C:
			select {
			case s.ch <- s.trigger:
			default:
				// drop if full
			}
		case <-s.stop:
			s.ticker.Stop()
			close(s.ch)
			return
		}
	}
}

// Triggers returns the trigger channel. It is closed after Stop.
func (s *TimerSource[T]) Triggers() <-chan T {
	return s.ch
}

// Stop stops the ticker and closes the channel. It is safe to call more than once.
func (s *TimerSource[T]) Stop() {
	s.once.Do(func() { close(s.stop) })
}
