package production

import (
	"context"
	"sync/atomic"

	"github.com/comalice/fsmx/internal/core"
)

// ChannelPublisher forwards transition records to a Go channel.
// Publish never blocks: records are dropped when the channel is full.
type ChannelPublisher struct {
	ch      chan<- core.TransitionRecord
	dropped atomic.Uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- core.TransitionRecord) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, record core.TransitionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.ch <- record:
	default:
		p.dropped.Add(1)
	}
	return nil
}

// Dropped returns the number of records dropped on backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
