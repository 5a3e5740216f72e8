package production

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/comalice/countlesson/internal/core"
	"github.com/comalice/countlesson/internal/primitives"
)

// PublishedEvent bundles an event with its machine metadata for publishing.
type PublishedEvent struct {
	Event    primitives.Event
	Metadata core.MachineMetadata
}

// ChannelPublisher forwards transitions to a Go channel.
// Publish never blocks: a full channel drops the event.
type ChannelPublisher struct {
	mu     sync.RWMutex
	ch     chan<- PublishedEvent
	closed bool
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event primitives.Event, metadata core.MachineMetadata) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil
	}
	select {
	case p.ch <- PublishedEvent{Event: event, Metadata: metadata}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Close closes the output channel. Later publishes are dropped.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}

// LogTransitions drains ch into logger until ch is closed or ctx is done.
func LogTransitions(ctx context.Context, ch <-chan PublishedEvent, logger *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case pe, ok := <-ch:
			if !ok {
				return nil
			}
			logger.Info("phase transition",
				zap.String("machine", pe.Metadata.MachineID),
				zap.String("event", pe.Event.Type),
				zap.String("from", pe.Metadata.From),
				zap.String("to", pe.Metadata.To),
				zap.Time("at", pe.Metadata.Timestamp))
		}
	}
}
