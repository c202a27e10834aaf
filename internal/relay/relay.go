// Package relay forwards outward notifications to processes outside the
// server: Redis pub/sub channels and NATS subjects.
package relay

import (
	"context"
	"log/slog"
	"time"
)

// Publisher delivers one encoded event.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

const publishTimeout = 2 * time.Second

// Async decouples a Publisher from the caller. Publish never blocks: when
// the buffer is full the event is dropped and counted.
type Async struct {
	name   string
	pub    Publisher
	logger *slog.Logger
	queue  chan []byte

	// OnDrop, when set, is called for every dropped event.
	OnDrop func(name string)
}

func NewAsync(name string, pub Publisher, buffer int, logger *slog.Logger) *Async {
	return &Async{
		name:   name,
		pub:    pub,
		logger: logger,
		queue:  make(chan []byte, buffer),
	}
}

func (a *Async) Name() string { return a.name }

// Publish enqueues payload for delivery.
func (a *Async) Publish(payload []byte) {
	select {
	case a.queue <- payload:
	default:
		a.logger.Warn("relay queue full, dropping event", "relay", a.name)
		if a.OnDrop != nil {
			a.OnDrop(a.name)
		}
	}
}

// Run delivers queued events until ctx is done.
func (a *Async) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload := <-a.queue:
			pctx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := a.pub.Publish(pctx, payload); err != nil {
				a.logger.Error("relay publish failed", "relay", a.name, "error", err)
			}
			cancel()
		}
	}
}
