package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS publishes events on a subject.
type NATS struct {
	conn    *nats.Conn
	subject string
}

// OpenNATS connects to url, reconnecting forever once connected.
func OpenNATS(url string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("quizmaster"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Error("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats error", "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return nc, nil
}

func NewNATS(conn *nats.Conn, subject string) *NATS {
	return &NATS{conn: conn, subject: subject}
}

func (n *NATS) Publish(_ context.Context, payload []byte) error {
	if err := n.conn.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("publishing to %s: %w", n.subject, err)
	}
	return nil
}

func (n *NATS) Check(_ context.Context) error {
	if !n.conn.IsConnected() {
		return errors.New("nats: " + n.conn.Status().String())
	}
	return nil
}
