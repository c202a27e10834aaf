package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const wsWriteTimeout = 5 * time.Second

// handleWS upgrades to a websocket carrying actions in and events out. The
// client receives the current state first, then every broadcast event.
// Results and errors of its own actions go to that client only.
func handleWS(d *dispatcher, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			d.logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		viewers := d.metrics.Viewers.WithLabelValues("ws")
		viewers.Inc()
		defer viewers.Dec()

		if err := sendEvent(ctx, conn, EventState, d.game.State()); err != nil {
			d.logger.Debug("websocket write failed", "error", err)
			return
		}

		go func() {
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-ch:
					if err := send(ctx, conn, msg); err != nil {
						d.logger.Debug("websocket write failed", "error", err)
						return
					}
				}
			}
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				d.logger.Debug("websocket read ended", "error", err)
				return
			}

			if err := reply(ctx, d, conn, data); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

// reply applies one client message and answers with a result or error
// event.
func reply(ctx context.Context, d *dispatcher, conn *websocket.Conn, data []byte) error {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return sendEvent(ctx, conn, EventError, ErrorResponse{Error: "invalid JSON message"})
	}
	res, err := d.dispatch(ctx, a)
	if err != nil {
		return sendEvent(ctx, conn, EventError, ErrorResponse{Error: err.Error()})
	}
	return sendEvent(ctx, conn, EventResult, res)
}

func sendEvent(ctx context.Context, conn *websocket.Conn, t EventType, data any) error {
	msg, err := encodeEvent(t, data)
	if err != nil {
		return err
	}
	return send(ctx, conn, msg)
}

func send(ctx context.Context, conn *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg.Payload)
}
