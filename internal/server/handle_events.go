package server

import (
	"fmt"
	"net/http"
	"time"
)

// handleEvents streams every event as Server-Sent Events, starting with the
// current state.
func handleEvents(d *dispatcher, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		viewers := d.metrics.Viewers.WithLabelValues("sse")
		viewers.Inc()
		defer viewers.Dec()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		initial, err := encodeEvent(EventState, d.game.State())
		if err != nil {
			d.logger.Error("encoding initial state", "error", err)
			return
		}
		writeSSE(w, initial)
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case msg := <-ch:
				writeSSE(w, msg)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

func writeSSE(w http.ResponseWriter, msg Message) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, msg.Payload)
}
