package server

import (
	"log/slog"

	"github.com/VincentIliano/QuizMaster/internal/engine"
	"github.com/VincentIliano/QuizMaster/internal/metrics"
	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

// Relay receives every encoded event for delivery outside the process.
// Publish must not block.
type Relay interface {
	Publish(payload []byte)
}

// TickData is the payload of a tick event.
type TickData struct {
	Remaining int `json:"remaining"`
}

// CueData is the payload of a cue event.
type CueData struct {
	Cue quiz.Cue `json:"cue"`
}

// Hub is the engine's Notifier. It encodes each notification once and hands
// it to the broker and every relay. The engine calls it while holding its
// lock, so nothing here blocks.
type Hub struct {
	broker  *Broker
	relays  []Relay
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHub(broker *Broker, m *metrics.Metrics, logger *slog.Logger, relays ...Relay) *Hub {
	return &Hub{broker: broker, relays: relays, metrics: m, logger: logger}
}

func (h *Hub) StateChanged(state engine.PublicState) {
	h.emit(EventState, state)
}

func (h *Hub) TimerTick(remaining int) {
	h.metrics.TimerTicks.Inc()
	h.emit(EventTick, TickData{Remaining: remaining})
}

func (h *Hub) PlayCue(cue quiz.Cue) {
	h.metrics.Cues.WithLabelValues(string(cue)).Inc()
	h.emit(EventCue, CueData{Cue: cue})
}

func (h *Hub) emit(t EventType, data any) {
	msg, err := encodeEvent(t, data)
	if err != nil {
		h.logger.Error("encoding event", "type", t, "error", err)
		return
	}
	h.broker.Publish(msg)
	for _, r := range h.relays {
		r.Publish(msg.Payload)
	}
}
