package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/VincentIliano/QuizMaster/internal/engine"
	"github.com/VincentIliano/QuizMaster/internal/handler/health"
)

type actionPath struct {
	Type string `path:"type" description:"Action name, e.g. buzz, judge, advance_question"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "QuizMaster API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Moderator and display API for a live quiz session.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the store and the configured relays are reachable.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/state")
	getState.SetSummary("Get session state")
	getState.SetDescription("Returns the public projection of the session, the same document broadcast on every change.")
	getState.AddRespStructure(engine.PublicState{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// GET /api/rounds
	getRounds, _ := r.NewOperationContext(http.MethodGet, "/api/rounds")
	getRounds.SetSummary("List rounds")
	getRounds.SetDescription("Returns the live round definitions, including answers.")
	getRounds.AddRespStructure(RoundsDocument{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getRounds)

	// PUT /api/rounds
	putRounds, _ := r.NewOperationContext(http.MethodPut, "/api/rounds")
	putRounds.SetSummary("Replace rounds")
	putRounds.SetDescription("Replaces the round definitions in memory and in the store. Progress is kept for rounds whose name is unchanged.")
	putRounds.AddReqStructure(RoundsDocument{})
	putRounds.AddRespStructure(RoundsDocument{}, openapi.WithHTTPStatus(http.StatusOK))
	putRounds.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putRounds)

	// POST /api/actions/{type}
	postAction, _ := r.NewOperationContext(http.MethodPost, "/api/actions/{type}")
	postAction.SetSummary("Apply action")
	postAction.SetDescription("Applies one moderator or contestant action. Actions the current status does not allow are ignored and the unchanged state is returned.")
	postAction.AddReqStructure(actionPath{})
	postAction.AddReqStructure(Action{})
	postAction.AddRespStructure(Result{}, openapi.WithHTTPStatus(http.StatusOK))
	postAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postAction)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of state, tick and cue events. The current state is sent first.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("WebSocket transport")
	getWS.SetDescription("Upgrades to a WebSocket. Send Action objects; receive state, tick, cue, result and error events.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /metrics
	getMetrics, _ := r.NewOperationContext(http.MethodGet, "/metrics")
	getMetrics.SetSummary("Prometheus metrics")
	getMetrics.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getMetrics)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
