package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/VincentIliano/QuizMaster/internal/engine"
	"github.com/VincentIliano/QuizMaster/internal/handler/health"
	"github.com/VincentIliano/QuizMaster/internal/metrics"
	"github.com/VincentIliano/QuizMaster/internal/quiz"
	"github.com/VincentIliano/QuizMaster/internal/storage"
)

type testServer struct {
	srv     *Server
	game    *engine.Engine
	broker  *Broker
	reg     *prometheus.Registry
	handler http.Handler
}

func sampleRounds() []quiz.Round {
	return []quiz.Round{{
		Name:      "Capitals",
		Format:    quiz.FormatStandard,
		Points:    10,
		TimeLimit: 20,
		Questions: []quiz.Question{
			{Text: "Capital of Peru?", Answer: "Lima"},
			{Text: "Capital of Chile?", Answer: "Santiago"},
		},
	}}
}

func newTestServer(t *testing.T, consoleDir string) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.NewFileStore(t.TempDir(), "quiz_data.json", "game_state.json")
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.SaveRounds(ctx, sampleRounds()); err != nil {
		t.Fatalf("save rounds: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	broker := NewBroker()
	game := engine.New(ctx, store, engine.Options{
		Clock:    clockwork.NewFakeClock(),
		Notifier: NewHub(broker, m, logger),
		Logger:   logger,
	})
	t.Cleanup(game.Close)

	srv := New(":0", logger, Options{
		Engine:     game,
		Broker:     broker,
		Metrics:    m,
		Gatherer:   reg,
		Checks:     map[string]health.Checker{"store": store},
		ConsoleDir: consoleDir,
	})
	return &testServer{srv: srv, game: game, broker: broker, reg: reg, handler: srv.Handler()}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) action(t *testing.T, typ, body string) Result {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/actions/"+typ, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: status = %d, want %d (body: %s)", typ, rec.Code, http.StatusOK, rec.Body.String())
	}
	var res Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("%s: decoding result: %v", typ, err)
	}
	if res.State == nil {
		t.Fatalf("%s: result has no state", typ)
	}
	return res
}

func TestActionFlow(t *testing.T) {
	ts := newTestServer(t, "")

	res := ts.action(t, "assign_teams", `{"teams":["Condors","Llamas"]}`)
	if len(res.State.Teams) != 2 || res.State.Status != quiz.StatusDashboard {
		t.Fatalf("after assign_teams: teams = %d, status = %s", len(res.State.Teams), res.State.Status)
	}

	steps := []struct {
		typ    string
		body   string
		status quiz.Status
	}{
		{"select_round", `{"round":0}`, quiz.StatusRoundReady},
		{"advance_question", "", quiz.StatusIdle},
		{"advance_question", `{"autoStart":true}`, quiz.StatusListening},
		{"buzz", `{"team":1}`, quiz.StatusBuzzed},
		{"judge", `{"correct":true}`, quiz.StatusAnswerRevealed},
	}
	for _, s := range steps {
		res = ts.action(t, s.typ, s.body)
		if res.State.Status != s.status {
			t.Fatalf("after %s: status = %s, want %s", s.typ, res.State.Status, s.status)
		}
		if s.typ == "buzz" && res.Outcome != engine.BuzzAccepted {
			t.Errorf("buzz outcome = %q, want %q", res.Outcome, engine.BuzzAccepted)
		}
	}

	if got := res.State.Teams[1].Score; got != 10 {
		t.Errorf("Llamas score = %d, want 10", got)
	}
	if res.State.Answer != "Lima" {
		t.Errorf("answer = %q, want Lima", res.State.Answer)
	}
	if res.State.Question == nil || res.State.Question.Text != "Capital of Peru?" {
		t.Errorf("question = %+v", res.State.Question)
	}

	rec := ts.do(t, http.MethodGet, "/api/state", "")
	var state engine.PublicState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if state.Status != quiz.StatusAnswerRevealed || state.Teams[1].Score != 10 {
		t.Errorf("GET /api/state = %s / %d", state.Status, state.Teams[1].Score)
	}
}

func TestActionErrors(t *testing.T) {
	ts := newTestServer(t, "")

	tests := []struct {
		name    string
		path    string
		body    string
		wantErr string
	}{
		{"unknown action", "/api/actions/explode", `{}`, "unknown action"},
		{"missing team", "/api/actions/buzz", `{}`, "missing field: team"},
		{"missing verdict", "/api/actions/judge", `{}`, "missing field: correct or answer"},
		{"missing score", "/api/actions/adjust_score", `{"team":0}`, "missing field: score"},
		{"bad json", "/api/actions/buzz", `{"team":`, "invalid JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding error: %v", err)
			}
			if !strings.Contains(body.Error, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", body.Error, tt.wantErr)
			}
		})
	}
}

func TestActionWithoutBody(t *testing.T) {
	ts := newTestServer(t, "")

	res := ts.action(t, "get_state", "")
	if res.Action != "get_state" || res.State.Status != quiz.StatusDashboard {
		t.Errorf("result = %+v", res)
	}
}

func TestIgnoredActionReturnsState(t *testing.T) {
	ts := newTestServer(t, "")
	ts.action(t, "assign_teams", `{"teams":["A"]}`)

	res := ts.action(t, "buzz", `{"team":0}`)
	if res.Outcome != engine.BuzzIgnored {
		t.Errorf("outcome = %q, want %q", res.Outcome, engine.BuzzIgnored)
	}
	if res.State.Status != quiz.StatusDashboard {
		t.Errorf("status = %s, want DASHBOARD", res.State.Status)
	}
}

func TestRounds(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(t, http.MethodGet, "/api/rounds", "")
	var doc RoundsDocument
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding rounds: %v", err)
	}
	if len(doc.Rounds) != 1 || doc.Rounds[0].Name != "Capitals" {
		t.Fatalf("rounds = %+v", doc.Rounds)
	}

	body := `{"rounds":[{"name":"Capitals","type":"standard","points":5,"questions":[{"text":"Q","answer":"A"}]},{"name":"Music","type":"countdown","points":20,"questions":[]}]}`
	rec = ts.do(t, http.MethodPut, "/api/rounds", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body.String())
	}

	rounds := ts.game.Rounds()
	if len(rounds) != 2 || rounds[1].Format != quiz.FormatCountdown || rounds[0].Points != 5 {
		t.Errorf("engine rounds = %+v", rounds)
	}

	res := ts.action(t, "get_rounds", "")
	if len(res.Rounds) != 2 {
		t.Errorf("get_rounds returned %d rounds, want 2", len(res.Rounds))
	}

	rec = ts.do(t, http.MethodPut, "/api/rounds", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("PUT without rounds: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(t, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body health.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body["store"].Status != "ok" {
		t.Errorf("store status = %q, want ok", body["store"].Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	ts.action(t, "assign_teams", `{"teams":["A","B"]}`)
	ts.do(t, http.MethodPost, "/api/actions/explode", `{}`)

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`quizmaster_actions_total{action="assign_teams"} 1`,
		`quizmaster_actions_total{action="unknown"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestOpenAPI(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(t, http.MethodGet, "/openapi.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("content-type = %q, want application/json", got)
	}
	body := rec.Body.String()
	for _, path := range []string{`"/healthz"`, `"/api/state"`, `"/api/actions/{type}"`, `"/api/events"`, `"/ws"`} {
		if !strings.Contains(body, path) {
			t.Errorf("openapi document missing path %s", path)
		}
	}

	rec = ts.do(t, http.MethodGet, "/docs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("docs status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "/openapi.json") {
		t.Errorf("docs page does not reference /openapi.json")
	}
}

func TestConsole(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>console</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('quiz')"), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, dir)

	tests := []struct {
		path string
		want string
	}{
		{"/app.js", "console.log('quiz')"},
		{"/display/board", "<html>console</html>"},
		{"/", "<html>console</html>"},
	}
	for _, tt := range tests {
		rec := ts.do(t, http.MethodGet, tt.path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, http.StatusOK)
			continue
		}
		if got := rec.Body.String(); got != tt.want {
			t.Errorf("%s: body = %q, want %q", tt.path, got, tt.want)
		}
	}
}
