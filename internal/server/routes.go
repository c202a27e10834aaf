package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"

	"github.com/VincentIliano/QuizMaster/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, opts Options) {
	d := &dispatcher{game: opts.Engine, metrics: opts.Metrics, logger: logger}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("QuizMaster API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, opts.Checks).Routes())
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", handleWS(d, opts.Broker))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", handleState(d))
		r.Get("/rounds", handleRounds(d))
		r.Put("/rounds", handleUpdateRounds(d))
		r.Post("/actions/{type}", handleAction(d))
		r.Get("/events", handleEvents(d, opts.Broker))
	})

	if dir := opts.ConsoleDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			logger.Info("serving console", "dir", dir)
			r.NotFound(handleConsole(dir))
		} else {
			logger.Warn("console dir not found, not serving it", "dir", dir)
		}
	}
}
