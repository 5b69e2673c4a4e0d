// Package metrics exposes Prometheus instrumentation for the reputation
// engine and a small mux-served scrape endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Registry holds all engine metrics.
type Registry struct {
	AnalysesTotal     *prometheus.CounterVec
	CollaboratorCalls *prometheus.CounterVec
	EscalationsTotal  *prometheus.CounterVec
	BriefDuration     prometheus.Histogram
	InsightWriteFails prometheus.Counter

	prom *prometheus.Registry
}

// NewRegistry creates and registers all engine metrics on a private
// Prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reputation_analyses_total",
				Help: "Engine actions executed, by action and result",
			},
			[]string{"action", "result"},
		),
		CollaboratorCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reputation_collaborator_calls_total",
				Help: "Collaborator round trips, by capability and status",
			},
			[]string{"capability", "status"},
		),
		EscalationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reputation_escalations_total",
				Help: "Escalation recommendations produced, by severity",
			},
			[]string{"severity"},
		),
		BriefDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reputation_brief_duration_seconds",
				Help:    "Wall time of reputation brief generation",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
		),
		InsightWriteFails: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "reputation_insight_write_failures_total",
				Help: "Best-effort insight store writes that failed",
			},
		),
		prom: prometheus.NewRegistry(),
	}

	r.prom.MustRegister(
		r.AnalysesTotal,
		r.CollaboratorCalls,
		r.EscalationsTotal,
		r.BriefDuration,
		r.InsightWriteFails,
	)

	return r
}

// Handler returns the scrape handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}

// Server serves /metrics and /healthz.
type Server struct {
	srv *http.Server
}

// NewServer builds the metrics HTTP server on addr.
func NewServer(addr string, registry *Registry) *Server {
	router := mux.NewRouter()
	router.Handle("/metrics", registry.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Start serves until the listener fails or Close is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.srv.Addr).Msg("metrics server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts the listener down.
func (s *Server) Close() error {
	return s.srv.Close()
}
