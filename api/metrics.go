package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rs/zerolog/log"
)

// metrics owns a registry per router so that several routers can live in one process.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

func newMetrics(db database.Database) metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_pages_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "code"},
	)
	registry.MustRegister(requests)

	registry.MustRegister(recordGauge("project_pages_projects", "Number of stored projects.", db.ProjectRepo().Count))
	registry.MustRegister(recordGauge("project_pages_users", "Number of user accounts.", db.UserRepo().Count))

	return metrics{registry: registry, requests: requests}
}

func recordGauge(name, help string, count func() (int64, error)) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
		n, err := count()
		if err != nil {
			log.Error().Err(err).Str("metric", name).Msg("Error counting records")
			return 0
		}
		return float64(n)
	})
}

// instrument counts requests by their chi route pattern.
func (m metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(srw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(srw.status)).Inc()
	})
}

func (m metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
