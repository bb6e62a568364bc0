// internal/httpserver/metrics.go
//
// Prometheus metrics served on GET /metrics.
// Exposes:
//   - minesweeper_games_started_total{kind}: sessions created (custom, daily).
//   - minesweeper_reveals_total{outcome}: reveal calls by outcome.
//   - minesweeper_flag_toggles_total and minesweeper_restarts_total.
//   - minesweeper_sessions: live sessions, read from the store on scrape.

package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robalobadob/minesweeper/internal/store"
)

// metrics uses its own registry so several servers (tests) can coexist.
type metrics struct {
	reg          *prometheus.Registry
	gamesStarted *prometheus.CounterVec
	reveals      *prometheus.CounterVec
	flags        prometheus.Counter
	restarts     prometheus.Counter
}

func newMetrics(st store.Store) *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "games_started_total",
			Help:      "Sessions created, by kind (custom, daily).",
		}, []string{"kind"}),
		reveals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "reveals_total",
			Help:      "Reveal calls, by outcome.",
		}, []string{"outcome"}),
		flags: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "flag_toggles_total",
			Help:      "Flag toggles that changed a cell.",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "restarts_total",
			Help:      "Explicit board restarts.",
		}),
	}
	sessions := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "minesweeper",
		Name:      "sessions",
		Help:      "Sessions currently held in memory.",
	}, func() float64 { return float64(st.Len()) })

	m.reg.MustRegister(m.gamesStarted, m.reveals, m.flags, m.restarts, sessions)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
