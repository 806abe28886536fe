// Package metrics exposes engine counters and gauges on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BarsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orb_bars_total", Help: "Bars processed"},
		[]string{"symbol"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orb_signals_total", Help: "Confirmed breakout signals"},
		[]string{"symbol", "direction", "condition"},
	)
	RejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orb_rejections_total", Help: "Risk rejections by reason code"},
		[]string{"code"},
	)
	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orb_trades_total", Help: "Closed trades"},
		[]string{"session", "reason", "win"},
	)
	OpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "orb_open_positions", Help: "Currently open positions"},
	)
	Equity = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "orb_equity", Help: "Account equity"},
	)
	DailyPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "orb_daily_pnl", Help: "Realized P&L for the current trading day"},
	)
)

func init() {
	prometheus.MustRegister(
		BarsTotal, SignalsTotal, RejectionsTotal, TradesTotal,
		OpenPositions, Equity, DailyPnL,
	)
}

// Serve starts the metrics endpoint in the background and returns the
// server so callers can shut it down.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
