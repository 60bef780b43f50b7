// Package telemetry exports the operator-visible Prometheus counters
// and gauges named in the AMBIENT STACK: scan cycles, open positions,
// circuit-breaker trips, and equity. Grounded on the teacher's
// interfaces/http metrics endpoint.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every exported series. The app controller updates
// them after scans, closes, ticks and state reads.
type Metrics struct {
	ScanCycles        prometheus.Counter
	ScanErrors        prometheus.Counter
	OpportunitiesFound prometheus.Gauge
	OpenPositions     prometheus.Gauge
	CircuitBreakerTrips prometheus.Counter
	Equity            prometheus.Gauge
	RealizedPnL       prometheus.Gauge
	TradesTotal       *prometheus.CounterVec
}

// New registers every series against reg (typically
// prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScanCycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "screener_scan_cycles_total",
			Help: "Total number of completed screener scan cycles.",
		}),
		ScanErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "screener_scan_errors_total",
			Help: "Total number of candle-fetch errors during scans.",
		}),
		OpportunitiesFound: factory.NewGauge(prometheus.GaugeOpts{
			Name: "screener_opportunities",
			Help: "Number of opportunities published in the most recent scan.",
		}),
		OpenPositions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "paper_open_positions",
			Help: "Number of currently open simulated positions.",
		}),
		CircuitBreakerTrips: factory.NewCounter(prometheus.CounterOpts{
			Name: "risk_circuit_breaker_trips_total",
			Help: "Total number of times the risk manager's circuit breaker has tripped.",
		}),
		Equity: factory.NewGauge(prometheus.GaugeOpts{
			Name: "paper_account_equity",
			Help: "Current simulated account equity.",
		}),
		RealizedPnL: factory.NewGauge(prometheus.GaugeOpts{
			Name: "paper_realized_pnl",
			Help: "Cumulative realized profit of the simulated account.",
		}),
		TradesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paper_trades_total",
			Help: "Total number of simulated trades, by close reason.",
		}, []string{"reason"}),
	}
}
