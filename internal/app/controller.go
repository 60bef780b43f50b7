// Package app wires the Signal Aggregator, Risk Manager, Paper
// Trader and Screener Loop into one Controller exposing the operator
// command surface from spec §6 as concrete methods, consumed by both
// the CLI and the HTTP/WS interfaces (SUPPLEMENTED FEATURES
// "Operator command surface as a typed controller").
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sawpanic/perpscreener/internal/cache"
	"github.com/sawpanic/perpscreener/internal/config"
	"github.com/sawpanic/perpscreener/internal/domain"
	"github.com/sawpanic/perpscreener/internal/domain/clock"
	"github.com/sawpanic/perpscreener/internal/domain/errs"
	"github.com/sawpanic/perpscreener/internal/domain/paper"
	"github.com/sawpanic/perpscreener/internal/domain/risk"
	"github.com/sawpanic/perpscreener/internal/domain/screener"
	"github.com/sawpanic/perpscreener/internal/eventbus"
	"github.com/sawpanic/perpscreener/internal/market"
	"github.com/sawpanic/perpscreener/internal/telemetry"
)

// Controller is the single entry point an operator-facing surface
// (CLI or HTTP handler) drives.
type Controller struct {
	cfg      config.Config
	clk      clock.Clock
	bus      *eventbus.Broadcaster
	md       market.MarketData
	screener *screener.Screener
	risk     *risk.Manager
	paper    *paper.Trader
	metrics  *telemetry.Metrics
	log      zerolog.Logger
}

// New wires every component from a loaded configuration.
func New(cfg config.Config, md market.MarketData, candleCache *cache.CandleCache, clk clock.Clock, bus *eventbus.Broadcaster, metrics *telemetry.Metrics, log zerolog.Logger) *Controller {
	riskMgr := risk.NewManager(cfg.Risk, cfg.Paper.InitialBalance, clk)
	trader := paper.NewTrader(cfg.Paper, riskMgr, clk, log)
	scr := screener.New(cfg.ScreenerConfig(), cfg.Indicators, cfg.Caps, cfg.Confidence, md, clk, bus, candleCache, log)

	return &Controller{
		cfg:      cfg,
		clk:      clk,
		bus:      bus,
		md:       md,
		screener: scr,
		risk:     riskMgr,
		paper:    trader,
		metrics:  metrics,
		log:      log.With().Str("component", "controller").Logger(),
	}
}

// StartScreener initializes the universe and runs the scan loop until
// ctx is cancelled (spec §6 "start_screener").
func (c *Controller) StartScreener(ctx context.Context) error {
	if err := c.screener.Init(ctx); err != nil {
		return err
	}
	return c.screener.Run(ctx)
}

// ScanNow triggers one scan cycle outside the regular schedule (spec
// §6 "scan_now").
func (c *Controller) ScanNow(ctx context.Context) {
	c.screener.ScanNow(ctx)
	c.metrics.ScanCycles.Inc()
	c.metrics.OpportunitiesFound.Set(float64(len(c.screener.Opportunities())))
}

// State is the aggregate snapshot returned by get_state (spec §6).
type State struct {
	Account      domain.Account
	Risk         domain.RiskState
	Stats        domain.Stats
	Opportunities []screener.Opportunity
}

// GetState implements spec §6 "get_state".
func (c *Controller) GetState() State {
	account := *c.paper.Account()
	c.metrics.Equity.Set(account.Equity)
	c.metrics.RealizedPnL.Set(account.RealizedProfit)
	c.metrics.OpenPositions.Set(float64(len(account.Positions)))
	return State{
		Account:       account,
		Risk:          c.risk.State(),
		Stats:         c.paper.Stats(),
		Opportunities: c.screener.Opportunities(),
	}
}

// Open implements spec §6 "open(symbol, side, price?)". Side is not
// taken as a parameter: per spec §9 it is always derived from the
// symbol's current signal, never from caller intent.
func (c *Controller) Open(ctx context.Context, symbol string, price float64) (*domain.Position, bool, errs.Rejection) {
	sig, ok := c.screener.Signal(symbol)
	if !ok {
		return nil, false, errs.Reject("no signal available for %s", symbol)
	}
	allowed, reason := c.risk.CheckEntry(sig, c.risk.TrackedCount())
	if !allowed {
		return nil, false, errs.Reject(reason)
	}

	return c.paper.Open(symbol, sig, sig.ATR.Regime, price)
}

// Close implements spec §6 "close(positionId, price?)".
func (c *Controller) Close(positionID string, price float64) (*domain.Position, error) {
	wasTripped := c.risk.State().CircuitBreakerTriggered
	pos, err := c.paper.Close(positionID, price, domain.CloseManual)
	if err == nil {
		c.screener.Cooldown(pos.Symbol)
		c.metrics.TradesTotal.WithLabelValues(string(pos.CloseReason)).Inc()
	}
	if !wasTripped && c.risk.State().CircuitBreakerTriggered {
		c.metrics.CircuitBreakerTrips.Inc()
	}
	return pos, err
}

// CloseAll implements spec §6 "close_all". priceFor supplies the
// operator-observed current price for each open symbol; when it
// returns 0 the position's last known mark price is used instead.
func (c *Controller) CloseAll(priceFor func(symbol string) float64) []*domain.Position {
	return c.paper.CloseAll(priceFor)
}

// ResetAccount implements spec §6 "reset_account" (spec §4.4
// "Reset").
func (c *Controller) ResetAccount() {
	c.paper.Reset()
}

// ResetCircuitBreaker implements spec §6 "reset_circuit_breaker".
func (c *Controller) ResetCircuitBreaker() {
	c.risk.ResetCircuitBreaker()
}

// Tick propagates a fresh market price into one open position,
// driving its stop/take/liquidation evaluation (spec §4.4 "On price
// tick").
func (c *Controller) Tick(positionID string, price float64) (paper.TickResult, error) {
	wasTripped := c.risk.State().CircuitBreakerTriggered
	result, err := c.paper.OnTick(positionID, price)
	if result.Closed != nil {
		c.screener.Cooldown(result.Closed.Symbol)
	}
	if !wasTripped && c.risk.State().CircuitBreakerTriggered {
		c.metrics.CircuitBreakerTrips.Inc()
	}
	return result, err
}

// PublishAccountUpdate emits an ACCOUNT_UPDATE event with the current
// state, intended to be called periodically (spec §6 periodic
// "STATUS_UPDATE").
func (c *Controller) PublishAccountUpdate() {
	c.bus.Publish(eventbus.Event{Kind: eventbus.AccountUpdate, Payload: c.GetState(), Timestamp: c.clk.Now()})
}
