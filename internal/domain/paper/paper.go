// Package paper implements the Paper Trader (spec §4.4): order
// simulation with slippage and fees, position lifecycle, PnL and
// equity accounting, and automatic stop/take-profit triggers on
// price ticks. The Account value is owned exclusively by the Trader;
// the Risk Manager holds only position ids.
package paper

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sawpanic/perpscreener/internal/domain"
	"github.com/sawpanic/perpscreener/internal/domain/clock"
	"github.com/sawpanic/perpscreener/internal/domain/errs"
	"github.com/sawpanic/perpscreener/internal/domain/indicators"
	"github.com/sawpanic/perpscreener/internal/domain/risk"
	"github.com/sawpanic/perpscreener/internal/domain/scoring"
)

// Config holds the simulated trading costs (spec §6 "paper-trading
// costs").
type Config struct {
	InitialBalance float64
	TakerFee       float64 // default 0.0006, shared with risk.Config.TakerFee
	MakerFee       float64 // default 0.0002, unused by market-order simulation but config-visible
	Slippage       float64 // default 0.0005
}

// DefaultConfig matches the spec §6 defaults used by the teacher's
// equivalent cost table.
func DefaultConfig() Config {
	return Config{InitialBalance: 10000, TakerFee: 0.0006, MakerFee: 0.0002, Slippage: 0.0005}
}

// TradeRecord is one append-only entry in the in-memory trade log
// (spec §4.4 "Append an OPEN/CLOSE trade record"; spec §6 "no
// persisted state beyond in-memory structures").
type TradeRecord struct {
	ID         string
	PositionID string
	Symbol     string
	Side       domain.Side
	Action     string // "OPEN" or "CLOSE"
	Price      float64
	Size       float64
	Fee        float64
	PnL        float64
	Reason     domain.CloseReason
	Timestamp  time.Time
}

// Trader is the single mutator of Account (spec §5 "exactly one
// mutator at any time").
type Trader struct {
	cfg     Config
	clk     clock.Clock
	risk    *risk.Manager
	account *domain.Account
	stats   domain.Stats
	trades  []TradeRecord
	log     zerolog.Logger
}

// NewTrader starts a fresh paper trader over riskMgr, crediting the
// account with cfg.InitialBalance.
func NewTrader(cfg Config, riskMgr *risk.Manager, clk clock.Clock, log zerolog.Logger) *Trader {
	return &Trader{
		cfg:     cfg,
		clk:     clk,
		risk:    riskMgr,
		account: domain.NewAccount(cfg.InitialBalance),
		stats:   domain.Stats{InitialBalance: cfg.InitialBalance, StartTime: clk.Now()},
		log:     log.With().Str("component", "paper").Logger(),
	}
}

// Account returns the live account value. Callers must not mutate the
// returned pointer's maps directly.
func (t *Trader) Account() *domain.Account { return t.account }

// Stats returns a copy of the running statistics.
func (t *Trader) Stats() domain.Stats { return t.stats }

// Trades returns the full in-memory trade log.
func (t *Trader) Trades() []TradeRecord {
	out := make([]TradeRecord, len(t.trades))
	copy(out, t.trades)
	return out
}

// Open simulates a market-order fill and allocates a new position
// (spec §4.4 "Open"). ok is false when the risk manager rejects the
// size or there is insufficient free margin; reason explains why.
func (t *Trader) Open(symbol string, sig scoring.Signal, atrRegime indicators.ATRRegime, marketPrice float64) (pos *domain.Position, ok bool, reason errs.Rejection) {
	sizing := t.risk.SizePosition(sig, atrRegime, t.account.Equity, marketPrice)
	if sizing.Rejected || sizing.Size <= 0 {
		r := sizing.Reason
		if r == "" {
			r = "position size computed as zero"
		}
		return nil, false, errs.Reject(r)
	}

	fillPrice := marketPrice
	if sizing.Side == domain.Long {
		fillPrice = marketPrice * (1 + t.cfg.Slippage)
	} else {
		fillPrice = marketPrice * (1 - t.cfg.Slippage)
	}

	notional := sizing.Size * fillPrice
	margin := notional / sizing.Leverage
	openFee := notional * t.cfg.TakerFee

	if margin > t.account.FreeMargin {
		return nil, false, errs.Reject("insufficient free margin")
	}

	stopLoss, takeProfit := t.risk.ExitLevels(sizing.Side, fillPrice, sizing.Leverage)

	id := uuid.NewString()
	now := t.clk.Now()
	p := &domain.Position{
		ID:         id,
		Symbol:     symbol,
		Side:       sizing.Side,
		Size:       sizing.Size,
		EntryPrice: fillPrice,
		CurrentPrice: fillPrice,
		Leverage:   sizing.Leverage,
		Margin:     margin,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		OpenFee:    openFee,
		SignalSnapshot: domain.SignalSnapshot{
			TotalScore:     sig.TotalScore,
			Classification: string(sig.Classification),
			Confidence:     sig.Confidence,
			BullishCount:   sig.BullishCount,
			BearishCount:   sig.BearishCount,
		},
		OpenTime: now,
		Status:   domain.StatusOpen,
	}

	t.account.Positions[id] = p
	t.account.Margin += margin
	t.account.Balance -= openFee
	t.account.Recompute()

	t.risk.Track(id)
	t.risk.UpdateBalance(t.account.Balance)

	t.trades = append(t.trades, TradeRecord{
		ID: uuid.NewString(), PositionID: id, Symbol: symbol, Side: sizing.Side,
		Action: "OPEN", Price: fillPrice, Size: sizing.Size, Fee: openFee, Timestamp: now,
	})

	t.log.Info().Str("symbol", symbol).Str("side", string(sizing.Side)).
		Float64("size", sizing.Size).Float64("entry", fillPrice).Msg("position opened")

	return p, true, errs.Rejection{}
}

// TickResult reports what happened to one position on a price update.
type TickResult struct {
	Closed             *domain.Position
	LiquidationWarning bool
}

// OnTick updates one open position's mark price and evaluates its
// exit triggers in spec order: stop-loss, then take-profit, then the
// liquidation-buffer warning (spec §4.4 "On price tick").
func (t *Trader) OnTick(positionID string, currentPrice float64) (TickResult, error) {
	pos, found := t.account.Positions[positionID]
	if !found || pos.Status != domain.StatusOpen {
		return TickResult{}, errs.UnknownPosition{ID: positionID}
	}

	pos.CurrentPrice = currentPrice
	if pos.Side == domain.Long {
		pos.UnrealizedPnL = (currentPrice - pos.EntryPrice) * pos.Size
	} else {
		pos.UnrealizedPnL = (pos.EntryPrice - currentPrice) * pos.Size
	}
	t.account.Recompute()

	stopFired := (pos.Side == domain.Long && currentPrice <= pos.StopLoss) ||
		(pos.Side == domain.Short && currentPrice >= pos.StopLoss)
	if stopFired {
		closed, err := t.closeInternal(pos, currentPrice, domain.CloseStopLoss)
		return TickResult{Closed: closed}, err
	}

	takeFired := (pos.Side == domain.Long && currentPrice >= pos.TakeProfit) ||
		(pos.Side == domain.Short && currentPrice <= pos.TakeProfit)
	if takeFired {
		closed, err := t.closeInternal(pos, currentPrice, domain.CloseTakeProfit)
		return TickResult{Closed: closed}, err
	}

	_, safe := t.risk.LiquidationBuffer(pos.Side, pos.EntryPrice, pos.Leverage, currentPrice)
	if !safe {
		t.log.Warn().Str("position", positionID).Float64("price", currentPrice).
			Msg("liquidation buffer unsafe")
		return TickResult{LiquidationWarning: true}, nil
	}
	return TickResult{}, nil
}

// Close manually closes a position at an operator-supplied price
// (spec §4.4 "Close"; spec §6 operator command "close").
func (t *Trader) Close(positionID string, price float64, reason domain.CloseReason) (*domain.Position, error) {
	pos, found := t.account.Positions[positionID]
	if !found || pos.Status != domain.StatusOpen {
		return nil, errs.UnknownPosition{ID: positionID}
	}
	return t.closeInternal(pos, price, reason)
}

// CloseAll closes every open position with reason close_all (spec §6
// operator command "close_all").
func (t *Trader) CloseAll(priceFor func(symbol string) float64) []*domain.Position {
	var closed []*domain.Position
	for id, pos := range t.account.Positions {
		if pos.Status != domain.StatusOpen {
			continue
		}
		price := priceFor(pos.Symbol)
		if price <= 0 {
			price = pos.CurrentPrice
		}
		c, err := t.closeInternal(t.account.Positions[id], price, domain.CloseAll)
		if err == nil {
			closed = append(closed, c)
		}
	}
	return closed
}

func (t *Trader) closeInternal(pos *domain.Position, price float64, reason domain.CloseReason) (*domain.Position, error) {
	if pos.Status != domain.StatusOpen {
		return nil, errs.NewInvariantViolation("paper", fmt.Sprintf("position %s already closed", pos.ID))
	}

	fillPrice := price
	if pos.Side == domain.Long {
		fillPrice = price * (1 - t.cfg.Slippage)
	} else {
		fillPrice = price * (1 + t.cfg.Slippage)
	}

	notional := pos.Size * fillPrice
	closeFee := notional * t.cfg.TakerFee

	var grossPnL float64
	if pos.Side == domain.Long {
		grossPnL = (fillPrice - pos.EntryPrice) * pos.Size
	} else {
		grossPnL = (pos.EntryPrice - fillPrice) * pos.Size
	}
	netPnL := grossPnL - pos.OpenFee - closeFee

	now := t.clk.Now()
	pos.Status = domain.StatusClosed
	pos.ClosePrice = fillPrice
	pos.CloseFee = closeFee
	pos.RealizedPnL = netPnL
	pos.CloseTime = now
	pos.CloseReason = reason

	t.account.Margin -= pos.Margin
	if t.account.Margin < 0 {
		t.account.Margin = 0
	}
	t.account.Balance += netPnL
	t.account.RealizedProfit += netPnL
	delete(t.account.Positions, pos.ID)
	t.account.Recompute()

	t.updateStats(netPnL)

	t.trades = append(t.trades, TradeRecord{
		ID: uuid.NewString(), PositionID: pos.ID, Symbol: pos.Symbol, Side: pos.Side,
		Action: "CLOSE", Price: fillPrice, Size: pos.Size, Fee: closeFee, PnL: netPnL,
		Reason: reason, Timestamp: now,
	})

	t.risk.Untrack(pos.ID)
	t.risk.UpdateBalance(t.account.Balance)
	breakerTripped := t.risk.RecordTradeResult(netPnL)

	t.log.Info().Str("symbol", pos.Symbol).Str("reason", string(reason)).
		Float64("pnl", netPnL).Bool("breaker_tripped", breakerTripped).Msg("position closed")

	return pos, nil
}

func (t *Trader) updateStats(netPnL float64) {
	t.stats.TotalTrades++
	if netPnL >= 0 {
		t.stats.Wins++
		t.stats.GrossProfit += netPnL
	} else {
		t.stats.Losses++
		t.stats.GrossLoss += -netPnL
	}
	if t.account.Equity > t.stats.PeakEquity {
		t.stats.PeakEquity = t.account.Equity
	}
	if t.stats.PeakEquity > 0 {
		dd := (t.stats.PeakEquity - t.account.Equity) / t.stats.PeakEquity
		if dd > t.stats.MaxDrawdown {
			t.stats.MaxDrawdown = dd
		}
	}
}

// Reset restores the initial balance, empties positions and the
// trade log, and re-initializes the risk manager (spec §4.4 "Reset").
func (t *Trader) Reset() {
	now := t.clk.Now()
	t.account = domain.NewAccount(t.cfg.InitialBalance)
	t.stats = domain.Stats{InitialBalance: t.cfg.InitialBalance, StartTime: now}
	t.trades = nil
	t.risk.ResetDay(t.cfg.InitialBalance, now)
}
