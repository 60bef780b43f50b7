// Package market defines the MarketData capability set the screener
// depends on (spec §6 "Inbound from market-data provider"). The
// screener is fingerprint-opaque to transport: any implementation of
// this interface suffices, whether it is backed by a real exchange or
// the deterministic fake provider under market/fake.
package market

import (
	"context"
	"time"

	"github.com/sawpanic/perpscreener/internal/domain"
)

// Contract describes one tradable linear perpetual (spec §6
// "listContracts").
type Contract struct {
	Symbol      string
	IsQuanto    bool
	Turnover24h float64
	Volume24h   float64
	TickSize    float64
	LotSize     float64
	Multiplier  float64
	MaxLeverage float64
}

// Ticker is one price/quote update for a symbol (spec §6
// "subscribeTicker").
type Ticker struct {
	Symbol      string
	Price       float64
	BestBid     float64
	BestAsk     float64
	Volume24h   float64
	Turnover24h float64
	Timestamp   time.Time
}

// BookUpdate is one depth snapshot or delta for a symbol (spec §6
// "subscribeOrderBook").
type BookUpdate struct {
	Symbol    string
	Bids      []domain.OrderBookLevel
	Asks      []domain.OrderBookLevel
	Timestamp time.Time
}

// FundingRate is the last known funding rate for a symbol, optional
// per spec §6 ("fetchFundingRate — optional").
type FundingRate struct {
	Symbol string
	Rate   float64
	Time   time.Time
}

// TickerHandler and BookHandler are invoked by a MarketData
// implementation on every update; the screener installs these to
// update its per-symbol record in O(1) (spec §5 "Back-pressure").
type TickerHandler func(Ticker)
type BookHandler func(BookUpdate)

// MarketData is the abstract capability set every screener depends
// on. Implementations must not be depended on by name elsewhere in
// this module (spec §6 "fingerprint-opaque").
type MarketData interface {
	ListContracts(ctx context.Context) ([]Contract, error)
	FetchCandles(ctx context.Context, symbol string, granularityMinutes int, from, to time.Time) ([]domain.Candle, error)
	SubscribeTicker(ctx context.Context, symbol string, handler TickerHandler) error
	SubscribeOrderBook(ctx context.Context, symbol string, depth int, handler BookHandler) error
	FetchFundingRate(ctx context.Context, symbol string) (FundingRate, error)
}

// Degraded is an optional capability a MarketData implementation may
// additionally satisfy to report venue health; the screener uses it
// to skip a scan cycle on stale data rather than score it (spec
// SUPPLEMENTED FEATURES "Venue/provider health gating").
type Degraded interface {
	Degraded() bool
}
