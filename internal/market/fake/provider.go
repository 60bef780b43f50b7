// Package fake implements a deterministic MarketData provider for
// tests and local development, grounded on the teacher's
// data/exchanges/fake adapter: seeded pseudo-random walks keyed by
// symbol so the same seed always reproduces the same candle and tick
// sequence.
package fake

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/sawpanic/perpscreener/internal/domain"
	"github.com/sawpanic/perpscreener/internal/market"
)

// Provider is a deterministic, in-process MarketData implementation.
// It never performs network I/O.
type Provider struct {
	mu         sync.Mutex
	seed       int64
	basePrices map[string]float64
	volatility float64
	degraded   bool
	contracts  []market.Contract
}

// New creates a fake provider seeded for reproducible output across
// runs with the same seed.
func New(seed int64) *Provider {
	return &Provider{
		seed:       seed,
		basePrices: defaultBasePrices(),
		volatility: 0.02,
		contracts:  defaultContracts(),
	}
}

func defaultBasePrices() map[string]float64 {
	return map[string]float64{
		"BTC-PERP": 50000,
		"ETH-PERP": 3000,
		"SOL-PERP": 100,
	}
}

func defaultContracts() []market.Contract {
	return []market.Contract{
		{Symbol: "BTC-PERP", Turnover24h: 500_000_000, Volume24h: 10000, TickSize: 0.5, LotSize: 0.001, Multiplier: 1, MaxLeverage: 100},
		{Symbol: "ETH-PERP", Turnover24h: 200_000_000, Volume24h: 50000, TickSize: 0.05, LotSize: 0.01, Multiplier: 1, MaxLeverage: 100},
		{Symbol: "SOL-PERP", Turnover24h: 40_000_000, Volume24h: 200000, TickSize: 0.01, LotSize: 0.1, Multiplier: 1, MaxLeverage: 50},
	}
}

// SetDegraded toggles the optional Degraded capability, used by tests
// exercising the screener's stale-data skip path.
func (p *Provider) SetDegraded(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.degraded = v
}

// Degraded implements market.Degraded.
func (p *Provider) Degraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.degraded
}

// SetBasePrice overrides a symbol's seed price.
func (p *Provider) SetBasePrice(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.basePrices[symbol] = price
}

// ListContracts returns the fixed fake universe.
func (p *Provider) ListContracts(ctx context.Context) ([]market.Contract, error) {
	out := make([]market.Contract, len(p.contracts))
	copy(out, p.contracts)
	return out, nil
}

func symbolSeed(seed int64, symbol string) int64 {
	var h int64 = seed
	for _, c := range symbol {
		h = h*31 + int64(c)
	}
	return h
}

// FetchCandles deterministically generates a candle sequence ending
// at to (now when to is zero), one bar per granularityMinutes, from
// the symbol's base price
// via a seeded geometric random walk.
func (p *Provider) FetchCandles(ctx context.Context, symbol string, granularityMinutes int, from, to time.Time) ([]domain.Candle, error) {
	p.mu.Lock()
	base, ok := p.basePrices[symbol]
	vol := p.volatility
	p.mu.Unlock()
	if !ok {
		base = 100
	}

	count := 200
	if !from.IsZero() && !to.IsZero() && granularityMinutes > 0 {
		span := to.Sub(from).Minutes()
		if n := int(span / float64(granularityMinutes)); n > 1 {
			count = n
		}
	}
	if to.IsZero() {
		to = time.Now()
	}

	rng := rand.New(rand.NewSource(symbolSeed(p.seed, symbol)))
	step := time.Duration(granularityMinutes) * time.Minute
	if step <= 0 {
		step = 30 * time.Minute
	}

	candles := make([]domain.Candle, count)
	price := base
	start := to.Add(-time.Duration(count) * step)
	for i := 0; i < count; i++ {
		ret := vol * (rng.Float64()*2 - 1)
		open := price
		price = price * (1 + ret)
		high := math.Max(open, price) * (1 + vol*rng.Float64()*0.3)
		low := math.Min(open, price) * (1 - vol*rng.Float64()*0.3)
		volShare := 1000 * (0.5 + rng.Float64())
		candles[i] = domain.Candle{
			Timestamp: start.Add(time.Duration(i) * step),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    volShare,
		}
	}
	return candles, nil
}

// SubscribeTicker starts a goroutine publishing a deterministic tick
// every second until ctx is cancelled.
func (p *Provider) SubscribeTicker(ctx context.Context, symbol string, handler market.TickerHandler) error {
	go func() {
		rng := rand.New(rand.NewSource(symbolSeed(p.seed, symbol) ^ 0x5a5a))
		p.mu.Lock()
		price := p.basePrices[symbol]
		vol := p.volatility
		p.mu.Unlock()
		if price == 0 {
			price = 100
		}
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				price = price * (1 + vol*0.05*(rng.Float64()*2-1))
				spread := price * 0.0005
				handler(market.Ticker{
					Symbol: symbol, Price: price,
					BestBid: price - spread/2, BestAsk: price + spread/2,
					Volume24h: 10000, Turnover24h: price * 10000,
					Timestamp: time.Now(),
				})
			}
		}
	}()
	return nil
}

// SubscribeOrderBook starts a goroutine publishing a deterministic
// two-level book every two seconds until ctx is cancelled.
func (p *Provider) SubscribeOrderBook(ctx context.Context, symbol string, depth int, handler market.BookHandler) error {
	go func() {
		rng := rand.New(rand.NewSource(symbolSeed(p.seed, symbol) ^ 0x0f0f))
		p.mu.Lock()
		price := p.basePrices[symbol]
		p.mu.Unlock()
		if price == 0 {
			price = 100
		}
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				skew := rng.Float64()*2 - 1
				bidVol := 100 * (1 + skew)
				askVol := 100 * (1 - skew)
				if bidVol < 1 {
					bidVol = 1
				}
				if askVol < 1 {
					askVol = 1
				}
				handler(market.BookUpdate{
					Symbol: symbol,
					Bids:   []domain.OrderBookLevel{{Price: price * 0.9995, Size: bidVol}},
					Asks:   []domain.OrderBookLevel{{Price: price * 1.0005, Size: askVol}},
					Timestamp: time.Now(),
				})
			}
		}
	}()
	return nil
}

// FetchFundingRate returns a small deterministic funding rate derived
// from the symbol's seed.
func (p *Provider) FetchFundingRate(ctx context.Context, symbol string) (market.FundingRate, error) {
	rng := rand.New(rand.NewSource(symbolSeed(p.seed, symbol) ^ 0x1234))
	rate := (rng.Float64()*2 - 1) * 0.0005
	return market.FundingRate{Symbol: symbol, Rate: rate, Time: time.Now()}, nil
}
