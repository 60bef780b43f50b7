// Package screener implements the Screener Loop (spec §4.5):
// universe initialization, scheduled multi-symbol scanning, ranking,
// cooldown tracking, and opportunity publication. It is the only
// component that drives the Signal Aggregator against live market
// data; the Risk Manager and Paper Trader are driven externally by
// operator commands, never by the screener itself (spec §4.5 "A
// symbol entering the opportunity list does not auto-trade").
package screener

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sawpanic/perpscreener/internal/cache"
	"github.com/sawpanic/perpscreener/internal/domain"
	"github.com/sawpanic/perpscreener/internal/domain/clock"
	"github.com/sawpanic/perpscreener/internal/domain/indicators"
	"github.com/sawpanic/perpscreener/internal/domain/scoring"
	"github.com/sawpanic/perpscreener/internal/eventbus"
	"github.com/sawpanic/perpscreener/internal/market"
)

// Config holds every screener knob from spec §4.5 and §6.
type Config struct {
	TopCoinsCount   int     // default 100
	MinVolume24h    float64 // default 1_000_000
	ScanInterval    time.Duration // default 60s
	CooldownPeriod  time.Duration // default 5m
	BatchSize       int           // default 10
	InterBatchDelay time.Duration // default 200ms
	CandleGranularityMinutes int // default 30
	CandleCacheTTL  time.Duration // default 30s
	OrderBookDepth  int           // default 10

	// Screening validity filter (spec §4.5 step 3), stricter than the
	// risk manager's entry gates.
	MinScoreAbs      int     // default 40
	MinConfidence    float64 // default 0.7
	MaxSpreadPercent float64 // default 0.001 (0.1%)
	MinConfluence    float64 // default 0.5

	FallbackSymbols []string
}

// DefaultConfig matches the spec §4.5 defaults.
func DefaultConfig() Config {
	return Config{
		TopCoinsCount:            100,
		MinVolume24h:             1_000_000,
		ScanInterval:             60 * time.Second,
		CooldownPeriod:           5 * time.Minute,
		BatchSize:                10,
		InterBatchDelay:          200 * time.Millisecond,
		CandleGranularityMinutes: 30,
		CandleCacheTTL:           30 * time.Second,
		OrderBookDepth:           10,
		MinScoreAbs:              40,
		MinConfidence:            0.7,
		MaxSpreadPercent:         0.001,
		MinConfluence:            0.5,
		FallbackSymbols:          []string{"BTC-PERP", "ETH-PERP", "SOL-PERP"},
	}
}

// SymbolRecord holds one symbol's tick data, last signal and
// lifecycle timestamps (spec §3 "Ownership & lifecycle").
type SymbolRecord struct {
	Symbol        string
	LastTicker    market.Ticker
	LastBook      market.BookUpdate
	LastSignal    *scoring.Signal
	LastScanTime  time.Time
	CooldownUntil time.Time
}

// Opportunity is a ranked, screener-validated signal (spec §4.5
// "publish an opportunities event").
type Opportunity struct {
	Symbol      string
	Signal      scoring.Signal
	Rank        float64
	FundingRate float64
	Timestamp   time.Time
}

// Screener is the single owner of the symbol-record map and the
// published opportunity list (spec §5 "single logical writer").
type Screener struct {
	cfg       Config
	indConfig indicators.Config
	caps      scoring.Caps
	penalties scoring.ConfidencePenalties
	md        market.MarketData
	clk       clock.Clock
	bus       *eventbus.Broadcaster
	candles   *cache.CandleCache
	limiter   *rate.Limiter
	log       zerolog.Logger

	mu            sync.RWMutex
	symbols       map[string]*SymbolRecord
	opportunities []Opportunity
}

// New builds a Screener over a MarketData provider and an event
// broadcaster. candles is already bound to the screener's configured
// TTL by the caller.
func New(cfg Config, indConfig indicators.Config, caps scoring.Caps, penalties scoring.ConfidencePenalties, md market.MarketData, clk clock.Clock, bus *eventbus.Broadcaster, candles *cache.CandleCache, log zerolog.Logger) *Screener {
	return &Screener{
		cfg:       cfg,
		indConfig: indConfig,
		caps:      caps,
		penalties: penalties,
		md:        md,
		clk:       clk,
		bus:       bus,
		candles:   candles,
		limiter:   rate.NewLimiter(rate.Every(cfg.InterBatchDelay), cfg.BatchSize),
		symbols:   make(map[string]*SymbolRecord),
		log:       log.With().Str("component", "screener").Logger(),
	}
}

// Init fetches the active-contract list, filters to linear perpetuals
// above the volume floor, sorts by turnover descending and retains
// the configured top-N (spec §4.5 "Initialization"). On fetch failure
// it falls back to the configured hard-coded symbol list.
func (s *Screener) Init(ctx context.Context) error {
	contracts, err := s.md.ListContracts(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("listContracts failed, using fallback universe")
		s.seedSymbols(s.cfg.FallbackSymbols)
		return nil
	}

	filtered := make([]market.Contract, 0, len(contracts))
	for _, c := range contracts {
		if c.IsQuanto {
			continue
		}
		if c.Turnover24h < s.cfg.MinVolume24h {
			continue
		}
		filtered = append(filtered, c)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Turnover24h > filtered[j].Turnover24h })
	if len(filtered) > s.cfg.TopCoinsCount {
		filtered = filtered[:s.cfg.TopCoinsCount]
	}

	if len(filtered) == 0 {
		s.seedSymbols(s.cfg.FallbackSymbols)
		return nil
	}
	symbols := make([]string, len(filtered))
	for i, c := range filtered {
		symbols[i] = c.Symbol
	}
	s.seedSymbols(symbols)
	return nil
}

func (s *Screener) seedSymbols(symbols []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sym := range symbols {
		if _, exists := s.symbols[sym]; !exists {
			s.symbols[sym] = &SymbolRecord{Symbol: sym}
		}
	}
}

// Run subscribes to ticker (and order-book) updates for every tracked
// symbol. Tick handlers update the in-memory record in O(1) per tick
// (spec §5 "Back-pressure").
func (s *Screener) Run(ctx context.Context) error {
	s.mu.RLock()
	symbols := make([]string, 0, len(s.symbols))
	for sym := range s.symbols {
		symbols = append(symbols, sym)
	}
	s.mu.RUnlock()

	for _, sym := range symbols {
		sym := sym
		if err := s.md.SubscribeTicker(ctx, sym, func(t market.Ticker) { s.onTicker(t) }); err != nil {
			s.log.Warn().Err(err).Str("symbol", sym).Msg("subscribe ticker failed")
		}
		if err := s.md.SubscribeOrderBook(ctx, sym, s.cfg.OrderBookDepth, func(b market.BookUpdate) { s.onBook(b) }); err != nil {
			s.log.Warn().Err(err).Str("symbol", sym).Msg("subscribe order book failed")
		}
	}

	s.bus.Publish(eventbus.Event{Kind: eventbus.ScreenerStarted, Timestamp: s.clk.Now()})

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.bus.Publish(eventbus.Event{Kind: eventbus.ScreenerStopped, Timestamp: s.clk.Now()})
			return nil
		case <-ticker.C:
			s.ScanNow(ctx)
		}
	}
}

func (s *Screener) onTicker(t market.Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.symbols[t.Symbol]
	if !ok {
		return
	}
	rec.LastTicker = t
}

func (s *Screener) onBook(b market.BookUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.symbols[b.Symbol]
	if !ok {
		return
	}
	rec.LastBook = b
}

// ScanNow runs one full scan cycle over every tracked, non-cooldown
// symbol in batches, ranks the valid opportunities, and publishes the
// top 10 (spec §4.5 "Scan cycle"). If the provider reports itself
// degraded, the cycle is skipped entirely (SUPPLEMENTED FEATURES).
func (s *Screener) ScanNow(ctx context.Context) {
	if deg, ok := s.md.(market.Degraded); ok && deg.Degraded() {
		s.log.Warn().Msg("market data degraded, skipping scan cycle")
		return
	}

	now := s.clk.Now()
	s.mu.RLock()
	var candidates []string
	for sym, rec := range s.symbols {
		if now.Before(rec.CooldownUntil) {
			continue
		}
		candidates = append(candidates, sym)
	}
	s.mu.RUnlock()
	sort.Strings(candidates)

	var found []Opportunity
	for i := 0; i < len(candidates); i += s.cfg.BatchSize {
		end := i + s.cfg.BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[i:end]
		for _, sym := range batch {
			if opp, ok := s.scanOne(ctx, sym, now); ok {
				found = append(found, opp)
			}
		}
		if end < len(candidates) {
			_ = s.limiter.Wait(ctx)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Rank > found[j].Rank })
	if len(found) > 10 {
		found = found[:10]
	}

	s.mu.Lock()
	s.opportunities = found
	s.mu.Unlock()

	s.bus.Publish(eventbus.Event{Kind: eventbus.Opportunities, Payload: found, Timestamp: now})
}

func (s *Screener) scanOne(ctx context.Context, symbol string, now time.Time) (Opportunity, bool) {
	s.mu.RLock()
	rec := s.symbols[symbol]
	s.mu.RUnlock()
	if rec == nil {
		return Opportunity{}, false
	}

	candles, ok := s.candles.Get(symbol, s.cfg.CandleGranularityMinutes)
	if !ok {
		fetched, err := s.md.FetchCandles(ctx, symbol, s.cfg.CandleGranularityMinutes, time.Time{}, now)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("fetch candles failed")
			return Opportunity{}, false
		}
		candles = fetched
		s.candles.Set(symbol, s.cfg.CandleGranularityMinutes, candles)
	}

	s.mu.RLock()
	book := rec.LastBook
	ticker := rec.LastTicker
	s.mu.RUnlock()

	var bookPtr *domain.OrderBook
	if len(book.Bids) > 0 || len(book.Asks) > 0 {
		bookPtr = &domain.OrderBook{Symbol: symbol, Bids: book.Bids, Asks: book.Asks, Timestamp: book.Timestamp}
	}

	snap := indicators.Compute(candles, bookPtr, s.indConfig)
	sig := scoring.Aggregate(symbol, snap, s.caps, s.penalties, s.clk)

	s.mu.Lock()
	rec.LastSignal = &sig
	rec.LastScanTime = now
	s.mu.Unlock()

	s.bus.Publish(eventbus.Event{Kind: eventbus.SignalEvent, Payload: sig, Timestamp: now})

	if !s.passesValidityFilter(sig, ticker) {
		return Opportunity{}, false
	}

	funding, _ := s.md.FetchFundingRate(ctx, symbol)

	rank := rankScore(sig, ticker)
	return Opportunity{Symbol: symbol, Signal: sig, Rank: rank, FundingRate: funding.Rate, Timestamp: now}, true
}

func (s *Screener) passesValidityFilter(sig scoring.Signal, t market.Ticker) bool {
	if sig.Action == "HOLD" {
		return false
	}
	if abs(sig.TotalScore) < s.cfg.MinScoreAbs {
		return false
	}
	if sig.Confidence < s.cfg.MinConfidence {
		return false
	}
	if sig.Confluence < s.cfg.MinConfluence {
		return false
	}
	if t.Price > 0 {
		spread := (t.BestAsk - t.BestBid) / t.Price
		if spread > s.cfg.MaxSpreadPercent {
			return false
		}
	}
	return true
}

// rankScore implements spec §4.5's rank formula.
func rankScore(sig scoring.Signal, t market.Ticker) float64 {
	rank := (float64(abs(sig.TotalScore)) / 220.0) * 100
	rank += sig.Confidence * 50
	rank += sig.Confluence * 30

	switch {
	case t.Turnover24h >= 100_000_000:
		rank += 20
	case t.Turnover24h >= 50_000_000:
		rank += 15
	case t.Turnover24h >= 10_000_000:
		rank += 10
	case t.Turnover24h >= 5_000_000:
		rank += 5
	}

	class := string(sig.Classification)
	switch {
	case containsSub(class, "EXTREME"):
		rank += 15
	case containsSub(class, "STRONG"):
		rank += 10
	}

	if t.Price > 0 {
		spreadPct := (t.BestAsk - t.BestBid) / t.Price
		if spreadPct > 0.0005 {
			rank -= 10
		}
		if spreadPct > 0.0008 {
			rank -= 10
		}
	}
	return rank
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Opportunities returns the most recently published ranked list.
func (s *Screener) Opportunities() []Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Opportunity, len(s.opportunities))
	copy(out, s.opportunities)
	return out
}

// Signal returns the last computed signal for symbol, if any.
func (s *Screener) Signal(symbol string) (scoring.Signal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.symbols[symbol]
	if !ok || rec.LastSignal == nil {
		return scoring.Signal{}, false
	}
	return *rec.LastSignal, true
}

// Cooldown places symbol on cooldown for the configured period,
// called by the operator or automatically on a realized close (spec
// §4.5 "Cooldown").
func (s *Screener) Cooldown(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.symbols[symbol]
	if !ok {
		return
	}
	rec.CooldownUntil = s.clk.Now().Add(s.cfg.CooldownPeriod)
}
