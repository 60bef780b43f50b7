package indicators

import "github.com/sawpanic/perpscreener/internal/domain"

// Config bundles the per-indicator configuration for the full
// fourteen-indicator catalog (spec §4.1). DefaultConfig returns it
// with every field set to the spec defaults.
type Config struct {
	RSI        RSIConfig
	StochRSI   StochRSIConfig
	MACD       MACDConfig
	Bollinger  BollingerConfig
	WilliamsR  WilliamsRConfig
	Stochastic StochasticConfig
	EMATrend   EMATrendConfig
	Awesome    AwesomeConfig
	KDJ        KDJConfig
	OBV        OBVConfig
	CMF        CMFConfig
	ATR        ATRConfig
	CCI        CCIConfig
	DOM        DOMConfig
}

// DefaultConfig returns the catalog configured with every spec §4.1
// default.
func DefaultConfig() Config {
	return Config{
		RSI:        DefaultRSIConfig(),
		StochRSI:   DefaultStochRSIConfig(),
		MACD:       DefaultMACDConfig(),
		Bollinger:  DefaultBollingerConfig(),
		WilliamsR:  DefaultWilliamsRConfig(),
		Stochastic: DefaultStochasticConfig(),
		EMATrend:   DefaultEMATrendConfig(),
		Awesome:    DefaultAwesomeConfig(),
		KDJ:        DefaultKDJConfig(),
		OBV:        DefaultOBVConfig(),
		CMF:        DefaultCMFConfig(),
		ATR:        DefaultATRConfig(),
		CCI:        DefaultCCIConfig(),
		DOM:        DefaultDOMConfig(),
	}
}

// Snapshot is the full catalog output for one scan of one symbol.
// Directional holds the twelve score-contributing indicators (spec
// §4.2 step 1 excludes ATR and DOM from the directional sum); ATR and
// DOM are reported separately since neither folds into that sum the
// same way.
type Snapshot struct {
	Directional map[string]Result
	ATR         ATRResult
	DOM         Result
}

// Compute runs the full indicator catalog over a candle sequence and
// an optional order book (nil when unavailable, yielding a neutral
// DOM reading per spec §8).
func Compute(candles []domain.Candle, book *domain.OrderBook, cfg Config) Snapshot {
	closes := domain.Closes(candles)
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		volumes[i] = c.Volume
	}

	directional := map[string]Result{
		"RSI":        RSI(closes, cfg.RSI),
		"StochRSI":   StochRSI(closes, cfg.StochRSI),
		"MACD":       MACD(closes, cfg.MACD),
		"Bollinger":  Bollinger(closes, cfg.Bollinger),
		"WilliamsR":  WilliamsR(candles, cfg.WilliamsR),
		"Stochastic": Stochastic(candles, cfg.Stochastic),
		"EMATrend":   EMATrend(closes, cfg.EMATrend),
		"Awesome":    AwesomeOscillator(candles, cfg.Awesome),
		"KDJ":        KDJ(candles, cfg.KDJ),
		"OBV":        OBV(closes, volumes, cfg.OBV),
		"CMF":        CMF(candles, cfg.CMF),
		"CCI":        CCI(candles, cfg.CCI),
	}

	atrResult := ATR(candles, cfg.ATR)

	var domResult Result
	if book != nil {
		domResult = DOM(*book, cfg.DOM)
	} else {
		domResult = neutral("DOM")
	}

	return Snapshot{Directional: directional, ATR: atrResult, DOM: domResult}
}
