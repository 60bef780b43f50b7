package indicators

import "github.com/sawpanic/perpscreener/internal/domain"

// DOMConfig holds the imbalance band thresholds for depth-of-market
// scoring (spec §4.1 table row 14).
type DOMConfig struct {
	InnerBand float64 // 0.1
	OuterBand float64 // 0.3
	Weight    float64
	MaxScore  int
}

// DefaultDOMConfig matches the spec defaults: bands at 0.1 and 0.3.
func DefaultDOMConfig() DOMConfig {
	return DOMConfig{InnerBand: 0.1, OuterBand: 0.3, Weight: 30, MaxScore: 30}
}

// DOM scores bid/ask depth imbalance. An empty book yields a neutral
// zero score (spec §8 boundary scenario), not an error.
func DOM(book domain.OrderBook, cfg DOMConfig) Result {
	name := "DOM"
	bidVol, askVol := book.BidVolume(), book.AskVolume()
	total := bidVol + askVol
	if total == 0 {
		return neutral(name)
	}
	imbalance := (bidVol - askVol) / total

	res := Result{Name: name, Value: imbalance, Aux: map[string]float64{
		"bid_volume": bidVol, "ask_volume": askVol,
	}}

	switch {
	case imbalance > cfg.OuterBand:
		res.Score = clampScore(cfg.Weight, cfg.MaxScore)
	case imbalance < -cfg.OuterBand:
		res.Score = clampScore(-cfg.Weight, cfg.MaxScore)
	case imbalance > cfg.InnerBand:
		res.Score = clampScore(cfg.Weight/2, cfg.MaxScore)
	case imbalance < -cfg.InnerBand:
		res.Score = clampScore(-cfg.Weight/2, cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}
