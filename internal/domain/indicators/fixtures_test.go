package indicators

import (
	"time"

	"github.com/sawpanic/perpscreener/internal/domain"
)

// trendingCandles builds a linear price trend with a fixed high/low
// spread around each close, useful for driving oscillators into their
// extreme zones.
func trendingCandles(n int, start, step, rangeWidth float64) []domain.Candle {
	out := make([]domain.Candle, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		close := start + step*float64(i)
		out[i] = domain.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      close - step/2,
			High:      close + rangeWidth/2,
			Low:       close - rangeWidth/2,
			Close:     close,
			Volume:    100 + float64(i),
		}
	}
	return out
}

// accumulationCandles builds candles that close at their high every
// period, the textbook pattern for sustained buying pressure.
func accumulationCandles(n int, start, step, rangeWidth float64) []domain.Candle {
	out := make([]domain.Candle, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		high := start + step*float64(i)
		out[i] = domain.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      high - rangeWidth,
			High:      high,
			Low:       high - rangeWidth,
			Close:     high,
			Volume:    100 + float64(i),
		}
	}
	return out
}

// acceleratingCloses builds a quadratically growing price series so
// that an EMA-difference histogram (MACD) keeps widening rather than
// converging, the way a linear trend's histogram eventually would.
func acceleratingCloses(n int, start, growth float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = start + growth*float64(i)*float64(i)
	}
	return out
}
