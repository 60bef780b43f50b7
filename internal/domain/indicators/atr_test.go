package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/perpscreener/internal/domain"
)

func flatCandles(n int, price, rangeWidth float64) []domain.Candle {
	out := make([]domain.Candle, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		out[i] = domain.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      price,
			High:      price + rangeWidth/2,
			Low:       price - rangeWidth/2,
			Close:     price,
			Volume:    100,
		}
	}
	return out
}

func TestATR_InsufficientDataYieldsInvalidMediumRegime(t *testing.T) {
	res := ATR(flatCandles(5, 100, 1), DefaultATRConfig())
	assert.False(t, res.Valid)
	assert.Equal(t, RegimeMedium, res.Regime)
}

func TestATR_LowVolatilityRegime(t *testing.T) {
	res := ATR(flatCandles(30, 50000, 10), DefaultATRConfig())
	assert.True(t, res.Valid)
	assert.Equal(t, RegimeLow, res.Regime)
}

func TestATR_HighVolatilityRegime(t *testing.T) {
	res := ATR(flatCandles(30, 50000, 3000), DefaultATRConfig())
	assert.True(t, res.Valid)
	assert.Equal(t, RegimeHigh, res.Regime)
}
