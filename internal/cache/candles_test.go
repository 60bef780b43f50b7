package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/perpscreener/internal/domain"
)

func TestCandleCache_RoundTrip(t *testing.T) {
	cc := NewMemory(time.Minute)
	candles := []domain.Candle{
		{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 12},
	}
	cc.Set("BTC-PERP", 30, candles)

	got, ok := cc.Get("BTC-PERP", 30)
	require.True(t, ok)
	assert.Equal(t, candles, got)
}

func TestCandleCache_DifferentGranularitiesAreIndependent(t *testing.T) {
	cc := NewMemory(time.Minute)
	cc.Set("BTC-PERP", 30, []domain.Candle{{Close: 1}})

	_, ok := cc.Get("BTC-PERP", 15)
	assert.False(t, ok)
}

func TestCandleCache_MissIsNotAnError(t *testing.T) {
	cc := NewMemory(time.Minute)
	_, ok := cc.Get("UNKNOWN", 30)
	assert.False(t, ok)
}

func TestCandleCache_ExpiresAfterTTL(t *testing.T) {
	cc := NewMemory(time.Millisecond)
	cc.Set("BTC-PERP", 30, []domain.Candle{{Close: 1}})
	time.Sleep(5 * time.Millisecond)
	_, ok := cc.Get("BTC-PERP", 30)
	assert.False(t, ok)
}

func TestCandleCache_ZeroTTLNeverExpires(t *testing.T) {
	cc := NewMemory(0)
	cc.Set("BTC-PERP", 30, []domain.Candle{{Close: 1}})
	time.Sleep(2 * time.Millisecond)
	_, ok := cc.Get("BTC-PERP", 30)
	assert.True(t, ok)
}
