package risk

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/perpscreener/internal/domain"
	"github.com/sawpanic/perpscreener/internal/domain/clock"
	"github.com/sawpanic/perpscreener/internal/domain/indicators"
	"github.com/sawpanic/perpscreener/internal/domain/scoring"
)

func strongLongSignal() scoring.Signal {
	return scoring.Signal{
		TotalScore:     140,
		Classification: scoring.ExtremeBuy,
		Confidence:     0.95,
		BullishCount:   8,
		BearishCount:   0,
	}
}

func TestCheckEntry_StrongSignalPasses(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	allowed, reason := m.CheckEntry(strongLongSignal(), 0)
	assert.True(t, allowed)
	assert.Empty(t, reason)
}

func TestCheckEntry_MaxOpenPositionsBlocks(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, 10000, clock.NewFake(time.Now()))
	allowed, reason := m.CheckEntry(strongLongSignal(), cfg.MaxOpenPositions)
	assert.False(t, allowed)
	assert.Contains(t, reason, "Max open positions")
}

func TestCheckEntry_LowScoreBlocks(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	weak := strongLongSignal()
	weak.TotalScore = 10
	allowed, _ := m.CheckEntry(weak, 0)
	assert.False(t, allowed)
}

func TestCheckEntry_LowConfidenceBlocks(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	weak := strongLongSignal()
	weak.Confidence = 0.5
	allowed, reason := m.CheckEntry(weak, 0)
	assert.False(t, allowed)
	assert.Contains(t, reason, "Confidence")
}

func TestCheckEntry_DailyDrawdownBlocks(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, 10000, clock.NewFake(time.Now()))
	m.UpdateBalance(10000 * (1 - cfg.MaxDailyDrawdown))
	allowed, reason := m.CheckEntry(strongLongSignal(), 0)
	assert.False(t, allowed)
	assert.Contains(t, strings.ToLower(reason), "drawdown")
}

func TestCheckEntry_CircuitBreakerBlocksAfterThreeConsecutiveLosses(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, 10000, clock.NewFake(time.Now()))

	for i := 0; i < cfg.CircuitBreakerThreshold; i++ {
		m.RecordTradeResult(-1)
	}

	allowed, reason := m.CheckEntry(strongLongSignal(), 0)
	assert.False(t, allowed)
	assert.Contains(t, reason, "Circuit breaker")
}

func TestRecordTradeResult_WinResetsConsecutiveLosses(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	m.RecordTradeResult(-1)
	m.RecordTradeResult(-1)
	m.RecordTradeResult(50)
	assert.Equal(t, 0, m.State().ConsecutiveLosses)
	assert.False(t, m.State().CircuitBreakerTriggered)
}

func TestResetCircuitBreaker_ClearsLatch(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, 10000, clock.NewFake(time.Now()))
	for i := 0; i < cfg.CircuitBreakerThreshold; i++ {
		m.RecordTradeResult(-1)
	}
	require.True(t, m.State().CircuitBreakerTriggered)

	m.ResetCircuitBreaker()
	assert.False(t, m.State().CircuitBreakerTriggered)

	allowed, _ := m.CheckEntry(strongLongSignal(), 0)
	assert.True(t, allowed)
}

func TestSizePosition_StrongLongSignalSizesWithinBounds(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	sizing := m.SizePosition(strongLongSignal(), indicators.RegimeMedium, 10000, 50000)

	require.False(t, sizing.Rejected)
	assert.Equal(t, domain.Long, sizing.Side)
	assert.Greater(t, sizing.Size, 0.0)
	assert.GreaterOrEqual(t, sizing.Leverage, 2.0)
	assert.LessOrEqual(t, sizing.Leverage, 10.0)
}

func TestSizePosition_ShortSignalWhenTotalScoreNegative(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	short := strongLongSignal()
	short.TotalScore = -140
	short.Classification = scoring.ExtremeSell
	sizing := m.SizePosition(short, indicators.RegimeMedium, 10000, 50000)
	require.False(t, sizing.Rejected)
	assert.Equal(t, domain.Short, sizing.Side)
}

func TestSizePosition_HighRegimeCapsLeverage(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, 10000, clock.NewFake(time.Now()))
	sizing := m.SizePosition(strongLongSignal(), indicators.RegimeHigh, 10000, 50000)
	require.False(t, sizing.Rejected)
	assert.LessOrEqual(t, sizing.Leverage, cfg.HighRegimeLeverageCap)
}

func TestSizePosition_InvalidInputsAreRejected(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	sizing := m.SizePosition(strongLongSignal(), indicators.RegimeMedium, 0, 50000)
	assert.True(t, sizing.Rejected)
}

func TestExitLevels_LongBracketsAroundEntry(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	sl, tp := m.ExitLevels(domain.Long, 50000, 10)
	assert.Less(t, sl, 50000.0)
	assert.Greater(t, tp, 50000.0)
}

func TestExitLevels_ShortBracketsAroundEntry(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	sl, tp := m.ExitLevels(domain.Short, 50000, 10)
	assert.Greater(t, sl, 50000.0)
	assert.Less(t, tp, 50000.0)
}

func TestLiquidationBuffer_SafeWellAboveLiquidation(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	_, safe := m.LiquidationBuffer(domain.Long, 50000, 10, 48000)
	assert.True(t, safe)
}

func TestLiquidationBuffer_UnsafeNearLiquidation(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	_, safe := m.LiquidationBuffer(domain.Long, 50000, 10, 45500)
	assert.False(t, safe)
}

func TestTrackUntrack_CountsTrackedPositions(t *testing.T) {
	m := NewManager(DefaultConfig(), 10000, clock.NewFake(time.Now()))
	m.Track("pos-1")
	m.Track("pos-2")
	assert.Equal(t, 2, m.TrackedCount())
	m.Untrack("pos-1")
	assert.Equal(t, 1, m.TrackedCount())
}

func TestMaybeDailyReset_ClearsConsecutiveLossesOnNewUTCDay(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC))
	m := NewManager(DefaultConfig(), 10000, clk)
	m.RecordTradeResult(-1)
	m.RecordTradeResult(-1)
	require.Equal(t, 2, m.State().ConsecutiveLosses)

	clk.Set(time.Date(2026, 1, 2, 0, 30, 0, 0, time.UTC))
	assert.Equal(t, 0, m.State().ConsecutiveLosses)
}
