package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccount_RecomputeTracksUnrealizedPnLOfOpenPositionsOnly(t *testing.T) {
	a := NewAccount(10000)
	a.Positions["open"] = &Position{UnrealizedPnL: 100, Status: StatusOpen}
	a.Positions["closed"] = &Position{UnrealizedPnL: 9999, Status: StatusClosed}
	a.Margin = 50

	a.Recompute()

	assert.Equal(t, 10100.0, a.Equity)
	assert.Equal(t, 10050.0, a.FreeMargin)
}

func TestStats_ProfitFactor_InfiniteWithNoLosses(t *testing.T) {
	s := Stats{GrossProfit: 500, GrossLoss: 0}
	assert.True(t, math.IsInf(s.ProfitFactor(), 1))
}

func TestStats_ProfitFactor_ZeroWithNoTrades(t *testing.T) {
	s := Stats{}
	assert.Equal(t, 0.0, s.ProfitFactor())
}

func TestStats_ProfitFactor_RatioWithBothSides(t *testing.T) {
	s := Stats{GrossProfit: 300, GrossLoss: 100}
	assert.Equal(t, 3.0, s.ProfitFactor())
}

func TestStats_WinRate_ZeroWithNoTrades(t *testing.T) {
	s := Stats{}
	assert.Equal(t, 0.0, s.WinRate())
}

func TestStats_WinRate(t *testing.T) {
	s := Stats{TotalTrades: 4, Wins: 3}
	assert.Equal(t, 0.75, s.WinRate())
}

func TestStats_Expectancy_WeightsWinsAndLosses(t *testing.T) {
	s := Stats{TotalTrades: 2, Wins: 1, Losses: 1, GrossProfit: 100, GrossLoss: 50}
	assert.InDelta(t, 25.0, s.Expectancy(), 1e-9)
}

func TestStats_ROI(t *testing.T) {
	s := Stats{InitialBalance: 10000}
	assert.InDelta(t, 0.1, s.ROI(11000), 1e-9)
}

func TestStats_ROI_ZeroInitialBalanceIsZero(t *testing.T) {
	s := Stats{}
	assert.Equal(t, 0.0, s.ROI(11000))
}

func TestStats_RunningDays_FloorsAtOneHour(t *testing.T) {
	start := time.Now()
	s := Stats{StartTime: start}
	assert.InDelta(t, 1.0/24, s.RunningDays(start), 1e-9)
}

func TestOrderBook_VolumeSums(t *testing.T) {
	ob := OrderBook{
		Bids: []OrderBookLevel{{Price: 100, Size: 1}, {Price: 99, Size: 2}},
		Asks: []OrderBookLevel{{Price: 101, Size: 3}},
	}
	assert.Equal(t, 3.0, ob.BidVolume())
	assert.Equal(t, 3.0, ob.AskVolume())
}

func TestClosesExtractsCloseSeries(t *testing.T) {
	candles := []Candle{{Close: 1}, {Close: 2}, {Close: 3}}
	assert.Equal(t, []float64{1, 2, 3}, Closes(candles))
}
