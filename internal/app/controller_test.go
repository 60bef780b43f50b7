package app

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/perpscreener/internal/cache"
	"github.com/sawpanic/perpscreener/internal/config"
	"github.com/sawpanic/perpscreener/internal/domain/clock"
	"github.com/sawpanic/perpscreener/internal/eventbus"
	"github.com/sawpanic/perpscreener/internal/market/fake"
	"github.com/sawpanic/perpscreener/internal/telemetry"
)

func newTestController() *Controller {
	cfg := config.Default()
	md := fake.New(1)
	clk := clock.NewFake(time.Now())
	bus := eventbus.NewBroadcaster()
	metrics := telemetry.New(prometheus.NewRegistry())
	return New(cfg, md, cache.NewMemory(cfg.ScreenerConfig().CandleCacheTTL), clk, bus, metrics, zerolog.Nop())
}

func TestGetState_ReflectsFreshAccount(t *testing.T) {
	ctrl := newTestController()
	state := ctrl.GetState()
	assert.Equal(t, config.Default().Paper.InitialBalance, state.Account.Balance)
	assert.Empty(t, state.Opportunities)
}

func TestScanNow_UpdatesOpportunitiesMetric(t *testing.T) {
	ctrl := newTestController()
	require.NoError(t, ctrl.screener.Init(context.Background()))
	ctrl.ScanNow(context.Background())
	var m dto.Metric
	require.NoError(t, ctrl.metrics.OpportunitiesFound.Write(&m))
	assert.Equal(t, float64(len(ctrl.screener.Opportunities())), m.GetGauge().GetValue())
}

func TestOpen_NoSignalIsRejected(t *testing.T) {
	ctrl := newTestController()
	_, ok, reason := ctrl.Open(context.Background(), "UNKNOWN-PERP", 100)
	assert.False(t, ok)
	assert.Contains(t, reason.Reason, "no signal")
}

func TestClose_UnknownPositionIsAnError(t *testing.T) {
	ctrl := newTestController()
	_, err := ctrl.Close("does-not-exist", 100)
	assert.Error(t, err)
}

func TestResetAccount_RestoresInitialBalance(t *testing.T) {
	ctrl := newTestController()
	ctrl.ResetAccount()
	state := ctrl.GetState()
	assert.Equal(t, config.Default().Paper.InitialBalance, state.Account.Balance)
}

func TestResetCircuitBreaker_ClearsTriggeredFlag(t *testing.T) {
	ctrl := newTestController()
	ctrl.ResetCircuitBreaker()
	state := ctrl.GetState()
	assert.False(t, state.Risk.CircuitBreakerTriggered)
}
