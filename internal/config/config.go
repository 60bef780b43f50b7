// Package config loads the typed, YAML-driven configuration covering
// every knob named in spec §6: scoring bands/caps, per-indicator
// weights and thresholds, entry-gate thresholds, risk parameters,
// paper-trading costs, and screener knobs. Defaults are compiled in;
// a YAML file overrides only the fields it sets, mirrored on the
// teacher's internal/config guards loader.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/perpscreener/internal/domain/indicators"
	"github.com/sawpanic/perpscreener/internal/domain/paper"
	"github.com/sawpanic/perpscreener/internal/domain/risk"
	"github.com/sawpanic/perpscreener/internal/domain/scoring"
	"github.com/sawpanic/perpscreener/internal/domain/screener"
)

// Mode selects the trading mode. Only "paper" is implemented here
// (spec §6 "mode ∈ {paper, live, backtest} — this spec covers
// paper").
type Mode string

const (
	ModePaper    Mode = "paper"
	ModeLive     Mode = "live"
	ModeBacktest Mode = "backtest"
)

// Config is the full typed configuration tree.
type Config struct {
	Mode Mode `yaml:"mode"`

	Indicators indicators.Config     `yaml:"indicators"`
	Caps       scoring.Caps          `yaml:"scoring_caps"`
	Confidence scoring.ConfidencePenalties `yaml:"confidence_penalties"`
	Risk       risk.Config           `yaml:"risk"`
	Paper      paper.Config          `yaml:"paper"`
	Screener   screenerYAML          `yaml:"screener"`

	MetricsAddr string `yaml:"metrics_addr"`
	WSAddr      string `yaml:"ws_addr"`
}

// screenerYAML mirrors screener.Config but expresses durations as
// milliseconds, matching spec §6's "scanIntervalMs"/"cooldownMs"
// naming.
type screenerYAML struct {
	TopCoinsCount            int     `yaml:"top_coins_count"`
	MinVolume24h             float64 `yaml:"min_volume_24h"`
	ScanIntervalMs           int     `yaml:"scan_interval_ms"`
	CooldownMs               int     `yaml:"cooldown_ms"`
	BatchSize                int     `yaml:"batch_size"`
	InterBatchDelayMs        int     `yaml:"inter_batch_delay_ms"`
	CandleGranularityMinutes int     `yaml:"candle_granularity_minutes"`
	CandleCacheTTLSeconds    int     `yaml:"candle_cache_ttl_seconds"`
	OrderBookDepth           int     `yaml:"order_book_depth"`
	MinScoreAbs              int     `yaml:"min_score_abs"`
	MinConfidence            float64 `yaml:"min_confidence"`
	MaxSpreadPercent         float64 `yaml:"max_spread_percent"`
	MinConfluence            float64 `yaml:"min_confluence"`
	FallbackSymbols          []string `yaml:"fallback_symbols"`
}

func (s screenerYAML) toScreenerConfig() screener.Config {
	cfg := screener.DefaultConfig()
	if s.TopCoinsCount > 0 {
		cfg.TopCoinsCount = s.TopCoinsCount
	}
	if s.MinVolume24h > 0 {
		cfg.MinVolume24h = s.MinVolume24h
	}
	if s.ScanIntervalMs > 0 {
		cfg.ScanInterval = time.Duration(s.ScanIntervalMs) * time.Millisecond
	}
	if s.CooldownMs > 0 {
		cfg.CooldownPeriod = time.Duration(s.CooldownMs) * time.Millisecond
	}
	if s.BatchSize > 0 {
		cfg.BatchSize = s.BatchSize
	}
	if s.InterBatchDelayMs > 0 {
		cfg.InterBatchDelay = time.Duration(s.InterBatchDelayMs) * time.Millisecond
	}
	if s.CandleGranularityMinutes > 0 {
		cfg.CandleGranularityMinutes = s.CandleGranularityMinutes
	}
	if s.CandleCacheTTLSeconds > 0 {
		cfg.CandleCacheTTL = time.Duration(s.CandleCacheTTLSeconds) * time.Second
	}
	if s.OrderBookDepth > 0 {
		cfg.OrderBookDepth = s.OrderBookDepth
	}
	if s.MinScoreAbs > 0 {
		cfg.MinScoreAbs = s.MinScoreAbs
	}
	if s.MinConfidence > 0 {
		cfg.MinConfidence = s.MinConfidence
	}
	if s.MaxSpreadPercent > 0 {
		cfg.MaxSpreadPercent = s.MaxSpreadPercent
	}
	if s.MinConfluence > 0 {
		cfg.MinConfluence = s.MinConfluence
	}
	if len(s.FallbackSymbols) > 0 {
		cfg.FallbackSymbols = s.FallbackSymbols
	}
	return cfg
}

// ScreenerConfig materializes the screener.Config this configuration
// implies.
func (c Config) ScreenerConfig() screener.Config {
	return c.Screener.toScreenerConfig()
}

// Default returns the full compiled-in default configuration.
func Default() Config {
	return Config{
		Mode:        ModePaper,
		Indicators:  indicators.DefaultConfig(),
		Caps:        scoring.DefaultCaps(),
		Confidence:  scoring.DefaultConfidencePenalties(),
		Risk:        risk.DefaultConfig(),
		Paper:       paper.DefaultConfig(),
		Screener:    screenerYAMLDefaults(),
		MetricsAddr: ":9090",
		WSAddr:      ":8080",
	}
}

func screenerYAMLDefaults() screenerYAML {
	d := screener.DefaultConfig()
	return screenerYAML{
		TopCoinsCount:            d.TopCoinsCount,
		MinVolume24h:             d.MinVolume24h,
		ScanIntervalMs:           int(d.ScanInterval.Milliseconds()),
		CooldownMs:               int(d.CooldownPeriod.Milliseconds()),
		BatchSize:                d.BatchSize,
		InterBatchDelayMs:        int(d.InterBatchDelay.Milliseconds()),
		CandleGranularityMinutes: d.CandleGranularityMinutes,
		CandleCacheTTLSeconds:    int(d.CandleCacheTTL.Seconds()),
		OrderBookDepth:           d.OrderBookDepth,
		MinScoreAbs:              d.MinScoreAbs,
		MinConfidence:            d.MinConfidence,
		MaxSpreadPercent:         d.MaxSpreadPercent,
		MinConfluence:            d.MinConfluence,
		FallbackSymbols:          d.FallbackSymbols,
	}
}

// Load reads path and overlays it onto Default(). A missing file is
// not an error: the caller gets the compiled-in defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
