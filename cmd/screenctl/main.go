package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/perpscreener/internal/app"
	"github.com/sawpanic/perpscreener/internal/cache"
	"github.com/sawpanic/perpscreener/internal/config"
	"github.com/sawpanic/perpscreener/internal/domain/clock"
	"github.com/sawpanic/perpscreener/internal/eventbus"
	"github.com/sawpanic/perpscreener/internal/eventbus/ws"
	"github.com/sawpanic/perpscreener/internal/interfaces/httpserver"
	"github.com/sawpanic/perpscreener/internal/market/fake"
	"github.com/sawpanic/perpscreener/internal/telemetry"
)

const (
	appName = "screenctl"
	version = "v0.1.0"
)

var configPath string

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Perpetual-futures opportunity screener and paper-trading simulator",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file overriding compiled-in defaults")

	rootCmd.AddCommand(
		startCmd(),
		scanNowCmd(),
		statusCmd(),
		openCmd(),
		closeCmd(),
		closeAllCmd(),
		resetAccountCmd(),
		resetCircuitBreakerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// buildController loads configuration and wires every component
// behind a fake, deterministic market-data provider — the real
// transport is an out-of-scope external collaborator (spec §1).
func buildController() (*app.Controller, *ws.Sink, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("load config: %w", err)
	}

	clk := clock.Real{}
	bus := eventbus.NewBroadcaster()
	sink := ws.NewSink(log.Logger)
	bus.Register(sink)

	md := fake.New(1)
	candleCache := cache.NewAuto(cfg.ScreenerConfig().CandleCacheTTL)
	metrics := telemetry.New(prometheus.DefaultRegisterer)

	ctrl := app.New(cfg, md, candleCache, clk, bus, metrics, log.Logger)
	return ctrl, sink, cfg, nil
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the screener loop and the dashboard/metrics HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, sink, cfg, err := buildController()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpserver.New(httpserver.DefaultConfig(cfg.MetricsAddr), sink, log.Logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(ctx) }()

			if err := ctrl.StartScreener(ctx); err != nil {
				return err
			}
			return <-errCh
		},
	}
}

func scanNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan-now",
		Short: "Trigger one scan cycle immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, _, err := buildController()
			if err != nil {
				return err
			}
			ctrl.ScanNow(cmd.Context())
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current account, risk state and opportunity list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, _, err := buildController()
			if err != nil {
				return err
			}
			state := ctrl.GetState()
			fmt.Printf("equity: %.2f  balance: %.2f  realized: %.2f\n",
				state.Account.Equity, state.Account.Balance, state.Account.RealizedProfit)
			fmt.Printf("consecutive losses: %d  circuit breaker: %v\n",
				state.Risk.ConsecutiveLosses, state.Risk.CircuitBreakerTriggered)
			fmt.Printf("opportunities: %d\n", len(state.Opportunities))
			return nil
		},
	}
}

func openCmd() *cobra.Command {
	var symbol string
	var price float64
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a position against the symbol's current signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, _, err := buildController()
			if err != nil {
				return err
			}
			pos, ok, reason := ctrl.Open(cmd.Context(), symbol, price)
			if !ok {
				return fmt.Errorf("rejected: %s", reason.Reason)
			}
			fmt.Printf("opened %s %s size=%.6f entry=%.2f\n", pos.Symbol, pos.Side, pos.Size, pos.EntryPrice)
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "contract symbol")
	cmd.Flags().Float64Var(&price, "price", 0, "market price to fill at")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("price")
	return cmd
}

func closeCmd() *cobra.Command {
	var positionID string
	var price float64
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close one open position at an operator-supplied price",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, _, err := buildController()
			if err != nil {
				return err
			}
			pos, err := ctrl.Close(positionID, price)
			if err != nil {
				return err
			}
			fmt.Printf("closed %s pnl=%.2f\n", pos.ID, pos.RealizedPnL)
			return nil
		},
	}
	cmd.Flags().StringVar(&positionID, "id", "", "position id")
	cmd.Flags().Float64Var(&price, "price", 0, "price to close at")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("price")
	return cmd
}

func closeAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close-all",
		Short: "Close every open position",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, _, err := buildController()
			if err != nil {
				return err
			}
			closed := ctrl.CloseAll(func(symbol string) float64 { return 0 })
			fmt.Printf("closed %d positions\n", len(closed))
			return nil
		},
	}
}

func resetAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-account",
		Short: "Reset the paper account to its initial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, _, err := buildController()
			if err != nil {
				return err
			}
			ctrl.ResetAccount()
			fmt.Println("account reset")
			return nil
		},
	}
}

func resetCircuitBreakerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-circuit-breaker",
		Short: "Manually clear the risk manager's circuit breaker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, _, err := buildController()
			if err != nil {
				return err
			}
			ctrl.ResetCircuitBreaker()
			fmt.Println("circuit breaker reset")
			return nil
		},
	}
}
