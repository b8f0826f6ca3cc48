package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
	httpAdapter "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
)

// meteredRunner counts finished runs on top of the engine.
type meteredRunner struct {
	*arbor.Engine
	metrics *observability.Metrics
}

func (m *meteredRunner) Run(ctx context.Context, seed map[string]any) (*domain.Record, error) {
	rec, err := m.Engine.Run(ctx, seed)
	if rec != nil {
		m.metrics.ObserveRun(rec)
	}
	return rec, err
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the call processing HTTP server",
	Long:  `Starts the Arbor engine in server mode: call uploads in, execution records out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		recordTTL, _ := cmd.Flags().GetDuration("record-ttl")
		stepLimit, _ := cmd.Flags().GetInt("step-limit")

		logger := newLogger(cmd)

		tree, err := arbor.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load tree: %w", err)
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

		engine := arbor.New(tree, arbor.DefaultRegistry(),
			arbor.WithLogger(logger),
			arbor.WithHooks(metrics.Hooks()),
			arbor.WithMaxSteps(stepLimit),
		)

		var store ports.RecordStore
		if redisAddr != "" {
			rs := redisAdapter.New(redisAddr, "", 0, redisAdapter.WithTTL(recordTTL))
			defer rs.Close()
			store = rs
			logger.Info("using redis record store", "addr", redisAddr)
		} else {
			store = memory.NewStore()
			logger.Info("using in-memory record store")
		}

		runner := &meteredRunner{Engine: engine, metrics: metrics}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/", httpAdapter.NewHandler(runner, store, httpAdapter.WithLogger(logger)))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting arbor server", "addr", srv.Addr, "tree", tree.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("failed to stop server: %w", err)
				}
			}
			logger.Info("arbor server stopped")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the record store (empty = in-memory)")
	serveCmd.Flags().Duration("record-ttl", 0, "Expiration for stored records (0 = keep forever)")
	serveCmd.Flags().Int("step-limit", 0, "Traversal step limit (0 = default)")
}
