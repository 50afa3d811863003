// Command rendezvous runs one barrier-synchronized task cohort and prints
// the combined result.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jzx17/rendezvous/internal/config"
	"github.com/jzx17/rendezvous/internal/metrics"
	"github.com/jzx17/rendezvous/pkg/executor"
	"github.com/jzx17/rendezvous/pkg/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rendezvous",
		Short:         "Barrier-synchronized parallel aggregation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		configPath  string
		tasks       int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one task cohort and print the combined result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if tasks > 0 {
				cfg.Tasks = tasks
			}
			if metricsAddr != "" {
				cfg.Metrics.Enabled = true
				cfg.Metrics.Addr = metricsAddr
			}

			sinks := []types.EventSink{logSink}
			if cfg.Metrics.Enabled {
				collector := metrics.NewCollector()
				sinks = append(sinks, collector.Sink())
				go func() {
					log.Printf("metrics listening on %s", cfg.Metrics.Addr)
					if err := http.ListenAndServe(cfg.Metrics.Addr, collector.Handler()); err != nil {
						log.Printf("metrics server stopped: %v", err)
					}
				}()
			}

			execCfg := cfg.ExecutorConfig()
			execCfg.Events = types.FanoutSink(sinks...)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := executor.New(execCfg).Run(ctx, cfg.Tasks)
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}

			fmt.Printf("combined result: %g (from %d tasks)\n", result.Combined, result.Contributors)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().IntVarP(&tasks, "tasks", "n", 0, "override the configured task count")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "enable the Prometheus listener on this address")

	return cmd
}

// logSink prints observability events as they arrive
func logSink(e types.Event) {
	switch ev := e.(type) {
	case types.TaskCompleted:
		log.Printf("task %d produced partial = %g", ev.TaskID, ev.Partial)
	case types.TaskFailed:
		log.Printf("task %d failed: %v", ev.TaskID, ev.Err)
	case types.BarrierAggregated:
		log.Printf("barrier action: combined result = %g (from %d partials)", ev.Total, ev.Contributors)
	case types.RunCompleted:
		log.Printf("run %s completed: combined result = %g", ev.RunID, ev.Combined)
	case types.RunFailed:
		log.Printf("run %s failed: %v", ev.RunID, ev.Err)
	}
}
