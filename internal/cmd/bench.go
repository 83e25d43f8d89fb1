package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-flakeid/flake"
	"github.com/forestrie/go-flakeid/idmetrics"
	"github.com/forestrie/go-flakeid/snowflakeid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var ErrDuplicateID = errors.New("duplicate id issued")

func newBenchCommand(log logger.Logger) *cobra.Command {
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Issue ids from concurrent workers and report the generator metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			count, _ := cmd.Flags().GetInt("count")
			check, _ := cmd.Flags().GetBool("check")
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gcfg, err := cfg.Snowflake()
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			obs := idmetrics.NewObserver("bench")
			if err = obs.Register(reg); err != nil {
				return err
			}
			gcfg.Observer = obs
			gcfg.Log = log
			g, err := snowflakeid.NewGenerator(gcfg)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				ln, err := net.Listen("tcp", metricsAddr)
				if err != nil {
					return err
				}
				srv := &http.Server{Handler: idmetrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
				go func() { _ = srv.Serve(ln) }()
				defer srv.Close()
				if log != nil {
					log.Infof("bench: serving metrics on %s", ln.Addr())
				}
			}

			ids, elapsed, err := runBench(cmd.Context(), g, workers, count, check)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "ids: %d\n", ids)
			_, _ = fmt.Fprintf(out, "elapsed: %s\n", elapsed)
			_, _ = fmt.Fprintf(out, "rate: %.0f ids/s\n", float64(ids)/elapsed.Seconds())

			totals, err := idmetrics.Totals(reg)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(totals))
			for name := range totals {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				_, _ = fmt.Fprintf(out, "%s %g\n", name, totals[name])
			}
			return nil
		},
	}
	benchCmd.Flags().Int("workers", runtime.NumCPU(), "Concurrent callers")
	benchCmd.Flags().Int("count", 100000, "Ids per worker")
	benchCmd.Flags().Bool("check", false, "Keep every id and fail on duplicates")
	benchCmd.Flags().Bool("wait", false, "Spin for the next tick rather than retrying on exhaustion")
	benchCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address while running")
	return benchCmd
}

// runBench has each worker take count ids from g, retrying immediately on
// exhaustion.
func runBench(ctx context.Context, g *snowflakeid.Generator, workers, count int, check bool) (int64, time.Duration, error) {
	var issued atomic.Int64
	results := make([][]uint64, workers)

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			if check {
				results[w] = make([]uint64, 0, count)
			}
			for i := 0; i < count; {
				if i%1024 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				id, err := g.NextUnsignedID()
				if errors.Is(err, flake.ErrExhausted) {
					continue
				}
				if err != nil {
					return err
				}
				if check {
					results[w] = append(results[w], id)
				}
				issued.Add(1)
				i++
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return issued.Load(), time.Since(start), err
	}
	elapsed := time.Since(start)

	if check {
		seen := make(map[uint64]struct{}, workers*count)
		for _, ids := range results {
			for _, id := range ids {
				if _, ok := seen[id]; ok {
					return issued.Load(), elapsed, fmt.Errorf("%d: %w", id, ErrDuplicateID)
				}
				seen[id] = struct{}{}
			}
		}
	}
	return issued.Load(), elapsed, nil
}
