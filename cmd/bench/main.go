// Command bench runs a synthetic workload against the cache and exposes
// optional pprof/Prometheus endpoints.
//
// Every worker owns one cache; caches are never shared between goroutines.
// Settings come from flags, optionally on top of a YAML file (-config).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/collection/cache"
	pmet "github.com/IvanBrykalov/collection/metrics/prom"
)

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal("bench failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}

func run(ctx context.Context, cfg Config, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ---- pprof server (on DefaultServeMux) ----
	if cfg.PprofAddr != "" {
		go func() {
			log.Info("pprof: serving", zap.String("addr", cfg.PprofAddr))
			log.Warn("pprof: stopped", zap.Error(http.ListenAndServe(cfg.PprofAddr, nil)))
		}()
	}

	// ---- Prometheus metrics ----
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info("metrics: serving", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics: server failed", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	// ---- Load generation ----
	wl := newWorkload(cfg)
	results := make([]result, cfg.Workers)

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	start := time.Now()
	for id := range cfg.Workers {
		g.Go(func() error {
			// rand.Rand is not goroutine-safe; each worker gets its own.
			r := rand.New(rand.NewSource(cfg.Seed + int64(id)*9973))
			c := newCache(cfg, id, reg, log)
			wl.preload(c, cfg.Preload, r)

			res, err := wl.run(ctx, c, r)
			results[id] = res
			if err != nil {
				return fmt.Errorf("worker %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// ---- Report ----
	var total result
	for _, r := range results {
		total.add(r)
	}
	log.Info("bench finished",
		zap.Int("workers", cfg.Workers),
		zap.Duration("elapsed", elapsed),
		zap.Uint64("ops", total.ops),
		zap.Float64("hit_rate", total.hitRate()),
		zap.Uint64("evictions", total.stats.Evictions),
		zap.Uint64("rejected", total.rejected))

	fmt.Printf("max_cost=%d workers=%d keys=%d dur=%v seed=%d\n",
		cfg.MaxCost, cfg.Workers, cfg.Keys, elapsed, cfg.Seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  rejected=%d\n",
		total.ops, float64(total.ops)/elapsed.Seconds(), total.reads, total.writes, total.rejected)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%  evictions=%d\n",
		total.hits, total.misses, total.hitRate(), total.stats.Evictions)
	fmt.Printf("entries=%d  cost=%d/%d\n", total.stats.Entries, total.stats.Cost, total.stats.MaxCost)
	return nil
}

// newCache builds the cache for one worker, with its own metric series.
func newCache(cfg Config, worker int, reg prometheus.Registerer, log *zap.Logger) *cache.Cache[string, string] {
	labels := prometheus.Labels{"worker": strconv.Itoa(worker)}
	return cache.New(cache.Options[string, string]{
		MaxCost:    cfg.MaxCost,
		Buckets:    cfg.Buckets,
		IgnoreCase: cfg.IgnoreCase,
		Metrics:    pmet.New(reg, "collection", "bench", labels),
		Logger:     log.Named("cache").With(zap.Int("worker", worker)),
	})
}
