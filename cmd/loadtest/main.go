package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/erain9/ordercache/pkg/backend/memory"
	"github.com/erain9/ordercache/pkg/core"
	"github.com/erain9/ordercache/pkg/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var (
	numWorkers      = flag.Int("workers", 64, "Number of concurrent order writers")
	ordersPerWorker = flag.Int("orders", 1000, "Orders added by each writer")
	numQueriers     = flag.Int("queriers", 4, "Number of concurrent matching size queriers")
	queriesPerRound = flag.Int("queries", 100000, "Matching size queries per querier")
	ratePerSecond   = flag.Int("rate", 0, "Maximum orders per second across all writers, 0 for unlimited")
	numSecurities   = flag.Int("securities", 10, "Number of distinct securities")
	numCompanies    = flag.Int("companies", 5, "Number of distinct companies")
	cancelEvery     = flag.Int("cancel-every", 50, "Cancel the writer's user orders every N adds, 0 to disable")
)

// Latencies are recorded in microseconds, up to one minute
const (
	minLatency = 1
	maxLatency = 60_000_000
	sigFigures = 3
)

type stats struct {
	mu      sync.Mutex
	adds    *hdrhistogram.Histogram
	queries *hdrhistogram.Histogram
}

func newStats() *stats {
	return &stats{
		adds:    hdrhistogram.New(minLatency, maxLatency, sigFigures),
		queries: hdrhistogram.New(minLatency, maxLatency, sigFigures),
	}
}

func (s *stats) record(h *hdrhistogram.Histogram, d time.Duration) {
	us := d.Microseconds()
	if us < minLatency {
		us = minLatency
	}
	s.mu.Lock()
	_ = h.RecordValue(us)
	s.mu.Unlock()
}

func validateFlags() error {
	switch {
	case *numWorkers < 0, *ordersPerWorker < 0, *numQueriers < 0, *queriesPerRound < 0:
		return errors.New("workers, orders, queriers and queries must not be negative")
	case *ratePerSecond < 0:
		return errors.New("rate must not be negative")
	case *numSecurities <= 0:
		return errors.New("securities must be positive")
	case *numCompanies <= 0:
		return errors.New("companies must be positive")
	case *cancelEvery < 0:
		return errors.New("cancel-every must not be negative")
	}
	return nil
}

func main() {
	flag.Parse()

	logCfg := logging.DefaultConfig()
	logCfg.Pretty = true
	logCfg.Output = os.Stderr
	logging.Setup(logCfg)

	if err := validateFlags(); err != nil {
		log.Fatal().Err(err).Msg("Invalid flags")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, stopping load test")
		cancel()
	}()

	cache := core.NewCache(memory.NewMemoryBackend())
	st := newStats()

	limit := rate.Inf
	burst := 1
	if *ratePerSecond > 0 {
		limit = rate.Limit(*ratePerSecond)
		burst = *ratePerSecond
	}
	limiter := rate.NewLimiter(limit, burst)

	log.Info().
		Int("workers", *numWorkers).
		Int("orders_per_worker", *ordersPerWorker).
		Int("queriers", *numQueriers).
		Int("queries", *queriesPerRound).
		Msg("Starting load test")

	start := time.Now()
	var wg sync.WaitGroup

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			runWriter(ctx, cache, limiter, st, workerID)
		}(i)
	}

	for i := 0; i < *numQueriers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runQuerier(ctx, cache, st)
		}()
	}

	wg.Wait()
	duration := time.Since(start)

	printHistogram("AddOrder", st.adds)
	printHistogram("GetMatchingSizeForSecurity", st.queries)

	log.Info().
		Dur("duration", duration).
		Int("orders_left", cache.Len()).
		Int("securities", len(cache.Securities())).
		Msg("Load test completed")
}

func securityName(n int) string {
	return fmt.Sprintf("SecId%d", n+1)
}

func runWriter(ctx context.Context, cache *core.Cache, limiter *rate.Limiter, st *stats, workerID int) {
	r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
	user := fmt.Sprintf("User%d", workerID)
	company := fmt.Sprintf("Company%d", workerID%*numCompanies)

	for j := 0; j < *ordersPerWorker; j++ {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		side := core.Buy
		if r.Intn(2) == 0 {
			side = core.Sell
		}
		order := core.NewOrder(
			uuid.NewString(),
			securityName(r.Intn(*numSecurities)),
			side,
			uint64(100*(1+r.Intn(50))),
			user,
			company,
		)

		begin := time.Now()
		cache.AddOrder(order)
		st.record(st.adds, time.Since(begin))

		if *cancelEvery > 0 && (j+1)%*cancelEvery == 0 {
			cache.CancelOrdersForUser(user)
		}
	}
}

func runQuerier(ctx context.Context, cache *core.Cache, st *stats) {
	for i := 0; i < *queriesPerRound; i++ {
		if ctx.Err() != nil {
			return
		}
		securityID := securityName(i % *numSecurities)

		begin := time.Now()
		cache.GetMatchingSizeForSecurity(securityID)
		st.record(st.queries, time.Since(begin))
	}
}

func printHistogram(name string, h *hdrhistogram.Histogram) {
	fmt.Printf("%s (%d samples, microseconds)\n", name, h.TotalCount())
	for _, q := range []float64{50, 90, 99, 99.9} {
		fmt.Printf("  p%-5v %8d\n", q, h.ValueAtQuantile(q))
	}
	fmt.Printf("  max    %8d\n", h.Max())
}
