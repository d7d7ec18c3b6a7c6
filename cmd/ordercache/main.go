package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erain9/ordercache/config"
	"github.com/erain9/ordercache/pkg/backend/memory"
	"github.com/erain9/ordercache/pkg/core"
	"github.com/erain9/ordercache/pkg/logging"
	"github.com/erain9/ordercache/pkg/otel"
	"github.com/rs/zerolog/log"
)

var (
	configPath = flag.String("config", "", "Path to a YAML configuration file")
	seedPath   = flag.String("orders", "", "Order fixture to seed the cache with (overrides seed.file)")
	follow     = flag.Bool("follow", false, "Keep running and apply order events from the configured bus to a replica cache")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Pretty = cfg.Log.Format == "pretty"
	logCfg.Output = os.Stderr
	logging.Setup(logCfg)

	// Initialize OpenTelemetry
	cleanup, err := otel.Init(otel.Config{
		ServiceName:      cfg.Telemetry.ServiceName,
		Endpoint:         cfg.Telemetry.Endpoint,
		ExportInterval:   cfg.Telemetry.ExportInterval,
		CollectorEnabled: cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OpenTelemetry")
	}
	defer cleanup()

	if cfg.Telemetry.Enabled {
		if err := otel.StartRuntimeMetrics(0); err != nil {
			log.Warn().Err(err).Msg("Failed to start runtime metrics")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("ordercache failed")
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Subscribe before seeding so the replica sees the seed events
	var followDone <-chan error
	if *follow {
		var err error
		followDone, err = newFollower(core.NewCache(memory.NewMemoryBackend())).start(ctx, cfg)
		if err != nil {
			return err
		}
	}

	dispatcher, err := newEventSender(cfg)
	if err != nil {
		return err
	}

	opts := []core.Option{}
	if dispatcher != nil {
		defer func() {
			if err := dispatcher.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close event sender")
			}
			log.Info().
				Int64("dropped", dispatcher.Dropped()).
				Int64("failed", dispatcher.Failed()).
				Msg("Event sender closed")
		}()
		opts = append(opts, core.WithEventSender(dispatcher))
	}

	cache := core.NewCache(memory.NewMemoryBackend(), opts...)

	path := cfg.Seed.File
	if *seedPath != "" {
		path = *seedPath
	}
	if path != "" {
		orders, err := config.LoadOrders(path)
		if err != nil {
			return err
		}
		for _, order := range orders {
			cache.AddOrder(order)
		}
		log.Info().Str("file", path).Int("orders", len(orders)).Msg("Seeded order cache")
	}

	if err := writeReport(os.Stdout, cache); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if followDone == nil {
		return nil
	}
	return <-followDone
}
