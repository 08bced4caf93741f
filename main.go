package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipebox/config"
	"recipebox/metrics"
	"recipebox/models"
	"recipebox/scraper/mealdb"
	"recipebox/services"
	"recipebox/storage"
	"recipebox/utils"

	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// ================== Bootstrap ====================
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Debug).With("run", uuid.NewString())
	defer logger.Sync()

	logger.Info("Recipe seed run")
	logger.Info("Max recipes: %d | Per category: %d | Fan-out: %d | Mode: %s",
		cfg.MaxRecipes, cfg.MaxPerCategory, cfg.FetchConcurrency, cfg.FetchMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	m := metrics.NewCollector("recipebox")
	report := models.NewSeedReport()
	report.OutputPath = cfg.OutputPath

	// =============== Remote API ===================================
	var getter mealdb.Getter
	if cfg.FetchMode == config.FetchModeBrowser {
		browser := mealdb.NewBrowserGetter(cfg, logger)
		defer browser.Close()
		getter = browser
	} else {
		getter = mealdb.NewHTTPGetter(cfg, logger)
	}
	client := mealdb.NewClient(cfg.APIBaseURL, getter)
	collector := mealdb.NewCollector(client, cfg, logger, m, report)

	// ========= Sinks: seed document last ===========================
	var sinks []storage.CleanStorage
	if cfg.PostgresURL != "" {
		pgWriter, err := storage.NewPostgresWriter(ctx, cfg.PostgresURL, cfg.DBRetries, logger)
		if err != nil {
			return fmt.Errorf("cannot connect to PostgreSQL: %w", err)
		}
		defer pgWriter.Close()
		sinks = append(sinks, pgWriter)
	}
	sinks = append(sinks, storage.NewJSONWriter(cfg.OutputPath, logger))

	opts := []services.Option{services.WithMetrics(m), services.WithReport(report)}
	if cfg.RawCSVPath != "" {
		opts = append(opts, services.WithRawStorage(storage.NewCSVWriter(cfg.RawCSVPath, logger)))
	}

	// =========== Pipeline ======================
	sampler := services.NewSampler(cfg.MaxRecipes, cfg.MaxPerCategory, newRand(cfg.Seed), logger)
	seeder := services.NewSeeder(collector, sampler, sinks, logger, opts...)

	doc, err := seeder.Run(ctx)
	if err != nil {
		logger.Error("Seed run failed: %v", err)
		return err
	}

	// ==== Summary ============================
	services.PrintSeedReport(os.Stdout, seeder.Report())

	m.ObserveSeedRun(start)
	if cfg.MetricsPath != "" {
		if err := m.WriteTextfile(cfg.MetricsPath); err != nil {
			logger.Warn("Failed to write metrics to %s: %v", cfg.MetricsPath, err)
		}
	}

	fmt.Printf("%s generated with %d diverse recipes\n", cfg.OutputPath, len(doc.Recipes))
	return nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
