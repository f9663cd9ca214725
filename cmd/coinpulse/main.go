package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"CoinPulse/internal/collector"
	"CoinPulse/internal/config"
	"CoinPulse/internal/logger"
	"CoinPulse/internal/reporter"
	"CoinPulse/internal/scheduler"
	"CoinPulse/internal/server"
	"CoinPulse/internal/store"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config validation: %v", err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		logrus.Fatalf("init logger: %v", err)
	}
	logrus.Info("CoinPulse starting...")

	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		logrus.Fatalf("open store: %v", err)
	}
	defer st.Close()

	fetcher := collector.NewCoinGeckoFetcher(
		cfg.DataSource.BaseURL,
		cfg.DataSource.APIKey,
		time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second,
	)
	logrus.Infof("data source: %s, tracking %d coins", fetcher.Name(), len(cfg.DataSource.Coins))

	col := collector.NewCollector(fetcher, st, cfg.DataSource.Coins)
	rep := reporter.New(st, cfg.Analytics.Windows, cfg.Analytics.LookbackDays)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, rep, scheduler.Config{
		FetchCron:      cfg.Schedule.FetchCron,
		AnalyticsCron:  cfg.Schedule.AnalyticsCron,
		MaxConsecutive: cfg.Schedule.MaxFailures,
	})
	if err := sched.Register(); err != nil {
		logrus.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		logrus.Info("RUN_ON_START enabled, executing initial fetch now")
		go sched.RunNow()
	}

	srv := server.New(st, rep, cfg.Server.Debug)
	go func() {
		if err := srv.Start(cfg.Server.Host, cfg.Server.Port); err != nil {
			logrus.Fatalf("dashboard API: %v", err)
		}
	}()

	logrus.Info("CoinPulse is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logrus.Info("shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	logrus.Info("CoinPulse stopped")
}
