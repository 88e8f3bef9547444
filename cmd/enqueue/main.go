// Package main is a one-shot CLI that queues pick jobs for a calendar day.
// Useful for backfilling after downtime; the server's periodic enqueuer covers
// normal operation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/edgestake/pickwire/internal/config"
	"github.com/edgestake/pickwire/internal/enqueue"
	"github.com/edgestake/pickwire/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("enqueue failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	today := flag.Bool("today", false, "enqueue for today's UTC date")
	dateArg := flag.String("date", "", "enqueue for a UTC date (YYYY-MM-DD)")
	leaguesArg := flag.String("leagues", "", "comma-separated league filter (default from config)")
	flag.Parse()

	if !*today && *dateArg == "" {
		return fmt.Errorf("provide -today or -date")
	}

	day := time.Now().UTC()
	if *dateArg != "" {
		parsed, err := time.Parse("2006-01-02", *dateArg)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", *dateArg, err)
		}
		day = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	leagues := cfg.Scheduler.Leagues
	if *leaguesArg != "" {
		leagues = nil
		for _, l := range strings.Split(*leaguesArg, ",") {
			if l = strings.TrimSpace(l); l != "" {
				leagues = append(leagues, strings.ToUpper(l))
			}
		}
	}

	ctx := context.Background()
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	pgStore := store.NewPostgresStore(pool)
	enqueuer := enqueue.New(pgStore, slog.Default(), cfg.Scheduler.Provider, leagues)

	created, err := enqueuer.EnqueueForDate(ctx, day, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("enqueue for date: %w", err)
	}

	slog.Info("enqueue complete",
		"date", day.Format("2006-01-02"), "leagues", leagues, "jobs_queued", created)
	return nil
}
