package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/config"
	kafkax "github.com/reskianugrahsari/aplikasi-kasir/internal/kafka"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/notifier"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/postgres"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/redisx"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/snapshot"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Fallback snapshot the notifier keeps fresh
	snap, err := snapshot.Open(cfg.SnapshotPath)
	if err != nil {
		log.Fatalf("open snapshot: %v", err)
	}
	defer snap.Close()

	svc := &notifier.Service{
		Catalog:     &catalog.Repo{DB: db},
		Sales:       &sales.Repo{DB: db},
		Snapshot:    snap,
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "kasir-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	consProducts := kafkax.NewConsumer(cfg.KafkaBrokers, group, sales.TopicProductChanged, workers)
	consTxs := kafkax.NewConsumer(cfg.KafkaBrokers, group, sales.TopicTransactionCreated, workers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, sales.TopicProductChanged, workers)
		if err := consProducts.Start(ctx, svc.HandleProductChanged); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()
	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, sales.TopicTransactionCreated, workers)
		if err := consTxs.Start(ctx, svc.HandleTransactionCreated); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
