package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/auth"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/config"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/httpx"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/insight"
	kafkax "github.com/reskianugrahsari/aplikasi-kasir/internal/kafka"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/metrics"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/postgres"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/redisx"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Local fallback snapshot
	snap, err := snapshot.Open(cfg.SnapshotPath)
	if err != nil {
		log.Fatalf("open snapshot: %v", err)
	}
	defer snap.Close()

	// Kafka producers for the change feed
	prodProducts := kafkax.NewProducer(cfg.KafkaBrokers, sales.TopicProductChanged, 1024)
	prodProducts.Start(ctx)
	prodTxs := kafkax.NewProducer(cfg.KafkaBrokers, sales.TopicTransactionCreated, 1024)
	prodTxs.Start(ctx)

	catalogRepo := &catalog.Repo{DB: db}
	salesRepo := &sales.Repo{DB: db}

	if err := catalog.Seed(ctx, catalogRepo, rdb); err != nil {
		log.Printf("seed catalog: %v", err)
	}

	sessions := &auth.Sessions{Redis: rdb, User: cfg.AdminUser, Password: cfg.AdminPassword}
	workflow := &sales.Workflow{Transactions: salesRepo, Stock: catalogRepo, Service: cfg.ServiceName}
	insightClient := insight.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	m := metrics.NewServerMetrics("api")

	carts := httpx.NewCartStore()
	authHandler := &httpx.AuthHandler{Sessions: sessions, Carts: carts}
	productsHandler := &httpx.ProductsHandler{
		Repo:     catalogRepo,
		Snapshot: snap,
		Redis:    rdb,
		Producer: prodProducts,
		Service:  cfg.ServiceName,
	}
	salesHandler := &httpx.SalesHandler{
		Carts:        carts,
		Products:     catalogRepo,
		Transactions: salesRepo,
		Workflow:     workflow,
		Snapshot:     snap,
		Producer:     prodTxs,
		Metrics:      m,
		Service:      cfg.ServiceName,
	}
	insightHandler := &httpx.InsightHandler{Products: catalogRepo, Transactions: salesRepo, Insight: insightClient}
	dashboardHandler := &httpx.DashboardHandler{Products: catalogRepo, Transactions: salesRepo}

	router := httpx.NewRouter(m)
	authHandler.RegisterPublic(router)
	router.Group(func(r chi.Router) {
		r.Use(httpx.RequireSession(sessions))
		authHandler.RegisterPrivate(r)
		productsHandler.Register(r)
		salesHandler.Register(r)
		insightHandler.Register(r)
		dashboardHandler.Register(r)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodProducts.Close()
	prodTxs.Close()
	cancel()
	prodProducts.WaitClosed()
	prodTxs.WaitClosed()
}
