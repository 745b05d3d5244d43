package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"nftmarket/internal/market/custody"
	"nftmarket/internal/market/events"
	kafkasink "nftmarket/internal/market/events/kafka"
	"nftmarket/internal/market/handler"
	marketmetrics "nftmarket/internal/market/metrics"
	"nftmarket/internal/market/payments"
	"nftmarket/internal/market/service"
	"nftmarket/internal/market/store/listings"
	"nftmarket/internal/market/store/proceeds"
	"nftmarket/internal/platform/config"
	"nftmarket/internal/platform/httpserver"
	"nftmarket/internal/platform/logger"
	platformredis "nftmarket/internal/platform/redis"
	"nftmarket/internal/ratelimit"
	httptransport "nftmarket/internal/transport/http"
	"nftmarket/pkg/domain"
	"nftmarket/pkg/platform/middleware/auth"
	"nftmarket/pkg/platform/tx"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var listingStore service.ListingStore
	var proceedsStore service.ProceedsStore
	var txRunner tx.Runner = tx.Passthrough{}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pgListings := listings.NewPostgres(db)
		pgProceeds := proceeds.NewPostgres(db)
		if err := pgListings.EnsureSchema(ctx); err != nil {
			log.Error("migrate listings", "error", err)
			os.Exit(1)
		}
		if err := pgProceeds.EnsureSchema(ctx); err != nil {
			log.Error("migrate proceeds", "error", err)
			os.Exit(1)
		}
		listingStore = pgListings
		proceedsStore = pgProceeds
		txRunner = tx.SQLRunner{DB: db}
	} else {
		log.Info("no DATABASE_URL configured, using in-memory stores")
		listingStore = listings.NewInMemoryStore()
		proceedsStore = proceeds.NewInMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	emitter := events.NewChannelEmitter(1024, log)
	sinks := []events.Sink{events.NewSlogSink(log)}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := kafkasink.New(ctx, cfg.KafkaBrokers, cfg.EventsTopic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		sinks = append(sinks, kafka)
	}
	worker := events.NewWorker(emitter, log, sinks...)

	operator := domain.Account(cfg.Operator)
	custodian := custody.NewInMemoryCustodian()
	releaser := payments.NewMemoryReleaser()

	svc := service.New(listingStore, proceedsStore, custodian, releaser, operator,
		service.WithEmitter(emitter),
		service.WithMetrics(marketmetrics.New()),
		service.WithTxRunner(txRunner),
		service.WithLogger(log),
	)

	verifier := auth.NewVerifier(cfg.JWTSigningKey, log)
	limiter := ratelimit.NewLimiter(redisClient, 60, time.Minute, log)

	router := httptransport.New(httptransport.Deps{
		Market:   handler.New(svc, log),
		Custody:  handler.NewCustodyHandler(custodian, operator, log),
		Verifier: verifier,
		Limiter:  limiter,
	})

	srv := httpserver.New(cfg.Addr, router)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		return worker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting nftmarket", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Error("shutdown", "error", err)
		os.Exit(1)
	}
}
