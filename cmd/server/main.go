package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"oreledger/internal/audit"
	audithandler "oreledger/internal/audit/handler"
	batchhandler "oreledger/internal/batch/handler"
	batchservice "oreledger/internal/batch/service"
	batchstore "oreledger/internal/batch/store"
	certhandler "oreledger/internal/certification/handler"
	certservice "oreledger/internal/certification/service"
	certstore "oreledger/internal/certification/store"
	minehandler "oreledger/internal/mine/handler"
	mineservice "oreledger/internal/mine/service"
	minestore "oreledger/internal/mine/store"
	"oreledger/internal/platform/clock"
	"oreledger/internal/platform/config"
	"oreledger/internal/platform/httpserver"
	"oreledger/internal/platform/logger"
	"oreledger/internal/platform/metrics"
	"oreledger/internal/platform/postgres"
	platformredis "oreledger/internal/platform/redis"
	httptransport "oreledger/internal/transport/http"
	"oreledger/pkg/domain"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the registry service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger := clock.NewLedger(cfg.LedgerStart)

	var (
		mineStore  mineservice.Store
		batchStore batchservice.Store
		certStore  certservice.Store
	)

	db, err := openPostgres(ctx, cfg)
	if err != nil {
		log.Error("postgres setup failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		mineStore = minestore.NewPostgres(db)
		batchStore = batchstore.NewPostgres(db)
		certStore = certstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		mineStore = minestore.NewInMemory()
		batchStore = batchstore.NewInMemory()
		certStore = certstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		certStore = certstore.NewRedisCache(certStore, redisClient.Client)
		log.Info("certification reads cached in redis")
	}

	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Error("kafka setup failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = kafkaSink.Close(flushCtx)
		}()
		sink = kafkaSink
		log.Info("audit events published to kafka", "topic", cfg.AuditTopic)
	}
	auditStore := audit.NewInMemoryStore()
	auditor := audit.NewPublisher(auditStore, sink, log)

	mines := mineservice.NewService(mineStore, ledger, auditor)
	batches := batchservice.NewService(batchStore, mines, ledger, auditor)
	certs := certservice.NewService(certStore, batches, ledger, auditor, domain.Identity(cfg.RegistryOwner))

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:  log,
		Metrics: m,
		JWTKey:  []byte(cfg.JWTSigningKey),
		Mines:   minehandler.New(mines, log, m),
		Batches: batchhandler.New(batches, log, m),
		Certs:   certhandler.New(certs, log, m),
		Audit:   audithandler.New(auditor, log),
		DB:      db,
		Redis:   redisClient,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting oreledger", "addr", cfg.Addr, "ledger_height", uint64(ledger.Now()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return ledger.Run(gctx, cfg.LedgerTick)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.PostgresDSN == "" {
		return nil, nil
	}
	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
