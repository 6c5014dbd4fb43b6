package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"hindsight/internal/anonymize"
	"hindsight/internal/audit"
	"hindsight/internal/auditpack"
	auditpackhandler "hindsight/internal/auditpack/handler"
	auditpackmetrics "hindsight/internal/auditpack/metrics"
	"hindsight/internal/company/cache"
	companyhandler "hindsight/internal/company/handler"
	companymetrics "hindsight/internal/company/metrics"
	companyservice "hindsight/internal/company/service"
	companystore "hindsight/internal/company/store"
	"hindsight/internal/decision"
	decisionhandler "hindsight/internal/decision/handler"
	"hindsight/internal/disclosure"
	disclosurehandler "hindsight/internal/disclosure/handler"
	"hindsight/internal/governance"
	governancehandler "hindsight/internal/governance/handler"
	httptransport "hindsight/internal/http"
	"hindsight/internal/platform/config"
	"hindsight/internal/platform/httpserver"
	"hindsight/internal/platform/logger"
	platformredis "hindsight/internal/platform/redis"
	"hindsight/internal/record"
	recordmetrics "hindsight/internal/record/metrics"
	"hindsight/internal/registry"
	registryhandler "hindsight/internal/registry/handler"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	var (
		companies   companystore.Store
		records     record.Store
		db          *sql.DB
		healthCheck = map[string]httptransport.HealthChecker{}
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		if err := db.Ping(); err != nil {
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		companies = companystore.NewPostgres(db)
		records = record.NewPostgres(db)
		healthCheck["postgres"] = dbHealth{db}
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		companies = companystore.NewInMemory()
		records = record.NewInMemory()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		healthCheck["redis"] = redisClient
	}

	emitter := audit.NewEmitter(log)
	companySvc := companyservice.New(companies, emitter,
		companyservice.WithCache(cache.New(redisClient, config.CredentialCacheTTL)),
		companyservice.WithMetrics(companymetrics.New()),
	)
	hasher := anonymize.NewHasher(companySvc)

	recMetrics := recordmetrics.New()
	registrySvc := registry.New(records, emitter, recMetrics)
	renderer, err := disclosure.NewRenderer()
	if err != nil {
		log.Error("failed to load disclosure templates", "error", err)
		os.Exit(1)
	}
	disclosureSvc := disclosure.New(records, renderer, hasher, recMetrics)
	decisionSvc := decision.New(records, hasher, recMetrics)
	governanceSvc := governance.New(records, recMetrics)
	packGenerator := auditpack.New(records, hasher, auditpackmetrics.New())

	companyHandler := companyhandler.New(companySvc, log)
	router := httptransport.New(httptransport.Deps{
		Logger:        log,
		Authenticator: companySvc,
		Public: []func(chi.Router){
			companyHandler.RegisterPublic,
		},
		Authenticated: []httptransport.RouteRegistrar{
			companyHandler,
			registryhandler.New(registrySvc, log),
			disclosurehandler.New(disclosureSvc, log),
			decisionhandler.New(decisionSvc, log),
			governancehandler.New(governanceSvc, log),
			auditpackhandler.New(packGenerator, log),
		},
		HealthChecks: healthCheck,
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting hindsight", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
