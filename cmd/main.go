package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/config"
	"innercloset/gatekeeper/internal/handler"
	"innercloset/gatekeeper/internal/handler/middleware"
	"innercloset/gatekeeper/internal/metrics"
	"innercloset/gatekeeper/internal/model"
	"innercloset/gatekeeper/internal/repository"
	"innercloset/gatekeeper/internal/service"
	jwtpkg "innercloset/gatekeeper/pkg/jwt"
)

type stores struct {
	codes    repository.InviteCodeRepository
	grants   repository.AccessGrantRepository
	curators repository.CuratorRepository
	products repository.ProductRepository
}

func main() {
	configPath := "config.yaml"
	if p := os.Getenv("GATEKEEPER_CONFIG"); p != "" {
		configPath = p
	}

	// 1. Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Open the grant/code store
	var st stores
	switch cfg.Database.Backend {
	case "postgres":
		db, err := config.NewPostgresDB(cfg.Database.Postgres)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		if cfg.Database.Postgres.AutoMigrate {
			if err := model.AutoMigrate(db); err != nil {
				logger.Fatal("failed to auto-migrate", zap.Error(err))
			}
			logger.Info("database migration completed")
		}
		st = stores{
			codes:    repository.NewPGInviteCodeRepository(db),
			grants:   repository.NewPGAccessGrantRepository(db),
			curators: repository.NewPGCuratorRepository(db),
			products: repository.NewPGProductRepository(db),
		}
	case "memory":
		mem := repository.NewMemoryStore()
		st = stores{codes: mem.Codes(), grants: mem.Grants(), curators: mem.Curators(), products: mem.Products()}
		logger.Warn("using in-memory store; grants are lost on restart")
	}

	// 4. Initialize rate limiter state (Redis or in-memory)
	var rateLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		var limiterStore limiter.Store
		switch cfg.State.Backend {
		case "redis":
			redisClient, err := config.NewRedisClient(cfg.Database.Redis)
			if err != nil {
				logger.Fatal("failed to connect to redis", zap.Error(err))
			}
			defer redisClient.Close()
			limiterStore, err = repository.NewRedisLimiterStore(redisClient)
			if err != nil {
				logger.Fatal("failed to create redis limiter store", zap.Error(err))
			}
			logger.Info("using Redis rate limit store")
		case "memory":
			limiterStore = repository.NewMemoryLimiterStore()
			logger.Info("using in-memory rate limit store")
		default:
			logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
		}
		rateLimit, err = middleware.NewRateLimiter(limiterStore, cfg.RateLimit.Requests, cfg.RateLimit.Period)
		if err != nil {
			logger.Fatal("failed to create rate limiter", zap.Error(err))
		}
	}

	// 5. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	// 6. Tokens
	codec := jwtpkg.NewCodec(cfg.Token.SigningKey, cfg.Token.Issuer, cfg.Token.TTL)
	sessionVerifier := jwtpkg.NewSessionVerifier(cfg.Session.SigningKey, cfg.Session.Issuer)

	// 7. Initialize services
	clock := service.Clock(time.Now)
	verifier := service.NewCodeVerifier(st.codes, st.curators, clock, logger)
	issuer := service.NewGrantIssuer(verifier, st.codes, st.grants, st.curators, clock, logger)
	evaluator := service.NewAccessEvaluator(codec, st.grants, logger)
	catalogService := service.NewCatalogService(st.curators, st.products, clock)
	inviteService := service.NewInviteService(st.codes, st.grants, st.curators, logger)

	// 8. Initialize handlers
	accessHandler := handler.NewAccessHandler(verifier, issuer, evaluator, codec, m, handler.AccessHandlerConfig{
		Cookie: handler.CookieSettings{
			Name:   cfg.Cookie.Name,
			Domain: cfg.Cookie.Domain,
			Secure: cfg.CookieSecure(),
			MaxAge: cfg.Token.TTL,
		},
		RedirectPath: cfg.Invite.RedirectPath,
		RedeemDelay:  handler.JitterDelay(cfg.Invite.RedeemDelayMin, cfg.Invite.RedeemDelayMax),
	}, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, accessHandler, logger)
	adminHandler := handler.NewAdminHandler(inviteService)

	// 9. Setup router
	router := handler.SetupRouter(cfg, handler.RouterDeps{
		Logger:          logger,
		SessionVerifier: sessionVerifier,
		RateLimit:       rateLimit,
		MetricsGatherer: registry,
		AccessHandler:   accessHandler,
		CatalogHandler:  catalogHandler,
		AdminHandler:    adminHandler,
	})

	// 10. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 11. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
