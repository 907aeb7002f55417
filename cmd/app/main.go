package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bowser_blocks/internal/config"
	"bowser_blocks/internal/db"
	httpServer "bowser_blocks/internal/http"
	"bowser_blocks/internal/http/handlers"
	"bowser_blocks/internal/http/middleware"
	"bowser_blocks/internal/logger"
	"bowser_blocks/internal/metrics"
	"bowser_blocks/internal/repository"
	"bowser_blocks/internal/service"
	"bowser_blocks/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// логгер еще не настроен
		logger.Init("info", false)
		logger.Fatal("invalid config", "error", err)
	}

	// Инициализация структурированного логгера
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Get()

	service.InitJWT(cfg.JWTSecret)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := ws.NewHub()
	deps := service.Deps{
		Publisher: hub,
		Metrics:   metrics.New(nil),
	}

	// postgres необязателен: без него история и аудит не сохраняются
	var auditStore service.AuditStore
	if cfg.DatabaseURL != "" {
		dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect failed", "error", err)
		}
		defer dbPool.Close()

		if err := db.Migrate(ctx, dbPool); err != nil {
			logger.Fatal("db migrate failed", "error", err)
		}
		deps.Records = repository.NewGameRecordRepository(dbPool)
		auditStore = repository.NewAuditRepository(dbPool)
	} else {
		log.Warn("DATABASE_URL not set - game history disabled")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis ping failed", "error", err, "addr", cfg.RedisAddr)
		}
		cancel()
		deps.Leaderboard = repository.NewLeaderboardRepository(rdb)
	} else {
		log.Warn("REDIS_ADDR not set - leaderboard disabled, rate limit is per instance")
	}

	audit := service.NewAuditService(auditStore)
	deps.Audit = audit

	sessions := service.NewSessionService(cfg, deps)
	go sessions.RunCleanup(ctx, time.Minute)

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r,
		handlers.NewHandler(cfg, sessions, audit, Version),
		ws.NewWSHandler(hub, sessions, cfg.AllowedOrigin),
		middleware.NewRateLimiter(rdb, cfg.RateLimitPerMinute),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version, "levels", len(cfg.Levels))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	// дожидаемся записи результатов завершенных партий
	sessions.Close()

	log.Info("server exited")
}
