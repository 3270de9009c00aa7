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

	"PassForgePlatform/internal/analytics"
	"PassForgePlatform/internal/cache"
	"PassForgePlatform/internal/generator"
	"PassForgePlatform/internal/handler"
	"PassForgePlatform/internal/logging"
	pfmetrics "PassForgePlatform/internal/metrics"
	"PassForgePlatform/internal/service"
	"PassForgePlatform/internal/strength"
	"PassForgePlatform/internal/ws"
	"PassForgePlatform/pkg/config"
	"PassForgePlatform/pkg/errors"
	"PassForgePlatform/pkg/health"
	pkglogger "PassForgePlatform/pkg/logger"
	"PassForgePlatform/pkg/metrics"
	"PassForgePlatform/pkg/ratelimit"
)

const (
	serviceName = "passforge"
	version     = "1.0.0"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаем логгер
	logger, err := pkglogger.NewLogger(cfg.Environment, cfg.Logger.Level, cfg.Logger.Format, serviceName)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("Starting PassForge")
	defer logger.Sync()

	// Инициализируем трассировку
	if err := metrics.InitializeOpenTelemetry(serviceName); err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	// Создаем health checker
	healthChecker := health.NewSimpleHealthChecker(version)

	// Создаем метрики
	pfMetrics := pfmetrics.NewPassForgeMetrics(serviceName)

	// Создаем доменный логгер
	pfLogger := logging.NewPassForgeLogger(logger)

	// Собираем компоненты генерации
	analyticsCache := cache.NewCache()
	recorder := analytics.NewRecorder(analyticsCache, time.Duration(cfg.Cache.AnalyticsTTLSeconds)*time.Second)
	passwordGenerator := generator.NewGenerator(cfg.Generator.MinLength, cfg.Generator.MaxLength)
	scorer := strength.NewScorer()

	// Запускаем websocket hub
	hub := ws.NewHub(ws.HubConfig{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		SendQueueSize:   cfg.WebSocket.SendQueueSize,
	}, pfLogger, pfMetrics)

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Собираем сервис генерации
	passwordService := service.NewPasswordService(
		passwordGenerator,
		scorer,
		recorder,
		hub,
		pfLogger,
		pfMetrics,
		cfg.Generator.DefaultLength,
	)

	// Создаем HTTP обработчик
	httpHandler := handler.NewHTTPHandler(logger, passwordService, hub.ServeWS(passwordService), "web", version)

	// Создаем mux для регистрации маршрутов
	mux := http.NewServeMux()

	// Регистрируем служебные эндпоинты
	if cfg.Health.Enabled {
		mux.HandleFunc("/health", health.Handler(healthChecker))
		mux.HandleFunc("/ready", health.ReadyHandler(healthChecker))
		mux.HandleFunc("/live", health.LiveHandler())
	}
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", pfMetrics.GetBaseMetrics().GetHandler())
	}

	// Регистрируем API маршруты
	httpHandler.RegisterRoutes(mux)

	// Применяем middleware
	var apiHandler http.Handler = mux
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewMemoryRateLimiter()
		apiHandler = ratelimit.Middleware(limiter, cfg.RateLimit.RequestsPerMinute, time.Minute, apiHandler)
	}
	handlerWithMetrics := pfMetrics.GetBaseMetrics().Middleware(apiHandler)
	handlerWithLogging := httpHandler.LoggingMiddleware(handlerWithMetrics)
	handlerWithCORS := httpHandler.CORSMiddleware(handlerWithLogging)
	handlerWithRecovery := errors.Middleware(handlerWithCORS)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: handlerWithRecovery,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("Starting HTTP server",
			pkglogger.String("address", server.Addr),
			pkglogger.Bool("health_enabled", cfg.Health.Enabled),
			pkglogger.Bool("metrics_enabled", cfg.Metrics.Enabled))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	pfLogger.LogServiceStarted(context.Background(), serviceName, version)

	// Ожидаем сигналы для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutdown signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", pkglogger.Error(err))
	}

	hubCancel()
	pfLogger.LogServiceStopped(context.Background(), serviceName)
}
