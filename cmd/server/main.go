// Storefront — HTTP сервис каталога товаров, отзывов и пользователей.
// Предоставляет JSON API, публикует доменные события через Outbox Pattern.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gorm.io/gorm"

	"example.com/storefront/internal/handler"
	"example.com/storefront/internal/middleware"
	"example.com/storefront/internal/repository"
	"example.com/storefront/internal/service"
	"example.com/storefront/pkg/circuitbreaker"
	"example.com/storefront/pkg/config"
	dbpkg "example.com/storefront/pkg/db"
	"example.com/storefront/pkg/healthcheck"
	"example.com/storefront/pkg/jwt"
	"example.com/storefront/pkg/kafka"
	"example.com/storefront/pkg/logger"
	"example.com/storefront/pkg/metrics"
	"example.com/storefront/pkg/outbox"
	"example.com/storefront/pkg/tracing"
)

const serviceName = "storefront"

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Pretty: cfg.App.LogPretty,
	})

	log := logger.With().Str("service", serviceName).Logger()

	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Backend).
		Int("port", cfg.HTTP.Port).
		Msg("Запуск Storefront")

	// === Observability: Tracing ===

	shutdownTracing, err := tracing.InitTracer(tracing.Config{
		ServiceName:    serviceName,
		JaegerEndpoint: cfg.Jaeger.OTLPEndpoint(),
		Enabled:        cfg.Jaeger.Enabled,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Не удалось инициализировать tracing")
	}

	// === Подключение к зависимостям ===

	// MySQL нужен только для mysql backend'а
	var db *gorm.DB
	if cfg.Storage.Backend == repository.BackendMySQL {
		db, err = dbpkg.ConnectMySQL(cfg.MySQL, cfg.IsDevelopment())
		if err != nil {
			log.Fatal().Err(err).Msg("Ошибка подключения к MySQL")
		}
		log.Info().Msg("Подключение к MySQL установлено")

		// Схема: товары, отзывы, пользователи, outbox
		if err := db.AutoMigrate(
			&repository.ProductModel{},
			&repository.ReviewModel{},
			&repository.UserModel{},
			&outbox.OutboxModel{},
		); err != nil {
			log.Fatal().Err(err).Msg("Ошибка миграции схемы БД")
		}
	}

	// Подключаемся к Redis (rate limiting, login limiter, JWT blacklist)
	rdb := dbpkg.ConnectRedis(cfg.Redis)
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("Ошибка закрытия Redis")
		}
	}()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Ошибка подключения к Redis")
	}
	log.Info().Msg("Подключение к Redis установлено")

	// ReadinessChecker для /readyz — проверяет Redis и MySQL (если используется)
	readinessChecks := []func(context.Context) error{
		func(ctx context.Context) error { return healthcheck.CheckRedis(ctx, rdb) },
	}
	if db != nil {
		readinessChecks = append(readinessChecks,
			func(ctx context.Context) error { return healthcheck.CheckMySQL(ctx, db) })
	}
	readinessCheck := healthcheck.Composite(readinessChecks...)

	// === Observability: Metrics ===

	var metricsServer *metrics.Server
	var metricsWg sync.WaitGroup
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(
			cfg.Metrics.Addr(),
			serviceName,
			metrics.WithReadinessCheck(readinessCheck),
		)
		metricsWg.Add(1)
		go func() {
			defer metricsWg.Done()
			if err := metricsServer.Start(); err != nil {
				log.Error().Err(err).Msg("Ошибка Metrics Server")
			}
		}()
	}

	// === Хранилище ===

	stores, err := repository.NewStores(cfg.Storage.Backend, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка создания хранилища")
	}

	// === Outbox Workers (только для mysql backend'а) ===

	// Контекст для фоновых workers, отменяется при завершении
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var workerWg sync.WaitGroup
	var producer *kafka.Producer
	if cfg.Storage.Backend == repository.BackendMySQL {
		producer, err = kafka.NewProducer(kafka.Config{Brokers: cfg.Kafka.Brokers})
		if err != nil {
			log.Fatal().Err(err).Msg("Ошибка создания Kafka Producer")
		}

		// Producer за Circuit Breaker: при недоступности брокеров
		// не зависаем на каждой записи outbox
		breakerProducer := kafka.NewBreakerProducer(producer, circuitbreaker.New("kafka-producer"))

		// По одному worker'у на тип агрегата
		for _, aggregateType := range []string{"product", "review"} {
			worker := outbox.NewOutboxWorker(
				outbox.NewOutboxRepository(db, aggregateType),
				breakerProducer,
				outbox.DefaultWorkerConfig(),
				aggregateType,
			)
			workerWg.Add(1)
			go func() {
				defer workerWg.Done()
				worker.Run(workerCtx)
			}()
		}
	} else {
		log.Info().Msg("Memory backend: события пишутся во внутренний журнал, Kafka не используется")
	}

	// === Аутентификация ===

	jwtManager, err := jwt.NewManager(jwt.Config{
		PrivateKeyPath:  cfg.JWT.PrivateKeyPath,
		PublicKeyPath:   cfg.JWT.PublicKeyPath,
		Issuer:          cfg.JWT.Issuer,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка создания JWT Manager")
	}
	jwtManager.SetBlacklist(jwt.NewBlacklist(rdb))
	log.Info().Msg("JWT Manager инициализирован")

	// === Слои приложения ===

	productService := service.NewProductService(stores.Products)
	reviewService := service.NewReviewService(stores.Reviews, stores.Products)
	userService := service.NewUserService(
		stores.Users,
		service.NewJWTManagerAdapter(jwtManager),
		service.NewLoginLimiter(rdb),
	)

	// === HTTP сервер ===

	var rateLimitMW *middleware.RateLimitMiddleware
	if cfg.RateLimit.Enabled {
		rateLimitMW = middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
			Redis:  rdb,
			Limit:  cfg.RateLimit.Limit,
			Window: cfg.RateLimit.Window,
		})
	}

	router := handler.NewRouter(handler.RouterConfig{
		Products:       productService,
		Reviews:        reviewService,
		Users:          userService,
		AuthMW:         middleware.NewAuthMiddleware(userService),
		RateLimitMW:    rateLimitMW,
		TracingMW:      middleware.NewTracingMiddleware(),
		ReadinessCheck: handler.ReadinessChecker(readinessCheck),
		Debug:          cfg.IsDevelopment(),
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP сервер запущен")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Ошибка HTTP сервера")
		}
	}()

	// === Graceful shutdown ===

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Получен сигнал завершения, останавливаем сервер...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	// Останавливаем HTTP сервер (дожидаемся текущих запросов)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Ошибка остановки HTTP сервера")
	}

	// Останавливаем outbox workers и producer
	workerCancel()
	workerWg.Wait()
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error().Err(err).Msg("Ошибка закрытия Kafka Producer")
		}
	}

	// Закрываем подключение к MySQL
	if db != nil {
		if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
			if err := sqlDB.Close(); err != nil {
				log.Error().Err(err).Msg("Ошибка закрытия MySQL")
			}
		}
	}

	// Останавливаем Metrics Server и ждём завершения горутины
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Ошибка остановки Metrics Server")
		}
		metricsWg.Wait()
	}

	// Останавливаем Tracing
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Ошибка остановки Tracing")
		}
	}

	log.Info().Msg("Storefront остановлен")
}
