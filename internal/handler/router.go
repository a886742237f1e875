package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"example.com/storefront/internal/middleware"
	"example.com/storefront/internal/service"
	"example.com/storefront/pkg/metrics"
)

// ReadinessChecker — функция проверки готовности сервиса.
type ReadinessChecker func(ctx context.Context) error

// Router — конфигурация роутера.
type Router struct {
	engine         *gin.Engine
	products       service.ProductService
	reviews        service.ReviewService
	users          service.UserService
	authMW         *middleware.AuthMiddleware
	rateLimitMW    *middleware.RateLimitMiddleware
	tracingMW      *middleware.TracingMiddleware
	readinessCheck ReadinessChecker // опциональная проверка готовности
}

// RouterConfig — параметры для создания роутера.
type RouterConfig struct {
	Products       service.ProductService
	Reviews        service.ReviewService
	Users          service.UserService
	AuthMW         *middleware.AuthMiddleware
	RateLimitMW    *middleware.RateLimitMiddleware
	TracingMW      *middleware.TracingMiddleware
	ReadinessCheck ReadinessChecker // опциональная проверка готовности для /readyz
	Debug          bool             // Режим отладки Gin
}

// NewRouter создаёт и настраивает HTTP роутер.
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Стандартные middleware Gin
	engine.Use(gin.Recovery())

	// CORS — обработка cross-origin запросов
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Security headers — защита от clickjacking, MIME-sniffing, XSS
	engine.Use(middleware.SecurityHeaders())

	// OpenTelemetry tracing — создаёт spans для Jaeger
	engine.Use(otelgin.Middleware("storefront"))

	// Prometheus метрики — requests_total, request_duration_seconds
	engine.Use(metrics.GinMetricsMiddleware("storefront"))

	r := &Router{
		engine:         engine,
		products:       cfg.Products,
		reviews:        cfg.Reviews,
		users:          cfg.Users,
		authMW:         cfg.AuthMW,
		rateLimitMW:    cfg.RateLimitMW,
		tracingMW:      cfg.TracingMW,
		readinessCheck: cfg.ReadinessCheck,
	}

	r.setupRoutes()
	return r
}

// setupRoutes настраивает все маршруты API.
func (r *Router) setupRoutes() {
	if r.tracingMW != nil {
		r.engine.Use(r.tracingMW.Handle())
	}

	// Health endpoints (без rate limiting и auth)
	r.engine.GET("/health", r.healthCheck)
	r.engine.GET("/healthz", r.livenessCheck)        // liveness probe
	r.engine.GET("/readyz", r.readinessCheckHandler) // readiness probe

	api := r.engine.Group("/api")

	// Rate limiting на уровне API (если включен)
	if r.rateLimitMW != nil {
		api.Use(r.rateLimitMW.Handle())
	}

	// === Каталог товаров (публичный) ===
	productHandler := NewProductHandler(r.products)
	reviewHandler := NewReviewHandler(r.reviews)
	products := api.Group("/products")
	{
		products.POST("", productHandler.Create)
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id", productHandler.Update)
		products.DELETE("/:id", productHandler.Delete)

		// Отзывы вложены в товар
		products.POST("/:id/reviews", reviewHandler.Create)
		products.GET("/:id/reviews", reviewHandler.ListByProduct)
		products.GET("/:id/reviews/:reviewID", reviewHandler.Get)
		products.PUT("/:id/reviews/:reviewID", reviewHandler.Update)
		products.DELETE("/:id/reviews/:reviewID", reviewHandler.Delete)
	}

	// === Auth routes (публичные) ===
	if r.users != nil {
		authHandler := NewAuthHandler(r.users)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout) // Требует токен, но не проверяет валидность
		}

		// === User routes (защищённые) ===
		userHandler := NewUserHandler(r.users)
		users := api.Group("/users")
		if r.authMW != nil {
			users.Use(r.authMW.Handle())
		}
		{
			users.GET("/me", userHandler.GetMe)
		}
	}
}

// Engine возвращает Gin engine для запуска сервера.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// healthCheck — проверка работоспособности сервиса (legacy).
func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "storefront",
	})
}

// livenessCheck — liveness probe.
// Возвращает 200 OK если процесс жив (сервер отвечает = процесс работает).
func (r *Router) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// readinessCheckHandler — readiness probe.
// Возвращает 200 OK если сервис готов принимать трафик.
func (r *Router) readinessCheckHandler(c *gin.Context) {
	if r.readinessCheck == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := r.readinessCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
