package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/tavola/backoffice/internal/cache"
	"github.com/tavola/backoffice/internal/config"
	"github.com/tavola/backoffice/internal/database"
	"github.com/tavola/backoffice/internal/handlers"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/outbox"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/internal/service"
	"github.com/tavola/backoffice/internal/validation"
	"github.com/tavola/backoffice/pkg/kafka"
	"github.com/tavola/backoffice/pkg/logger"
	"github.com/tavola/backoffice/pkg/middleware"
	"github.com/tavola/backoffice/pkg/retry"
)

// Server is the back-office HTTP API
type Server struct {
	config              *config.Config
	logger              logger.Logger
	router              *mux.Router
	httpServer          *http.Server
	db                  *database.Database
	validate            *validatorv10.Validate
	rateLimiter         *middleware.RateLimiterMiddleware
	orderService        *service.OrderService
	menuService         *service.MenuService
	promotionService    *service.PromotionService
	conversationService *service.ConversationService
	financialService    *service.FinancialService
	dlqRepo             *repository.DeadLetterRepository
	outboxProcessor     *outbox.Processor
	deadLetterProcessor *outbox.DeadLetterProcessor
	kafkaProducer       *kafka.Producer
	kafkaConsumer       *kafka.Consumer
}

// NewServer wires the repositories, services, outbox processors and Kafka
// clients, and returns a server ready to Start.
func NewServer(cfg *config.Config, logger logger.Logger) (*Server, error) {
	db, err := database.New(cfg, logger)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	orderRepo := repository.NewOrderRepository(db, logger)
	menuRepo := repository.NewMenuRepository(db, logger)
	promoRepo := repository.NewPromotionRepository(db, logger)
	convRepo := repository.NewConversationRepository(db, logger)
	outboxRepo := repository.NewOutboxRepository(db, logger)
	dlqRepo := repository.NewDeadLetterRepository(db, logger)

	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, logger)

	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis.Addr, "backoffice")

	orderService := service.NewOrderService(orderRepo, outboxRepo, logger)
	menuService := service.NewMenuService(menuRepo, logger)
	promotionService := service.NewPromotionService(promoRepo, logger)
	conversationService := service.NewConversationService(convRepo, outboxRepo, logger)
	financialService := service.NewFinancialService(orderRepo, convRepo, redisCache, cfg.Redis.CacheTTL, logger)

	outboxProcessor := outbox.NewProcessor(outboxRepo, dlqRepo, logger, &outbox.ProcessorConfig{
		PollingInterval: 5 * time.Second,
		BatchSize:       10,
		MaxRetries:      3,
	})

	deadLetterProcessor := outbox.NewDeadLetterProcessor(dlqRepo, logger, &outbox.DeadLetterProcessorConfig{
		PollingInterval: 30 * time.Second,
		BatchSize:       5,
		MaxRetries:      5,
		BackoffStrategy: &retry.ExponentialBackoff{
			InitialInterval: 1 * time.Second,
			MaxInterval:     2 * time.Minute,
			Multiplier:      2.0,
			JitterFactor:    0.1,
		},
	})

	kafkaHandler := outbox.NewKafkaMessageHandler(kafkaProducer, cfg.Kafka.OrdersTopic, logger)

	for _, eventType := range []string{
		models.EventOrderCreated,
		models.EventOrderStatusChanged,
		models.EventOrderDeleted,
		models.EventMessageSent,
	} {
		outboxProcessor.RegisterHandler(eventType, kafkaHandler)
		deadLetterProcessor.RegisterHandler(eventType, kafkaHandler)
	}

	kafkaConsumer, err := kafka.NewConsumer(&kafka.ConsumerConfig{
		Brokers:       cfg.Kafka.Brokers,
		Topics:        []string{cfg.Kafka.OrdersTopic},
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
	}, logger)

	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	notifier := handlers.NewWhatsAppNotifier(logger)
	kafkaConsumer.RegisterHandler(cfg.Kafka.OrdersTopic, handlers.NewOrderEventHandler(notifier, logger))

	rateLimiter := middleware.NewRateLimiterMiddleware(&middleware.RateLimiterConfig{
		IPMaxTokens:       20,
		IPRefillRate:      10,
		TrustForwardedFor: cfg.Env != "production",
	}, logger)

	r := mux.NewRouter()

	server := &Server{
		config: cfg,
		logger: logger,
		router: r,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		db:                  db,
		validate:            validation.New(),
		rateLimiter:         rateLimiter,
		orderService:        orderService,
		menuService:         menuService,
		promotionService:    promotionService,
		conversationService: conversationService,
		financialService:    financialService,
		dlqRepo:             dlqRepo,
		outboxProcessor:     outboxProcessor,
		deadLetterProcessor: deadLetterProcessor,
		kafkaProducer:       kafkaProducer,
		kafkaConsumer:       kafkaConsumer,
	}

	server.setupRoutes()

	outboxProcessor.Start()
	deadLetterProcessor.Start()

	if err := kafkaConsumer.Start(); err != nil {
		// Non-fatal, the API works without the notification consumer
		logger.Error("Failed to start Kafka consumer", "error", err)
	}

	return server, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops background workers and the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.outboxProcessor.Stop()
	s.deadLetterProcessor.Stop()
	s.rateLimiter.Stop()

	if s.kafkaConsumer != nil {
		if err := s.kafkaConsumer.Stop(); err != nil {
			s.logger.Error("Error stopping Kafka consumer", "error", err)
		}
	}

	if s.kafkaProducer != nil {
		if err := s.kafkaProducer.Close(); err != nil {
			s.logger.Error("Error closing Kafka producer", "error", err)
		}
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("Error closing database connection", "error", err)
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.rateLimiter.Handler)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.healthCheckHandler).Methods(http.MethodGet)

	api.HandleFunc("/orders", s.getOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.createOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", s.getOrderByIDHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.deleteOrderHandler).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{id}/status", s.updateOrderStatusHandler).Methods(http.MethodPatch)

	api.HandleFunc("/menu", s.getMenuItemsHandler).Methods(http.MethodGet)
	api.HandleFunc("/menu", s.createMenuItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/menu/categories", s.getMenuCategoriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/menu/{id}", s.updateMenuItemHandler).Methods(http.MethodPut)
	api.HandleFunc("/menu/{id}", s.deleteMenuItemHandler).Methods(http.MethodDelete)

	api.HandleFunc("/promotions", s.getPromotionsHandler).Methods(http.MethodGet)
	api.HandleFunc("/promotions", s.createPromotionHandler).Methods(http.MethodPost)
	api.HandleFunc("/promotions/{id}", s.updatePromotionHandler).Methods(http.MethodPut)
	api.HandleFunc("/promotions/{id}", s.deletePromotionHandler).Methods(http.MethodDelete)
	api.HandleFunc("/promotions/{id}/toggle", s.togglePromotionHandler).Methods(http.MethodPatch)

	api.HandleFunc("/conversations", s.getConversationsHandler).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/messages", s.getMessagesHandler).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/messages", s.sendMessageHandler).Methods(http.MethodPost)

	api.HandleFunc("/dashboard/stats", s.getDashboardStatsHandler).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/revenue", s.getRevenueSeriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/financial/summary", s.getFinancialSummaryHandler).Methods(http.MethodGet)

	admin := s.router.PathPrefix("/api/v1/admin").Subrouter()
	admin.HandleFunc("/dead-letters", s.getDeadLettersHandler).Methods(http.MethodGet)
	admin.HandleFunc("/dead-letters/{id}/retry", s.retryDeadLetterHandler).Methods(http.MethodPost)
	admin.HandleFunc("/dead-letters/{id}/discard", s.discardDeadLetterHandler).Methods(http.MethodPost)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.logger.Info("Request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
			"remoteAddr", r.RemoteAddr,
		)
	})
}
