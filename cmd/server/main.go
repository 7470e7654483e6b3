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

	"watchify/config"
	"watchify/internal/api"
	"watchify/internal/auth"
	"watchify/internal/broker"
	"watchify/internal/redisclient"
	"watchify/internal/service"
	"watchify/internal/store"
	"watchify/internal/util"
	"watchify/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting watchify backend")

	tp, err := util.InitTracer("watchify-backend", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	orderProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders)
	defer orderProducer.Close()
	productProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicProducts)
	defer productProducer.Close()
	userProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicUsers)
	defer userProducer.Close()
	log.Println("Kafka producers initialized")

	eventPublisher := broker.NewEventPublisher(orderProducer, productProducer, userProducer)

	tokenService := auth.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLSeconds)*time.Second)
	guard := auth.NewMiddleware(tokenService)

	userService := service.NewUserService(db)
	authService := service.NewAuthService(userService, tokenService, eventPublisher)
	productService := service.NewProductService(db, redisClient, eventPublisher)
	categoryService := service.NewCategoryService(db)
	orderService := service.NewOrderService(db, eventPublisher)
	uploadService := service.NewUploadService(cfg.Upload)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	productConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicProducts, cfg.Kafka.ConsumerGroup)
	cacheInvalidator := worker.NewCacheInvalidator(productConsumer, redisClient)
	go func() {
		if err := cacheInvalidator.Start(workerCtx); err != nil {
			log.Printf("Cache invalidator error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(
		authService,
		userService,
		productService,
		categoryService,
		orderService,
		uploadService,
		guard,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	if err := cacheInvalidator.Stop(); err != nil {
		log.Printf("Error stopping cache invalidator: %v", err)
	}

	log.Println("Server exited")
}
