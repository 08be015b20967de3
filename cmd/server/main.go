package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postavka-be/internal/config"
	"postavka-be/internal/db"
	"postavka-be/internal/event"
	"postavka-be/internal/httpapi"
	"postavka-be/internal/kafka"
	"postavka-be/internal/logger"
	"postavka-be/internal/order"
	"postavka-be/internal/product"
	"postavka-be/internal/supplier"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	broker := kafka.NewClient(cfg.KafkaBrokers)
	producer := kafka.NewProducer(broker)
	defer producer.Close()

	supplierRepo := supplier.NewRepository(database)
	supplierSvc := supplier.NewService(supplierRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, supplierRepo, productRepo, producer)

	consumer, err := kafka.NewConsumer(broker, cfg.KafkaGroupID, map[string]kafka.HandlerFunc{
		event.TopicSupplierPriceUpdates: kafka.JSONHandler(supplierSvc.ApplyPriceUpdate),
		event.TopicProductStockUpdates:  kafka.JSONHandler(productSvc.ApplyStockUpdate),
		event.TopicSupplierOrderUpdates: kafka.JSONHandler(orderSvc.ApplySupplierStatus),
	})
	if err != nil {
		log.Fatal("consumer setup failed", zap.Error(err))
	}
	consumer.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: httpapi.NewRouter(orderSvc, []byte(cfg.SecretKey)),
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := consumer.Stop(ctx); err != nil {
		log.Error("consumer shutdown failed", zap.Error(err))
	}
}
