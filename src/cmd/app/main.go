package main

import (
	"context"
	"earnings-service/src/internal/config"
	"earnings-service/src/internal/delivery/http/middleware"
	"earnings-service/src/pkg/log"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hibiken/asynq"
)

func main() {

	viperConfig := config.NewViper()
	viperConfig.SetDefault("log.level", "DEBUG")
	viperConfig.SetDefault("app.name", "EARNINGS_SERVICE")
	viperConfig.SetDefault("web.port", 8080)
	viperConfig.SetDefault("earnings.default_commission_rate", 0.10)
	viperConfig.SetDefault("earnings.rule_cache_ttl_minutes", 5)
	log.InitLogger(viperConfig)
	config.NewKafkaConfig(viperConfig)
	logger := log.GetLogger()
	config.LoadRedisConfig(viperConfig)
	db := config.NewDatabase(viperConfig, logger)
	redisClient := config.NewRedis()
	producer := config.NewKafkaProducer(viperConfig, logger)
	validate := config.NewValidator(viperConfig)
	app := config.NewFiber(viperConfig)
	app.Use(middleware.NewLogger())

	asynqClient := config.NewAsynqClient(viperConfig)
	asynqServer := config.NewAsynqServer(viperConfig)
	mux := asynq.NewServeMux()

	config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		App:         app,
		Log:         logger,
		Validate:    validate,
		Config:      viperConfig,
		Producer:    producer,
		Redis:       redisClient,
		AsynqClient: asynqClient,
		Async:       mux,
	})

	go func() {
		if err := asynqServer.Run(mux); err != nil {
			logger.Error("main", fmt.Sprintf("Failed to start worker: %v", err), "main", "")
		}
	}()

	webPort := viperConfig.GetInt("web.port")
	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
			logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
		}
	}()

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	go func() {
		<-quit
		logger.Info("main", "Server earnings-service is shutting down...", "gracefull", "")

		_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		asynqServer.Shutdown()
		asynqClient.Close()
		if err := app.Shutdown(); err != nil {
			logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
		}
		close(done)
	}()

	<-done
	logger.Info("main", fmt.Sprintf("Server %s stopped", viperConfig.GetString("app.name")), "gracefull", "")
}
