package main

import (
	"log"

	"go.uber.org/zap"

	"zc_toolbox_bot/config"
	"zc_toolbox_bot/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := services.Run(cfg, logger); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
}
