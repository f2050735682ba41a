package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken  string
	Neo4jURI  string
	Neo4jUser string
	Neo4jPass string
}

func Load() (*Config, error) {
	// A .env file is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		Neo4jURI:  os.Getenv("NEO4J_URI"),
		Neo4jUser: os.Getenv("NEO4J_USERNAME"),
		Neo4jPass: os.Getenv("NEO4J_PASSWORD"),
	}

	for key, value := range map[string]string{
		"TELEGRAM_BOT_TOKEN": cfg.BotToken,
		"NEO4J_URI":          cfg.Neo4jURI,
		"NEO4J_USERNAME":     cfg.Neo4jUser,
		"NEO4J_PASSWORD":     cfg.Neo4jPass,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable %s", key)
		}
	}

	return cfg, nil
}
