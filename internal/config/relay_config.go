package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// RelayConfig holds configuration for the outbox relay service.
type RelayConfig struct {
	DatabaseURL    string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	RabbitMQURL    string `envconfig:"RABBITMQ_URL" required:"true"`
	EventQueueName string `envconfig:"EVENT_QUEUE_NAME" default:"activeplay.events"`
	HealthPort     string `envconfig:"RELAY_HEALTH_PORT" default:"8090"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile        string `envconfig:"LOG_FILE"`
}

func LoadRelayConfig() (*RelayConfig, error) {
	_ = godotenv.Load()

	var cfg RelayConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env vars: %w", err)
	}
	return &cfg, nil
}
