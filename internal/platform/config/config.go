package config

import (
	"os"
	"strings"
)

// Server captures process level configuration so main stays lean.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	EventsTopic   string
	JWTSigningKey string
	Operator      string
}

// FromEnv builds a Server config from environment variables. Empty
// DATABASE_URL selects the in-memory stores; empty KAFKA_BROKERS disables the
// Kafka event sink; empty REDIS_URL disables rate limiting.
func FromEnv() Server {
	addr := os.Getenv("MARKET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("MARKET_EVENTS_TOPIC")
	if topic == "" {
		topic = "market.events"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	operator := os.Getenv("MARKET_OPERATOR")
	if operator == "" {
		operator = "marketplace"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		EventsTopic:   topic,
		JWTSigningKey: jwtSigningKey,
		Operator:      operator,
	}
}
