package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean.
type Config struct {
	Addr          string
	JWTSigningKey string

	// RegistryOwner is the privileged identity allowed to manage the
	// certifier roster. It is configuration, not a constant, so tests can
	// substitute their own.
	RegistryOwner string

	// LedgerStart is the initial ledger height; LedgerTick is how often the
	// logical clock advances.
	LedgerStart uint64
	LedgerTick  time.Duration

	PostgresDSN  string
	RedisURL     string
	KafkaBrokers []string
	AuditTopic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:          envOr("ORELEDGER_ADDR", ":8080"),
		JWTSigningKey: envOr("ORELEDGER_JWT_KEY", "dev-secret-key-change-in-production"),
		RegistryOwner: envOr("ORELEDGER_REGISTRY_OWNER", "registry-owner"),
		LedgerTick:    10 * time.Second,
		PostgresDSN:   os.Getenv("ORELEDGER_POSTGRES_DSN"),
		RedisURL:      os.Getenv("ORELEDGER_REDIS_URL"),
		AuditTopic:    envOr("ORELEDGER_AUDIT_TOPIC", "oreledger.audit"),
	}

	if v := os.Getenv("ORELEDGER_LEDGER_START"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.LedgerStart = n
		}
	}
	if v := os.Getenv("ORELEDGER_LEDGER_TICK"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.LedgerTick = d
		}
	}
	if v := os.Getenv("ORELEDGER_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
