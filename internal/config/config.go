package config

import (
	"delivery-tracking-service/internal/domain"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported storage backends.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Config is the runtime configuration assembled from the environment.
// Call godotenv.Load before Load to pick up a local .env file.
type Config struct {
	Port         string
	StoreBackend string

	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	GeocodeTTL    time.Duration

	KafkaBroker string
	KafkaTopic  string

	LocationIQKey     string
	LocationIQBaseURL string

	ServiceArea  domain.Bounds
	StrictStatus bool
	ListCacheTTL time.Duration
	SeedPath     string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Load() (Config, error) {
	cfg := Config{
		Port:              Get("PORT", "3001"),
		StoreBackend:      strings.ToLower(Get("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:       Get("DATABASE_URL", ""),
		MongoURI:          Get("MONGO_URI", ""),
		MongoDatabase:     Get("MONGO_DATABASE", "DeliveryHandlingCompany"),
		RedisAddr:         Get("REDIS_ADDR", ""),
		RedisPassword:     Get("REDIS_PASSWORD", ""),
		KafkaBroker:       Get("KAFKA_BROKER", ""),
		KafkaTopic:        Get("KAFKA_TOPIC", "delivery.events"),
		LocationIQKey:     Get("LOCATIONIQ_API_KEY", ""),
		LocationIQBaseURL: Get("LOCATIONIQ_BASE_URL", "https://us1.locationiq.com"),
		SeedPath:          Get("SEED_PATH", "data/seeds/seed.json"),
	}

	var err error

	cfg.ServiceArea = domain.DefaultServiceArea
	if raw := Get("GEOFENCE", ""); raw != "" {
		if cfg.ServiceArea, err = domain.ParseBounds(raw); err != nil {
			return Config{}, fmt.Errorf("load config: GEOFENCE: %w", err)
		}
	}

	if cfg.StrictStatus, err = strconv.ParseBool(Get("STRICT_STATUS", "false")); err != nil {
		return Config{}, fmt.Errorf("load config: STRICT_STATUS: %w", err)
	}

	if cfg.GeocodeTTL, err = time.ParseDuration(Get("GEOCODE_CACHE_TTL", "720h")); err != nil {
		return Config{}, fmt.Errorf("load config: GEOCODE_CACHE_TTL: %w", err)
	}

	if cfg.ListCacheTTL, err = time.ParseDuration(Get("LIST_CACHE_TTL", "30s")); err != nil {
		return Config{}, fmt.Errorf("load config: LIST_CACHE_TTL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI is required for the mongo backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.Port == "" {
		return errors.New("config: PORT must not be empty")
	}
	if c.GeocodeTTL < 0 || c.ListCacheTTL < 0 {
		return errors.New("config: cache TTLs must not be negative")
	}

	return nil
}
