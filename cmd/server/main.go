package main

import (
	"context"
	"delivery-tracking-service/internal/adapters/cache"
	"delivery-tracking-service/internal/adapters/events"
	"delivery-tracking-service/internal/adapters/geocoding"
	"delivery-tracking-service/internal/api"
	"delivery-tracking-service/internal/app"
	"delivery-tracking-service/internal/config"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (store, geocoder, broker) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Create tables or indexes on startup so local runs need no separate migrate step.
	if err := backend.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	geocoder, closeCache := newGeocoder(ctx, cfg, backend)
	publisher := events.NewAsyncPublisher(newPublisher(cfg), 5*time.Second)

	router := api.NewRouter(api.Services{
		Businesses: services.NewBusinessService(backend.Store, publisher, cfg.ListCacheTTL),
		Customers:  services.NewCustomerService(backend.Store, geocoder, publisher, cfg.ListCacheTTL),
		Packages:   services.NewPackageService(backend.Store, backend.Store, backend.Store, publisher, cfg.ServiceArea),
		Locations:  services.NewLocationService(geocoder, cfg.ServiceArea),
	}, api.Options{StrictStatus: cfg.StrictStatus})

	log.Printf("Server listening addr=:%s backend=%s area=%s", cfg.Port, cfg.StoreBackend, cfg.ServiceArea)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server stopped: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("close publisher: %v", err)
	}
	if closeCache != nil {
		if err := closeCache.Close(); err != nil {
			log.Printf("close geocode cache: %v", err)
		}
	}
	if err := backend.Close(shutdownCtx); err != nil {
		log.Printf("close store: %v", err)
	}
}

// newGeocoder returns nil when no LocationIQ key is configured; customers are
// then stored without coordinates. Results are cached in Redis when REDIS_ADDR
// is set, otherwise in Postgres when that is the store.
func newGeocoder(ctx context.Context, cfg config.Config, backend *app.Backend) (ports.Geocoder, io.Closer) {
	if cfg.LocationIQKey == "" {
		log.Println("LOCATIONIQ_API_KEY not set; geocoding disabled")
		return nil, nil
	}

	liq, err := geocoding.NewLocationIQGeocoder(cfg.LocationIQKey, cfg.LocationIQBaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.RedisAddr != "" {
		client, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal(err)
		}
		return geocoding.NewCachedGeocoder(liq, cache.NewRedisGeocodeCache(client, cfg.GeocodeTTL)), client
	}

	if backend.DB != nil {
		return geocoding.NewCachedGeocoder(liq, cache.NewSQLGeocodeCache(backend.DB, cfg.GeocodeTTL)), nil
	}

	return liq, nil
}

func newPublisher(cfg config.Config) ports.EventPublisher {
	if cfg.KafkaBroker == "" {
		return events.LogPublisher{}
	}

	log.Printf("Publishing events broker=%s topic=%s", cfg.KafkaBroker, cfg.KafkaTopic)
	return events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
}
