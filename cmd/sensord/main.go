package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/sensor-data-ingest/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/sensor-data-ingest/internal/adapter/kafka"
	"github.com/couchcryptid/sensor-data-ingest/internal/adapter/mapbox"
	"github.com/couchcryptid/sensor-data-ingest/internal/config"
	"github.com/couchcryptid/sensor-data-ingest/internal/domain"
	"github.com/couchcryptid/sensor-data-ingest/internal/observability"
	"github.com/couchcryptid/sensor-data-ingest/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create geocoder", "error", err)
			os.Exit(1)
		}
		geocoder = cached
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Initialize reading sink (feature-flagged via KAFKA_ENABLED).
	var (
		publisher pipeline.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka reading sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka reading sink disabled")
	}

	ingestor := pipeline.New(publisher, logger, metrics)
	if err := ingestor.Warmup(); err != nil {
		logger.Error("sample ingestion failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	site := domain.Site{
		Name:      cfg.SiteName,
		Lat:       cfg.SiteLat,
		Lon:       cfg.SiteLon,
		AltitudeM: cfg.SiteAltitudeM,
		Sensor:    domain.DefaultSite().Sensor,
		Variables: domain.DefaultSite().Variables,
	}
	geoCtx, geoCancel := context.WithTimeout(ctx, cfg.MapboxTimeout)
	site = domain.EnrichSite(geoCtx, site, geocoder, logger)
	geoCancel()

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:           cfg.HTTPAddr,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Site:           site,
	}, ingestor, ingestor, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
