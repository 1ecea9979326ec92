//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/sensor-data-ingest/internal/domain"
	"github.com/couchcryptid/sensor-data-ingest/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	site := domain.DefaultSite()
	result, err := c.ReverseGeocode(context.Background(), site.Lat, site.Lon)
	require.NoError(t, err)

	assert.NotEmpty(t, result.FormattedAddress)
	assert.Contains(t, result.FormattedAddress, "Medellín")
	assert.Greater(t, result.Confidence, 0.0)
}

func TestSmoke_EnrichSite(t *testing.T) {
	c := smokeClient(t)
	cached, err := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())
	require.NoError(t, err)

	site := domain.EnrichSite(context.Background(), domain.DefaultSite(), cached, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, "reverse", site.GeoSource)
	assert.NotEmpty(t, site.PlaceName)
}
