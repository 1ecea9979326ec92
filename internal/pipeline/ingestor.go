package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/sensor-data-ingest/internal/domain"
	"github.com/couchcryptid/sensor-data-ingest/internal/observability"
)

// Publisher writes the readings of an ingested upload to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, readings []domain.Reading) error
}

// Ingestor runs domain ingestion for each upload and records the outcome.
// It keeps no per-upload state; concurrent calls are safe.
type Ingestor struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates an Ingestor. Pass a nil publisher to disable the reading sink.
func New(publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Ingestor {
	return &Ingestor{
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Warmup ingests the built-in sample so readiness reflects a working
// pipeline. The sample is never published.
func (i *Ingestor) Warmup() error {
	res, err := domain.Ingest(domain.Upload{Data: []byte(domain.SampleCSV), MediaType: "text/csv"})
	if err != nil {
		return err
	}
	i.ready.Store(true)
	i.logger.Info("ingestor ready", "sample_columns", res.CanonicalColumns)
	return nil
}

// CheckReadiness returns nil once the ingestor has processed an upload or
// completed Warmup.
func (i *Ingestor) CheckReadiness(_ context.Context) error {
	if !i.ready.Load() {
		return errors.New("ingestor has not processed any upload yet")
	}
	return nil
}

// Ingest processes one upload. Sink failures are logged and counted but do
// not fail the upload.
func (i *Ingestor) Ingest(ctx context.Context, up domain.Upload) (domain.Result, error) {
	start := time.Now()
	i.metrics.UploadBytes.Observe(float64(len(up.Data)))

	res, err := domain.Ingest(up)
	i.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	i.metrics.Uploads.WithLabelValues(domain.ErrorKind(err)).Inc()

	if err != nil {
		i.logger.Warn("ingestion failed",
			"error", err,
			"kind", domain.ErrorKind(err),
			"filename", up.Filename,
			"bytes", len(up.Data),
		)
		return domain.Result{}, err
	}

	i.metrics.RowsIngested.Add(float64(res.Table.Len()))
	i.metrics.RowsDropped.Add(float64(res.DroppedRows))

	if res.DroppedRows > 0 {
		i.logger.Warn("dropped rows with unparsable time",
			"upload_id", res.UploadID,
			"time_column", res.TimeColumn,
			"dropped", res.DroppedRows,
		)
	}
	if res.FallbackApplied {
		i.metrics.FallbackLabels.Inc()
		i.logger.Warn("no header matched a keyword, labeling numeric columns by position",
			"upload_id", res.UploadID,
			"labels", res.CanonicalColumns,
		)
	}

	i.logger.Info("upload ingested",
		"upload_id", res.UploadID,
		"filename", up.Filename,
		"rows", res.Table.Len(),
		"dropped", res.DroppedRows,
		"columns", res.CanonicalColumns,
		"duration", time.Since(start),
	)

	i.publish(ctx, res)
	i.ready.Store(true)
	return res, nil
}

// Parse ingests an upload for a read-only query such as a filtered download.
// The readings are not published and the upload is not counted.
func (i *Ingestor) Parse(_ context.Context, up domain.Upload) (domain.Result, error) {
	res, err := domain.Ingest(up)
	if err != nil {
		i.logger.Debug("query parse failed", "error", err, "kind", domain.ErrorKind(err))
		return domain.Result{}, err
	}
	return res, nil
}

func (i *Ingestor) publish(ctx context.Context, res domain.Result) {
	if i.publisher == nil {
		return
	}
	readings := domain.Readings(res)
	if len(readings) == 0 {
		return
	}
	if err := i.publisher.Publish(ctx, readings); err != nil {
		i.metrics.PublishErrors.Inc()
		i.logger.Error("publish readings failed",
			"upload_id", res.UploadID,
			"readings", len(readings),
			"error", err,
		)
		return
	}
	i.metrics.ReadingsPublished.Add(float64(len(readings)))
}
