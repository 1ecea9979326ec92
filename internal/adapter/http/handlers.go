package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/sensor-data-ingest/internal/domain"
)

const exportPrefix = "sensor_filtered"

type statsResponse struct {
	Column string   `json:"column"`
	Unit   string   `json:"unit,omitempty"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"p25"`
	Median *float64 `json:"p50"`
	Q75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

type timeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type uploadResponse struct {
	UploadID         string          `json:"upload_id"`
	Filename         string          `json:"filename,omitempty"`
	TimeColumn       string          `json:"time_column,omitempty"`
	TimeRange        *timeRange      `json:"time_range,omitempty"`
	CanonicalColumns []string        `json:"canonical_columns"`
	FallbackApplied  bool            `json:"fallback_applied"`
	Rows             int             `json:"rows"`
	DroppedRows      int             `json:"dropped_rows"`
	Stats            []statsResponse `json:"stats"`
	IngestedAt       time.Time       `json:"ingested_at"`
}

type errorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	res, err := s.ingestor.Ingest(r.Context(), up)
	if err != nil {
		writeIngestError(w, err)
		return
	}

	stats, err := domain.DescribeAll(res.Table, res.CanonicalColumns)
	if err != nil {
		s.logger.Error("describe failed", "upload_id", res.UploadID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not compute statistics")
		return
	}

	resp := uploadResponse{
		UploadID:         res.UploadID,
		Filename:         up.Filename,
		TimeColumn:       res.TimeColumn,
		CanonicalColumns: res.CanonicalColumns,
		FallbackApplied:  res.FallbackApplied,
		Rows:             res.Table.Len(),
		DroppedRows:      res.DroppedRows,
		Stats:            make([]statsResponse, 0, len(stats)),
		IngestedAt:       res.IngestedAt,
	}
	if n := len(res.Table.Index); n > 0 {
		resp.TimeRange = &timeRange{Start: res.Table.Index[0], End: res.Table.Index[n-1]}
	}
	for _, st := range stats {
		resp.Stats = append(resp.Stats, statsResponse{
			Column: st.Column,
			Unit:   domain.Unit(st.Column),
			Count:  st.Count,
			Mean:   finite(st.Mean),
			Std:    finite(st.Std),
			Min:    finite(st.Min),
			Q25:    finite(st.Q25),
			Median: finite(st.Median),
			Q75:    finite(st.Q75),
			Max:    finite(st.Max),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	column := q.Get("column")
	if column == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing column parameter")
		return
	}
	low, err := strconv.ParseFloat(q.Get("low"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "low must be a number")
		return
	}
	high, err := strconv.ParseFloat(q.Get("high"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "high must be a number")
		return
	}

	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	res, err := s.ingestor.Parse(r.Context(), up)
	if err != nil {
		writeIngestError(w, err)
		return
	}

	filtered, err := domain.FilterRange(res.Table, column, low, high)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var buf bytes.Buffer
	if err := domain.WriteCSV(&buf, filtered); err != nil {
		s.logger.Error("export failed", "upload_id", res.UploadID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not export table")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, domain.ExportFileName(exportPrefix)))
	w.Header().Set("X-Matched-Rows", strconv.Itoa(filtered.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

func (s *Server) handleSample(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sample.csv"`)
	io.WriteString(w, domain.SampleCSV) //nolint:errcheck // static body
}

func (s *Server) handleSite(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.site)
}

// readUpload accepts either a raw CSV body or a multipart form with a "file"
// field. It writes the error response itself and reports false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (domain.Upload, bool) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeBodyError(w, err)
			return domain.Upload{}, false
		}
		return domain.Upload{Data: data, MediaType: r.Header.Get("Content-Type")}, true
	}

	maxMemory := s.maxUpload
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeBodyError(w, err)
		return domain.Upload{}, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "no file provided")
		return domain.Upload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeBodyError(w, err)
		return domain.Upload{}, false
	}
	return domain.Upload{
		Data:      data,
		MediaType: header.Header.Get("Content-Type"),
		Filename:  header.Filename,
	}, true
}

func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", "could not read upload")
}

func writeIngestError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Kind:  domain.ErrorKind(err),
		Error: domain.UserMessage(err),
		Hint:  domain.Hint,
	})
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Kind: kind, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

// finite maps NaN, which JSON cannot encode, to null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
