package domain

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"strconv"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// acceptedMediaTypes lists what browsers and curl send for .csv files.
var acceptedMediaTypes = map[string]bool{
	"":                         true,
	"text/csv":                 true,
	"text/plain":               true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
	"application/octet-stream": true,
}

// NormalizeHeaders trims each header and collapses interior whitespace runs
// to a single space.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.Join(strings.Fields(h), " ")
	}
	return out
}

// ParseCSV reads a comma-delimited, UTF-8 upload with a mandatory header row.
// Headers are normalized; when two normalize to the same name the later
// column is kept. An upload with a header and no rows is not an error here.
func ParseCSV(up Upload) (RawTable, error) {
	if err := checkMediaType(up.MediaType); err != nil {
		return RawTable{}, err
	}

	data := bytes.TrimPrefix(up.Data, utf8BOM)
	if !utf8.Valid(data) {
		return RawTable{}, fmt.Errorf("%w: upload is not valid UTF-8", ErrIngestionFailure)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ','
	r.FieldsPerRecord = 0

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return RawTable{}, fmt.Errorf("%w: missing header row", ErrIngestionFailure)
	}
	if err != nil {
		return RawTable{}, fmt.Errorf("%w: %w", ErrIngestionFailure, err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return RawTable{}, fmt.Errorf("%w: %w", ErrIngestionFailure, err)
		}
		rows = append(rows, rec)
	}

	headers, keep := dedupeHeaders(NormalizeHeaders(header))
	if len(keep) < len(header) {
		for i, row := range rows {
			rows[i] = pick(row, keep)
		}
	}

	return RawTable{Headers: headers, Rows: rows}, nil
}

func checkMediaType(mediaType string) error {
	if mediaType == "" {
		return nil
	}
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return fmt.Errorf("%w: media type %q: %w", ErrIngestionFailure, mediaType, err)
	}
	if !acceptedMediaTypes[mt] {
		return fmt.Errorf("%w: unsupported media type %q", ErrIngestionFailure, mt)
	}
	return nil
}

// dedupeHeaders names empty headers "Unnamed: <i>" and resolves collisions by
// keeping the last column with a given name. It returns the surviving headers
// and their source positions.
func dedupeHeaders(headers []string) ([]string, []int) {
	last := make(map[string]int, len(headers))
	for i, h := range headers {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
			headers[i] = h
		}
		last[h] = i
	}

	names := make([]string, 0, len(last))
	keep := make([]int, 0, len(last))
	for i, h := range headers {
		if last[h] == i {
			names = append(names, h)
			keep = append(keep, i)
		}
	}
	return names, keep
}

func pick(row []string, keep []int) []string {
	out := make([]string, len(keep))
	for i, k := range keep {
		out[i] = row[k]
	}
	return out
}

// dropColumn returns a copy of t without column i.
func dropColumn(t RawTable, i int) RawTable {
	headers := make([]string, 0, len(t.Headers)-1)
	headers = append(headers, t.Headers[:i]...)
	headers = append(headers, t.Headers[i+1:]...)

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]string, 0, len(row)-1)
		out = append(out, row[:i]...)
		out = append(out, row[i+1:]...)
		rows[r] = out
	}
	return RawTable{Headers: headers, Rows: rows}
}
