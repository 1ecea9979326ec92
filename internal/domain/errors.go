package domain

import "errors"

var (
	// ErrEmptyFile means the upload parsed to zero data rows.
	ErrEmptyFile = errors.New("ingestion yielded no rows")

	// ErrNoTimeRowsSurvived means a time column was found but none of its
	// values parsed, so every row was dropped.
	ErrNoTimeRowsSurvived = errors.New("no row has a parsable time value")

	// ErrNoNumericColumns means no column holds numeric readings.
	ErrNoNumericColumns = errors.New("no numeric columns found")

	// ErrIngestionFailure wraps malformed CSV, encoding and media type errors.
	ErrIngestionFailure = errors.New("ingestion failed")

	// ErrUnknownColumn is returned by downstream queries for a column that is
	// not in the table.
	ErrUnknownColumn = errors.New("unknown column")
)

// Hint is shown alongside every ingestion error.
const Hint = "Make sure the CSV has a header row with columns such as 'Time', 'pressure', 'wind_speed'."

// SampleCSV is the expected structure shown when nothing has been uploaded.
const SampleCSV = `Time,pressure,wind_speed
2025-11-11 12:00:00,1013.25,3.5
2025-11-11 12:01:00,1013.10,4.1
`

// ErrorKind returns a stable label for an ingestion error, suitable for
// metrics and API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyFile):
		return "empty_file"
	case errors.Is(err, ErrNoTimeRowsSurvived):
		return "no_time_rows"
	case errors.Is(err, ErrNoNumericColumns):
		return "no_numeric_columns"
	default:
		return "ingestion_failure"
	}
}

// UserMessage returns the message shown to the uploader for err.
func UserMessage(err error) string {
	switch ErrorKind(err) {
	case "success":
		return ""
	case "empty_file":
		return "The file has a header but no data rows."
	case "no_time_rows":
		return "A time column was found, but none of its values could be read as a date."
	case "no_numeric_columns":
		return "No numeric columns were found in the file."
	default:
		return "Error processing the file: " + err.Error()
	}
}
