// Package domain ingests environmental-sensor CSV uploads into a normalized,
// time-indexed table.
//
// # Data Source
//
// Uploads come from a field station (ESP32 + BME280) that logs once per
// minute. Operators export the logger's CSV and upload it as-is, so header
// spelling varies between firmware versions and between Spanish and English
// locales:
//
//	Time,pressure,wind_speed
//	fecha,Presión (hPa),velocidad viento
//	Timestamp,analogico ESP32,vel_viento
//
// # Pipeline
//
//	bytes → records → normalized headers → time index → numeric columns → labels
//
// Header normalization trims and collapses whitespace. A later column wins
// when two headers normalize to the same string.
//
// Time column detection (first match in declared order):
//
//	lowercase header contains one of: time, timestamp, fecha, hora
//	header is exactly one of: Time, time, Timestamp
//	otherwise the first column, if its lowercase name is exactly a keyword
//
// Rows whose time cell does not parse are dropped. The drop count is returned
// in [Result.DroppedRows]; nothing else reports it.
//
// Numeric columns are those whose every non-missing cell is a plain decimal
// number (sign, digits, one decimal point, optional exponent). Missing
// markers such as "", "NA" and "NaN" become NaN in the frame.
//
// Canonical labels (first keyword in table order wins):
//
//	presion, pressure, presión  → Pressure
//	viento, velocidad, wind     → WindSpeed
//	analogico                   → SensorValue
//
// When no numeric column matches any keyword, the first numeric column is
// labeled Pressure and the second WindSpeed. This is a demo convenience for
// unlabeled logger exports and can mislabel real data; the ingestor logs a
// warning whenever it fires.
//
// # Upload IDs
//
// Upload IDs are the first 8 bytes of the SHA-256 of the raw upload, hex
// encoded. Re-uploading the same file yields the same ID, which keeps the
// Kafka sink keys stable across retries.
package domain
