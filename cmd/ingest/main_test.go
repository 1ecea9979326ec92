package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/sensor-data-ingest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleCSV = `Time,analogico ESP32,velocidad viento
2025-11-11 12:00:00,1013.5,3.2
2025-11-11 12:01:00,1013.2,3.5
bad-date,999,999
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_Summary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-file", writeTemp(t, exampleCSV)}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "rows:     2 (dropped 1)")
	assert.Contains(t, out, "SensorValue")
	assert.Contains(t, out, "WindSpeed")
	assert.Contains(t, out, "m/s")
	assert.Contains(t, out, "50%")
}

func TestRun_FilterToFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.csv")
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-file", writeTemp(t, exampleCSV),
		"-column", "WindSpeed", "-low", "3.4", "-high", "4",
		"-out", dst,
	}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "matched:  1 on WindSpeed")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Time,SensorValue,WindSpeed", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2025-11-11 12:01:00,"), lines[1])
}

func TestRun_StdinToStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-file", "-", "-out", "-"}, strings.NewReader(domain.SampleCSV), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.True(t, strings.HasPrefix(stdout.String(), "Time,Pressure,WindSpeed\n"))
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"missing file flag", nil, 2, "-file"},
		{"unreadable file", []string{"-file", filepath.Join(t.TempDir(), "nope.csv")}, 1, "read"},
		{"no numeric columns", []string{"-file", writeTemp(t, "Time,station\n2025-11-11 12:00:00,north\n")}, 1, "No numeric columns"},
		{"unknown filter column", []string{"-file", writeTemp(t, exampleCSV), "-column", "Humidity"}, 1, "unknown column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, nil, &stdout, &stderr)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stderr.String(), tt.msg)
		})
	}
}
