// Command ingest runs the sensor CSV pipeline over a local file and prints
// the canonical columns and their statistics. With -column it keeps only the
// rows inside [-low, -high]; with -out it writes the resulting table as CSV.
//
// Usage:
//
//	go run ./cmd/ingest -file readings.csv
//	go run ./cmd/ingest -file readings.csv -column Pressure -low 1000 -high 1020 -out filtered.csv
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/couchcryptid/sensor-data-ingest/internal/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", `CSV file to ingest ("-" for stdin)`)
	column := fs.String("column", "", "canonical column to filter on")
	low := fs.Float64("low", math.Inf(-1), "inclusive lower bound for -column")
	high := fs.Float64("high", math.Inf(1), "inclusive upper bound for -column")
	out := fs.String("out", "", `write the resulting table as CSV to this path ("-" for stdout)`)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		fs.Usage()
		return 2
	}

	up, err := readUpload(*file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read %s: %v\n", *file, err)
		return 1
	}

	res, err := domain.Ingest(up)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n%s\n", domain.UserMessage(err), domain.Hint)
		return 1
	}

	table := res.Table
	if *column != "" {
		table, err = domain.FilterRange(res.Table, *column, *low, *high)
		if err != nil {
			fmt.Fprintf(stderr, "filter: %v\n", err)
			return 1
		}
	}

	if *out == "-" {
		if err := domain.WriteCSV(stdout, table); err != nil {
			fmt.Fprintf(stderr, "write: %v\n", err)
			return 1
		}
		return 0
	}

	if err := printSummary(stdout, res, table, *column); err != nil {
		fmt.Fprintf(stderr, "summary: %v\n", err)
		return 1
	}

	if *out != "" {
		if err := writeFile(*out, table); err != nil {
			fmt.Fprintf(stderr, "write %s: %v\n", *out, err)
			return 1
		}
		fmt.Fprintf(stdout, "\nwrote %d rows to %s\n", table.Len(), *out)
	}
	return 0
}

func readUpload(path string, stdin io.Reader) (domain.Upload, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return domain.Upload{Data: data, MediaType: "text/csv"}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Upload{}, err
	}
	return domain.Upload{Data: data, MediaType: "text/csv", Filename: filepath.Base(path)}, nil
}

func printSummary(w io.Writer, res domain.Result, table domain.Table, column string) error {
	fmt.Fprintf(w, "upload:   %s\n", res.UploadID)
	if res.TimeColumn != "" {
		fmt.Fprintf(w, "time:     %s\n", res.TimeColumn)
	}
	fmt.Fprintf(w, "rows:     %d (dropped %d)\n", res.Table.Len(), res.DroppedRows)
	if column != "" {
		fmt.Fprintf(w, "matched:  %d on %s\n", table.Len(), column)
	}
	if res.FallbackApplied {
		fmt.Fprintln(w, "labels:   assigned by position, no header matched a keyword")
	}

	stats, err := domain.DescribeAll(table, res.CanonicalColumns)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tunit\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Column, domain.Unit(s.Column), s.Count,
			num(s.Mean), num(s.Std), num(s.Min),
			num(s.Q25), num(s.Median), num(s.Q75), num(s.Max))
	}
	return tw.Flush()
}

func writeFile(path string, table domain.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return domain.WriteCSV(f, table)
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}
