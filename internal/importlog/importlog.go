// Package importlog keeps an append-only CSV record of imported files.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one imported file.
type Entry struct {
	Timestamp    time.Time
	File         string
	Format       string
	Transactions int
	Errors       int
	Warnings     int
	Export       string // export file name, empty on a dry run
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,file,format,transactions,errors,warnings,export"

// FileName is the log path relative to a project root.
const FileName = "logs/import-log.csv"

const (
	numFields   = 7
	colTime     = 0
	colFile     = 1
	colFormat   = 2
	colTxns     = 3
	colErrors   = 4
	colWarnings = 5
	colExport   = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colFormat] = e.Format
	row[colTxns] = strconv.Itoa(e.Transactions)
	row[colErrors] = strconv.Itoa(e.Errors)
	row[colWarnings] = strconv.Itoa(e.Warnings)
	row[colExport] = e.Export
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	e := Entry{
		Timestamp: ts,
		File:      record[colFile],
		Format:    record[colFormat],
		Export:    record[colExport],
	}
	counts := []struct {
		col int
		dst *int
	}{
		{colTxns, &e.Transactions},
		{colErrors, &e.Errors},
		{colWarnings, &e.Warnings},
	}
	for _, c := range counts {
		n, err := strconv.Atoi(record[c.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[c.col], err)
		}
		*c.dst = n
	}
	return e, nil
}

// Append writes entries to <repoRoot>/logs/import-log.csv, creating the
// file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	path := filepath.Join(repoRoot, FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/import-log.csv, or nil
// when the log does not exist yet.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Imported reports whether a file of this name was logged before.
func Imported(entries []Entry, file string) bool {
	for _, e := range entries {
		if e.File == file {
			return true
		}
	}
	return false
}
