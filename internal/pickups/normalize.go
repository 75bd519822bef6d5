package pickups

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/klauspost/compress/gzip"
)

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// utf8BOM is written by spreadsheet exports ahead of the header.
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// ReadCSV reads a header row plus at most rowLimit data rows (rowLimit <= 0 means all).
// Gzip payloads are detected by their magic bytes and decompressed transparently; a
// leading UTF-8 byte order mark is dropped.
func ReadCSV(r io.Reader, rowLimit int) ([][]string, error) {
	br := bufio.NewReader(r)

	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrDataFetch, err)
		}
		defer zr.Close()
		br = bufio.NewReader(zr)
	}
	if bom, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(bom, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true

	var rows [][]string
	for rowLimit <= 0 || len(rows) <= rowLimit {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", ErrDataFetch, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty csv, header row missing", ErrDataFetch)
	}
	return rows, nil
}

// Normalize lowercases the header, checks the required columns and parses every row
// into a Record. rows[0] is the header.
func Normalize(key, source string, rows [][]string, timestampColumn string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: header row missing", ErrDataFetch)
	}
	timestampColumn = normalizeColumn(timestampColumn)

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		name := normalizeColumn(h)
		if containsColumn(header[:i], name) {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrSchema, name)
		}
		header[i] = name
	}
	for _, required := range []string{timestampColumn, ColumnLat, ColumnLon} {
		if !containsColumn(header, required) {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, required)
		}
	}

	ds := &Dataset{
		Key:     key,
		Source:  source,
		Columns: header,
	}
	if len(rows) == 1 {
		return ds, nil
	}

	table := make([][]string, 0, len(rows))
	table = append(table, header)
	table = append(table, rows[1:]...)

	df := dataframe.LoadRecords(table,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFetch, df.Err)
	}

	stampCol, latCol, lonCol := df.Col(timestampColumn), df.Col(ColumnLat), df.Col(ColumnLon)
	for _, col := range []series.Series{stampCol, latCol, lonCol} {
		if col.Err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, col.Err)
		}
	}
	stamps := stampCol.Records()
	lats := latCol.Float()
	lons := lonCol.Float()

	records := make([]Record, len(stamps))
	for i := range stamps {
		ts, err := parseTimestamp(stamps[i])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: column %q: %v", ErrSchema, i+1, timestampColumn, err)
		}
		if math.IsNaN(lats[i]) || math.IsNaN(lons[i]) {
			return nil, fmt.Errorf("%w: row %d: invalid coordinates", ErrSchema, i+1)
		}
		records[i] = Record{Timestamp: ts, Lat: lats[i], Lon: lons[i]}
	}

	ds.Records = records
	ds.frame = df
	return ds, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
