package pickups

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
)

var (
	// ErrDataFetch is returned when a source is unreachable or its payload is not readable CSV.
	ErrDataFetch = errors.New("data fetch failed")

	// ErrSchema is returned when expected columns are absent or their values cannot be parsed.
	ErrSchema = errors.New("dataset schema mismatch")
)

// Column names required after normalization (in addition to the timestamp column).
const (
	ColumnLat = "lat"
	ColumnLon = "lon"
)

// Record is a single pickup event.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
}

// Date returns the calendar date of the pickup at midnight in the timestamp's location.
func (r Record) Date() time.Time {
	y, m, d := r.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Timestamp.Location())
}

// Hour returns the hour of day of the pickup.
func (r Record) Hour() int {
	return r.Timestamp.Hour()
}

// Dataset is the normalized in-memory table of pickups.
// Once cached a Dataset is shared by every session and must not be mutated.
type Dataset struct {
	Key     string   `json:"key"`
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Records []Record `json:"-"`

	// normalized table (lowercased headers); zero value when the source had no data rows
	frame dataframe.DataFrame
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// RemoteKey is the cache key of the fixed remote source loaded with a row limit.
func RemoteKey(rowLimit int) string {
	return fmt.Sprintf("rows:%d", rowLimit)
}

// UploadKey is the cache key of an uploaded file, identified by its content digest.
func UploadKey(digest string) string {
	return "upload:" + digest
}
