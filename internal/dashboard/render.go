package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/pickups-dashboard/internal/pickups"
)

const (
	// DateLayout is the wire format of the date picker.
	DateLayout = "2006-01-02"

	noDataText = "No data available for this date and hour."
	mapStyle   = "mapbox://styles/mapbox/light-v9"
)

// Render builds the dashboard description for one interaction. It only reads ds.
func Render(ds *pickups.Dataset, st State, opts Options) Page {
	date := st.Date
	if date.IsZero() && ds.Len() > 0 {
		date = ds.Records[0].Date()
	}

	filtered := pickups.FilterByHour(pickups.FilterByDate(ds.Records, date), st.Hour)
	when := fmt.Sprintf("%s at %d:00", formatDate(date), st.Hour)

	page := Page{
		Title:     "Uber pickups in NYC",
		Status:    fmt.Sprintf("Done! %d pickups loaded.", ds.Len()),
		Histogram: HourChart(ds.Records),
		Filter:    filterView(ds.Records, date, st.Hour, len(filtered)),
		PointMap:  pointMap("2D Map of pickups on "+when, filtered),
		HexMap:    hexMap("3D Map of pickups on "+when, filtered),
		Counter: CounterView{
			Count: st.Counter,
			Text:  fmt.Sprintf("This page has run %d times.", st.Counter),
		},
	}

	if st.ShowRaw {
		rows := ds.Raw(opts.RawPreviewRows)
		page.Raw = &RawTable{
			Columns: rows[0],
			Rows:    rows[1:],
			Total:   ds.Len(),
		}
	}
	return page
}

// HourChart is the histogram of pickups per hour of day over records.
func HourChart(records []pickups.Record) Chart {
	bins := pickups.HourHistogram(records)
	bars := make([]Bar, len(bins))
	for h, n := range bins {
		bars[h] = Bar{Label: strconv.Itoa(h), Value: float64(n)}
	}
	return Chart{
		Type:  "bar",
		Title: "Number of pickups by hour",
		XAxis: "Hour of day",
		YAxis: "Number of pickups",
		Bars:  bars,
	}
}

// RenderExplore builds the column explorer for an uploaded dataset. ds may be nil when
// nothing was uploaded yet; column defaults to the first column.
func RenderExplore(ds *pickups.Dataset, column string, limit int) (ExplorePage, error) {
	page := ExplorePage{Title: "Explore an uploaded CSV"}
	if ds == nil {
		page.Notice = &Notice{Level: NoticeInfo, Text: "Upload a CSV file to explore its columns."}
		return page, nil
	}

	page.Dataset = ds.Source
	page.Rows = ds.Len()
	page.Columns = ds.Columns

	column = strings.ToLower(strings.TrimSpace(column))
	if column == "" && len(ds.Columns) > 0 {
		column = ds.Columns[0]
	}
	counts, err := ds.ValueCounts(column, limit)
	if err != nil {
		return ExplorePage{}, err
	}
	page.Selected = column
	page.Counts = counts

	if len(counts) == 0 {
		page.Notice = &Notice{Level: NoticeWarning, Text: "The uploaded file has no rows."}
		return page, nil
	}

	bars := make([]Bar, len(counts))
	for i, vc := range counts {
		bars[i] = Bar{Label: vc.Value, Value: float64(vc.Count)}
	}
	page.Chart = &Chart{
		Type:  "bar",
		Title: "Most frequent values of " + column,
		XAxis: column,
		YAxis: "Rows",
		Bars:  bars,
	}
	return page, nil
}

func filterView(records []pickups.Record, date time.Time, hour, matches int) FilterView {
	fv := FilterView{
		Date:    formatDate(date),
		Hour:    hour,
		MinHour: 0,
		MaxHour: 23,
		Matches: matches,
	}
	if min, max, ok := pickups.DateRange(records); ok {
		fv.MinDate = min.Format(DateLayout)
		fv.MaxDate = max.Format(DateLayout)
	}
	return fv
}

func pointMap(title string, records []pickups.Record) PointMap {
	m := PointMap{Title: title}
	bounds, ok := pickups.BoundsOf(records)
	if !ok {
		m.Notice = &Notice{Level: NoticeWarning, Text: noDataText}
		return m
	}
	m.Points = toPoints(records)
	m.Bounds = &bounds
	return m
}

func hexMap(title string, records []pickups.Record) HexMap {
	m := HexMap{Title: title, MapStyle: mapStyle}
	lat, lon, ok := pickups.MeanPosition(records)
	if !ok {
		m.Notice = &Notice{Level: NoticeWarning, Text: noDataText}
		return m
	}
	m.View = &ViewState{Latitude: lat, Longitude: lon, Zoom: 11, Pitch: 50}
	m.Layer = &HexLayer{
		Type:           "HexagonLayer",
		GetPosition:    "[lon, lat]",
		Radius:         100,
		ElevationScale: 4,
		ElevationRange: [2]int{0, 1000},
		Pickable:       true,
		Extruded:       true,
		Points:         toPoints(records),
	}
	return m
}

func toPoints(records []pickups.Record) []Point {
	points := make([]Point, len(records))
	for i, r := range records {
		points[i] = Point{Lat: r.Lat, Lon: r.Lon}
	}
	return points
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "no date"
	}
	return t.Format(DateLayout)
}
