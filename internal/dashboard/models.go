package dashboard

import (
	"time"

	"github.com/i474232898/pickups-dashboard/internal/pickups"
)

// NoticeLevel classifies a user-visible informational message.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeSuccess NoticeLevel = "success"
)

// Notice replaces a component when it has nothing to render.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// State is everything a render pass depends on besides the dataset.
// It is rebuilt from the request and the session on every interaction.
type State struct {
	ShowRaw bool      `json:"showRaw"`
	Date    time.Time `json:"date"` // zero selects the date of the first record
	Hour    int       `json:"hour"`
	Counter int       `json:"counter"`
}

// Options are deployment settings for rendering.
type Options struct {
	RawPreviewRows int // 0 = every row
}

// Page is the UI description of the pickups dashboard.
type Page struct {
	Title     string      `json:"title"`
	Status    string      `json:"status"`
	Raw       *RawTable   `json:"raw,omitempty"`
	Histogram Chart       `json:"histogram"`
	Filter    FilterView  `json:"filter"`
	PointMap  PointMap    `json:"pointMap"`
	HexMap    HexMap      `json:"hexMap"`
	Counter   CounterView `json:"counter"`
}

// RawTable is the normalized table as shown by the "show raw data" toggle.
type RawTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

// Bar is one category of a bar chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart describes a categorical bar chart.
type Chart struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	XAxis string `json:"xAxis"`
	YAxis string `json:"yAxis"`
	Bars  []Bar  `json:"bars"`
}

// FilterView carries the selected filter values and the bounds of their controls.
type FilterView struct {
	Date    string `json:"date"`
	MinDate string `json:"minDate,omitempty"`
	MaxDate string `json:"maxDate,omitempty"`
	Hour    int    `json:"hour"`
	MinHour int    `json:"minHour"`
	MaxHour int    `json:"maxHour"`
	Matches int    `json:"matches"`
}

// Point is a pickup position.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PointMap is a 2D scatter map. Exactly one of Points or Notice is meaningful.
type PointMap struct {
	Title  string          `json:"title"`
	Points []Point         `json:"points,omitempty"`
	Bounds *pickups.Bounds `json:"bounds,omitempty"`
	Notice *Notice         `json:"notice,omitempty"`
}

// ViewState positions the 3D map camera.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
	Pitch     int     `json:"pitch"`
}

// HexLayer is a hexagon aggregation layer; binning is left to the map renderer.
type HexLayer struct {
	Type           string  `json:"type"`
	GetPosition    string  `json:"getPosition"`
	Radius         int     `json:"radius"`
	ElevationScale int     `json:"elevationScale"`
	ElevationRange [2]int  `json:"elevationRange"`
	Pickable       bool    `json:"pickable"`
	Extruded       bool    `json:"extruded"`
	Points         []Point `json:"data"`
}

// HexMap is the 3D hexagon map. Notice is set instead of View and Layer when empty.
type HexMap struct {
	Title    string     `json:"title"`
	MapStyle string     `json:"mapStyle"`
	View     *ViewState `json:"initialViewState,omitempty"`
	Layer    *HexLayer  `json:"layer,omitempty"`
	Notice   *Notice    `json:"notice,omitempty"`
}

// CounterView shows the session counter.
type CounterView struct {
	Count int    `json:"count"`
	Text  string `json:"text"`
}

// ExplorePage is the UI description of the upload / column selector page.
type ExplorePage struct {
	Title    string               `json:"title"`
	Dataset  string               `json:"dataset,omitempty"`
	Rows     int                  `json:"rows"`
	Columns  []string             `json:"columns,omitempty"`
	Selected string               `json:"selected,omitempty"`
	Chart    *Chart               `json:"chart,omitempty"`
	Counts   []pickups.ValueCount `json:"counts,omitempty"`
	Notice   *Notice              `json:"notice,omitempty"`
}
