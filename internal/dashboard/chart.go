package dashboard

import (
	"errors"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 960
	chartHeight = 420
	barSpacing  = 6
)

var barColor = drawing.ColorFromHex("4F46E5")

// WriteChartPNG draws c as a bar chart PNG.
func WriteChartPNG(w io.Writer, c Chart) error {
	if len(c.Bars) == 0 {
		return errors.New("chart has no bars")
	}

	maxValue := 1.0
	values := make([]chart.Value, len(c.Bars))
	for i, b := range c.Bars {
		values[i] = chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		if b.Value > maxValue {
			maxValue = b.Value
		}
	}

	graph := chart.BarChart{
		Title:      c.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth(len(values)),
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  c.YAxis,
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue},
		},
		Bars: values,
	}
	return graph.Render(chart.PNG, w)
}

// barWidth shrinks bars so that n of them fit the canvas.
func barWidth(n int) int {
	usable := chartWidth - 160
	w := usable/n - barSpacing
	if w < 4 {
		return 4
	}
	if w > 60 {
		return 60
	}
	return w
}
