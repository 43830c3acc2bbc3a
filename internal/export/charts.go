package export

import (
	"bytes"
	"math"
	"os"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 1280
	chartHeight = 720
	labelRunes  = 24
)

var (
	revenueColor = drawing.ColorFromHex("3AA99F")
	capitalColor = drawing.ColorFromHex("D0A215")

	categoryColors = map[model.Category]drawing.Color{
		model.CategoryLow:    drawing.ColorFromHex("879A39"),
		model.CategoryMedium: drawing.ColorFromHex("D0A215"),
		model.CategoryHigh:   drawing.ColorFromHex("D14D41"),
		model.CategoryNone:   drawing.ColorFromHex("878580"),
	}
)

// WritePie draws the share of Budget_2023_Total per ministry.
func WritePie(ds *model.Dataset, path string) error {
	payload, err := view.Build(ds, view.Params{View: view.Visualizations})
	if err != nil {
		return err
	}
	if msg, ok := payload.Notice(view.SectionPie); ok {
		return noData(msg)
	}

	var values []chart.Value
	for _, m := range payload.Visualizations.Ministries {
		v := m.Total.InexactFloat64()
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: cli.Truncate(m.Ministry, labelRunes), Value: v})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Budget Distribution by Ministry",
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return render(path, func(buf *bytes.Buffer) error { return pie.Render(chart.PNG, buf) })
}

// WriteRevenueCapital draws revenue and capital per ministry as stacked bars.
func WriteRevenueCapital(ds *model.Dataset, path string) error {
	payload, err := view.Build(ds, view.Params{View: view.Visualizations})
	if err != nil {
		return err
	}
	if msg, ok := payload.Notice(view.SectionBars); ok {
		return noData(msg)
	}

	var bars []chart.StackedBar
	for _, m := range payload.Visualizations.Ministries {
		rev := m.Revenue.InexactFloat64()
		capital := m.Capital.InexactFloat64()
		if rev+capital <= 0 {
			continue
		}
		bars = append(bars, chart.StackedBar{
			Name: cli.Truncate(m.Ministry, labelRunes),
			Values: []chart.Value{
				{Label: "Revenue", Value: rev, Style: chart.Style{FillColor: revenueColor, StrokeColor: revenueColor}},
				{Label: "Capital", Value: capital, Style: chart.Style{FillColor: capitalColor, StrokeColor: capitalColor}},
			},
		})
	}
	if len(bars) == 0 {
		return ErrNoData
	}

	sbc := chart.StackedBarChart{
		Title:      "Revenue vs Capital by Ministry",
		Width:      max(chartWidth, len(bars)*70+120),
		Height:     chartHeight,
		BarSpacing: 20,
		XAxis:      chart.Style{TextRotationDegrees: 90},
		Bars:       bars,
	}
	return render(path, func(buf *bytes.Buffer) error { return sbc.Render(chart.PNG, buf) })
}

// WriteScatter plots x against y for every record, one series per
// category so the legend doubles as the colour key.
func WriteScatter(ds *model.Dataset, x, y, path string) error {
	payload, err := view.Build(ds, view.Params{View: view.Dynamic, XField: x, YField: y})
	if err != nil {
		return err
	}
	if msg, ok := payload.Notice(view.SectionScatter); ok {
		return noData(msg)
	}
	dyn := payload.Dynamic
	if len(dyn.Points) == 0 {
		return ErrNoData
	}

	order := append([]model.Category{model.CategoryNone}, model.Categories...)
	xs := make(map[model.Category][]float64)
	ys := make(map[model.Category][]float64)
	xr := bounds{lo: math.Inf(1), hi: math.Inf(-1)}
	yr := bounds{lo: math.Inf(1), hi: math.Inf(-1)}
	for _, pt := range dyn.Points {
		xv, yv := pt.X.InexactFloat64(), pt.Y.InexactFloat64()
		xs[pt.Category] = append(xs[pt.Category], xv)
		ys[pt.Category] = append(ys[pt.Category], yv)
		xr.add(xv)
		yr.add(yv)
	}

	var series []chart.Series
	for _, c := range order {
		if len(xs[c]) == 0 {
			continue
		}
		name := string(c)
		if c == model.CategoryNone {
			name = "Uncategorized"
		}
		color := categoryColors[c]
		series = append(series, chart.ContinuousSeries{
			Name: name,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    color,
				StrokeColor: color,
			},
			XValues: xs[c],
			YValues: ys[c],
		})
	}

	graph := chart.Chart{
		Title:  dyn.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: dyn.XField, Range: xr.rng()},
		YAxis:  chart.YAxis{Name: dyn.YField, Range: yr.rng()},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return render(path, func(buf *bytes.Buffer) error { return graph.Render(chart.PNG, buf) })
}

// bounds tracks an axis range. go-chart rejects zero-width ranges, so a
// single distinct value is widened by one unit each side.
type bounds struct{ lo, hi float64 }

func (b *bounds) add(v float64) {
	b.lo = math.Min(b.lo, v)
	b.hi = math.Max(b.hi, v)
}

func (b bounds) rng() *chart.ContinuousRange {
	lo, hi := b.lo, b.hi
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func noData(msg string) error {
	return &noDataError{msg: msg}
}

type noDataError struct{ msg string }

func (e *noDataError) Error() string        { return "no data to plot: " + e.msg }
func (e *noDataError) Is(target error) bool { return target == ErrNoData }

// render buffers the image so a failed render leaves no partial file.
func render(path string, draw func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}
