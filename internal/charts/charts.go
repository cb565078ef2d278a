// Package charts renders dashboard statistics as PNG images, sent both to the
// Telegram chat and over the HTTP dashboard.
package charts

import (
	"bytes"
	"errors"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/dricdias/telegram-bot/internal/organizer"
)

// ErrNoData is returned when there is nothing to plot yet.
var ErrNoData = errors.New("not enough data to render chart")

// CategoryBar renders a bar chart of file counts per category.
func CategoryBar(counts []organizer.CategoryCount) ([]byte, error) {
	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		bars = append(bars, chart.Value{Value: float64(c.Count), Label: c.Name})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Title:    "Número de Arquivos por Categoria",
		Width:    800,
		Height:   480,
		BarWidth: 48,
		Bars:     bars,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		YAxis: chart.YAxis{
			ValueFormatter: chart.IntValueFormatter,
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CategoryPie renders a donut chart of the file distribution across categories.
func CategoryPie(counts []organizer.CategoryCount) ([]byte, error) {
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		values = append(values, chart.Value{Value: float64(c.Count), Label: c.Name})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	graph := chart.DonutChart{
		Title:  "Distribuição de Arquivos por Categoria",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CategoryGrowth renders cumulative file counts per category over time.
func CategoryGrowth(series []organizer.CategorySeries) ([]byte, error) {
	plots := make([]chart.Series, 0, len(series))
	for _, cs := range series {
		if len(cs.Points) == 0 {
			continue
		}

		ts := chart.TimeSeries{Name: cs.Name}
		for _, p := range cs.Points {
			ts.XValues = append(ts.XValues, p.Date)
			ts.YValues = append(ts.YValues, float64(p.Count))
		}
		// A single point doesn't draw a visible line; pad it.
		if len(ts.XValues) == 1 {
			ts.XValues = append(ts.XValues, ts.XValues[0].AddDate(0, 0, 1))
			ts.YValues = append(ts.YValues, ts.YValues[0])
		}
		plots = append(plots, ts)
	}
	if len(plots) == 0 {
		return nil, ErrNoData
	}

	graph := chart.Chart{
		Title:  "Evolução de Arquivos por Categoria",
		Width:  800,
		Height: 480,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: chart.IntValueFormatter,
		},
		Series: plots,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
