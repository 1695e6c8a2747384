// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autothresh

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rescribe.xyz/autothresh/histogram"
)

const graphWidth = 1920
const graphHeight = 1080
const xtickevery = 32

// Mark is a labelled intensity level to draw over a histogram graph
type Mark struct {
	Label string
	Value int
}

var markColors = []drawing.Color{
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorAlternateGreen,
	chart.ColorAlternateGray,
}

// markLine creates a vertical line at x reaching up to top
func markLine(x float64, top float64, c drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{x, x},
		YValues: []float64{0, top},
		Style: chart.Style{
			StrokeColor: c,
			StrokeWidth: 3,
		},
	}
}

// Graph creates a PNG graph of a histogram, with a labelled vertical
// line at each mark
func Graph(h histogram.H, marks []Mark, title string, w io.Writer) error {
	if h.Total() == 0 {
		return fmt.Errorf("Can't graph histogram: %w", histogram.ErrEmpty)
	}

	var xvalues, yvalues []float64
	var xticks []chart.Tick
	for i, c := range h {
		xvalues = append(xvalues, float64(i))
		yvalues = append(yvalues, float64(c))
		if i%xtickevery == 0 {
			xticks = append(xticks, chart.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
		}
	}
	last := float64(histogram.Levels - 1)
	xticks = append(xticks, chart.Tick{Value: last, Label: fmt.Sprintf("%.0f", last)})

	top := float64(h.Peak()) * 1.1

	graph := chart.Chart{
		Title:  title,
		Width:  graphWidth,
		Height: graphHeight,
		XAxis: chart.XAxis{
			Name: "Intensity",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: last,
			},
			Ticks: xticks,
		},
		YAxis: chart.YAxis{
			Name: "Pixels",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: top,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorAlternateBlue,
				},
				XValues: xvalues,
				YValues: yvalues,
			},
		},
	}

	var annotations []chart.Value2
	for i, m := range marks {
		x := float64(m.Value)
		graph.Series = append(graph.Series, markLine(x, top, markColors[i%len(markColors)]))
		annotations = append(annotations, chart.Value2{
			Label:  fmt.Sprintf("%s %d", m.Label, m.Value),
			XValue: x,
			YValue: top * (1 - 0.06*float64(i+1)),
		})
	}
	if len(annotations) > 0 {
		graph.Series = append(graph.Series, chart.AnnotationSeries{Annotations: annotations})
	}

	return graph.Render(chart.PNG, w)
}
