package figure

import (
	"image/color"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Style holds the axis ranges and markers shared by all figures.
type Style struct {
	// Duration is the time spanned by the bins, in seconds.
	Duration float64
	// Limit crops both time axes to [0, Limit].
	Limit float64

	// VMin and VMax bound the heat map colour scale.
	VMin float64
	VMax float64

	// Chance is drawn as a dashed horizontal line on time courses.
	Chance float64
	// YMin and YMax bound the score axis of time courses.
	YMin float64
	YMax float64

	// Markers are epoch boundaries, in seconds.
	Markers []float64
	// Ticks are the labelled positions on time axes.
	Ticks []float64
}

// DefaultStyle returns the layout of a 14 s delayed-response trial.
func DefaultStyle() Style {
	return Style{
		Duration: 14,
		Limit:    12,
		VMin:     0.4,
		VMax:     1,
		Chance:   0.5,
		YMin:     0.25,
		YMax:     1,
		Markers:  []float64{2, 3, 4.5, 5.5, 9, 10},
		Ticks:    []float64{0, 4, 8, 12},
	}
}

var (
	markerStyle = draw.LineStyle{
		Color:  color.Black,
		Width:  vg.Points(1),
		Dashes: []vg.Length{vg.Points(4), vg.Points(3)},
	}
	scoreStyle = draw.LineStyle{
		Color: color.RGBA{R: 31, G: 119, B: 180, A: 255},
		Width: vg.Points(1.5),
	}
	bandColor = color.RGBA{R: 31, G: 119, B: 180, A: 64}
)
