package figure

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/roach88/crosstemp/internal/dataset"
)

// Supported output formats.
var formats = map[string]bool{"svg": true, "png": true, "pdf": true}

// Figure is a plot with its output size.
type Figure struct {
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

// Save writes the figure to dir/name.ext, creating dir if needed, and
// returns the path written.
func (f *Figure) Save(dir, name, ext string) (string, error) {
	if !formats[ext] {
		return "", fmt.Errorf("figure: unsupported format %q", ext)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("figure: create output dir: %w", err)
	}
	path := filepath.Join(dir, name+"."+ext)
	if err := f.Plot.Save(f.Width, f.Height, path); err != nil {
		return "", fmt.Errorf("figure: save %s: %w", path, err)
	}
	return path, nil
}

// Render writes the figure in the given format to w.
func (f *Figure) Render(w io.Writer, ext string) error {
	if !formats[ext] {
		return fmt.Errorf("figure: unsupported format %q", ext)
	}
	wt, err := f.Plot.WriterTo(f.Width, f.Height, ext)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// scoreGrid adapts a (train x test) score matrix to plotter.GridXYZ over
// [0, duration] on both axes. Columns are testing bins, rows training bins.
type scoreGrid struct {
	m mat.Matrix
	// centers holds the time of every bin; nil spaces the cells evenly
	// with width cell starting at 0.
	centers []float64
	cell    float64
}

func (g scoreGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g scoreGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g scoreGrid) X(c int) float64    { return g.at(c) }
func (g scoreGrid) Y(r int) float64    { return g.at(r) }

func (g scoreGrid) at(i int) float64 {
	if g.centers != nil {
		return g.centers[i]
	}
	return (float64(i) + 0.5) * g.cell
}

// Matrix draws a square cross-temporal score matrix. times gives the
// centre of every bin, so unevenly spaced bins such as epoch averages land
// at their own times with cell edges halfway between neighbours. A nil
// times spreads the cells evenly over [0, style.Duration].
func Matrix(scores mat.Matrix, times []float64, style Style, title string) (*Figure, error) {
	r, c := scores.Dims()
	if r == 0 || r != c {
		return nil, fmt.Errorf("figure: score matrix must be square and non-empty, got %dx%d", r, c)
	}
	if style.VMax <= style.VMin {
		return nil, fmt.Errorf("figure: vmax %v must exceed vmin %v", style.VMax, style.VMin)
	}
	if times != nil {
		if len(times) != c {
			return nil, fmt.Errorf("figure: %d times for %d bins", len(times), c)
		}
		for i := 1; i < len(times); i++ {
			if times[i] <= times[i-1] {
				return nil, fmt.Errorf("figure: bin times must increase, got %v", times)
			}
		}
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(style.VMin)
	cmap.SetMax(style.VMax)
	pal := cmap.Palette(255)
	colors := pal.Colors()

	heat := plotter.NewHeatMap(scoreGrid{m: scores, centers: times, cell: style.Duration / float64(c)}, pal)
	heat.Min = style.VMin
	heat.Max = style.VMax
	heat.Underflow = colors[0]
	heat.Overflow = colors[len(colors)-1]

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Testing Time (s)"
	p.Y.Label.Text = "Training Time (s)"
	p.Add(heat)

	for _, m := range style.Markers {
		v, err := segment(m, 0, m, style.Limit)
		if err != nil {
			return nil, err
		}
		h, err := segment(0, m, style.Limit, m)
		if err != nil {
			return nil, err
		}
		p.Add(v, h)
	}

	p.X.Min, p.X.Max = 0, style.Limit
	p.Y.Min, p.Y.Max = 0, style.Limit
	p.X.Tick.Marker = timeTicks(style.Ticks)
	p.Y.Tick.Marker = timeTicks(style.Ticks)

	return &Figure{Plot: p, Width: 5 * vg.Inch, Height: 5 * vg.Inch}, nil
}

// TimeCourse draws scores against bin time. A nil times spaces the bins
// evenly over [0, style.Duration]. When ci is non-nil it must be
// (len(scores) x 2) lower/upper margins and is drawn as a shaded band.
func TimeCourse(times, scores []float64, ci mat.Matrix, style Style, title string) (*Figure, error) {
	n := len(scores)
	if n == 0 {
		return nil, fmt.Errorf("figure: no scores to plot")
	}
	if times == nil {
		times = dataset.Linspace(0, style.Duration, n)
	}
	if len(times) != n {
		return nil, fmt.Errorf("figure: %d times for %d scores", len(times), n)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Score"

	if ci != nil {
		r, c := ci.Dims()
		if r != n || c != 2 {
			return nil, fmt.Errorf("figure: ci must be %dx2, got %dx%d", n, r, c)
		}
		band := make(plotter.XYs, 0, 2*n)
		for i := 0; i < n; i++ {
			band = append(band, plotter.XY{X: times[i], Y: scores[i] - ci.At(i, 0)})
		}
		for i := n - 1; i >= 0; i-- {
			band = append(band, plotter.XY{X: times[i], Y: scores[i] + ci.At(i, 1)})
		}
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return nil, fmt.Errorf("figure: ci band: %w", err)
		}
		poly.Color = bandColor
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	pts := make(plotter.XYs, n)
	for i := range pts {
		pts[i] = plotter.XY{X: times[i], Y: scores[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("figure: score line: %w", err)
	}
	line.LineStyle = scoreStyle
	p.Add(line)

	chance, err := segment(0, style.Chance, style.Duration, style.Chance)
	if err != nil {
		return nil, err
	}
	p.Add(chance)
	for _, m := range style.Markers {
		v, err := segment(m, style.YMin, m, style.YMax)
		if err != nil {
			return nil, err
		}
		p.Add(v)
	}

	p.X.Min, p.X.Max = 0, style.Limit
	p.Y.Min, p.Y.Max = style.YMin, style.YMax
	p.X.Tick.Marker = timeTicks(style.Ticks)

	return &Figure{Plot: p, Width: 6.4 * vg.Inch, Height: 4.8 * vg.Inch}, nil
}

// segment returns a dashed marker line between two points.
func segment(x0, y0, x1, y1 float64) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return nil, fmt.Errorf("figure: marker line: %w", err)
	}
	l.LineStyle = markerStyle
	return l, nil
}

func timeTicks(values []float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	return ticks
}
