package analysis

import (
	"fmt"
	"image/color"
	"os"
	"path"

	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ConvergenceRecorder collects the value deltas of value iteration runs by name
type ConvergenceRecorder struct {
	names  []string
	deltas map[string][]float64
}

func NewConvergenceRecorder() *ConvergenceRecorder {
	return &ConvergenceRecorder{
		names:  make([]string, 0),
		deltas: make(map[string][]float64),
	}
}

// Sink returns a ConvergenceSink recording under name
func (c *ConvergenceRecorder) Sink(name string) types.ConvergenceSink {
	if _, ok := c.deltas[name]; !ok {
		c.names = append(c.names, name)
		c.deltas[name] = make([]float64, 0)
	}
	return types.SinkFunc(func(_ int, delta float64) {
		c.deltas[name] = append(c.deltas[name], delta)
	})
}

func (c *ConvergenceRecorder) Names() []string {
	return c.names
}

func (c *ConvergenceRecorder) Deltas(name string) []float64 {
	return c.deltas[name]
}

// Plot saves the deltas of the named runs on a log scale
func (c *ConvergenceRecorder) Plot(plotPath, fileName string, names ...string) error {
	if len(names) == 0 {
		names = c.names
	}
	if _, err := os.Stat(plotPath); err != nil {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			return err
		}
	}
	p := plot.New()
	p.Title.Text = "Value iteration convergence"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "max |V' - V|"
	drawn := 0
	for i, name := range names {
		deltas, ok := c.deltas[name]
		if !ok {
			return fmt.Errorf("no run named %q", name)
		}
		points := make(plotter.XYs, 0, len(deltas))
		for j, d := range deltas {
			// zero deltas cannot be drawn on a log scale
			if d <= 0 {
				continue
			}
			points = append(points, plotter.XY{X: float64(j + 1), Y: d})
		}
		if len(points) == 0 {
			continue
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
		drawn++
	}
	// an empty log axis cannot be normalised
	if drawn > 0 {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}
	return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, fileName))
}

// PlotHeatMap saves a heat map of the grid data
func PlotHeatMap(plotPath, fileName, title string, data plotter.GridXYZ) error {
	if _, err := os.Stat(plotPath); err != nil {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			return err
		}
	}
	p := plot.New()
	p.Title.Text = title
	heatMap := plotter.NewHeatMap(data, palette.Heat(20, 1))
	heatMap.NaN = color.Black
	p.Add(heatMap)
	return p.Save(6*vg.Inch, 6*vg.Inch, path.Join(plotPath, fileName))
}
