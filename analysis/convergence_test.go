package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/affordances-options/types"
)

type squareGrid struct {
	n int
}

func (g squareGrid) Dims() (int, int)   { return g.n, g.n }
func (g squareGrid) Z(c, r int) float64 { return float64(c + r) }
func (g squareGrid) X(c int) float64    { return float64(c) }
func (g squareGrid) Y(r int) float64    { return float64(r) }

func TestConvergenceRecorder(t *testing.T) {
	recorder := NewConvergenceRecorder()
	a := recorder.Sink("a")
	b := recorder.Sink("b")
	types.MultiSink{a, b}.Observe(1, 0.5)
	a.Observe(2, 0.25)

	// asking again for a sink keeps recording under the same name
	recorder.Sink("a").Observe(3, 0.125)

	assert.Equal(t, []string{"a", "b"}, recorder.Names())
	assert.Equal(t, []float64{0.5, 0.25, 0.125}, recorder.Deltas("a"))
	assert.Equal(t, []float64{0.5}, recorder.Deltas("b"))
	assert.Nil(t, recorder.Deltas("c"))
}

func TestConvergencePlot(t *testing.T) {
	recorder := NewConvergenceRecorder()
	sink := recorder.Sink("run")
	for i, d := range []float64{1, 0.1, 0.01, 0} {
		sink.Observe(i+1, d)
	}
	recorder.Sink("flat").Observe(1, 0)

	dir := filepath.Join(t.TempDir(), "plots")
	require.NoError(t, recorder.Plot(dir, "convergence.png"))
	_, err := os.Stat(filepath.Join(dir, "convergence.png"))
	assert.NoError(t, err)

	require.NoError(t, recorder.Plot(dir, "flat.png", "flat"))
	assert.Error(t, recorder.Plot(dir, "missing.png", "missing"))
}

func TestPlotHeatMap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, PlotHeatMap(dir, "values.png", "values", squareGrid{n: 3}))
	_, err := os.Stat(filepath.Join(dir, "values.png"))
	assert.NoError(t, err)
}
