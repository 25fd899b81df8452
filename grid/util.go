package grid

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/plotter"
)

// ValueDataSet exposes a value function over the grid as a heat map.
// Row 0 of the grid is drawn at the top.
type ValueDataSet struct {
	Values []float64
	Height int
	Width  int
}

var _ plotter.GridXYZ = &ValueDataSet{}

func NewValueDataSet(g *GridEnvironment, v *mat.VecDense) *ValueDataSet {
	values := make([]float64, v.Len())
	for i := range values {
		values[i] = v.AtVec(i)
	}
	return &ValueDataSet{
		Values: values,
		Height: g.Height,
		Width:  g.Width,
	}
}

func (d *ValueDataSet) Dims() (int, int) {
	return d.Width, d.Height
}

func (d *ValueDataSet) Z(c, r int) float64 {
	return d.Values[(d.Height-1-r)*d.Width+c]
}

func (d *ValueDataSet) X(c int) float64 {
	return float64(c)
}

func (d *ValueDataSet) Y(r int) float64 {
	return float64(r)
}

func (d *ValueDataSet) Min() float64 {
	min := d.Values[0]
	for _, v := range d.Values {
		if v < min {
			min = v
		}
	}
	return min
}

func (d *ValueDataSet) Max() float64 {
	max := d.Values[0]
	for _, v := range d.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// RenderOptions prints the option selected in every cell as the target cell index.
// The goal is green and walls are red.
func RenderOptions(g *GridEnvironment, policy types.Policy) string {
	var b strings.Builder
	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			pos := Position{I: i, J: j}
			cell := fmt.Sprintf("%4d ", types.PolicyAction(policy, g.Encode(pos)))
			switch {
			case pos == g.Goal:
				b.WriteString(aurora.Green(cell).String())
			case g.IsWall(pos):
				b.WriteString(aurora.Red(fmt.Sprintf("%4s ", "#")).String())
			default:
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

var actionArrows = map[Action]string{
	Noop:  ".",
	Up:    "^",
	Right: ">",
	Left:  "<",
	Down:  "v",
}

// RenderActions prints the primitive action of an option policy in every cell
func RenderActions(g *GridEnvironment, policy types.Policy, target Position) string {
	var b strings.Builder
	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			pos := Position{I: i, J: j}
			a := types.PolicyAction(policy, g.Encode(pos))
			cell := fmt.Sprintf("%2s", actionArrows[Action(a)])
			switch {
			case g.IsWall(pos):
				b.WriteString(aurora.Red(" #").String())
			case pos == target:
				b.WriteString(aurora.Blue(cell).String())
			default:
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
