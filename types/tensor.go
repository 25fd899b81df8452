package types

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Transition is a dense |S| x |A| x |S| probability tensor.
// It is stored as one |S| x |S| matrix per action so that
// the expected next value under action a is a single matrix-vector product.
type Transition struct {
	states    int
	actions   int
	perAction []*mat.Dense
}

// NewTransition returns a zero valued transition tensor
func NewTransition(states, actions int) *Transition {
	if states <= 0 || actions <= 0 {
		panic(fmt.Sprintf("types: invalid transition dimensions (%d, %d)", states, actions))
	}
	perAction := make([]*mat.Dense, actions)
	for a := 0; a < actions; a++ {
		perAction[a] = mat.NewDense(states, states, nil)
	}
	return &Transition{
		states:    states,
		actions:   actions,
		perAction: perAction,
	}
}

// Dims returns the number of states and actions
func (t *Transition) Dims() (int, int) {
	return t.states, t.actions
}

// Shape returns the full three dimensional shape
func (t *Transition) Shape() [3]int {
	return [3]int{t.states, t.actions, t.states}
}

func (t *Transition) At(s, a, next int) float64 {
	return t.perAction[a].At(s, next)
}

func (t *Transition) Set(s, a, next int, v float64) {
	t.perAction[a].Set(s, next, v)
}

// Row is the next state distribution of (s, a). The slice aliases the tensor.
func (t *Transition) Row(s, a int) []float64 {
	return t.perAction[a].RawRowView(s)
}

func (t *Transition) RowSum(s, a int) float64 {
	return floats.Sum(t.Row(s, a))
}

// Action returns the |S| x |S| matrix of action a
func (t *Transition) Action(a int) *mat.Dense {
	return t.perAction[a]
}

// Masked multiplies an |S| x |A| mask into the tensor, broadcasting
// over the next state axis. The receiver is left untouched.
func (t *Transition) Masked(mask mat.Matrix) (*Transition, error) {
	r, c := mask.Dims()
	if r != t.states || c != t.actions {
		return nil, ShapeErrorf("mask has shape (%d, %d), expected (%d, %d)", r, c, t.states, t.actions)
	}
	out := NewTransition(t.states, t.actions)
	for a := 0; a < t.actions; a++ {
		for s := 0; s < t.states; s++ {
			m := mask.At(s, a)
			if m == 0 {
				continue
			}
			dst := out.perAction[a].RawRowView(s)
			floats.AddScaled(dst, m, t.perAction[a].RawRowView(s))
		}
	}
	return out, nil
}

// Clone returns a deep copy
func (t *Transition) Clone() *Transition {
	out := &Transition{
		states:    t.states,
		actions:   t.actions,
		perAction: make([]*mat.Dense, t.actions),
	}
	for a, m := range t.perAction {
		out.perAction[a] = mat.DenseCopyOf(m)
	}
	return out
}

// Discount is a per (state, action) discount factor.
// *mat.Dense satisfies it for state dependent discounting.
type Discount interface {
	At(s, a int) float64
}

// UniformDiscount is the same discount for every (state, action) pair
type UniformDiscount float64

func (g UniformDiscount) At(_, _ int) float64 {
	return float64(g)
}

var _ Discount = UniformDiscount(0)
var _ Discount = &mat.Dense{}

// CheckMatrixShape returns a shape error naming the matrix when m is not rows x cols
func CheckMatrixShape(name string, m mat.Matrix, rows, cols int) error {
	r, c := m.Dims()
	if r != rows || c != cols {
		return ShapeErrorf("%s has shape (%d, %d), expected (%d, %d)", name, r, c, rows, cols)
	}
	return nil
}
