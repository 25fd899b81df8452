package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestTransitionMasked(t *testing.T) {
	p := NewTransition(2, 2)
	p.Set(0, 0, 1, 1)
	p.Set(0, 1, 0, 0.5)
	p.Set(0, 1, 1, 0.5)
	p.Set(1, 0, 0, 1)
	p.Set(1, 1, 1, 1)

	masked, err := p.Masked(mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, masked.Row(0, 0))
	assert.Equal(t, []float64{0, 0}, masked.Row(0, 1))
	assert.Equal(t, []float64{0, 0}, masked.Row(1, 0))
	assert.Equal(t, []float64{0, 1}, masked.Row(1, 1))

	// the receiver is untouched
	assert.Equal(t, 1.0, p.RowSum(0, 1))

	_, err = p.Masked(mat.NewDense(3, 2, nil))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestTransitionClone(t *testing.T) {
	p := NewTransition(2, 1)
	p.Set(0, 0, 1, 1)
	c := p.Clone()
	c.Set(0, 0, 1, 0)
	assert.Equal(t, 1.0, p.At(0, 0, 1))
	assert.Equal(t, [3]int{2, 1, 2}, c.Shape())
}

func TestConfigErrors(t *testing.T) {
	err := ShapeErrorf("reward has shape (%d, %d)", 1, 2)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	assert.False(t, errors.Is(err, ErrInvalidDiscount))
	assert.Equal(t, "shape mismatch: reward has shape (1, 2)", err.Error())

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrShapeMismatch, cfgErr.Kind)

	err = CheckMatrixShape("mask", mat.NewDense(2, 3, nil), 2, 2)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	assert.Contains(t, err.Error(), "mask has shape (2, 3), expected (2, 2)")
}

func TestTerminationPredicates(t *testing.T) {
	onZero := OnActions(0)
	onState := TerminationPredicate(func(s, _ int) bool { return s == 1 })

	assert.True(t, onZero(5, 0))
	assert.False(t, onZero(5, 1))
	assert.False(t, Never()(0, 0))
	assert.True(t, onZero.And(onState)(1, 0))
	assert.False(t, onZero.And(onState)(0, 0))
	assert.True(t, onZero.Or(onState)(0, 0))
	assert.True(t, onZero.Not()(0, 1))
}

func TestTrace(t *testing.T) {
	trace := NewTrace()
	_, _, _, ok := trace.Last()
	assert.False(t, ok)

	trace.Append(0, 2, 3, 0.5, 2)
	trace.Append(3, 1, 4, 1, 1)
	assert.Equal(t, 2, trace.Len())
	assert.Equal(t, 1.5, trace.Return())
	assert.Equal(t, 3, trace.TotalSteps())

	s, o, next, ok := trace.Last()
	require.True(t, ok)
	assert.Equal(t, []int{3, 1, 4}, []int{s, o, next})
}

func TestSinks(t *testing.T) {
	var seen []float64
	sink := MultiSink{NopSink, nil, SinkFunc(func(_ int, delta float64) {
		seen = append(seen, delta)
	})}
	sink.Observe(1, 0.5)
	sink.Observe(2, 0.25)
	assert.Equal(t, []float64{0.5, 0.25}, seen)
}

func TestPolicyAction(t *testing.T) {
	p := mat.NewDense(2, 3, []float64{
		0, 0.2, 0.8,
		0, 0, 0,
	})
	assert.Equal(t, 2, PolicyAction(p, 0))
	assert.Equal(t, -1, PolicyAction(p, 1))
	assert.Equal(t, 6.0, mat.Sum(OnesMask(2, 3)))
}
