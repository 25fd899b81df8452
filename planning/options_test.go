package planning

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/mat"
)

func TestLearnOptionPolicyReachesTarget(t *testing.T) {
	dyn := chainDynamics(4, 0, false)
	cfg := DefaultOptionConfig()
	cfg.Source = NewSource(1)

	learnt, err := LearnOptionPolicy(dyn, reaches(dyn, 3), cfg)
	require.NoError(t, err)
	assert.True(t, learnt.Converged)
	for s := 0; s < 4; s++ {
		assert.Equal(t, right, types.PolicyAction(learnt.Policy, s), "state %d", s)
	}
	// terminating on the next step is worth the completion reward, no motion after
	assert.InDelta(t, 1.0, learnt.Values.AtVec(2), 1e-9)
	assert.InDelta(t, 0.99, learnt.Values.AtVec(1), 1e-9)
	assert.InDelta(t, 0.99*0.99, learnt.Values.AtVec(0), 1e-9)
	assert.InDelta(t, 1.0, learnt.Values.AtVec(3), 1e-9)
}

func TestLearnOptionPolicyNeverTerminatingDegenerates(t *testing.T) {
	dyn := chainDynamics(5, 0, false)
	cfg := DefaultOptionConfig()
	cfg.OtherReward = -1
	cfg.Gamma = 0.9
	cfg.Source = NewSource(1)

	learnt, err := LearnOptionPolicy(dyn, types.Never(), cfg)
	require.NoError(t, err)

	constant := mat.NewDense(5, 2, nil)
	constant.Apply(func(_, _ int, _ float64) float64 { return -1 }, constant)
	plain, err := ValueIteration(constant, dyn.P, types.UniformDiscount(0.9), IterationConfig{
		MaxIterations:     cfg.MaxIterations,
		StoppingThreshold: cfg.StoppingThreshold,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, plain.Iterations, learnt.Iterations)
	assert.InDeltaSlice(t, plain.V.RawVector().Data, learnt.Values.RawVector().Data, 1e-12)
}

func TestLearnOptionPolicyErrors(t *testing.T) {
	_, err := LearnOptionPolicy(nil, types.Never(), DefaultOptionConfig())
	assert.True(t, errors.Is(err, types.ErrShapeMismatch))

	dyn := chainDynamics(3, 0, false)
	cfg := DefaultOptionConfig()
	cfg.Gamma = 2
	_, err = LearnOptionPolicy(dyn, types.Never(), cfg)
	assert.True(t, errors.Is(err, types.ErrInvalidDiscount))
}

// twoOptionModel: option 0 stays with reward r0, option 1 moves to the other state
func twoOptionModel() OptionModel {
	transition := types.NewTransition(2, 2)
	transition.Set(0, 0, 0, 1)
	transition.Set(0, 1, 1, 1)
	transition.Set(1, 0, 1, 1)
	transition.Set(1, 1, 0, 1)
	return OptionModel{
		Reward: mat.NewDense(2, 2, []float64{
			0, 1,
			2, 0,
		}),
		Transition: transition,
		Length: mat.NewDense(2, 2, []float64{
			1, 3,
			2, 1,
		}),
	}
}

func TestLearnPolicyOverOptions(t *testing.T) {
	model := twoOptionModel()
	cfg := DefaultOptionsConfig()
	cfg.GammaBase = 0.9
	cfg.StoppingThreshold = 1e-10
	cfg.Source = NewSource(1)

	learnt, err := LearnPolicyOverOptions(model, cfg)
	require.NoError(t, err)
	assert.True(t, learnt.Converged)
	assert.Empty(t, learnt.Clipped)
	assert.InDelta(t, math.Pow(0.9, 3), learnt.Gamma.At(0, 1), 1e-12)
	assert.InDelta(t, math.Pow(0.9, 2), learnt.Gamma.At(1, 0), 1e-12)

	// staying in 1 pays 2 every two steps: V1 = 2 / (1 - 0.81)
	v1 := 2 / (1 - 0.81)
	assert.InDelta(t, v1, learnt.Values.AtVec(1), 1e-6)
	assert.InDelta(t, 1+0.729*v1, learnt.Values.AtVec(0), 1e-6)
	assert.Equal(t, 1, types.PolicyAction(learnt.Policy, 0))
	assert.Equal(t, 0, types.PolicyAction(learnt.Policy, 1))

	// the caller's length matrix is untouched
	assert.Equal(t, 3.0, model.Length.At(0, 1))
}

func TestLearnPolicyOverOptionsClipsLengths(t *testing.T) {
	model := twoOptionModel()
	model.Length.Set(0, 0, 0)
	model.Length.Set(1, 1, -2)

	var buf bytes.Buffer
	cfg := DefaultOptionsConfig()
	cfg.GammaBase = 0.9
	cfg.Source = NewSource(1)
	cfg.Logger = log.NewLogfmtLogger(&buf)

	learnt, err := LearnPolicyOverOptions(model, cfg)
	require.NoError(t, err)
	require.Len(t, learnt.Clipped, 2)
	assert.Equal(t, ClippedLength{State: 0, Option: 0, Original: 0}, learnt.Clipped[0])
	assert.Equal(t, ClippedLength{State: 1, Option: 1, Original: -2}, learnt.Clipped[1])
	assert.Equal(t, 0.9, learnt.Gamma.At(0, 0))
	assert.Equal(t, 0.9, learnt.Gamma.At(1, 1))
	assert.Contains(t, buf.String(), "level=warn")
	assert.Contains(t, buf.String(), "clipping")
	assert.Equal(t, 0.0, model.Length.At(0, 0))
}

func TestLearnPolicyOverOptionsRejectsInvalidTransition(t *testing.T) {
	model := twoOptionModel()
	model.Transition.Set(0, 0, 0, 0.75)
	model.Transition.Set(0, 0, 1, 0.75)
	sink := &countingSink{}
	cfg := DefaultOptionsConfig()
	cfg.Sink = sink

	_, err := LearnPolicyOverOptions(model, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidProbability))
	assert.Zero(t, sink.observations)

	model = twoOptionModel()
	model.Transition.Set(1, 1, 0, 1.2)
	_, err = LearnPolicyOverOptions(model, cfg)
	assert.True(t, errors.Is(err, types.ErrInvalidProbability))
}

func TestLearnPolicyOverOptionsShapeErrors(t *testing.T) {
	cfg := DefaultOptionsConfig()

	model := twoOptionModel()
	model.Transition = types.NewTransition(3, 2)
	_, err := LearnPolicyOverOptions(model, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrShapeMismatch))
	assert.Contains(t, err.Error(), "[3 2 3]")
	assert.Contains(t, err.Error(), "[2 2 2]")

	model = twoOptionModel()
	model.Length = mat.NewDense(2, 3, nil)
	_, err = LearnPolicyOverOptions(model, cfg)
	assert.True(t, errors.Is(err, types.ErrShapeMismatch))

	_, err = LearnPolicyOverOptions(OptionModel{}, cfg)
	assert.True(t, errors.Is(err, types.ErrShapeMismatch))
}

func TestLearnPolicyOverOptionsAffordances(t *testing.T) {
	model := twoOptionModel()
	cfg := DefaultOptionsConfig()
	cfg.GammaBase = 0.9
	cfg.Source = NewSource(1)

	// state 0 may only stay
	cfg.Affordances = mat.NewDense(2, 2, []float64{
		1, 0,
		1, 1,
	})
	learnt, err := LearnPolicyOverOptions(model, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, types.PolicyAction(learnt.Policy, 0))
	assert.InDelta(t, 0.0, learnt.Values.AtVec(0), 1e-9)

	sink := &countingSink{}
	cfg.Sink = sink
	cfg.Affordances = mat.NewDense(2, 2, []float64{
		1, 1,
		0, 0,
	})
	_, err = LearnPolicyOverOptions(model, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrEmptyAffordance))
	assert.Zero(t, sink.observations)
}
