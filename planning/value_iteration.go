package planning

import (
	"math"

	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultGamma             = 0.99
	DefaultStoppingThreshold = 0.0001
	DefaultMaxIterations     = 10000
)

// IterationConfig bounds the cost of value iteration
type IterationConfig struct {
	// MaxIterations is a hard cap on the number of sweeps.
	// Reaching it is not an error, see ValueResult.Converged
	MaxIterations int
	// StoppingThreshold on the max absolute value change of a sweep
	StoppingThreshold float64
	// Sink receives (iteration, delta) after every sweep
	Sink types.ConvergenceSink
}

func DefaultIterationConfig() IterationConfig {
	return IterationConfig{
		MaxIterations:     DefaultMaxIterations,
		StoppingThreshold: DefaultStoppingThreshold,
	}
}

func (c IterationConfig) validate() error {
	if c.MaxIterations <= 0 {
		return types.ParameterErrorf("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.StoppingThreshold < 0 || math.IsNaN(c.StoppingThreshold) {
		return types.ParameterErrorf("stopping threshold must be non negative, got %v", c.StoppingThreshold)
	}
	return nil
}

// ValueResult of a value iteration run
type ValueResult struct {
	V *mat.VecDense
	// Deltas[i] is the max absolute value change of sweep i+1
	Deltas     []float64
	Iterations int
	Converged  bool
}

// ValueIteration computes the optimal state values of the (semi-)MDP given by
// reward |S|x|A|, transition |S|x|A|x|S| and the per (s, a) discount gamma.
// When mask is non nil, pairs with mask[s, a] = 0 are excluded from the max at s.
//
// Sweeps are synchronous and start from V = 0. Iteration stops once the max
// absolute change drops below the stopping threshold or after MaxIterations sweeps.
func ValueIteration(reward *mat.Dense, transition *types.Transition, gamma types.Discount, cfg IterationConfig, mask types.Mask) (*ValueResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := validateInputs(reward, transition, gamma, mask); err != nil {
		return nil, err
	}
	sink := cfg.Sink
	if sink == nil {
		sink = types.NopSink
	}

	states, actions := transition.Dims()
	b := newBellman(reward, transition, gamma, mask)
	v := mat.NewVecDense(states, nil)
	vNew := mat.NewVecDense(states, nil)
	q := mat.NewDense(states, actions, nil)

	result := &ValueResult{
		Deltas: make([]float64, 0),
	}
	for result.Iterations < cfg.MaxIterations {
		b.q(v, q)
		delta := 0.0
		for s := 0; s < states; s++ {
			best, _ := b.max(q, s)
			vNew.SetVec(s, best)
			if d := math.Abs(best - v.AtVec(s)); d > delta {
				delta = d
			}
		}
		v, vNew = vNew, v
		result.Iterations++
		result.Deltas = append(result.Deltas, delta)
		sink.Observe(result.Iterations, delta)

		if delta < cfg.StoppingThreshold {
			result.Converged = true
			break
		}
	}
	result.V = v
	return result, nil
}

// bellman holds the inputs of the Bellman optimality operator
type bellman struct {
	reward     *mat.Dense
	transition *types.Transition
	gamma      types.Discount
	mask       types.Mask
	next       *mat.VecDense
}

func newBellman(reward *mat.Dense, transition *types.Transition, gamma types.Discount, mask types.Mask) *bellman {
	states, _ := transition.Dims()
	return &bellman{
		reward:     reward,
		transition: transition,
		gamma:      gamma,
		mask:       mask,
		next:       mat.NewVecDense(states, nil),
	}
}

func (b *bellman) allowed(s, a int) bool {
	return b.mask == nil || b.mask.At(s, a) != 0
}

// q fills Q[s, a] = R[s, a] + gamma[s, a] * sum_s' P[s, a, s'] V[s']
// Masked pairs are set to -Inf.
func (b *bellman) q(v *mat.VecDense, q *mat.Dense) {
	states, actions := b.transition.Dims()
	for a := 0; a < actions; a++ {
		b.next.MulVec(b.transition.Action(a), v)
		for s := 0; s < states; s++ {
			if !b.allowed(s, a) {
				q.Set(s, a, math.Inf(-1))
				continue
			}
			q.Set(s, a, b.reward.At(s, a)+b.gamma.At(s, a)*b.next.AtVec(s))
		}
	}
}

// max over the available actions of state s
func (b *bellman) max(q *mat.Dense, s int) (float64, int) {
	best := math.Inf(-1)
	bestAction := -1
	for a, val := range q.RawRowView(s) {
		if !b.allowed(s, a) {
			continue
		}
		if bestAction == -1 || val > best {
			best = val
			bestAction = a
		}
	}
	return best, bestAction
}
