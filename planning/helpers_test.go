package planning

import (
	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/mat"
)

const (
	left  = 0
	right = 1
)

// chain of n states where left and right move by one cell, clipped at the ends.
// Every step costs stepReward. When absorbing is set no mass leaves the last state.
func chainDynamics(n int, stepReward float64, absorbing bool) *types.Dynamics {
	dyn := &types.Dynamics{
		Sparse: make(map[int]map[int][]types.Outcome),
		P:      types.NewTransition(n, 2),
		R:      mat.NewDense(n, 2, nil),
	}
	for s := 0; s < n; s++ {
		dyn.Sparse[s] = make(map[int][]types.Outcome)
		for _, a := range []int{left, right} {
			next := s - 1
			if a == right {
				next = s + 1
			}
			if next < 0 {
				next = 0
			}
			if next >= n {
				next = n - 1
			}
			prob := 1.0
			if absorbing && s == n-1 {
				prob = 0
			}
			dyn.Sparse[s][a] = []types.Outcome{{Prob: prob, Next: next, Reward: stepReward}}
			dyn.P.Set(s, a, next, prob)
			dyn.R.Set(s, a, stepReward)
		}
	}
	return dyn
}

// reaches terminates when the successor of (s, a) is target
func reaches(dyn *types.Dynamics, target int) types.TerminationPredicate {
	return func(s, a int) bool {
		next, ok := dyn.Successor(s, a)
		return ok && next == target
	}
}

// twoStateMDP: action 0 stays, action 1 switches.
// R = [[0, 1], [1, 0]] so the optimal values are 1/(1-gamma) in both states.
func twoStateMDP() (*mat.Dense, *types.Transition) {
	reward := mat.NewDense(2, 2, []float64{
		0, 1,
		1, 0,
	})
	transition := types.NewTransition(2, 2)
	transition.Set(0, 0, 0, 1)
	transition.Set(0, 1, 1, 1)
	transition.Set(1, 0, 1, 1)
	transition.Set(1, 1, 0, 1)
	return reward, transition
}

// stochasticMDP of three states and two actions with non trivial dynamics
func stochasticMDP() (*mat.Dense, *types.Transition) {
	reward := mat.NewDense(3, 2, []float64{
		0.5, 0,
		-1, 2,
		0.3, 0.1,
	})
	transition := types.NewTransition(3, 2)
	rows := [][]float64{
		{0.2, 0.5, 0.3}, {0.0, 0.1, 0.9},
		{0.6, 0.2, 0.2}, {0.3, 0.3, 0.4},
		{0.1, 0.8, 0.1}, {0.5, 0.0, 0.5},
	}
	for s := 0; s < 3; s++ {
		for a := 0; a < 2; a++ {
			for n, p := range rows[s*2+a] {
				transition.Set(s, a, n, p)
			}
		}
	}
	return reward, transition
}

type countingSink struct {
	observations int
	deltas       []float64
}

func (c *countingSink) Observe(_ int, delta float64) {
	c.observations++
	c.deltas = append(c.deltas, delta)
}
