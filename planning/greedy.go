package planning

import (
	"math"
	"time"

	"github.com/zeu5/affordances-options/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// TieTolerance is the absolute Q value difference under which two actions are tied
const TieTolerance = 1e-8

// NewSource returns a seeded source for tie-breaking and rollouts
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

func clockSource() rand.Source {
	return rand.NewSource(uint64(time.Now().UnixNano()))
}

func newRand(src rand.Source) *rand.Rand {
	if src == nil {
		src = clockSource()
	}
	return rand.New(src)
}

// ExtractGreedyPolicy performs a one step lookahead on the converged values v
// and returns a one hot |S| x |A| policy. Among the actions whose Q value is
// within TieTolerance of the best, one is picked uniformly at random using src.
// Ties are therefore represented by a one hot sample and never by a soft
// distribution. A nil src seeds from the clock and is not reproducible.
func ExtractGreedyPolicy(reward *mat.Dense, transition *types.Transition, v *mat.VecDense, gamma types.Discount, mask types.Mask, src rand.Source) (types.Policy, error) {
	if err := validateInputs(reward, transition, gamma, mask); err != nil {
		return nil, err
	}
	states, actions := transition.Dims()
	if v == nil || v.Len() != states {
		n := 0
		if v != nil {
			n = v.Len()
		}
		return nil, types.ShapeErrorf("value function has length %d, expected %d", n, states)
	}

	b := newBellman(reward, transition, gamma, mask)
	q := mat.NewDense(states, actions, nil)
	b.q(v, q)

	rng := newRand(src)
	policy := mat.NewDense(states, actions, nil)
	ties := make([]int, 0, actions)
	for s := 0; s < states; s++ {
		ties = ties[:0]
		best := math.Inf(-1)
		for a, val := range q.RawRowView(s) {
			if !b.allowed(s, a) || math.IsNaN(val) {
				continue
			}
			switch {
			case len(ties) == 0 || val > best+TieTolerance:
				best = val
				ties = append(ties[:0], a)
			case val >= best-TieTolerance:
				ties = append(ties, a)
			}
		}
		if len(ties) == 0 {
			return nil, types.AffordanceErrorf("state %d has no available action", s)
		}
		choice := ties[0]
		if len(ties) > 1 {
			choice = ties[rng.Intn(len(ties))]
		}
		policy.Set(s, choice, 1)
	}
	return policy, nil
}
