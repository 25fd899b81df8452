package types

// Environment is a finite, fully known MDP that can produce its dense dynamics.
// Implementations must be deterministic functions of their configuration.
type Environment interface {
	NumStates() int
	NumActions() int
	// Dynamics builds the transition and reward tensors.
	// The result is owned by the caller and treated as immutable.
	Dynamics() (*Dynamics, error)
}

// Outcome is a single entry of the sparse transition representation
type Outcome struct {
	Prob   float64
	Next   int
	Reward float64
}

// Dynamics of a finite MDP
type Dynamics struct {
	// Sparse[s][a] lists the possible outcomes of taking a in s
	Sparse map[int]map[int][]Outcome
	// P[s, a, s']
	P *Transition
	// R[s, a] is the expected immediate reward
	R RewardMatrix
}

// NumStates and NumActions of the dynamics
func (d *Dynamics) Dims() (int, int) {
	return d.P.Dims()
}

// Successor returns the most likely next state of (s, a) as listed first in
// the sparse representation. For deterministic environments it is the next state.
func (d *Dynamics) Successor(s, a int) (int, bool) {
	outcomes, ok := d.Sparse[s][a]
	if !ok || len(outcomes) == 0 {
		return 0, false
	}
	return outcomes[0].Next, true
}

// AffordanceProvider returns a precomputed |S| x |O| affordance mask
type AffordanceProvider func() (Mask, error)
