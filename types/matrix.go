package types

import "gonum.org/v1/gonum/mat"

// RewardMatrix is an |S| x |A| reward matrix
type RewardMatrix = *mat.Dense

// Mask is an |S| x |A| matrix of 0/1 entries. A zero entry marks the
// action as unavailable at that state.
type Mask = *mat.Dense

// Policy is an |S| x |A| matrix, each row a distribution over actions
type Policy = *mat.Dense

// OnesMask returns a mask allowing every action
func OnesMask(states, actions int) Mask {
	m := mat.NewDense(states, actions, nil)
	for s := 0; s < states; s++ {
		for a := 0; a < actions; a++ {
			m.Set(s, a, 1)
		}
	}
	return m
}

// Argmax of a policy row, -1 for an empty row
func PolicyAction(p Policy, s int) int {
	row := p.RawRowView(s)
	best := -1
	bestVal := 0.0
	for a, v := range row {
		if v > bestVal {
			best = a
			bestVal = v
		}
	}
	return best
}
