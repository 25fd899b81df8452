package planning

import (
	"math"

	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/mat"
)

// probabilityDecimals is the rounding applied to row sums before comparing them to 1
const probabilityDecimals = 2

func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

// validateTransition checks that every entry lies in [0, 1] and that every
// (s, a) row sums to at most 1, up to the rounding tolerance.
func validateTransition(t *types.Transition) error {
	states, actions := t.Dims()
	for s := 0; s < states; s++ {
		for a := 0; a < actions; a++ {
			row := t.Row(s, a)
			sum := 0.0
			for next, p := range row {
				if p < 0 || p > 1 || math.IsNaN(p) {
					return types.ProbabilityErrorf("P[%d, %d, %d] = %v is not in [0, 1]", s, a, next, p)
				}
				sum += p
			}
			if roundTo(sum, probabilityDecimals) > 1 {
				return types.ProbabilityErrorf("distribution of (%d, %d) sums to %v > 1", s, a, sum)
			}
		}
	}
	return nil
}

// validateMask checks the shape of the mask and that every state keeps one available action
func validateMask(mask mat.Matrix, states, actions int) error {
	if err := types.CheckMatrixShape("mask", mask, states, actions); err != nil {
		return err
	}
	for s := 0; s < states; s++ {
		allowed := 0
		for a := 0; a < actions; a++ {
			if mask.At(s, a) != 0 {
				allowed++
			}
		}
		if allowed == 0 {
			return types.AffordanceErrorf("state %d has no available action", s)
		}
	}
	return nil
}

type dimensioned interface {
	Dims() (int, int)
}

func validateDiscount(gamma types.Discount, states, actions int) error {
	if gamma == nil {
		return types.DiscountErrorf("discount is nil")
	}
	if d, ok := gamma.(*mat.Dense); ok && d == nil {
		return types.DiscountErrorf("discount matrix is nil")
	}
	if m, ok := gamma.(dimensioned); ok {
		r, c := m.Dims()
		if r != states || c != actions {
			return types.ShapeErrorf("gamma has shape (%d, %d), expected (%d, %d)", r, c, states, actions)
		}
	}
	for s := 0; s < states; s++ {
		for a := 0; a < actions; a++ {
			g := gamma.At(s, a)
			if !(g >= 0 && g <= 1) {
				return types.DiscountErrorf("gamma[%d, %d] = %v is not in [0, 1]", s, a, g)
			}
		}
	}
	return nil
}

// validateInputs runs every precondition shared by value iteration and policy extraction
func validateInputs(reward *mat.Dense, transition *types.Transition, gamma types.Discount, mask types.Mask) error {
	if transition == nil {
		return types.ShapeErrorf("transition tensor is nil")
	}
	if reward == nil {
		return types.ShapeErrorf("reward matrix is nil")
	}
	states, actions := transition.Dims()
	if err := types.CheckMatrixShape("reward", reward, states, actions); err != nil {
		return err
	}
	if mask != nil {
		if err := validateMask(mask, states, actions); err != nil {
			return err
		}
	}
	if err := validateDiscount(gamma, states, actions); err != nil {
		return err
	}
	return validateTransition(transition)
}
