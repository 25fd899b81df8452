package planning

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/mat"
)

// Affordance marks an option as selectable from a state
type Affordance struct {
	State  int
	Option int
}

// AffordanceMask builds the |S| x |O| mask of the affordances.
// Every state must end up with at least one affordable option.
func AffordanceMask(states, options int, affordances []Affordance, logger log.Logger) (types.Mask, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if len(affordances) == 0 {
		return nil, types.AffordanceErrorf("list of affordances cannot be empty")
	}
	if states <= 0 || options <= 0 {
		return nil, types.ParameterErrorf("cannot build an affordance mask of shape (%d, %d)", states, options)
	}
	level.Info(logger).Log("msg", "building affordance mask", "affordances", len(affordances))

	mask := mat.NewDense(states, options, nil)
	for _, aff := range affordances {
		if aff.State < 0 || aff.State >= states {
			return nil, types.ShapeErrorf("affordance state %d outside [0, %d)", aff.State, states)
		}
		if aff.Option < 0 || aff.Option >= options {
			return nil, types.UnknownOptionErrorf("affordance option %d outside [0, %d)", aff.Option, options)
		}
		mask.Set(aff.State, aff.Option, 1)
	}
	if err := ValidateAffordanceMask(mask, states, options); err != nil {
		return nil, err
	}
	return mask, nil
}

// ValidateAffordanceMask checks the shape of the mask, that its entries are 0 or 1,
// and that all states have at least one option affordable
func ValidateAffordanceMask(mask types.Mask, states, options int) error {
	if mask == nil {
		return types.ShapeErrorf("affordance mask is nil")
	}
	if err := types.CheckMatrixShape("affordance mask", mask, states, options); err != nil {
		return err
	}
	for s := 0; s < states; s++ {
		count := 0
		for o := 0; o < options; o++ {
			switch mask.At(s, o) {
			case 0:
			case 1:
				count++
			default:
				return types.ParameterErrorf("affordance mask entry (%d, %d) = %v is not 0 or 1", s, o, mask.At(s, o))
			}
		}
		if count == 0 {
			return types.AffordanceErrorf("all states must have at least one option affordable, state %d has none", s)
		}
	}
	return nil
}

// AllAffordances lists every (state, option) pair
func AllAffordances(states, options int) []Affordance {
	affordances := make([]Affordance, 0, states*options)
	for s := 0; s < states; s++ {
		for o := 0; o < options; o++ {
			affordances = append(affordances, Affordance{State: s, Option: o})
		}
	}
	return affordances
}

// StaticAffordances returns a provider of the precomputed mask
func StaticAffordances(mask types.Mask) types.AffordanceProvider {
	return func() (types.Mask, error) {
		return mask, nil
	}
}

// ResolveAffordances invokes the provider and validates the mask it returns.
// A violation is a fatal configuration error and is never repaired.
func ResolveAffordances(provider types.AffordanceProvider, states, options int) (types.Mask, error) {
	if provider == nil {
		return nil, nil
	}
	mask, err := provider()
	if err != nil {
		return nil, err
	}
	if err := ValidateAffordanceMask(mask, states, options); err != nil {
		return nil, err
	}
	return mask, nil
}
