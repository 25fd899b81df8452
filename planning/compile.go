package planning

import (
	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultCompletionReward = 1.0
	DefaultOtherReward      = 0.0
)

// CompileOption scans every (s, a) pair of the base MDP and returns the per step
// reward of the option and its continue mask. Pairs on which the option terminates
// get the completion reward and a zero in the mask, every other pair gets rOther and a one.
func CompileOption(term types.TerminationPredicate, numStates, numActions int, rCompletion, rOther float64) (*mat.Dense, types.Mask, error) {
	if numStates <= 0 || numActions <= 0 {
		return nil, nil, types.ParameterErrorf("cannot compile option over (%d, %d) states and actions", numStates, numActions)
	}
	if term == nil {
		return nil, nil, types.ParameterErrorf("termination predicate is nil")
	}
	reward := mat.NewDense(numStates, numActions, nil)
	continueMask := mat.NewDense(numStates, numActions, nil)
	for s := 0; s < numStates; s++ {
		for a := 0; a < numActions; a++ {
			if term(s, a) {
				reward.Set(s, a, rCompletion)
				// No transitions leave (s, a) once the option terminated
				continue
			}
			reward.Set(s, a, rOther)
			continueMask.Set(s, a, 1)
		}
	}
	return reward, continueMask, nil
}
