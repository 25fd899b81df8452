package planning

import (
	"github.com/zeu5/affordances-options/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// RolloutConfig bounds a sampled hierarchical episode
type RolloutConfig struct {
	// MaxOptions is the number of high level decisions
	MaxOptions int
	// MaxOptionSteps caps the primitive steps of a single option
	MaxOptionSteps int
	Source         rand.Source
}

func DefaultRolloutConfig() RolloutConfig {
	return RolloutConfig{
		MaxOptions:     20,
		MaxOptionSteps: DefaultModelSteps,
	}
}

// Rollout samples an episode of the hierarchical policy starting in start.
// Options are drawn from overOptions, primitive actions from the option policies
// and next states from the base transition tensor. The episode ends when an
// absorbing pair is reached or after cfg.MaxOptions options.
func Rollout(dyn *types.Dynamics, terms []types.TerminationPredicate, optionPolicies []types.Policy, overOptions types.Policy, start int, cfg RolloutConfig) (*types.Trace, error) {
	if dyn == nil || dyn.P == nil || dyn.R == nil {
		return nil, types.ShapeErrorf("dynamics are missing a transition tensor or reward matrix")
	}
	if len(terms) != len(optionPolicies) {
		return nil, types.ShapeErrorf("got %d termination predicates for %d option policies", len(terms), len(optionPolicies))
	}
	states, actions := dyn.P.Dims()
	if err := types.CheckMatrixShape("policy over options", overOptions, states, len(terms)); err != nil {
		return nil, err
	}
	for o, p := range optionPolicies {
		if err := types.CheckMatrixShape("option policy", p, states, actions); err != nil {
			return nil, err
		}
		if terms[o] == nil {
			return nil, types.UnknownOptionErrorf("option %d has no termination predicate", o)
		}
	}
	if start < 0 || start >= states {
		return nil, types.ParameterErrorf("start state %d outside [0, %d)", start, states)
	}
	if cfg.MaxOptions <= 0 || cfg.MaxOptionSteps <= 0 {
		return nil, types.ParameterErrorf("rollout bounds must be positive, got (%d, %d)", cfg.MaxOptions, cfg.MaxOptionSteps)
	}
	src := cfg.Source
	if src == nil {
		src = clockSource()
	}

	trace := types.NewTrace()
	state := start
	for i := 0; i < cfg.MaxOptions && !absorbing(dyn.P, state); i++ {
		option, ok := sample(overOptions.RawRowView(state), src)
		if !ok {
			break
		}
		cur := state
		reward := 0.0
		steps := 0
		for steps < cfg.MaxOptionSteps {
			action, ok := sample(optionPolicies[option].RawRowView(cur), src)
			if !ok {
				break
			}
			next, ok := sample(dyn.P.Row(cur, action), src)
			if !ok {
				break
			}
			reward += dyn.R.At(cur, action)
			steps++
			done := terms[option](cur, action)
			cur = next
			if done {
				break
			}
		}
		trace.Append(state, option, cur, reward, steps)
		state = cur
	}
	return trace, nil
}

// absorbing states have no outgoing probability mass under any action
func absorbing(p *types.Transition, s int) bool {
	_, actions := p.Dims()
	for a := 0; a < actions; a++ {
		if p.RowSum(s, a) > 0 {
			return false
		}
	}
	return true
}

// sample an index proportionally to the weights, false when they carry no mass
func sample(weights []float64, src rand.Source) (int, bool) {
	if floats.Sum(weights) <= 0 {
		return -1, false
	}
	return sampleuv.NewWeighted(weights, src).Take()
}
