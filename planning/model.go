package planning

import (
	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const DefaultModelSteps = 100

// ModelConfig bounds the propagation used to estimate an option model
type ModelConfig struct {
	// MaxSteps is the horizon after which mass that has not terminated is dropped
	MaxSteps int
	// MinMass below which a state's probability is ignored
	MinMass float64
}

func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		MaxSteps: DefaultModelSteps,
		MinMass:  1e-12,
	}
}

// OptionEstimate is the model of a single option from every start state
type OptionEstimate struct {
	// Reward[s] expected environment reward collected until termination
	Reward []float64
	// Transition[s, s'] probability of terminating in s'
	Transition *mat.Dense
	// Length[s] expected number of steps given termination, 0 if it never terminates
	Length []float64
}

// EstimateOptionModel executes the option policy in the base MDP from every start
// state by propagating the state distribution, for at most cfg.MaxSteps steps.
// Mass reaching a pair on which the option terminates is moved to the terminal
// distribution. Options that never terminate from s get zero mass and length.
func EstimateOptionModel(dyn *types.Dynamics, term types.TerminationPredicate, policy types.Policy, cfg ModelConfig) (*OptionEstimate, error) {
	if dyn == nil || dyn.P == nil || dyn.R == nil {
		return nil, types.ShapeErrorf("dynamics are missing a transition tensor or reward matrix")
	}
	if cfg.MaxSteps <= 0 {
		return nil, types.ParameterErrorf("max steps must be positive, got %d", cfg.MaxSteps)
	}
	states, actions := dyn.P.Dims()
	if policy == nil {
		return nil, types.ShapeErrorf("option policy is nil")
	}
	if err := types.CheckMatrixShape("option policy", policy, states, actions); err != nil {
		return nil, err
	}
	_, continueMask, err := CompileOption(term, states, actions, DefaultCompletionReward, DefaultOtherReward)
	if err != nil {
		return nil, err
	}

	estimate := &OptionEstimate{
		Reward:     make([]float64, states),
		Transition: mat.NewDense(states, states, nil),
		Length:     make([]float64, states),
	}
	dist := make([]float64, states)
	next := make([]float64, states)
	for start := 0; start < states; start++ {
		for i := range dist {
			dist[i] = 0
		}
		dist[start] = 1
		terminal := estimate.Transition.RawRowView(start)
		terminated := 0.0
		weightedLength := 0.0

		for step := 1; step <= cfg.MaxSteps; step++ {
			for i := range next {
				next[i] = 0
			}
			active := false
			for x, mass := range dist {
				if mass <= cfg.MinMass {
					continue
				}
				for a, pa := range policy.RawRowView(x) {
					if pa == 0 {
						continue
					}
					w := mass * pa
					estimate.Reward[start] += w * dyn.R.At(x, a)
					row := dyn.P.Row(x, a)
					if continueMask.At(x, a) == 0 {
						floats.AddScaled(terminal, w, row)
						m := w * floats.Sum(row)
						terminated += m
						weightedLength += float64(step) * m
						continue
					}
					floats.AddScaled(next, w, row)
					active = true
				}
			}
			dist, next = next, dist
			if !active {
				break
			}
		}
		if terminated > 0 {
			estimate.Length[start] = weightedLength / terminated
		}
	}
	return estimate, nil
}

// BuildOptionModel estimates every option and stacks the results in an OptionModel
func BuildOptionModel(dyn *types.Dynamics, terms []types.TerminationPredicate, policies []types.Policy, cfg ModelConfig) (*OptionModel, error) {
	if len(terms) == 0 || len(terms) != len(policies) {
		return nil, types.ShapeErrorf("got %d termination predicates for %d option policies", len(terms), len(policies))
	}
	if dyn == nil || dyn.P == nil {
		return nil, types.ShapeErrorf("dynamics are missing a transition tensor")
	}
	states, _ := dyn.P.Dims()
	options := len(terms)
	model := &OptionModel{
		Reward:     mat.NewDense(states, options, nil),
		Transition: types.NewTransition(states, options),
		Length:     mat.NewDense(states, options, nil),
	}
	for o := range terms {
		estimate, err := EstimateOptionModel(dyn, terms[o], policies[o], cfg)
		if err != nil {
			return nil, err
		}
		model.Reward.SetCol(o, estimate.Reward)
		model.Length.SetCol(o, estimate.Length)
		model.Transition.Action(o).Copy(estimate.Transition)
	}
	return model, nil
}
