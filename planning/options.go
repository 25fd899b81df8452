package planning

import (
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zeu5/affordances-options/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// OptionConfig configures the learning of a single option policy
type OptionConfig struct {
	Gamma             float64
	StoppingThreshold float64
	MaxIterations     int
	// Reward for the step on which the option terminates
	CompletionReward float64
	// Reward for every other step
	OtherReward float64
	// Source for tie-breaking, nil is not reproducible
	Source rand.Source
	Sink   types.ConvergenceSink
}

func DefaultOptionConfig() OptionConfig {
	return OptionConfig{
		Gamma:             DefaultGamma,
		StoppingThreshold: DefaultStoppingThreshold,
		MaxIterations:     DefaultMaxIterations,
		CompletionReward:  DefaultCompletionReward,
		OtherReward:       DefaultOtherReward,
	}
}

// OptionPolicy is the low level policy of an option
type OptionPolicy struct {
	// Policy over primitive actions, |S| x |A|
	Policy     types.Policy
	Values     *mat.VecDense
	Iterations int
	Converged  bool
}

// LearnOptionPolicy learns the policy that drives the option to its termination condition.
//
// The base transition tensor is masked with the option's continue mask so that no
// probability mass leaves a pair on which the option terminates. Value iteration and
// greedy extraction then run on the option's per step rewards.
func LearnOptionPolicy(dyn *types.Dynamics, term types.TerminationPredicate, cfg OptionConfig) (*OptionPolicy, error) {
	if dyn == nil || dyn.P == nil {
		return nil, types.ShapeErrorf("dynamics are missing a transition tensor")
	}
	states, actions := dyn.P.Dims()
	reward, continueMask, err := CompileOption(term, states, actions, cfg.CompletionReward, cfg.OtherReward)
	if err != nil {
		return nil, err
	}
	masked, err := dyn.P.Masked(continueMask)
	if err != nil {
		return nil, err
	}
	gamma := types.UniformDiscount(cfg.Gamma)
	result, err := ValueIteration(reward, masked, gamma, IterationConfig{
		MaxIterations:     cfg.MaxIterations,
		StoppingThreshold: cfg.StoppingThreshold,
		Sink:              cfg.Sink,
	}, nil)
	if err != nil {
		return nil, err
	}
	policy, err := ExtractGreedyPolicy(reward, masked, result.V, gamma, nil, cfg.Source)
	if err != nil {
		return nil, err
	}
	return &OptionPolicy{
		Policy:     policy,
		Values:     result.V,
		Iterations: result.Iterations,
		Converged:  result.Converged,
	}, nil
}

// OptionModel describes options at the level of the semi-MDP
type OptionModel struct {
	// Reward[s, o] is the environment reward of executing o from s
	Reward *mat.Dense
	// Transition[s, o, s'] is the probability that o started in s terminates in s'
	Transition *types.Transition
	// Length[s, o] is the expected number of primitive steps of o from s
	Length *mat.Dense
}

// OptionsConfig configures the learning of the policy over options
type OptionsConfig struct {
	GammaBase         float64
	StoppingThreshold float64
	MaxIterations     int
	Source            rand.Source
	// Affordances is an optional |S| x |O| mask restricting the options of every state
	Affordances types.Mask
	Sink        types.ConvergenceSink
	Logger      log.Logger
}

func DefaultOptionsConfig() OptionsConfig {
	return OptionsConfig{
		GammaBase:         DefaultGamma,
		StoppingThreshold: DefaultStoppingThreshold,
		MaxIterations:     DefaultMaxIterations,
	}
}

// ClippedLength records an option length that was raised to 1
type ClippedLength struct {
	State    int     `json:"state"`
	Option   int     `json:"option"`
	Original float64 `json:"original"`
}

// OptionsPolicy is the high level policy
type OptionsPolicy struct {
	// Policy over options, |S| x |O|
	Policy     types.Policy
	Values     *mat.VecDense
	Iterations int
	Converged  bool
	// Gamma[s, o] = GammaBase ^ Length[s, o] after clipping
	Gamma   *mat.Dense
	Clipped []ClippedLength
}

// LearnPolicyOverOptions learns the policy that selects among options.
//
// Option lengths below 1 are clipped to 1 and reported as a warning. The effective
// discount of (s, o) is GammaBase ^ Length[s, o], which lets the flat value iteration
// account for options of different duration. The affordance mask, when present,
// is passed through as the masking argument.
func LearnPolicyOverOptions(model OptionModel, cfg OptionsConfig) (*OptionsPolicy, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if model.Reward == nil || model.Transition == nil || model.Length == nil {
		return nil, types.ShapeErrorf("option model requires reward, transition and length")
	}
	states, options := model.Reward.Dims()
	if shape := model.Transition.Shape(); shape != [3]int{states, options, states} {
		return nil, types.ShapeErrorf("option transition matrix has shape %v, expected %v", shape, [3]int{states, options, states})
	}
	if err := types.CheckMatrixShape("option length", model.Length, states, options); err != nil {
		return nil, err
	}
	if cfg.GammaBase < 0 || cfg.GammaBase > 1 || math.IsNaN(cfg.GammaBase) {
		return nil, types.DiscountErrorf("base gamma %v is not in [0, 1]", cfg.GammaBase)
	}

	length, clipped := clipLengths(model.Length)
	if len(clipped) > 0 {
		level.Warn(logger).Log(
			"msg", "at least one option has a length < 1, clipping has occurred",
			"count", len(clipped),
			"first_state", clipped[0].State,
			"first_option", clipped[0].Option,
			"first_value", clipped[0].Original,
		)
	}
	if err := validateTransition(model.Transition); err != nil {
		return nil, err
	}

	gamma := mat.NewDense(states, options, nil)
	gamma.Apply(func(_, _ int, l float64) float64 {
		return math.Pow(cfg.GammaBase, l)
	}, length)
	if err := types.CheckMatrixShape("gamma", gamma, states, options); err != nil {
		return nil, err
	}
	if cfg.Affordances != nil {
		if err := ValidateAffordanceMask(cfg.Affordances, states, options); err != nil {
			return nil, err
		}
	}

	result, err := ValueIteration(model.Reward, model.Transition, gamma, IterationConfig{
		MaxIterations:     cfg.MaxIterations,
		StoppingThreshold: cfg.StoppingThreshold,
		Sink:              cfg.Sink,
	}, cfg.Affordances)
	if err != nil {
		return nil, err
	}
	policy, err := ExtractGreedyPolicy(model.Reward, model.Transition, result.V, gamma, cfg.Affordances, cfg.Source)
	if err != nil {
		return nil, err
	}
	return &OptionsPolicy{
		Policy:     policy,
		Values:     result.V,
		Iterations: result.Iterations,
		Converged:  result.Converged,
		Gamma:      gamma,
		Clipped:    clipped,
	}, nil
}

// clipLengths returns a copy of length with every entry below 1 raised to 1
func clipLengths(length *mat.Dense) (*mat.Dense, []ClippedLength) {
	out := mat.DenseCopyOf(length)
	clipped := make([]ClippedLength, 0)
	rows, cols := out.Dims()
	for s := 0; s < rows; s++ {
		for o := 0; o < cols; o++ {
			if l := out.At(s, o); l < 1 || math.IsNaN(l) {
				clipped = append(clipped, ClippedLength{State: s, Option: o, Original: l})
				out.Set(s, o, 1)
			}
		}
	}
	return out, clipped
}
