package grid

import (
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zeu5/affordances-options/planning"
	"github.com/zeu5/affordances-options/types"
	"github.com/zeu5/affordances-options/util"
)

// SolveConfig configures the planning of a grid
type SolveConfig struct {
	Option  planning.OptionConfig
	Options planning.OptionsConfig
	Model   planning.ModelConfig
	// Affordances names the heuristic mask, empty disables masking
	Affordances string
	Radius      int
	Logger      log.Logger
	// Sink returns the convergence sink of a named value iteration run, may be nil
	Sink func(name string) types.ConvergenceSink
	// Progress receives one line per learnt option, may be nil
	Progress io.Writer
}

// Plan is the result of planning over the options of a grid
type Plan struct {
	Env            *GridEnvironment
	Dynamics       *types.Dynamics
	Terminations   []types.TerminationPredicate
	OptionPolicies []*planning.OptionPolicy
	Model          *planning.OptionModel
	Affordances    types.Mask
	OverOptions    *planning.OptionsPolicy
}

// Solve learns every option policy, estimates the option model and learns the policy over options
func Solve(g *GridEnvironment, cfg SolveConfig) (*Plan, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	sink := func(name string) types.ConvergenceSink {
		if cfg.Sink == nil {
			return nil
		}
		return cfg.Sink(name)
	}
	dyn, err := g.Dynamics()
	if err != nil {
		return nil, err
	}
	plan := &Plan{
		Env:            g,
		Dynamics:       dyn,
		Terminations:   g.Terminations(dyn),
		OptionPolicies: make([]*planning.OptionPolicy, g.NumOptions()),
	}

	policies := make([]types.Policy, g.NumOptions())
	for _, o := range g.Options() {
		optionCfg := cfg.Option
		optionCfg.Sink = sink(g.OptionName(o))
		learnt, err := planning.LearnOptionPolicy(dyn, plan.Terminations[o], optionCfg)
		if err != nil {
			return nil, fmt.Errorf("learning option %s: %w", g.OptionName(o), err)
		}
		if !learnt.Converged {
			level.Warn(logger).Log("msg", "option policy did not converge", "option", g.OptionName(o), "iterations", learnt.Iterations)
		}
		level.Debug(logger).Log("msg", "learnt option policy", "option", g.OptionName(o), "iterations", learnt.Iterations)
		plan.OptionPolicies[o] = learnt
		policies[o] = learnt.Policy
		if cfg.Progress != nil {
			fmt.Fprintf(cfg.Progress, "Learning options: %d/%d\n", int(o)+1, g.NumOptions())
		}
	}

	plan.Model, err = planning.BuildOptionModel(dyn, plan.Terminations, policies, cfg.Model)
	if err != nil {
		return nil, err
	}

	if cfg.Affordances != "" {
		provider, err := Affordances(g, cfg.Affordances, cfg.Radius, logger)
		if err != nil {
			return nil, err
		}
		plan.Affordances, err = planning.ResolveAffordances(provider, g.NumStates(), g.NumOptions())
		if err != nil {
			return nil, err
		}
	}

	optionsCfg := cfg.Options
	optionsCfg.Affordances = plan.Affordances
	optionsCfg.Logger = logger
	optionsCfg.Sink = sink("policy-over-options")
	plan.OverOptions, err = planning.LearnPolicyOverOptions(*plan.Model, optionsCfg)
	if err != nil {
		return nil, err
	}
	level.Info(logger).Log(
		"msg", "learnt policy over options",
		"iterations", plan.OverOptions.Iterations,
		"converged", plan.OverOptions.Converged,
		"clipped", len(plan.OverOptions.Clipped),
	)
	return plan, nil
}

// OptionPolicies as plain matrices, indexed by option
func (p *Plan) Policies() []types.Policy {
	policies := make([]types.Policy, len(p.OptionPolicies))
	for i, op := range p.OptionPolicies {
		policies[i] = op.Policy
	}
	return policies
}

// Rollout samples a hierarchical episode of the plan from start
func (p *Plan) Rollout(start Position, cfg planning.RolloutConfig) (*types.Trace, error) {
	if !p.Env.Contains(start) {
		return nil, types.ParameterErrorf("start %s outside the grid", start)
	}
	return planning.Rollout(p.Dynamics, p.Terminations, p.Policies(), p.OverOptions.Policy, p.Env.Encode(start), cfg)
}

type planRecord struct {
	Height        int                      `json:"height"`
	Width         int                      `json:"width"`
	Goal          Position                 `json:"goal"`
	Walls         []Position               `json:"walls"`
	Options       []int                    `json:"options"`
	Values        []float64                `json:"values"`
	Iterations    int                      `json:"iterations"`
	Converged     bool                     `json:"converged"`
	Clipped       []planning.ClippedLength `json:"clipped"`
	OptionActions map[string][]int         `json:"option_actions"`
}

// Record saves the learnt policies as JSON to filePath
func (p *Plan) Record(filePath string) error {
	states := p.Env.NumStates()
	record := planRecord{
		Height:        p.Env.Height,
		Width:         p.Env.Width,
		Goal:          p.Env.Goal,
		Walls:         p.Env.Walls,
		Options:       make([]int, states),
		Values:        make([]float64, states),
		Iterations:    p.OverOptions.Iterations,
		Converged:     p.OverOptions.Converged,
		Clipped:       p.OverOptions.Clipped,
		OptionActions: make(map[string][]int),
	}
	for s := 0; s < states; s++ {
		record.Options[s] = types.PolicyAction(p.OverOptions.Policy, s)
		record.Values[s] = p.OverOptions.Values.AtVec(s)
	}
	for o, op := range p.OptionPolicies {
		actions := make([]int, states)
		for s := 0; s < states; s++ {
			actions[s] = types.PolicyAction(op.Policy, s)
		}
		record.OptionActions[p.Env.OptionName(Option(o))] = actions
	}
	return util.WriteJSON(filePath, record)
}
