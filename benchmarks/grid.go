package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/go-kit/log"
	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"
	"github.com/zeu5/affordances-options/analysis"
	"github.com/zeu5/affordances-options/config"
	"github.com/zeu5/affordances-options/grid"
	"github.com/zeu5/affordances-options/planning"
	"github.com/zeu5/affordances-options/util"
)

// solveGrid plans over the options of the configured grid, printing progress to the terminal
func solveGrid(cfg *config.Config, logger log.Logger, recorder *analysis.ConvergenceRecorder) (*grid.Plan, error) {
	env := cfg.Environment()

	writer := uilive.New()
	writer.Start()
	defer writer.Stop()

	solveCfg := grid.SolveConfig{
		Option:      cfg.OptionConfig(),
		Options:     cfg.OptionsConfig(),
		Model:       planning.ModelConfig{MaxSteps: cfg.Planner.ModelSteps, MinMass: planning.DefaultModelConfig().MinMass},
		Affordances: cfg.Planner.Affordances,
		Radius:      cfg.Planner.Radius,
		Logger:      logger,
		Progress:    writer,
	}
	if recorder != nil {
		solveCfg.Sink = recorder.Sink
	}
	return grid.Solve(env, solveCfg)
}

func GridOptions(ctx context.Context, cfg *config.Config, saveFile string, logger log.Logger) error {
	recorder := analysis.NewConvergenceRecorder()
	plan, err := solveGrid(cfg, logger, recorder)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	env := plan.Env
	fmt.Printf("Policy over options (target cell of the selected option):\n%s\n", grid.RenderOptions(env, plan.OverOptions.Policy))
	fmt.Printf("Policy over options converged: %v in %d iterations\n", plan.OverOptions.Converged, plan.OverOptions.Iterations)

	if err := plan.Record(path.Join(saveFile, "plan.json")); err != nil {
		return err
	}
	if err := recorder.Plot(saveFile, "convergence.png", "policy-over-options", env.OptionName(grid.Option(env.Encode(env.Goal)))); err != nil {
		return err
	}
	if err := analysis.PlotHeatMap(saveFile, "values.png", "Values of the policy over options", grid.NewValueDataSet(env, plan.OverOptions.Values)); err != nil {
		return err
	}

	rolloutCfg := planning.RolloutConfig{
		MaxOptions:     cfg.Rollout.MaxOptions,
		MaxOptionSteps: cfg.Rollout.MaxOptionSteps,
		Source:         planning.NewSource(cfg.Planner.Seed),
	}
	trace, err := plan.Rollout(cfg.Rollout.Start, rolloutCfg)
	if err != nil {
		return err
	}
	for i := 0; i < trace.Len(); i++ {
		s, o, ns, _ := trace.Get(i)
		fmt.Printf("%s --%s--> %s (reward %.2f, steps %d)\n", env.Decode(s), env.OptionName(grid.Option(o)), env.Decode(ns), trace.Rewards[i], trace.Steps[i])
	}
	fmt.Printf("Return: %.2f in %d steps\n", trace.Return(), trace.TotalSteps())

	bs, err := json.Marshal(trace)
	if err != nil {
		return err
	}
	return util.AppendToFile(path.Join(saveFile, "rollouts.jsonl"), string(bs))
}

func GridOptionsCommand() *cobra.Command {
	var height int
	var width int
	var affordances string
	var radius int

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Learn option policies and a policy over options in a gridworld",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("height") {
				cfg.Grid.Height = height
			}
			if cmd.Flags().Changed("width") {
				cfg.Grid.Width = width
			}
			if cmd.Flags().Changed("affordances") {
				cfg.Planner.Affordances = affordances
			}
			if cmd.Flags().Changed("radius") {
				cfg.Planner.Radius = radius
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			stop, err := startProfiling()
			if err != nil {
				return err
			}
			defer stop()
			return GridOptions(cmd.Context(), cfg, saveFile, newLogger())
		},
	}
	cmd.PersistentFlags().IntVar(&height, "height", 6, "Height of the grid")
	cmd.PersistentFlags().IntVar(&width, "width", 6, "Width of the grid")
	cmd.PersistentFlags().StringVar(&affordances, "affordances", "neighbourhood", fmt.Sprintf("Heuristic affordances, one of %v or empty to disable", grid.AffordanceNames()))
	cmd.PersistentFlags().IntVar(&radius, "radius", 3, "Radius of the neighbourhood affordances")
	return cmd
}
