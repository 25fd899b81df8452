// Package config loads the configuration of grid planning experiments.
package config

import (
	"fmt"
	"os"

	"github.com/zeu5/affordances-options/grid"
	"github.com/zeu5/affordances-options/planning"
	"gopkg.in/yaml.v3"
)

// GridConfig describes the gridworld
type GridConfig struct {
	Height     int             `yaml:"height"`
	Width      int             `yaml:"width"`
	Goal       grid.Position   `yaml:"goal"`
	Walls      []grid.Position `yaml:"walls"`
	GoalReward float64         `yaml:"goal_reward"`
	StepReward float64         `yaml:"step_reward"`
}

// PlannerConfig holds the parameters of both learners
type PlannerConfig struct {
	Gamma             float64 `yaml:"gamma"`
	StoppingThreshold float64 `yaml:"stopping_threshold"`
	MaxIterations     int     `yaml:"max_iterations"`
	CompletionReward  float64 `yaml:"completion_reward"`
	OtherReward       float64 `yaml:"other_reward"`
	ModelSteps        int     `yaml:"model_steps"`
	Seed              uint64  `yaml:"seed"`
	// Affordances is the name of a heuristic affordance mask, empty disables masking
	Affordances string `yaml:"affordances"`
	Radius      int    `yaml:"radius"`
}

type RolloutConfig struct {
	Start          grid.Position `yaml:"start"`
	MaxOptions     int           `yaml:"max_options"`
	MaxOptionSteps int           `yaml:"max_option_steps"`
}

type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Planner PlannerConfig `yaml:"planner"`
	Rollout RolloutConfig `yaml:"rollout"`
}

// Default configuration: a 6x6 grid with a wall splitting it in two rooms
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Height: 6,
			Width:  6,
			Goal:   grid.Position{I: 5, J: 5},
			Walls: []grid.Position{
				{I: 0, J: 3}, {I: 1, J: 3}, {I: 3, J: 3}, {I: 4, J: 3}, {I: 5, J: 3},
			},
			GoalReward: 1,
			StepReward: 0,
		},
		Planner: PlannerConfig{
			Gamma:             planning.DefaultGamma,
			StoppingThreshold: planning.DefaultStoppingThreshold,
			MaxIterations:     planning.DefaultMaxIterations,
			CompletionReward:  planning.DefaultCompletionReward,
			OtherReward:       planning.DefaultOtherReward,
			ModelSteps:        planning.DefaultModelSteps,
			Seed:              1,
			Affordances:       "neighbourhood",
			Radius:            3,
		},
		Rollout: RolloutConfig{
			Start:          grid.Position{I: 0, J: 0},
			MaxOptions:     20,
			MaxOptionSteps: planning.DefaultModelSteps,
		},
	}
}

// Load reads a YAML file on top of the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Environment().Validate(); err != nil {
		return err
	}
	if c.Planner.Gamma < 0 || c.Planner.Gamma > 1 {
		return fmt.Errorf("gamma %v is not in [0, 1]", c.Planner.Gamma)
	}
	if c.Planner.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive")
	}
	if c.Planner.ModelSteps <= 0 {
		return fmt.Errorf("model_steps must be positive")
	}
	if c.Rollout.MaxOptions <= 0 || c.Rollout.MaxOptionSteps <= 0 {
		return fmt.Errorf("rollout bounds must be positive")
	}
	return nil
}

// Environment constructs the gridworld
func (c *Config) Environment() *grid.GridEnvironment {
	g := grid.NewGridEnvironment(c.Grid.Height, c.Grid.Width, c.Grid.Goal, c.Grid.Walls...)
	g.GoalReward = c.Grid.GoalReward
	g.StepReward = c.Grid.StepReward
	return g
}

func (c *Config) OptionConfig() planning.OptionConfig {
	return planning.OptionConfig{
		Gamma:             c.Planner.Gamma,
		StoppingThreshold: c.Planner.StoppingThreshold,
		MaxIterations:     c.Planner.MaxIterations,
		CompletionReward:  c.Planner.CompletionReward,
		OtherReward:       c.Planner.OtherReward,
		Source:            planning.NewSource(c.Planner.Seed),
	}
}

func (c *Config) OptionsConfig() planning.OptionsConfig {
	return planning.OptionsConfig{
		GammaBase:         c.Planner.Gamma,
		StoppingThreshold: c.Planner.StoppingThreshold,
		MaxIterations:     c.Planner.MaxIterations,
		Source:            planning.NewSource(c.Planner.Seed),
	}
}
