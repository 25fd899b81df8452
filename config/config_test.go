package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/affordances-options/grid"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	env := cfg.Environment()
	assert.Equal(t, 36, env.NumStates())
	assert.True(t, env.IsWall(grid.Position{I: 0, J: 3}))
	assert.False(t, env.IsWall(grid.Position{I: 2, J: 3}))

	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad(t *testing.T) {
	file := writeConfig(t, `
grid:
  height: 4
  width: 5
  goal: {i: 3, j: 4}
  walls:
    - {i: 1, j: 1}
  step_reward: -0.1
planner:
  gamma: 0.9
  seed: 7
  affordances: open
`)
	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Grid.Height)
	assert.Equal(t, grid.Position{I: 3, J: 4}, cfg.Grid.Goal)
	assert.Equal(t, []grid.Position{{I: 1, J: 1}}, cfg.Grid.Walls)
	assert.Equal(t, "open", cfg.Planner.Affordances)
	// unset keys keep their defaults
	assert.Equal(t, 1.0, cfg.Grid.GoalReward)
	assert.Equal(t, 3, cfg.Planner.Radius)

	env := cfg.Environment()
	assert.Equal(t, -0.1, env.StepReward)

	optionCfg := cfg.OptionConfig()
	assert.Equal(t, 0.9, optionCfg.Gamma)
	assert.NotNil(t, optionCfg.Source)
	assert.Equal(t, 0.9, cfg.OptionsConfig().GammaBase)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "planner: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "planner:\n  gamma: 1.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gamma")

	_, err = Load(writeConfig(t, "grid:\n  goal: {i: 10, j: 10}\n"))
	assert.Error(t, err)

	cfg := Default()
	cfg.Rollout.MaxOptions = 0
	assert.Error(t, cfg.Validate())
}
