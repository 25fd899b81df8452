package grid

import (
	"fmt"

	"github.com/zeu5/affordances-options/types"
	"gonum.org/v1/gonum/mat"
)

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// GridEnvironment is a deterministic gridworld with walls and an absorbing goal cell.
// Entering the goal yields GoalReward, every other step StepReward.
// No probability mass leaves the goal.
type GridEnvironment struct {
	Height     int
	Width      int
	Goal       Position
	Walls      []Position
	GoalReward float64
	StepReward float64
}

var _ types.Environment = &GridEnvironment{}

func NewGridEnvironment(height, width int, goal Position, walls ...Position) *GridEnvironment {
	g := &GridEnvironment{
		Height:     height,
		Width:      width,
		Goal:       goal,
		Walls:      walls,
		GoalReward: 1,
		StepReward: 0,
	}
	return g
}

// Validate the layout of the grid
func (g *GridEnvironment) Validate() error {
	if g.Height <= 0 || g.Width <= 0 {
		return types.ParameterErrorf("grid of size (%d, %d)", g.Height, g.Width)
	}
	if !g.Contains(g.Goal) {
		return types.ParameterErrorf("goal %s outside the grid", g.Goal)
	}
	for _, w := range g.Walls {
		if !g.Contains(w) {
			return types.ParameterErrorf("wall %s outside the grid", w)
		}
		if w == g.Goal {
			return types.ParameterErrorf("goal %s is a wall", w)
		}
	}
	return nil
}

func (g *GridEnvironment) NumStates() int {
	return g.Height * g.Width
}

func (g *GridEnvironment) NumActions() int {
	return len(AllActions)
}

func (g *GridEnvironment) Contains(p Position) bool {
	return p.I >= 0 && p.I < g.Height && p.J >= 0 && p.J < g.Width
}

func (g *GridEnvironment) IsWall(p Position) bool {
	for _, w := range g.Walls {
		if w == p {
			return true
		}
	}
	return false
}

// Encode a position as an integer state
func (g *GridEnvironment) Encode(p Position) int {
	return p.I*g.Width + p.J
}

// Decode an integer state into a position
func (g *GridEnvironment) Decode(s int) Position {
	return Position{I: s / g.Width, J: s % g.Width}
}

// Move returns the position reached from p with action a.
// Moves into walls or off the grid leave the position unchanged.
func (g *GridEnvironment) Move(p Position, a Action) Position {
	newPos := p
	switch a {
	case Noop:
	case Up:
		newPos.I = max(0, p.I-1)
	case Down:
		newPos.I = min(g.Height-1, p.I+1)
	case Left:
		newPos.J = max(0, p.J-1)
	case Right:
		newPos.J = min(g.Width-1, p.J+1)
	}
	if g.IsWall(newPos) {
		return p
	}
	return newPos
}

// Dynamics builds the sparse and dense transition representations
func (g *GridEnvironment) Dynamics() (*types.Dynamics, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	numStates, numActions := g.NumStates(), g.NumActions()
	dyn := &types.Dynamics{
		Sparse: make(map[int]map[int][]types.Outcome, numStates),
		P:      types.NewTransition(numStates, numActions),
		R:      mat.NewDense(numStates, numActions, nil),
	}
	goal := g.Encode(g.Goal)
	for s := 0; s < numStates; s++ {
		dyn.Sparse[s] = make(map[int][]types.Outcome, numActions)
		for _, a := range AllActions {
			outcome := types.Outcome{Prob: 1, Next: g.Encode(g.Move(g.Decode(s), a)), Reward: g.StepReward}
			if s == goal {
				// absorbing, the episode is over
				outcome = types.Outcome{Prob: 0, Next: goal, Reward: 0}
			} else if outcome.Next == goal {
				outcome.Reward = g.GoalReward
			}
			dyn.Sparse[s][int(a)] = []types.Outcome{outcome}
			dyn.P.Set(s, int(a), outcome.Next, outcome.Prob)
			dyn.R.Set(s, int(a), outcome.Reward)
		}
	}
	return dyn, nil
}

type Position struct {
	I int `json:"i" yaml:"i"`
	J int `json:"j" yaml:"j"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.I, p.J)
}

// Distance is the manhattan distance between two positions
func (p Position) Distance(other Position) int {
	di := p.I - other.I
	if di < 0 {
		di = -di
	}
	dj := p.J - other.J
	if dj < 0 {
		dj = -dj
	}
	return di + dj
}

// Action is a primitive movement in the grid
type Action int

const (
	Noop Action = iota
	Up
	Right
	Left
	Down
)

var AllActions = []Action{Noop, Up, Right, Left, Down}

func (a Action) String() string {
	switch a {
	case Noop:
		return "Noop"
	case Up:
		return "Up"
	case Right:
		return "Right"
	case Left:
		return "Left"
	case Down:
		return "Down"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}
