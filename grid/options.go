package grid

import (
	"fmt"

	"github.com/zeu5/affordances-options/types"
)

// Option of the grid: GoTo a cell. The option id is the encoded target cell.
type Option int

func (g *GridEnvironment) NumOptions() int {
	return g.NumStates()
}

// Options lists every option of the grid
func (g *GridEnvironment) Options() []Option {
	options := make([]Option, g.NumOptions())
	for i := range options {
		options[i] = Option(i)
	}
	return options
}

// Option resolves an option id
func (g *GridEnvironment) Option(id int) (Option, error) {
	if id < 0 || id >= g.NumOptions() {
		return 0, types.UnknownOptionErrorf("option %d, valid options are [0, %d)", id, g.NumOptions())
	}
	return Option(id), nil
}

// Target cell of the option
func (g *GridEnvironment) Target(o Option) Position {
	return g.Decode(int(o))
}

func (g *GridEnvironment) OptionName(o Option) string {
	return fmt.Sprintf("GoTo%s", g.Target(o))
}

// Termination of the option: the successor of (s, a) is the target cell
func (g *GridEnvironment) Termination(o Option, dyn *types.Dynamics) (types.TerminationPredicate, error) {
	if _, err := g.Option(int(o)); err != nil {
		return nil, err
	}
	return InPosition(g, dyn, g.Target(o)), nil
}

// Terminations of every option, indexed by option id
func (g *GridEnvironment) Terminations(dyn *types.Dynamics) []types.TerminationPredicate {
	terms := make([]types.TerminationPredicate, g.NumOptions())
	for _, o := range g.Options() {
		terms[o] = InPosition(g, dyn, g.Target(o))
	}
	return terms
}

// InPosition holds on (s, a) when the successor of s under a is pos
func InPosition(g *GridEnvironment, dyn *types.Dynamics, pos Position) types.TerminationPredicate {
	target := g.Encode(pos)
	return func(s, a int) bool {
		next, ok := dyn.Successor(s, a)
		return ok && next == target
	}
}
