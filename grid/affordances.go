package grid

import (
	"fmt"
	"sort"

	"github.com/go-kit/log"
	"github.com/zeu5/affordances-options/planning"
	"github.com/zeu5/affordances-options/types"
)

type affordancesFn func(g *GridEnvironment, radius int) []planning.Affordance

var heuristicAffordances = map[string]affordancesFn{
	"everything":    allAffordances,
	"neighbourhood": neighbourhoodAffordances,
	"open":          openAffordances,
}

// AffordanceNames lists the heuristic affordances available
func AffordanceNames() []string {
	names := make([]string, 0, len(heuristicAffordances))
	for name := range heuristicAffordances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Affordances builds the named heuristic affordance mask and returns a provider for it
func Affordances(g *GridEnvironment, name string, radius int, logger log.Logger) (types.AffordanceProvider, error) {
	fn, ok := heuristicAffordances[name]
	if !ok {
		return nil, fmt.Errorf("unknown affordances %q, valid: %v", name, AffordanceNames())
	}
	mask, err := planning.AffordanceMask(g.NumStates(), g.NumOptions(), fn(g, radius), logger)
	if err != nil {
		return nil, err
	}
	return planning.StaticAffordances(mask), nil
}

func allAffordances(g *GridEnvironment, _ int) []planning.Affordance {
	return planning.AllAffordances(g.NumStates(), g.NumOptions())
}

// targets within the manhattan radius, the cell itself included
func neighbourhoodAffordances(g *GridEnvironment, radius int) []planning.Affordance {
	affordances := make([]planning.Affordance, 0)
	for s := 0; s < g.NumStates(); s++ {
		from := g.Decode(s)
		for _, o := range g.Options() {
			if from.Distance(g.Target(o)) <= radius {
				affordances = append(affordances, planning.Affordance{State: s, Option: int(o)})
			}
		}
	}
	return affordances
}

// targets that are not walls
func openAffordances(g *GridEnvironment, _ int) []planning.Affordance {
	affordances := make([]planning.Affordance, 0)
	for s := 0; s < g.NumStates(); s++ {
		for _, o := range g.Options() {
			if !g.IsWall(g.Target(o)) {
				affordances = append(affordances, planning.Affordance{State: s, Option: int(o)})
			}
		}
	}
	return affordances
}
