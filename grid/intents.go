package grid

import "github.com/zeu5/affordances-options/types"

// Intent of reaching a cell, the id is the encoded cell
type Intent int

type IntentStatus int

const (
	IntentIncomplete IntentStatus = iota
	IntentComplete
)

func (s IntentStatus) String() string {
	if s == IntentComplete {
		return "complete"
	}
	return "incomplete"
}

func (g *GridEnvironment) NumIntents() int {
	return g.NumStates()
}

func (g *GridEnvironment) Intent(id int) (Intent, error) {
	if id < 0 || id >= g.NumIntents() {
		return 0, types.UnknownIntentErrorf("intent %d, valid intents are [0, %d)", id, g.NumIntents())
	}
	return Intent(id), nil
}

// IntentCompleted determines if the (initial state, option, final state) transition
// completes the intent. Only the final state matters.
func (g *GridEnvironment) IntentCompleted(_ int, _ Option, finalState int, intent Intent) (IntentStatus, error) {
	if _, err := g.Intent(int(intent)); err != nil {
		return IntentIncomplete, err
	}
	if finalState < 0 || finalState >= g.NumStates() {
		return IntentIncomplete, types.ParameterErrorf("state %d outside [0, %d)", finalState, g.NumStates())
	}
	if finalState == int(intent) {
		return IntentComplete, nil
	}
	return IntentIncomplete, nil
}
