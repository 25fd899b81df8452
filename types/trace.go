package types

// Trace of a hierarchical episode as (state, option, nextState) triplets
// along with the environment reward collected and the primitive steps taken
// while the option ran
type Trace struct {
	States     []int     `json:"states"`
	Options    []int     `json:"options"`
	NextStates []int     `json:"next_states"`
	Rewards    []float64 `json:"rewards"`
	Steps      []int     `json:"steps"`
}

func NewTrace() *Trace {
	return &Trace{
		States:     make([]int, 0),
		Options:    make([]int, 0),
		NextStates: make([]int, 0),
		Rewards:    make([]float64, 0),
		Steps:      make([]int, 0),
	}
}

func (t *Trace) Append(state, option, nextState int, reward float64, steps int) {
	t.States = append(t.States, state)
	t.Options = append(t.Options, option)
	t.NextStates = append(t.NextStates, nextState)
	t.Rewards = append(t.Rewards, reward)
	t.Steps = append(t.Steps, steps)
}

func (t *Trace) Len() int {
	return len(t.States)
}

func (t *Trace) Get(i int) (int, int, int, bool) {
	if i < 0 || i >= len(t.States) {
		return 0, 0, 0, false
	}
	return t.States[i], t.Options[i], t.NextStates[i], true
}

func (t *Trace) Last() (int, int, int, bool) {
	return t.Get(len(t.States) - 1)
}

// Return is the undiscounted sum of rewards
func (t *Trace) Return() float64 {
	sum := 0.0
	for _, r := range t.Rewards {
		sum += r
	}
	return sum
}

// TotalSteps is the number of primitive actions executed
func (t *Trace) TotalSteps() int {
	total := 0
	for _, s := range t.Steps {
		total += s
	}
	return total
}
