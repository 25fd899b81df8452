package types

// TerminationPredicate decides whether an option terminates on the
// (pre-transition state, action) pair of the base MDP
type TerminationPredicate func(s, a int) bool

func (t TerminationPredicate) And(other TerminationPredicate) TerminationPredicate {
	return func(s, a int) bool {
		return t(s, a) && other(s, a)
	}
}

func (t TerminationPredicate) Or(other TerminationPredicate) TerminationPredicate {
	return func(s, a int) bool {
		return t(s, a) || other(s, a)
	}
}

func (t TerminationPredicate) Not() TerminationPredicate {
	return func(s, a int) bool {
		return !t(s, a)
	}
}

// Never terminates
func Never() TerminationPredicate {
	return func(_, _ int) bool {
		return false
	}
}

// OnActions terminates whenever one of the actions is taken
func OnActions(actions ...int) TerminationPredicate {
	set := make(map[int]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}
	return func(_, a int) bool {
		return set[a]
	}
}
