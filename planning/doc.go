// Package planning implements tabular planning over options.
//
// The engine is a generalized value iteration over semi-MDPs with a
// per (state, option) discount and an optional hard affordance mask,
// followed by greedy policy extraction with seeded tie-breaking.
// On top of it sit two learners:
//   - LearnOptionPolicy turns a termination predicate into a low level
//     policy over primitive actions
//   - LearnPolicyOverOptions selects among options given an option model
//     (reward, transition and length per state and option)
//
// Every entry point is a pure function of its arguments. Inputs are
// validated before any sweep runs.
package planning
