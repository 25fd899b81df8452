package types

// ConvergenceSink receives the max value delta of every sweep of value iteration.
// It is purely observational.
type ConvergenceSink interface {
	Observe(iteration int, delta float64)
}

// SinkFunc adapts a function to a ConvergenceSink
type SinkFunc func(int, float64)

func (f SinkFunc) Observe(iteration int, delta float64) {
	f(iteration, delta)
}

type nopSink struct{}

func (nopSink) Observe(int, float64) {}

// NopSink discards every observation
var NopSink ConvergenceSink = nopSink{}

// MultiSink fans observations out to every sink
type MultiSink []ConvergenceSink

func (m MultiSink) Observe(iteration int, delta float64) {
	for _, s := range m {
		if s != nil {
			s.Observe(iteration, delta)
		}
	}
}
