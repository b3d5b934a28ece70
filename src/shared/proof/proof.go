// Package proof records side assertions about ledger state transitions for an
// external proving backend. Constraints are opaque to the engine: recording
// them never changes a transition's outcome, and a sink that drops them is as
// valid as one that proves them.
package proof

// Constraint is one recorded assertion. Op names the transition that emitted
// it, Name the relation being asserted, Vals the operands in emission order.
type Constraint struct {
	Op   string
	Name string
	Vals []uint64
}

// Sink is the minimal interface the engine depends on.
//
// Record must be inert:
//   - must not panic (implementations should guard themselves)
//   - must not return errors
//
// The caller must assume Record may be a no-op.
type Sink interface {
	Record(c Constraint)
}

// NopSink discards all constraints.
type NopSink struct{}

func (NopSink) Record(Constraint) {}

// SafeRecord records a constraint and guarantees inertness even if the sink
// is buggy. It intentionally swallows panics.
func SafeRecord(s Sink, c Constraint) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.Record(c)
}
