package proof

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"
)

// Recorder is a concurrency-safe in-memory collector.
//
// Record never panics (it recovers internally) and never returns an error.
type Recorder struct {
	mu          sync.Mutex
	constraints []Constraint
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Record(c Constraint) {
	if r == nil {
		return
	}
	defer func() {
		_ = recover()
	}()

	vals := make([]uint64, len(c.Vals))
	copy(vals, c.Vals)
	c.Vals = vals

	r.mu.Lock()
	r.constraints = append(r.constraints, c)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all recorded constraints. The
// copy is deep: mutating a returned Vals slice cannot reach the recorder.
func (r *Recorder) Snapshot() []Constraint {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Constraint, len(r.constraints))
	for i, c := range r.constraints {
		vals := make([]uint64, len(c.Vals))
		copy(vals, c.Vals)
		out[i] = Constraint{Op: c.Op, Name: c.Name, Vals: vals}
	}
	return out
}

// TranscriptHash digests the recorded constraints in emission order. Two
// recorders that saw the same constraints in the same order hash identically.
func (r *Recorder) TranscriptHash() string {
	h := sha256.New()
	var buf [8]byte
	for _, c := range r.Snapshot() {
		h.Write([]byte(c.Op))
		h.Write([]byte{0})
		h.Write([]byte(c.Name))
		h.Write([]byte{0})
		binary.BigEndian.PutUint64(buf[:], uint64(len(c.Vals)))
		h.Write(buf[:])
		for _, v := range c.Vals {
			binary.BigEndian.PutUint64(buf[:], v)
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
