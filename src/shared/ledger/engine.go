// Package ledger is the deterministic state-transition engine behind the
// savia crowdfunding platform: campaign lifecycle, fee-splitting donations,
// trust scoring, milestone disbursements and reward badges, persisted
// entirely through a key-value store.
//
// Every mutating operation is one atomic transition. It validates fully
// before its first write, stages all writes in a transaction overlay, and
// commits them with a single store.Apply: an error at any point leaves the
// store untouched. Identifiers are derived, not random, so replaying the
// same operations against the same store yields the same ids.
package ledger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/savia-platform/savia-ledger/src/shared/events"
	"github.com/savia-platform/savia-ledger/src/shared/proof"
	"github.com/savia-platform/savia-ledger/src/shared/store"
)

const (
	// MaxPlatformFeeBps caps the platform fee at 10%.
	MaxPlatformFeeBps = 1000
	// DefaultPlatformFeeBps applies when no fee was ever configured.
	DefaultPlatformFeeBps = 200
)

// Options configures an Engine. Store and Authorize are required; the rest
// default to no-op collaborators, sha256 and the system clock.
type Options struct {
	Store     store.Store
	Authorize Authorizer
	Events    events.Publisher
	Proof     proof.Sink
	Clock     Clock
	Hash      HashFunc
}

// Engine owns all ledger state transitions. Mutating operations are
// serialized by an internal mutex so each one observes and commits a
// consistent snapshot; reads go straight to the store.
type Engine struct {
	mu        sync.Mutex
	store     store.Store
	authorize Authorizer
	events    events.Publisher
	proof     proof.Sink
	clock     Clock
	hash      HashFunc
}

func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("ledger: store is required")
	}
	if opts.Authorize == nil {
		return nil, errors.New("ledger: authorizer is required")
	}
	e := &Engine{
		store:     opts.Store,
		authorize: opts.Authorize,
		events:    opts.Events,
		proof:     opts.Proof,
		clock:     opts.Clock,
		hash:      opts.Hash,
	}
	if e.events == nil {
		e.events = events.Nop{}
	}
	if e.proof == nil {
		e.proof = proof.NopSink{}
	}
	if e.clock == nil {
		e.clock = unixNow
	}
	if e.hash == nil {
		e.hash = SHA256Hash
	}
	return e, nil
}

// txn buffers one operation's writes on top of the store. Reads see pending
// writes first, then fall through to the store. Nothing is persisted until
// commit applies the whole buffer at once.
type txn struct {
	e     *Engine
	ctx   context.Context
	puts  []store.Put
	index map[string]int
	evs   []events.Event
}

func (e *Engine) begin(ctx context.Context) *txn {
	return &txn{e: e, ctx: ctx, index: make(map[string]int)}
}

func (t *txn) get(k store.Key) ([]byte, bool, error) {
	if i, ok := t.index[k.Encode()]; ok {
		return t.puts[i].Value, true, nil
	}
	return t.e.store.Get(t.ctx, k)
}

func (t *txn) has(k store.Key) (bool, error) {
	if _, ok := t.index[k.Encode()]; ok {
		return true, nil
	}
	return t.e.store.Has(t.ctx, k)
}

func (t *txn) set(k store.Key, v []byte) {
	enc := k.Encode()
	if i, ok := t.index[enc]; ok {
		t.puts[i].Value = v
		return
	}
	t.index[enc] = len(t.puts)
	t.puts = append(t.puts, store.Put{Key: k, Value: v})
}

func (t *txn) getJSON(k store.Key, v interface{}) (bool, error) {
	raw, ok, err := t.get(k)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("ledger: decode %s: %w", k, err)
	}
	return true, nil
}

func (t *txn) setJSON(k store.Key, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ledger: encode %s: %w", k, err)
	}
	t.set(k, raw)
	return nil
}

func (t *txn) publish(name string, attrs map[string]string) {
	t.evs = append(t.evs, events.Event{Name: name, Attrs: attrs})
}

// commit applies the buffered writes atomically, then publishes the
// operation's events. Events only ever describe committed transitions.
func (t *txn) commit() error {
	if err := t.e.store.Apply(t.ctx, t.puts); err != nil {
		return err
	}
	for _, ev := range t.evs {
		t.e.events.Publish(t.ctx, ev)
	}
	return nil
}

// nextCounter increments one of the monotonic id counters and returns the
// new value. Counters are stored as 8 big-endian bytes and start at zero.
func (t *txn) nextCounter(kind store.Kind) (uint64, error) {
	k := store.Key{Kind: kind}
	raw, ok, err := t.get(k)
	if err != nil {
		return 0, err
	}
	var n uint64
	if ok && len(raw) == 8 {
		n = binary.BigEndian.Uint64(raw)
	}
	n++
	t.set(k, be64(n))
	return n, nil
}

func (t *txn) platformFeeBps() (uint64, error) {
	raw, ok, err := t.get(store.Key{Kind: store.KindPlatformFee})
	if err != nil {
		return 0, err
	}
	if !ok || len(raw) != 8 {
		return DefaultPlatformFeeBps, nil
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (t *txn) admin() (Address, bool, error) {
	raw, ok, err := t.get(store.Key{Kind: store.KindAdmin})
	if err != nil || !ok {
		return "", false, err
	}
	return Address(raw), true, nil
}

func (t *txn) stats() (PlatformStats, error) {
	var s PlatformStats
	if _, err := t.getJSON(store.Key{Kind: store.KindStats}, &s); err != nil {
		return PlatformStats{}, err
	}
	return s, nil
}

func (t *txn) putStats(s PlatformStats) error {
	return t.setJSON(store.Key{Kind: store.KindStats}, &s)
}

// mutateStats applies fn to the current aggregates and stages the result.
func (t *txn) mutateStats(fn func(*PlatformStats)) error {
	s, err := t.stats()
	if err != nil {
		return err
	}
	fn(&s)
	return t.putStats(s)
}

// appendIndex adds id to the identifier list stored under k.
func (t *txn) appendIndex(k store.Key, id ID) error {
	var ids []ID
	if _, err := t.getJSON(k, &ids); err != nil {
		return err
	}
	return t.setJSON(k, append(ids, id))
}

// getJSON is the read-path twin of txn.getJSON for operations that never
// write.
func getJSON(ctx context.Context, s store.Store, k store.Key, v interface{}) (bool, error) {
	raw, ok, err := s.Get(ctx, k)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("ledger: decode %s: %w", k, err)
	}
	return true, nil
}

// Initialize sets the platform admin and fee rate, zeroes the id counters
// and the aggregates. It runs once per store; calling it again fails with
// ErrAlreadyInitialized. The named admin must have authorized the call.
func (e *Engine) Initialize(ctx context.Context, admin Address, platformFeeBps uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.begin(ctx)
	initialized, err := t.has(store.Key{Kind: store.KindAdmin})
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}
	if platformFeeBps > MaxPlatformFeeBps {
		return ErrInvalidFee
	}
	if err := e.authorize.RequireAuth(ctx, admin); err != nil {
		return err
	}

	t.set(store.Key{Kind: store.KindAdmin}, []byte(admin))
	t.set(store.Key{Kind: store.KindPlatformFee}, be64(platformFeeBps))
	t.set(store.Key{Kind: store.KindCampaignCounter}, be64(0))
	t.set(store.Key{Kind: store.KindDonationCounter}, be64(0))
	t.set(store.Key{Kind: store.KindNFTCounter}, be64(0))
	t.set(store.Key{Kind: store.KindDisbursementCounter}, be64(0))
	if err := t.putStats(PlatformStats{}); err != nil {
		return err
	}
	return t.commit()
}

// GetStats returns the platform aggregates, zero-valued before initialize.
func (e *Engine) GetStats(ctx context.Context) (PlatformStats, error) {
	var s PlatformStats
	if _, err := getJSON(ctx, e.store, store.Key{Kind: store.KindStats}, &s); err != nil {
		return PlatformStats{}, err
	}
	return s, nil
}
