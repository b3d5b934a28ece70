package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/savia-platform/savia-ledger/src/shared/events"
	"github.com/savia-platform/savia-ledger/src/shared/proof"
	"github.com/savia-platform/savia-ledger/src/shared/store"
)

const (
	adminAddr       = Address("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")
	beneficiaryAddr = Address("5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty")
	donorAddr       = Address("5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y")
	recipientAddr   = Address("5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy")
)

type fixture struct {
	e     *Engine
	store *store.Memory
	evs   *events.Memory
	sink  *proof.Recorder
	now   uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: store.NewMemory(),
		evs:   events.NewMemory(),
		sink:  proof.NewRecorder(),
		now:   1700000000,
	}
	e, err := New(Options{
		Store:     f.store,
		Authorize: ContextAuthorizer{},
		Events:    f.evs,
		Proof:     f.sink,
		Clock:     func() uint64 { return f.now },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	f.e = e
	return f
}

func (f *fixture) as(addr Address) context.Context {
	return WithPrincipal(context.Background(), addr)
}

func (f *fixture) initialize(t *testing.T) {
	t.Helper()
	if err := f.e.Initialize(f.as(adminAddr), adminAddr, 200); err != nil {
		t.Fatalf("initialize: %v", err)
	}
}

func (f *fixture) createCampaign(t *testing.T) ID {
	t.Helper()
	id, err := f.e.CreateCampaign(f.as(beneficiaryAddr), CreateCampaignParams{
		Beneficiary:  beneficiaryAddr,
		Title:        "Clean water for Chocó",
		Description:  "Wells and filtration for three villages",
		GoalAmount:   10000,
		DurationDays: 30,
		Category:     "Health",
		Location:     "Chocó, Colombia",
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return id
}

func TestNew_RequiresStoreAndAuthorizer(t *testing.T) {
	if _, err := New(Options{Authorize: ContextAuthorizer{}}); err == nil {
		t.Fatalf("expected error without store")
	}
	if _, err := New(Options{Store: store.NewMemory()}); err == nil {
		t.Fatalf("expected error without authorizer")
	}
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	s, err := f.e.GetStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s != (PlatformStats{}) {
		t.Fatalf("fresh stats not zero: %+v", s)
	}
}

func TestInitialize_Twice(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	err := f.e.Initialize(f.as(adminAddr), adminAddr, 200)
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second initialize: got %v, want ErrAlreadyInitialized", err)
	}
}

func TestInitialize_FeeBounds(t *testing.T) {
	f := newFixture(t)
	err := f.e.Initialize(f.as(adminAddr), adminAddr, 1001)
	if !errors.Is(err, ErrInvalidFee) {
		t.Fatalf("fee 1001: got %v, want ErrInvalidFee", err)
	}
	if err := f.e.Initialize(f.as(adminAddr), adminAddr, 1000); err != nil {
		t.Fatalf("fee 1000: %v", err)
	}
}

func TestInitialize_RequiresAdminAuth(t *testing.T) {
	f := newFixture(t)
	err := f.e.Initialize(f.as(donorAddr), adminAddr, 200)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestGetStats_DefaultsBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	s, err := f.e.GetStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s != (PlatformStats{}) {
		t.Fatalf("stats before initialize = %+v, want zero", s)
	}
}

func TestIdentifiers_DeterministicAcrossReplays(t *testing.T) {
	run := func() (ID, ID) {
		f := newFixture(t)
		f.initialize(t)
		cid := f.createCampaign(t)
		did, err := f.e.Donate(f.as(donorAddr), DonateParams{
			CampaignID: cid,
			Donor:      donorAddr,
			Amount:     1000,
		})
		if err != nil {
			t.Fatalf("donate: %v", err)
		}
		return cid, did
	}

	c1, d1 := run()
	c2, d2 := run()
	if c1 != c2 {
		t.Fatalf("campaign ids diverged across replays: %s != %s", c1, c2)
	}
	if d1 != d2 {
		t.Fatalf("donation ids diverged across replays: %s != %s", d1, d2)
	}
}

func TestIdentifiers_CounterSeparatesIdenticalCalls(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	cid := f.createCampaign(t)

	p := DonateParams{CampaignID: cid, Donor: donorAddr, Amount: 1000}
	d1, err := f.e.Donate(f.as(donorAddr), p)
	if err != nil {
		t.Fatalf("donate 1: %v", err)
	}
	d2, err := f.e.Donate(f.as(donorAddr), p)
	if err != nil {
		t.Fatalf("donate 2: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("identical donations in the same second share id %s", d1)
	}
}

func TestFailedOperation_LeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	cid := f.createCampaign(t)

	records := f.store.Len()
	evs := len(f.evs.Snapshot())

	_, err := f.e.Donate(f.as(donorAddr), DonateParams{
		CampaignID: cid,
		Donor:      donorAddr,
		Amount:     0,
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}

	if f.store.Len() != records {
		t.Fatalf("failed donate changed store: %d records, had %d", f.store.Len(), records)
	}
	if len(f.evs.Snapshot()) != evs {
		t.Fatalf("failed donate published events")
	}

	s, err := f.e.GetStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s.TotalDonations != 0 || s.TotalRaised != 0 {
		t.Fatalf("failed donate moved aggregates: %+v", s)
	}
}

func TestFailedOperation_DoesNotBurnCounter(t *testing.T) {
	run := func(withFailure bool) ID {
		f := newFixture(t)
		f.initialize(t)
		cid := f.createCampaign(t)
		if withFailure {
			if _, err := f.e.Donate(f.as(donorAddr), DonateParams{
				CampaignID: cid, Donor: donorAddr, Amount: 0,
			}); !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("got %v, want ErrInvalidAmount", err)
			}
		}
		did, err := f.e.Donate(f.as(donorAddr), DonateParams{
			CampaignID: cid, Donor: donorAddr, Amount: 1000,
		})
		if err != nil {
			t.Fatalf("donate: %v", err)
		}
		return did
	}

	if clean, dirty := run(false), run(true); clean != dirty {
		t.Fatalf("rejected donation consumed a counter: %s != %s", clean, dirty)
	}
}

func TestParseID(t *testing.T) {
	id := deriveID(SHA256Hash, []byte("input"), be64(1))
	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: %s != %s", parsed, id)
	}

	if _, err := ParseID("zz"); err == nil {
		t.Fatalf("expected error for non-hex input")
	}
	if _, err := ParseID("abcd"); err == nil {
		t.Fatalf("expected error for short input")
	}
}

func TestHashPrimitives_Differ(t *testing.T) {
	data := []byte("same input")
	if SHA256Hash(data) == Blake2bHash(data) {
		t.Fatalf("sha256 and blake2b agree, something is wrong")
	}
	a := deriveID(Blake2bHash, []byte("x"), be64(1))
	b := deriveID(Blake2bHash, []byte("x"), be64(1))
	if a != b {
		t.Fatalf("blake2b derivation not deterministic")
	}
}
