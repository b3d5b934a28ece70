package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/savia-platform/savia-ledger/src/shared/events"
)

// fundedCampaign sets up an initialized platform with one campaign holding
// 4900 (a 5000 donation minus the 2% fee).
func fundedCampaign(t *testing.T) (*fixture, ID) {
	t.Helper()
	f := newFixture(t)
	f.initialize(t)
	cid := f.createCampaign(t)
	if _, err := f.e.Donate(f.as(donorAddr), DonateParams{
		CampaignID: cid, Donor: donorAddr, Amount: 5000,
	}); err != nil {
		t.Fatalf("donate: %v", err)
	}
	return f, cid
}

func (f *fixture) createDisbursement(t *testing.T, cid ID, amount uint64) ID {
	t.Helper()
	id, err := f.e.CreateDisbursement(f.as(beneficiaryAddr), CreateDisbursementParams{
		CampaignID: cid,
		Recipient:  recipientAddr,
		Amount:     amount,
		Milestone:  "Equipment purchase",
	})
	if err != nil {
		t.Fatalf("create disbursement: %v", err)
	}
	return id
}

func TestDisbursement_FullLifecycle(t *testing.T) {
	f, cid := fundedCampaign(t)
	id := f.createDisbursement(t, cid, 2000)

	d, err := f.e.GetDisbursement(context.Background(), id)
	if err != nil || d == nil {
		t.Fatalf("get: %v, %v", d, err)
	}
	if d.Status != DisbursementPending || d.ExecutedAt != nil {
		t.Fatalf("fresh disbursement: %+v", d)
	}
	if d.CreatedAt != f.now {
		t.Fatalf("created at = %d, want %d", d.CreatedAt, f.now)
	}

	if err := f.e.ApproveDisbursement(f.as(adminAddr), id); err != nil {
		t.Fatalf("approve: %v", err)
	}
	d, _ = f.e.GetDisbursement(context.Background(), id)
	if d.Status != DisbursementApproved {
		t.Fatalf("status after approve = %s", d.Status)
	}

	f.now += 3600
	if err := f.e.ExecuteDisbursement(f.as(recipientAddr), id); err != nil {
		t.Fatalf("execute: %v", err)
	}
	d, _ = f.e.GetDisbursement(context.Background(), id)
	if d.Status != DisbursementExecuted {
		t.Fatalf("status after execute = %s", d.Status)
	}
	if d.ExecutedAt == nil || *d.ExecutedAt != f.now {
		t.Fatalf("executed at = %v, want %d", d.ExecutedAt, f.now)
	}

	for _, name := range []string{
		events.DisbursementCreated,
		events.DisbursementApproved,
		events.DisbursementExecuted,
	} {
		if got := f.evs.Named(name); len(got) != 1 {
			t.Fatalf("%s events = %d, want 1", name, len(got))
		}
	}
}

func TestDisbursement_ExecuteBeforeApprove(t *testing.T) {
	f, cid := fundedCampaign(t)
	id := f.createDisbursement(t, cid, 2000)

	err := f.e.ExecuteDisbursement(f.as(recipientAddr), id)
	if !errors.Is(err, ErrNotApproved) {
		t.Fatalf("got %v, want ErrNotApproved", err)
	}
}

func TestDisbursement_NoDoubleExecute(t *testing.T) {
	f, cid := fundedCampaign(t)
	id := f.createDisbursement(t, cid, 2000)

	if err := f.e.ApproveDisbursement(f.as(adminAddr), id); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := f.e.ExecuteDisbursement(f.as(recipientAddr), id); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if err := f.e.ExecuteDisbursement(f.as(recipientAddr), id); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("second execute: got %v, want ErrNotApproved", err)
	}
	// Re-approving an executed disbursement must not reopen it.
	if err := f.e.ApproveDisbursement(f.as(adminAddr), id); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("approve after execute: got %v, want ErrNotApproved", err)
	}
	d, _ := f.e.GetDisbursement(context.Background(), id)
	if d.Status != DisbursementExecuted {
		t.Fatalf("status drifted to %s", d.Status)
	}
}

func TestDisbursement_Reject(t *testing.T) {
	f, cid := fundedCampaign(t)
	id := f.createDisbursement(t, cid, 2000)

	if err := f.e.RejectDisbursement(f.as(adminAddr), id); err != nil {
		t.Fatalf("reject: %v", err)
	}
	d, _ := f.e.GetDisbursement(context.Background(), id)
	if d.Status != DisbursementRejected {
		t.Fatalf("status = %s, want rejected", d.Status)
	}
	if got := f.evs.Named(events.DisbursementRejected); len(got) != 1 {
		t.Fatalf("disbursement.rejected events = %d, want 1", len(got))
	}

	// Rejected is terminal.
	if err := f.e.ApproveDisbursement(f.as(adminAddr), id); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("approve after reject: got %v, want ErrNotApproved", err)
	}
	if err := f.e.ExecuteDisbursement(f.as(recipientAddr), id); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("execute after reject: got %v, want ErrNotApproved", err)
	}
}

func TestDisbursement_InsufficientFunds(t *testing.T) {
	f, cid := fundedCampaign(t)

	_, err := f.e.CreateDisbursement(f.as(beneficiaryAddr), CreateDisbursementParams{
		CampaignID: cid,
		Recipient:  recipientAddr,
		Amount:     4901,
		Milestone:  "Too much",
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	// Exactly the campaign balance is allowed.
	f.createDisbursement(t, cid, 4900)
}

func TestDisbursement_Authorization(t *testing.T) {
	f, cid := fundedCampaign(t)

	// Only the campaign beneficiary may request.
	_, err := f.e.CreateDisbursement(f.as(donorAddr), CreateDisbursementParams{
		CampaignID: cid, Recipient: recipientAddr, Amount: 100, Milestone: "m",
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("create by donor: got %v, want ErrUnauthorized", err)
	}

	id := f.createDisbursement(t, cid, 2000)

	if err := f.e.ApproveDisbursement(f.as(beneficiaryAddr), id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("approve by beneficiary: got %v, want ErrUnauthorized", err)
	}
	if err := f.e.RejectDisbursement(f.as(beneficiaryAddr), id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("reject by beneficiary: got %v, want ErrUnauthorized", err)
	}

	if err := f.e.ApproveDisbursement(f.as(adminAddr), id); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := f.e.ExecuteDisbursement(f.as(beneficiaryAddr), id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("execute by beneficiary: got %v, want ErrUnauthorized", err)
	}
}

func TestDisbursement_NotFound(t *testing.T) {
	f, _ := fundedCampaign(t)

	if err := f.e.ApproveDisbursement(f.as(adminAddr), ID{1}); !errors.Is(err, ErrDisbursementNotFound) {
		t.Fatalf("approve: got %v, want ErrDisbursementNotFound", err)
	}
	if err := f.e.ExecuteDisbursement(f.as(recipientAddr), ID{1}); !errors.Is(err, ErrDisbursementNotFound) {
		t.Fatalf("execute: got %v, want ErrDisbursementNotFound", err)
	}

	_, err := f.e.CreateDisbursement(f.as(beneficiaryAddr), CreateDisbursementParams{
		CampaignID: ID{1}, Recipient: recipientAddr, Amount: 1, Milestone: "m",
	})
	if !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("create on unknown campaign: got %v, want ErrCampaignNotFound", err)
	}
}

func TestGetDisbursement_Absent(t *testing.T) {
	f := newFixture(t)
	d, err := f.e.GetDisbursement(context.Background(), ID{5})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d != nil {
		t.Fatalf("expected nil for unknown id, got %+v", d)
	}
}
