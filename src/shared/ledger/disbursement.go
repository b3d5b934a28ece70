package ledger

import (
	"context"
	"strconv"

	"github.com/savia-platform/savia-ledger/src/shared/events"
	"github.com/savia-platform/savia-ledger/src/shared/proof"
	"github.com/savia-platform/savia-ledger/src/shared/store"
)

// CreateDisbursement opens a pending spend request against a campaign's
// raised funds. Only the campaign's beneficiary may request, and never for
// more than the campaign currently holds. The id is derived as
// hash(campaignId || recipient || be64(amount) || milestone || be64(counter)).
func (e *Engine) CreateDisbursement(ctx context.Context, p CreateDisbursementParams) (ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.begin(ctx)

	var c Campaign
	ok, err := t.getJSON(campaignKey(p.CampaignID), &c)
	if err != nil {
		return ID{}, err
	}
	if !ok {
		return ID{}, ErrCampaignNotFound
	}
	if err := e.authorize.RequireAuth(ctx, c.Beneficiary); err != nil {
		return ID{}, err
	}
	if p.Amount > c.CurrentAmount {
		return ID{}, ErrInsufficientFunds
	}

	counter, err := t.nextCounter(store.KindDisbursementCounter)
	if err != nil {
		return ID{}, err
	}
	id := deriveID(e.hash,
		p.CampaignID.Bytes(),
		[]byte(p.Recipient),
		be64(p.Amount),
		[]byte(p.Milestone),
		be64(counter),
	)

	d := Disbursement{
		ID:         id,
		CampaignID: p.CampaignID,
		Recipient:  p.Recipient,
		Amount:     p.Amount,
		Milestone:  p.Milestone,
		Status:     DisbursementPending,
		CreatedAt:  e.clock(),
	}
	if err := t.setJSON(disbursementKey(id), &d); err != nil {
		return ID{}, err
	}

	proof.SafeRecord(e.proof, proof.Constraint{
		Op:   "disbursement.create",
		Name: "within_balance",
		Vals: []uint64{p.Amount, c.CurrentAmount},
	})

	t.publish(events.DisbursementCreated, map[string]string{
		"disbursementId": id.String(),
		"campaignId":     p.CampaignID.String(),
		"recipient":      string(p.Recipient),
		"amount":         strconv.FormatUint(p.Amount, 10),
	})
	if err := t.commit(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// ApproveDisbursement releases a pending request for execution. Admin only.
// Status moves strictly forward: approving anything but a pending request
// fails with ErrNotApproved, so an executed disbursement can never be
// reopened.
func (e *Engine) ApproveDisbursement(ctx context.Context, id ID) error {
	return e.resolveDisbursement(ctx, id, DisbursementApproved, events.DisbursementApproved)
}

// RejectDisbursement terminally declines a pending request. Admin only.
func (e *Engine) RejectDisbursement(ctx context.Context, id ID) error {
	return e.resolveDisbursement(ctx, id, DisbursementRejected, events.DisbursementRejected)
}

func (e *Engine) resolveDisbursement(ctx context.Context, id ID, to DisbursementStatus, event string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.begin(ctx)

	admin, ok, err := t.admin()
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	if err := e.authorize.RequireAuth(ctx, admin); err != nil {
		return err
	}

	var d Disbursement
	ok, err = t.getJSON(disbursementKey(id), &d)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDisbursementNotFound
	}
	if d.Status != DisbursementPending {
		return ErrNotApproved
	}

	d.Status = to
	if err := t.setJSON(disbursementKey(id), &d); err != nil {
		return err
	}

	t.publish(event, map[string]string{
		"disbursementId": id.String(),
	})
	return t.commit()
}

// ExecuteDisbursement marks an approved request as carried out and stamps
// the execution time. Only the recipient may execute, and only from
// Approved; anything else fails with ErrNotApproved.
func (e *Engine) ExecuteDisbursement(ctx context.Context, id ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.begin(ctx)

	var d Disbursement
	ok, err := t.getJSON(disbursementKey(id), &d)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDisbursementNotFound
	}
	if err := e.authorize.RequireAuth(ctx, d.Recipient); err != nil {
		return err
	}
	if d.Status != DisbursementApproved {
		return ErrNotApproved
	}

	now := e.clock()
	d.Status = DisbursementExecuted
	d.ExecutedAt = &now
	if err := t.setJSON(disbursementKey(id), &d); err != nil {
		return err
	}

	proof.SafeRecord(e.proof, proof.Constraint{
		Op:   "disbursement.execute",
		Name: "single_execution",
		Vals: []uint64{d.Amount, now},
	})

	t.publish(events.DisbursementExecuted, map[string]string{
		"disbursementId": id.String(),
	})
	return t.commit()
}

// GetDisbursement returns the disbursement, or nil when no such id exists.
func (e *Engine) GetDisbursement(ctx context.Context, id ID) (*Disbursement, error) {
	var d Disbursement
	ok, err := getJSON(ctx, e.store, disbursementKey(id), &d)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &d, nil
}
