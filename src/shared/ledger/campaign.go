package ledger

import (
	"context"
	"strconv"

	"github.com/savia-platform/savia-ledger/src/shared/events"
	"github.com/savia-platform/savia-ledger/src/shared/proof"
	"github.com/savia-platform/savia-ledger/src/shared/store"
)

// CreateCampaign registers a new campaign for p.Beneficiary and returns its
// id, derived as hash(beneficiary || title || be64(goal) || be64(now) ||
// be64(counter)). The beneficiary must have authorized the call. A trust
// score is created for first-time beneficiaries and bumped for repeat ones.
func (e *Engine) CreateCampaign(ctx context.Context, p CreateCampaignParams) (ID, error) {
	if err := e.authorize.RequireAuth(ctx, p.Beneficiary); err != nil {
		return ID{}, err
	}
	if p.GoalAmount == 0 {
		return ID{}, ErrInvalidGoal
	}
	if p.DurationDays == 0 || p.DurationDays > 365 {
		return ID{}, ErrInvalidDuration
	}
	if p.Title == "" || p.Description == "" {
		return ID{}, ErrInvalidInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.begin(ctx)

	counter, err := t.nextCounter(store.KindCampaignCounter)
	if err != nil {
		return ID{}, err
	}

	now := e.clock()
	id := deriveID(e.hash,
		[]byte(p.Beneficiary),
		[]byte(p.Title),
		be64(p.GoalAmount),
		be64(now),
		be64(counter),
	)

	c := Campaign{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Beneficiary: p.Beneficiary,
		GoalAmount:  p.GoalAmount,
		StartTime:   now,
		EndTime:     now + p.DurationDays*24*60*60,
		Category:    p.Category,
		Location:    p.Location,
		Active:      true,
	}
	if err := t.setJSON(campaignKey(id), &c); err != nil {
		return ID{}, err
	}
	if err := t.appendIndex(beneficiaryCampaignsKey(p.Beneficiary), id); err != nil {
		return ID{}, err
	}
	err = t.mutateStats(func(s *PlatformStats) {
		s.TotalCampaigns++
		s.ActiveCampaigns++
	})
	if err != nil {
		return ID{}, err
	}
	if err := t.ensureTrustScore(p.Beneficiary, now); err != nil {
		return ID{}, err
	}
	if err := t.recordCampaignCreated(p.Beneficiary, now); err != nil {
		return ID{}, err
	}

	proof.SafeRecord(e.proof, proof.Constraint{
		Op:   "campaign.create",
		Name: "goal_positive",
		Vals: []uint64{p.GoalAmount},
	})

	t.publish(events.CampaignCreated, map[string]string{
		"campaignId":  id.String(),
		"beneficiary": string(p.Beneficiary),
	})
	if err := t.commit(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// GetCampaign returns the campaign, or nil when no such id exists.
func (e *Engine) GetCampaign(ctx context.Context, id ID) (*Campaign, error) {
	var c Campaign
	ok, err := getJSON(ctx, e.store, campaignKey(id), &c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetCampaignsByBeneficiary lists the ids of every campaign the address
// created, oldest first.
func (e *Engine) GetCampaignsByBeneficiary(ctx context.Context, entity Address) ([]ID, error) {
	var ids []ID
	if _, err := getJSON(ctx, e.store, beneficiaryCampaignsKey(entity), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// VerifyCampaign marks a campaign verified with the given score, clamped to
// 100. Admin only.
func (e *Engine) VerifyCampaign(ctx context.Context, id ID, trustScore uint32) error {
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

	var c Campaign
	ok, err = t.getJSON(campaignKey(id), &c)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCampaignNotFound
	}

	if trustScore > 100 {
		trustScore = 100
	}
	c.Verified = true
	c.TrustScore = trustScore
	if err := t.setJSON(campaignKey(id), &c); err != nil {
		return err
	}

	t.publish(events.CampaignVerified, map[string]string{
		"campaignId": id.String(),
		"trustScore": strconv.FormatUint(uint64(trustScore), 10),
	})
	return t.commit()
}

// CloseCampaign deactivates a campaign ahead of its end time. Beneficiary
// only; closing an already-inactive campaign fails with ErrCampaignInactive.
func (e *Engine) CloseCampaign(ctx context.Context, id ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.begin(ctx)

	var c Campaign
	ok, err := t.getJSON(campaignKey(id), &c)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCampaignNotFound
	}
	if err := e.authorize.RequireAuth(ctx, c.Beneficiary); err != nil {
		return err
	}
	if !c.Active {
		return ErrCampaignInactive
	}

	c.Active = false
	if err := t.setJSON(campaignKey(id), &c); err != nil {
		return err
	}
	err = t.mutateStats(func(s *PlatformStats) {
		if s.ActiveCampaigns > 0 {
			s.ActiveCampaigns--
		}
	})
	if err != nil {
		return err
	}

	t.publish(events.CampaignClosed, map[string]string{
		"campaignId": id.String(),
	})
	return t.commit()
}
