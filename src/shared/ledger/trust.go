package ledger

import "context"

// CreateTrustScore creates the caller-facing baseline record for an address:
// score 50, all counters zero. Fails with ErrScoreExists when the address
// already has one. The engine also creates scores lazily on first donation
// or campaign, so calling this is optional.
func (e *Engine) CreateTrustScore(ctx context.Context, entity Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.begin(ctx)

	exists, err := t.has(trustScoreKey(entity))
	if err != nil {
		return err
	}
	if exists {
		return ErrScoreExists
	}
	ts := TrustScore{Entity: entity, Score: 50, LastUpdated: e.clock()}
	if err := t.setJSON(trustScoreKey(entity), &ts); err != nil {
		return err
	}
	return t.commit()
}

// GetTrustScore returns the trust record, or nil when the address has none.
func (e *Engine) GetTrustScore(ctx context.Context, entity Address) (*TrustScore, error) {
	var ts TrustScore
	ok, err := getJSON(ctx, e.store, trustScoreKey(entity), &ts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &ts, nil
}

// ensureTrustScore creates the baseline record if the address has none.
func (t *txn) ensureTrustScore(entity Address, now uint64) error {
	exists, err := t.has(trustScoreKey(entity))
	if err != nil || exists {
		return err
	}
	ts := TrustScore{Entity: entity, Score: 50, LastUpdated: now}
	return t.setJSON(trustScoreKey(entity), &ts)
}

// recordDonation folds a net donation amount into the donor's trust record
// and recomputes the score from the stored counters:
//
//	score = 50 + 30*min(count,100)/100 + 15*min(total/1000,100)/100 + bonus
//
// where bonus is 5 once the donor has more than one donation, all integer
// division, clamped to 100. Recomputing from counters instead of adjusting
// incrementally keeps replays bit-for-bit reproducible.
func (t *txn) recordDonation(donor Address, net uint64, now uint64) error {
	ts := TrustScore{Entity: donor, Score: 50, LastUpdated: now}
	if _, err := t.getJSON(trustScoreKey(donor), &ts); err != nil {
		return err
	}

	ts.DonationCount++
	ts.TotalDonated += net
	ts.LastUpdated = now

	donationFactor := uint64(min(ts.DonationCount, 100))
	amountFactor := min(ts.TotalDonated/1000, 100)
	var consistencyBonus uint64
	if ts.DonationCount > 1 {
		consistencyBonus = 5
	}
	score := 50 + donationFactor*30/100 + amountFactor*15/100 + consistencyBonus
	if score > 100 {
		score = 100
	}
	ts.Score = uint32(score)

	return t.setJSON(trustScoreKey(donor), &ts)
}

// recordCampaignCreated bumps a beneficiary's record for a new campaign:
// campaigns_created increments and min(campaigns_created, 20) is added to the
// current score, clamped to 100.
func (t *txn) recordCampaignCreated(entity Address, now uint64) error {
	ts := TrustScore{Entity: entity, Score: 50, LastUpdated: now}
	if _, err := t.getJSON(trustScoreKey(entity), &ts); err != nil {
		return err
	}

	ts.CampaignsCreated++
	ts.LastUpdated = now

	score := uint64(ts.Score) + uint64(min(ts.CampaignsCreated, 20))
	if score > 100 {
		score = 100
	}
	ts.Score = uint32(score)

	return t.setJSON(trustScoreKey(entity), &ts)
}
