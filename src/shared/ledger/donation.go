package ledger

import (
	"context"
	"strconv"

	"github.com/savia-platform/savia-ledger/src/shared/events"
	"github.com/savia-platform/savia-ledger/src/shared/proof"
	"github.com/savia-platform/savia-ledger/src/shared/store"
)

// Donate processes a donation against an active campaign. The platform fee
// is taken off the gross amount and the net is credited to the campaign,
// recorded on the donation, rolled into the aggregates and into the donor's
// trust score; an NFT badge is minted when requested. The donation id is
// derived as hash(campaignId || donor || be64(gross) || be64(now) ||
// be64(counter)). The donor must have authorized the call.
func (e *Engine) Donate(ctx context.Context, p DonateParams) (ID, error) {
	if err := e.authorize.RequireAuth(ctx, p.Donor); err != nil {
		return ID{}, err
	}

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
	if !c.Active {
		return ID{}, ErrCampaignInactive
	}
	now := e.clock()
	if now > c.EndTime {
		return ID{}, ErrCampaignEnded
	}
	if p.Amount == 0 {
		return ID{}, ErrInvalidAmount
	}

	feeBps, err := t.platformFeeBps()
	if err != nil {
		return ID{}, err
	}
	fee := p.Amount * feeBps / 10000
	net := p.Amount - fee

	counter, err := t.nextCounter(store.KindDonationCounter)
	if err != nil {
		return ID{}, err
	}
	id := deriveID(e.hash,
		p.CampaignID.Bytes(),
		[]byte(p.Donor),
		be64(p.Amount),
		be64(now),
		be64(counter),
	)

	d := Donation{
		ID:         id,
		CampaignID: p.CampaignID,
		Donor:      p.Donor,
		Amount:     net,
		Timestamp:  now,
		NFTMinted:  p.MintNFT,
		Anonymous:  p.Anonymous,
	}

	before := c.CurrentAmount
	c.CurrentAmount += net
	if err := t.setJSON(campaignKey(p.CampaignID), &c); err != nil {
		return ID{}, err
	}
	if err := t.setJSON(donationKey(id), &d); err != nil {
		return ID{}, err
	}
	if err := t.appendIndex(campaignDonationsKey(p.CampaignID), id); err != nil {
		return ID{}, err
	}
	err = t.mutateStats(func(s *PlatformStats) {
		s.TotalDonations++
		s.TotalRaised += net
	})
	if err != nil {
		return ID{}, err
	}
	if err := t.recordDonation(p.Donor, net, now); err != nil {
		return ID{}, err
	}
	if p.MintNFT {
		if _, err := t.mintDonationNFT(p.Donor, p.CampaignID, id, net, now); err != nil {
			return ID{}, err
		}
	}

	proof.SafeRecord(e.proof, proof.Constraint{
		Op:   "donate",
		Name: "fee_split",
		Vals: []uint64{p.Amount, fee, net},
	})
	proof.SafeRecord(e.proof, proof.Constraint{
		Op:   "donate",
		Name: "campaign_credit",
		Vals: []uint64{before, net, c.CurrentAmount},
	})

	attrs := map[string]string{
		"donationId": id.String(),
		"campaignId": p.CampaignID.String(),
		"amount":     strconv.FormatUint(net, 10),
	}
	// Anonymous donations keep the donor out of the event stream; the stored
	// record still carries it for the donor's own lookups.
	if !p.Anonymous {
		attrs["donor"] = string(p.Donor)
	}
	t.publish(events.DonationMade, attrs)

	if err := t.commit(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// GetDonation returns the donation, or nil when no such id exists.
func (e *Engine) GetDonation(ctx context.Context, id ID) (*Donation, error) {
	var d Donation
	ok, err := getJSON(ctx, e.store, donationKey(id), &d)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// GetDonationsByCampaign lists the ids of every donation made to the
// campaign, oldest first.
func (e *Engine) GetDonationsByCampaign(ctx context.Context, id ID) ([]ID, error) {
	var ids []ID
	if _, err := getJSON(ctx, e.store, campaignDonationsKey(id), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
