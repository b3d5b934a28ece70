package ledger

import (
	"context"

	"github.com/savia-platform/savia-ledger/src/shared/events"
	"github.com/savia-platform/savia-ledger/src/shared/proof"
	"github.com/savia-platform/savia-ledger/src/shared/store"
)

// NFTMetadataURI is the fixed metadata location stamped on every badge.
const NFTMetadataURI = "https://savia.org/nft/metadata"

// BadgeTypeFor assigns the reward tier for a net donation amount.
func BadgeTypeFor(amount uint64) string {
	switch {
	case amount < 1000:
		return "Bronze Supporter"
	case amount < 5000:
		return "Silver Supporter"
	case amount < 10000:
		return "Gold Supporter"
	case amount < 50000:
		return "Platinum Supporter"
	default:
		return "Diamond Supporter"
	}
}

// mintDonationNFT issues a badge for a donation's net amount. The id is
// derived as hash(owner || campaignId || donationId || be64(net) ||
// be64(counter)).
func (t *txn) mintDonationNFT(owner Address, campaignID, donationID ID, amount uint64, now uint64) (ID, error) {
	counter, err := t.nextCounter(store.KindNFTCounter)
	if err != nil {
		return ID{}, err
	}
	id := deriveID(t.e.hash,
		[]byte(owner),
		campaignID.Bytes(),
		donationID.Bytes(),
		be64(amount),
		be64(counter),
	)

	campaign := campaignID
	badge := NFTBadge{
		ID:          id,
		Owner:       owner,
		BadgeType:   BadgeTypeFor(amount),
		CampaignID:  &campaign,
		MintedAt:    now,
		MetadataURI: NFTMetadataURI,
	}
	if err := t.setJSON(nftKey(id), &badge); err != nil {
		return ID{}, err
	}
	err = t.mutateStats(func(s *PlatformStats) {
		s.TotalNFTs++
	})
	if err != nil {
		return ID{}, err
	}

	proof.SafeRecord(t.e.proof, proof.Constraint{
		Op:   "nft.mint",
		Name: "tier_threshold",
		Vals: []uint64{amount},
	})

	t.publish(events.NFTMinted, map[string]string{
		"nftId":      id.String(),
		"owner":      string(owner),
		"campaignId": campaignID.String(),
	})
	return id, nil
}

// GetNFT returns the badge, or nil when no such id exists.
func (e *Engine) GetNFT(ctx context.Context, id ID) (*NFTBadge, error) {
	var badge NFTBadge
	ok, err := getJSON(ctx, e.store, nftKey(id), &badge)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &badge, nil
}
