package ledger

import "github.com/savia-platform/savia-ledger/src/shared/store"

func campaignKey(id ID) store.Key {
	return store.Key{Kind: store.KindCampaign, Ref: id.Bytes()}
}

func donationKey(id ID) store.Key {
	return store.Key{Kind: store.KindDonation, Ref: id.Bytes()}
}

func trustScoreKey(entity Address) store.Key {
	return store.Key{Kind: store.KindTrustScore, Ref: []byte(entity)}
}

func nftKey(id ID) store.Key {
	return store.Key{Kind: store.KindNFTBadge, Ref: id.Bytes()}
}

func disbursementKey(id ID) store.Key {
	return store.Key{Kind: store.KindDisbursement, Ref: id.Bytes()}
}

func beneficiaryCampaignsKey(entity Address) store.Key {
	return store.Key{Kind: store.KindCampaignsByBeneficiary, Ref: []byte(entity)}
}

func campaignDonationsKey(id ID) store.Key {
	return store.Key{Kind: store.KindDonationsByCampaign, Ref: id.Bytes()}
}
