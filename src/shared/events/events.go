// Package events carries ledger state-transition notifications to off-engine
// consumers. Publishing is fire-and-forget: a transition that committed is
// never unwound because a publisher failed, so Publish returns nothing and
// implementations deal with their own errors.
package events

import "context"

// Event names, one per mutating engine operation.
const (
	CampaignCreated      = "campaign.created"
	CampaignVerified     = "campaign.verified"
	CampaignClosed       = "campaign.closed"
	DonationMade         = "donation.made"
	NFTMinted            = "nft.minted"
	DisbursementCreated  = "disbursement.created"
	DisbursementApproved = "disbursement.approved"
	DisbursementExecuted = "disbursement.executed"
	DisbursementRejected = "disbursement.rejected"
)

// Event is one published notification. Attrs hold the operation's salient
// fields as strings (ids hex encoded, amounts decimal).
type Event struct {
	Name  string
	Attrs map[string]string
}

// Publisher delivers events somewhere. Implementations must not panic and
// must not block indefinitely.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
