package ledger

import (
	"encoding/hex"
	"fmt"
)

// ID is a 32-byte derived identifier. It serializes as lowercase hex.
type ID [32]byte

func (id ID) String() string { return hex.EncodeToString(id[:]) }

func (id ID) Bytes() []byte { return id[:] }

func (id ID) IsZero() bool { return id == ID{} }

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID decodes the 64-char hex form of an ID.
func ParseID(s string) (ID, error) {
	var id ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("invalid id %q: got %d bytes, want %d", s, len(b), len(id))
	}
	copy(id[:], b)
	return id, nil
}

// Address identifies a principal (donor, beneficiary, recipient, admin).
// The engine treats it as an opaque string; hosts decide the address format.
type Address string

func (a Address) String() string { return string(a) }

type Campaign struct {
	ID            ID      `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Beneficiary   Address `json:"beneficiary"`
	GoalAmount    uint64  `json:"goalAmount"`
	CurrentAmount uint64  `json:"currentAmount"`
	StartTime     uint64  `json:"startTime"`
	EndTime       uint64  `json:"endTime"`
	Verified      bool    `json:"verified"`
	TrustScore    uint32  `json:"trustScore"`
	Category      string  `json:"category"`
	Location      string  `json:"location"`
	Active        bool    `json:"active"`
}

// Donation records a processed donation. Amount is the net credited to the
// campaign, after the platform fee was taken off the gross.
type Donation struct {
	ID         ID      `json:"id"`
	CampaignID ID      `json:"campaignId"`
	Donor      Address `json:"donor"`
	Amount     uint64  `json:"amount"`
	Timestamp  uint64  `json:"timestamp"`
	NFTMinted  bool    `json:"nftMinted"`
	Anonymous  bool    `json:"anonymous"`
}

type TrustScore struct {
	Entity            Address `json:"entity"`
	Score             uint32  `json:"score"`
	VerificationLevel uint32  `json:"verificationLevel"`
	DonationCount     uint32  `json:"donationCount"`
	TotalDonated      uint64  `json:"totalDonated"`
	CampaignsCreated  uint32  `json:"campaignsCreated"`
	LastUpdated       uint64  `json:"lastUpdated"`
}

type NFTBadge struct {
	ID          ID      `json:"id"`
	Owner       Address `json:"owner"`
	BadgeType   string  `json:"badgeType"`
	CampaignID  *ID     `json:"campaignId,omitempty"`
	MintedAt    uint64  `json:"mintedAt"`
	MetadataURI string  `json:"metadataUri"`
}

type DisbursementStatus string

const (
	DisbursementPending  DisbursementStatus = "pending"
	DisbursementApproved DisbursementStatus = "approved"
	DisbursementExecuted DisbursementStatus = "executed"
	DisbursementRejected DisbursementStatus = "rejected"
)

type Disbursement struct {
	ID         ID                 `json:"id"`
	CampaignID ID                 `json:"campaignId"`
	Recipient  Address            `json:"recipient"`
	Amount     uint64             `json:"amount"`
	Milestone  string             `json:"milestone"`
	Status     DisbursementStatus `json:"status"`
	CreatedAt  uint64             `json:"createdAt"`
	ExecutedAt *uint64            `json:"executedAt,omitempty"`
}

// PlatformStats are running aggregates, maintained by every mutating
// operation. They are derived values: the entity records stay the source of
// truth.
type PlatformStats struct {
	TotalCampaigns  uint64 `json:"totalCampaigns"`
	TotalDonations  uint64 `json:"totalDonations"`
	TotalRaised     uint64 `json:"totalRaised"`
	TotalNFTs       uint64 `json:"totalNfts"`
	ActiveCampaigns uint64 `json:"activeCampaigns"`
}

type CreateCampaignParams struct {
	Beneficiary  Address
	Title        string
	Description  string
	GoalAmount   uint64
	DurationDays uint64
	Category     string
	Location     string
}

type DonateParams struct {
	CampaignID ID
	Donor      Address
	Amount     uint64
	Anonymous  bool
	MintNFT    bool
}

type CreateDisbursementParams struct {
	CampaignID ID
	Recipient  Address
	Amount     uint64
	Milestone  string
}
