// Package store defines the persistent key-value contract the ledger engine
// writes through, plus the interchangeable backends (memory, mysql, postgres,
// redis, dynamodb).
//
// Keys form a discriminated union: one Kind per entity family plus the
// singleton platform values. The encoded form is twox128(kind) followed by the
// raw reference bytes, hex encoded, so every backend sees the same opaque,
// fixed-prefix key space.
package store

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/OneOfOne/xxhash"
)

// Kind discriminates the key space.
type Kind string

const (
	KindCampaign     Kind = "campaign"
	KindDonation     Kind = "donation"
	KindTrustScore   Kind = "trust_score"
	KindNFTBadge     Kind = "nft_badge"
	KindDisbursement Kind = "disbursement"

	KindPlatformFee Kind = "platform_fee"
	KindAdmin       Kind = "admin"
	KindStats       Kind = "stats"

	KindCampaignCounter     Kind = "campaign_counter"
	KindDonationCounter     Kind = "donation_counter"
	KindNFTCounter          Kind = "nft_counter"
	KindDisbursementCounter Kind = "disbursement_counter"

	KindCampaignsByBeneficiary Kind = "campaigns_by_beneficiary"
	KindDonationsByCampaign    Kind = "donations_by_campaign"
)

var kinds = []Kind{
	KindCampaign, KindDonation, KindTrustScore, KindNFTBadge, KindDisbursement,
	KindPlatformFee, KindAdmin, KindStats,
	KindCampaignCounter, KindDonationCounter, KindNFTCounter, KindDisbursementCounter,
	KindCampaignsByBeneficiary, KindDonationsByCampaign,
}

var kindPrefixes = func() map[Kind]string {
	m := make(map[Kind]string, len(kinds))
	for _, k := range kinds {
		m[k] = hex.EncodeToString(twox128([]byte(k)))
	}
	return m
}()

// twox128 is two seeded xxhash64 passes, little-endian concatenated.
func twox128(data []byte) []byte {
	h0 := xxhash.NewS64(0)
	h0.Write(data)
	h1 := xxhash.NewS64(1)
	h1.Write(data)
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[0:], h0.Sum64())
	binary.LittleEndian.PutUint64(out[8:], h1.Sum64())
	return out
}

// Key addresses one record. Ref carries the entity id or address bytes and is
// empty for singleton values (counters, fee, admin, stats).
type Key struct {
	Kind Kind
	Ref  []byte
}

// Encode returns the canonical backend key: a 32-hex-char namespace prefix
// followed by the hex of Ref. Identical keys always encode identically.
func (k Key) Encode() string {
	p, ok := kindPrefixes[k.Kind]
	if !ok {
		// Unregistered kinds still get a stable prefix.
		p = hex.EncodeToString(twox128([]byte(k.Kind)))
	}
	if len(k.Ref) == 0 {
		return p
	}
	return p + hex.EncodeToString(k.Ref)
}

// String is the readable form used in logs and errors.
func (k Key) String() string {
	if len(k.Ref) == 0 {
		return string(k.Kind)
	}
	return fmt.Sprintf("%s:%s", k.Kind, hex.EncodeToString(k.Ref))
}

// Put is one pending write.
type Put struct {
	Key   Key
	Value []byte
}

// Store is the persistence contract. Get and Has are point reads; Set writes
// one record; Apply commits a batch atomically: either every Put in the slice
// becomes visible or none does. A batch never repeats a key (the engine's
// write buffer coalesces repeated writes before committing); backends may
// reject batches that do. The engine issues exactly one Apply per state
// transition.
type Store interface {
	Get(ctx context.Context, k Key) ([]byte, bool, error)
	Has(ctx context.Context, k Key) (bool, error)
	Set(ctx context.Context, k Key, v []byte) error
	Apply(ctx context.Context, puts []Put) error
}
