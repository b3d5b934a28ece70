package store

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestKeyEncode_Deterministic(t *testing.T) {
	k1 := Key{Kind: KindCampaign, Ref: []byte{0xde, 0xad, 0xbe, 0xef}}
	k2 := Key{Kind: KindCampaign, Ref: []byte{0xde, 0xad, 0xbe, 0xef}}
	if k1.Encode() != k2.Encode() {
		t.Fatalf("equal keys encode differently: %q != %q", k1.Encode(), k2.Encode())
	}
}

func TestKeyEncode_KindsHaveDistinctPrefixes(t *testing.T) {
	seen := make(map[string]Kind)
	for _, kind := range kinds {
		prefix := Key{Kind: kind}.Encode()
		if len(prefix) != 32 {
			t.Fatalf("kind %s: prefix length %d, want 32 hex chars", kind, len(prefix))
		}
		if prior, ok := seen[prefix]; ok {
			t.Fatalf("kinds %s and %s share prefix %s", prior, kind, prefix)
		}
		seen[prefix] = kind
	}
}

func TestKeyEncode_RefAppendsAfterPrefix(t *testing.T) {
	ref := []byte{0x01, 0x02, 0xff}
	bare := Key{Kind: KindDonation}.Encode()
	full := Key{Kind: KindDonation, Ref: ref}.Encode()
	if !strings.HasPrefix(full, bare) {
		t.Fatalf("keyed encode %q does not extend bare prefix %q", full, bare)
	}
	if got, want := strings.TrimPrefix(full, bare), hex.EncodeToString(ref); got != want {
		t.Fatalf("ref suffix = %q, want %q", got, want)
	}
}

func TestKeyEncode_DistinctRefsDistinctKeys(t *testing.T) {
	a := Key{Kind: KindNFTBadge, Ref: []byte{0x01}}.Encode()
	b := Key{Kind: KindNFTBadge, Ref: []byte{0x02}}.Encode()
	if a == b {
		t.Fatalf("distinct refs encoded to same key %q", a)
	}
}

func TestKeyEncode_SameRefDifferentKindDiffers(t *testing.T) {
	ref := []byte{0xaa, 0xbb}
	a := Key{Kind: KindCampaign, Ref: ref}.Encode()
	b := Key{Kind: KindDonation, Ref: ref}.Encode()
	if a == b {
		t.Fatalf("campaign and donation keys collide for ref %x", ref)
	}
}

func TestKeyString_ReadableForms(t *testing.T) {
	if got := (Key{Kind: KindStats}).String(); got != "stats" {
		t.Fatalf("singleton String() = %q, want %q", got, "stats")
	}
	k := Key{Kind: KindCampaign, Ref: []byte{0xab}}
	if got, want := k.String(), "campaign:ab"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestTwox128_KnownShape(t *testing.T) {
	out := twox128([]byte("campaign"))
	if len(out) != 16 {
		t.Fatalf("twox128 length = %d, want 16", len(out))
	}
	again := twox128([]byte("campaign"))
	if hex.EncodeToString(out) != hex.EncodeToString(again) {
		t.Fatalf("twox128 not stable across calls")
	}
	other := twox128([]byte("donation"))
	if hex.EncodeToString(out) == hex.EncodeToString(other) {
		t.Fatalf("twox128 identical for different inputs")
	}
}
