package store

import (
	"bytes"
	"context"
	"testing"
)

func TestMemory_GetAbsent(t *testing.T) {
	m := NewMemory()
	v, ok, err := m.Get(context.Background(), Key{Kind: KindCampaign, Ref: []byte{0x01}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || v != nil {
		t.Fatalf("absent key returned ok=%v v=%v", ok, v)
	}
}

func TestMemory_SetThenGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	k := Key{Kind: KindAdmin}
	if err := m.Set(ctx, k, []byte("alice")); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := m.Get(ctx, k)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || !bytes.Equal(v, []byte("alice")) {
		t.Fatalf("get returned ok=%v v=%q", ok, v)
	}
	has, err := m.Has(ctx, k)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !has {
		t.Fatalf("has = false after set")
	}
}

func TestMemory_ApplyIsVisibleAfterwards(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	puts := []Put{
		{Key: Key{Kind: KindCampaign, Ref: []byte{0x01}}, Value: []byte("one")},
		{Key: Key{Kind: KindDonation, Ref: []byte{0x02}}, Value: []byte("two")},
		{Key: Key{Kind: KindStats}, Value: []byte("three")},
	}
	if err := m.Apply(ctx, puts); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("len = %d, want 3", m.Len())
	}
	for _, p := range puts {
		v, ok, err := m.Get(ctx, p.Key)
		if err != nil || !ok {
			t.Fatalf("get %s: ok=%v err=%v", p.Key, ok, err)
		}
		if !bytes.Equal(v, p.Value) {
			t.Fatalf("get %s = %q, want %q", p.Key, v, p.Value)
		}
	}
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	k := Key{Kind: KindPlatformFee}
	in := []byte{0x01, 0x02}
	if err := m.Set(ctx, k, in); err != nil {
		t.Fatalf("set: %v", err)
	}
	in[0] = 0xff

	out, _, err := m.Get(ctx, k)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out[0] != 0x01 {
		t.Fatalf("stored value aliased caller slice: %x", out)
	}
	out[1] = 0xee
	again, _, err := m.Get(ctx, k)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again[1] != 0x02 {
		t.Fatalf("returned value aliased store internals: %x", again)
	}
}
