package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpati/storefront/internal/profile"
	"github.com/warungpati/storefront/internal/redisx"
)

func TestReadCartMissingKey(t *testing.T) {
	s := New(NewMemKV())
	assert.Empty(t, s.ReadCart(context.Background(), "sid-1"))
}

func TestReadCartCorruptRecord(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{nope"},
		{"wrong shape", `{"id":"p-1"}`},
		{"number", "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kv := NewMemKV()
			require.NoError(t, kv.Set(ctx, fmt.Sprintf(redisx.KeySessionCart, "sid-1"), tc.raw, 0))
			assert.Empty(t, New(kv).ReadCart(ctx, "sid-1"))
		})
	}
}

func TestReadCartSanitizesEntries(t *testing.T) {
	ctx := context.Background()
	kv := NewMemKV()
	raw := `[
		{"id":"p-0","name":"Beras 5kg","price":68000,"qty":2,"img":"x.jpg"},
		{"id":"","name":"no id","price":100,"qty":1},
		{"id":"p-2","name":"","price":100,"qty":1},
		{"id":"p-3","name":"zero qty","price":100,"qty":0},
		{"id":"p-4","name":"neg price","price":-5,"qty":3}
	]`
	require.NoError(t, kv.Set(ctx, fmt.Sprintf(redisx.KeySessionCart, "sid-1"), raw, 0))

	items := New(kv).ReadCart(ctx, "sid-1")
	require.Len(t, items, 2)
	assert.Equal(t, CartItem{ID: "p-0", Name: "Beras 5kg", Price: 68000, Qty: 2, Img: "x.jpg"}, items[0])
	assert.Equal(t, 0, items[1].Price, "negative price clamped")
}

func TestCartRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemKV())
	in := []CartItem{{ID: "p-1", Name: "Gula", Price: 15000, Qty: 3}}
	require.NoError(t, s.WriteCart(ctx, "sid-9", in))
	assert.Equal(t, in, s.ReadCart(ctx, "sid-9"))

	// nil cart writes an empty array, not null
	require.NoError(t, s.WriteCart(ctx, "sid-9", nil))
	assert.Empty(t, s.ReadCart(ctx, "sid-9"))
}

func TestProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemKV())

	_, ok := s.ReadProfile(ctx, "sid-1")
	assert.False(t, ok)

	p := profile.Profile{Nama: "Budi", Alamat: "Margorejo", NomorWa: "081234567890"}
	require.NoError(t, s.WriteProfile(ctx, "sid-1", p))
	got, ok := s.ReadProfile(ctx, "sid-1")
	require.True(t, ok)
	assert.Equal(t, p, got)

	require.NoError(t, s.DeleteProfile(ctx, "sid-1"))
	_, ok = s.ReadProfile(ctx, "sid-1")
	assert.False(t, ok)
}

func TestReadProfileCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemKV()
	require.NoError(t, kv.Set(ctx, fmt.Sprintf(redisx.KeySessionUser, "sid-1"), "not-json", 0))
	_, ok := New(kv).ReadProfile(ctx, "sid-1")
	assert.False(t, ok)
}
