// Package store holds the per-session records the mobile app used to
// keep in localStorage: the cart and the customer profile. Reads are
// defensive, corrupt or oddly shaped records fall back to the empty
// value instead of surfacing an error.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/warungpati/storefront/internal/logx"
	"github.com/warungpati/storefront/internal/profile"
	"github.com/warungpati/storefront/internal/redisx"
)

// CartItem snapshots name/price at add time so a later feed change
// does not rewrite existing cart lines.
type CartItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Qty   int    `json:"qty"`
	Img   string `json:"img"`
}

type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// ReadCart tolerates missing keys, malformed JSON, and junk entries.
// Sanitization mirrors the old client: drop entries without id/name or
// with qty <= 0, clamp negative prices to 0.
func (s *Store) ReadCart(ctx context.Context, sid string) []CartItem {
	raw, err := s.kv.Get(ctx, fmt.Sprintf(redisx.KeySessionCart, sid))
	if err != nil {
		logx.Warn().Err(err).Str("session", sid).Msg("read cart")
		return nil
	}
	if raw == "" {
		return nil
	}
	var parsed []CartItem
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logx.Warn().Str("session", sid).Msg("cart record corrupt, starting empty")
		return nil
	}
	out := make([]CartItem, 0, len(parsed))
	for _, it := range parsed {
		if it.ID == "" || it.Name == "" || it.Qty <= 0 {
			continue
		}
		if it.Price < 0 {
			it.Price = 0
		}
		out = append(out, it)
	}
	return out
}

func (s *Store) WriteCart(ctx context.Context, sid string, items []CartItem) error {
	if items == nil {
		items = []CartItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, fmt.Sprintf(redisx.KeySessionCart, sid), string(b), redisx.TTLSessionRecord)
}

// ReadProfile returns ok=false when the record is missing or corrupt.
func (s *Store) ReadProfile(ctx context.Context, sid string) (profile.Profile, bool) {
	raw, err := s.kv.Get(ctx, fmt.Sprintf(redisx.KeySessionUser, sid))
	if err != nil {
		logx.Warn().Err(err).Str("session", sid).Msg("read profile")
		return profile.Profile{}, false
	}
	if raw == "" {
		return profile.Profile{}, false
	}
	var p profile.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		logx.Warn().Str("session", sid).Msg("profile record corrupt")
		return profile.Profile{}, false
	}
	return p, true
}

func (s *Store) WriteProfile(ctx context.Context, sid string, p profile.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, fmt.Sprintf(redisx.KeySessionUser, sid), string(b), redisx.TTLSessionRecord)
}

func (s *Store) DeleteProfile(ctx context.Context, sid string) error {
	return s.kv.Del(ctx, fmt.Sprintf(redisx.KeySessionUser, sid))
}
