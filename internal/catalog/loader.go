// Package catalog loads the product list from the published sheet
// feed: tab-separated text, first line header, one product per row.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/warungpati/storefront/internal/logx"
	"github.com/warungpati/storefront/internal/redisx"
	"github.com/warungpati/storefront/internal/store"
)

// FallbackCategory labels rows with a blank category column.
const FallbackCategory = "Lainnya"

// Product JSON tags match the shape the mobile app renders.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"nama"`
	Price    int    `json:"harga"`
	Img      string `json:"img"`
	Category string `json:"kategori"`
	Stock    int    `json:"stock"`
}

type Loader struct {
	FeedURL string
	Client  *http.Client
	Cache   store.KV // optional snapshot cache
}

func NewLoader(feedURL string, cache store.KV) *Loader {
	return &Loader{
		FeedURL: feedURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Cache:   cache,
	}
}

// Load returns the current catalog, serving the Redis snapshot when
// fresh. Fails soft: any fetch or parse problem logs a diagnostic and
// yields an empty catalog instead of breaking the page.
func (l *Loader) Load(ctx context.Context) []Product {
	if ps, ok := l.cached(ctx); ok {
		return ps
	}

	ps, err := l.fetch(ctx)
	if err != nil {
		logx.Error().Err(err).Str("feed", l.FeedURL).Msg("gagal load data produk")
		return []Product{}
	}
	l.snapshot(ctx, ps)
	return ps
}

func (l *Loader) fetch(ctx context.Context) ([]Product, error) {
	if l.FeedURL == "" {
		return nil, fmt.Errorf("feed url kosong")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.FeedURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("feed: status %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return Parse(string(body)), nil
}

// Parse splits the feed into products. Columns: name, price, img,
// category, stock. Price/stock coerce to 0 when non-numeric; blank
// category falls back to FallbackCategory. IDs are positional
// (p-{index}), so identity is only stable while row order is.
func Parse(text string) []Product {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return []Product{}
	}
	rows := lines[1:] // skip header

	out := make([]Product, 0, len(rows))
	for idx, row := range rows {
		cols := strings.Split(row, "\t")
		for len(cols) < 5 {
			cols = append(cols, "")
		}
		category := strings.TrimSpace(cols[3])
		if category == "" {
			category = FallbackCategory
		}
		out = append(out, Product{
			ID:    fmt.Sprintf("p-%d", idx),
			Name:  strings.TrimSpace(cols[0]),
			Price: atoiOrZero(cols[1]),
			// the sheet occasionally exports "https: //" with a space
			Img:      strings.TrimSpace(strings.ReplaceAll(cols[2], "https: //", "https://")),
			Category: category,
			Stock:    atoiOrZero(cols[4]),
		})
	}
	return out
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func (l *Loader) cached(ctx context.Context) ([]Product, bool) {
	if l.Cache == nil {
		return nil, false
	}
	raw, err := l.Cache.Get(ctx, redisx.KeyCatalogSnapshot)
	if err != nil || raw == "" {
		return nil, false
	}
	var ps []Product
	if err := json.Unmarshal([]byte(raw), &ps); err != nil {
		// corrupt snapshot falls through to a live fetch
		logx.Warn().Msg("catalog snapshot corrupt")
		return nil, false
	}
	return ps, true
}

func (l *Loader) snapshot(ctx context.Context, ps []Product) {
	if l.Cache == nil || len(ps) == 0 {
		return
	}
	b, err := json.Marshal(ps)
	if err != nil {
		return
	}
	if err := l.Cache.Set(ctx, redisx.KeyCatalogSnapshot, string(b), redisx.TTLCatalogSnapshot); err != nil {
		logx.Warn().Err(err).Msg("catalog snapshot write")
	}
}
