// Package cart merges add/update/delete requests into the persisted
// session cart and runs checkout against the order webhook.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/warungpati/storefront/internal/catalog"
	"github.com/warungpati/storefront/internal/events"
	"github.com/warungpati/storefront/internal/kafkax"
	"github.com/warungpati/storefront/internal/logx"
	"github.com/warungpati/storefront/internal/notify"
	"github.com/warungpati/storefront/internal/profile"
	"github.com/warungpati/storefront/internal/store"
	"github.com/warungpati/storefront/internal/webhook"
)

var (
	ErrOutOfStock       = errors.New("stok habis")
	ErrItemNotFound     = errors.New("item tidak ada di keranjang")
	ErrNoPendingConfirm = errors.New("tidak ada konfirmasi hapus untuk item ini")
	ErrEmptyCart        = errors.New("keranjang kosong")
	ErrProfileRequired  = errors.New("profil belum lengkap")
	ErrSubmitFailed     = errors.New("gagal mengirim pesanan")
)

type SessionStore interface {
	ReadCart(ctx context.Context, sid string) []store.CartItem
	WriteCart(ctx context.Context, sid string, items []store.CartItem) error
	ReadProfile(ctx context.Context, sid string) (profile.Profile, bool)
}

type Notifier interface {
	Push(sid, text string, opts notify.Options) string
}

type Submitter interface {
	Submit(ctx context.Context, url string, embeds []webhook.Embed) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Reconciler struct {
	Store           SessionStore
	Toasts          Notifier
	Webhook         Submitter
	OrderWebhookURL string
	Producer        Publisher // optional; nil skips the checkout event
	Service         string

	mu sync.Mutex
	// Idle | ConfirmingDeletionOf(id), one pending id per session
	confirming map[string]string
}

const toastShort = 1800 * time.Millisecond

// Add upserts by product id: an existing line accumulates quantity, a
// new product appends a snapshot line. Out-of-stock products are
// rejected with a warning and no write.
func (r *Reconciler) Add(ctx context.Context, sid string, p catalog.Product, qty int) error {
	if p.Stock <= 0 {
		r.Toasts.Push(sid, "Stok habis", notify.Options{Variant: notify.VariantWarning, Duration: toastShort})
		return ErrOutOfStock
	}
	if qty < 1 {
		qty = 1
	}

	items := r.Store.ReadCart(ctx, sid)
	found := false
	for i := range items {
		if items[i].ID == p.ID {
			items[i].Qty += qty
			found = true
			break
		}
	}
	if !found {
		items = append(items, store.CartItem{ID: p.ID, Name: p.Name, Price: p.Price, Qty: qty, Img: p.Img})
	}

	if err := r.Store.WriteCart(ctx, sid, items); err != nil {
		logx.Error().Err(err).Str("session", sid).Msg("write cart")
		return err
	}
	r.Toasts.Push(sid, fmt.Sprintf("%s x%d ditambahkan", p.Name, qty), notify.Options{Variant: notify.VariantSuccess, Duration: toastShort})
	return nil
}

// UpdateQuantity clamps to >= 1 and persists.
func (r *Reconciler) UpdateQuantity(ctx context.Context, sid, id string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	items := r.Store.ReadCart(ctx, sid)
	found := false
	for i := range items {
		if items[i].ID == id {
			items[i].Qty = qty
			found = true
			break
		}
	}
	if !found {
		return ErrItemNotFound
	}
	if err := r.Store.WriteCart(ctx, sid, items); err != nil {
		logx.Error().Err(err).Str("session", sid).Msg("write cart")
		return err
	}
	r.Toasts.Push(sid, "Item diperbarui", notify.Options{Variant: notify.VariantSuccess, Duration: toastShort})
	return nil
}

// RequestDelete puts the item into the confirming state. A second
// request for another item replaces the first; only one item per
// session can wait for confirmation.
func (r *Reconciler) RequestDelete(sid, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.confirming == nil {
		r.confirming = map[string]string{}
	}
	r.confirming[sid] = id
}

// CancelDelete returns the session to the idle state if id matches the
// pending confirmation.
func (r *Reconciler) CancelDelete(sid, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.confirming[sid] == id {
		delete(r.confirming, sid)
	}
}

// PendingDelete reports which item, if any, awaits confirmation.
func (r *Reconciler) PendingDelete(sid string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.confirming[sid]
	return id, ok
}

// ConfirmDelete removes the item only when it matches the pending
// confirmation; without a prior RequestDelete nothing is deleted.
func (r *Reconciler) ConfirmDelete(ctx context.Context, sid, id string) error {
	r.mu.Lock()
	if r.confirming[sid] != id {
		r.mu.Unlock()
		return ErrNoPendingConfirm
	}
	delete(r.confirming, sid)
	r.mu.Unlock()

	items := r.Store.ReadCart(ctx, sid)
	kept := make([]store.CartItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if err := r.Store.WriteCart(ctx, sid, kept); err != nil {
		logx.Error().Err(err).Str("session", sid).Msg("write cart")
		return err
	}
	r.Toasts.Push(sid, "Item dihapus", notify.Options{Variant: notify.VariantSuccess, Duration: toastShort})
	return nil
}

// Total sums price*qty in whole rupiah.
func Total(items []store.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Price * it.Qty
	}
	return total
}

// Checkout serializes the cart and the saved profile into the order
// embed and posts it. Only a successful submit clears the cart (and
// the pending-delete state); every failure leaves storage untouched.
func (r *Reconciler) Checkout(ctx context.Context, sid string) (string, error) {
	items := r.Store.ReadCart(ctx, sid)
	if len(items) == 0 {
		r.Toasts.Push(sid, "Keranjang kosong.", notify.Options{Variant: notify.VariantWarning, Duration: toastShort})
		return "", ErrEmptyCart
	}

	p, ok := r.Store.ReadProfile(ctx, sid)
	if !ok || !p.Complete() {
		r.Toasts.Push(sid, "Isi data diri dahulu", notify.Options{Variant: notify.VariantError, Duration: toastShort})
		return "", ErrProfileRequired
	}

	total := Total(items)
	embed := webhook.OrderEmbed(items, total, p)
	if err := r.Webhook.Submit(ctx, r.OrderWebhookURL, []webhook.Embed{embed}); err != nil {
		logx.Error().Err(err).Str("session", sid).Msg("order webhook")
		r.Toasts.Push(sid, "Gagal mengirim pesanan.", notify.Options{Variant: notify.VariantError, Duration: 2200 * time.Millisecond})
		return "", fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	orderID := uuid.NewString()
	if err := r.Store.WriteCart(ctx, sid, nil); err != nil {
		// pesanan sudah terkirim; cart yang gagal dibersihkan cuma dilog
		logx.Error().Err(err).Str("session", sid).Msg("clear cart after checkout")
	}
	r.mu.Lock()
	delete(r.confirming, sid)
	r.mu.Unlock()

	r.publishCheckout(sid, orderID, items, total, p)
	r.Toasts.Push(sid, "Checkout sukses — pesanan dikirim ke admin.", notify.Options{Variant: notify.VariantSuccess, Duration: 2200 * time.Millisecond})
	return orderID, nil
}

func (r *Reconciler) publishCheckout(sid, orderID string, items []store.CartItem, total int, p profile.Profile) {
	if r.Producer == nil {
		return
	}
	evItems := make([]events.OrderItem, 0, len(items))
	for _, it := range items {
		evItems = append(evItems, events.OrderItem{ProductID: it.ID, Name: it.Name, Qty: it.Qty, Price: it.Price})
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventCheckoutSubmitted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      r.Service,
		CorrelationID: orderID,
	}
	ev.Payload = kafkax.MustMarshal(events.CheckoutSubmittedPayload{
		OrderID:   orderID,
		SessionID: sid,
		Items:     evItems,
		Total:     total,
		Customer: events.Customer{
			Nama:        p.Nama,
			NomorWa:     p.NomorWa,
			Alamat:      p.Alamat,
			DetailRumah: p.DetailRumah,
		},
	})
	r.Producer.Publish(events.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventCheckoutSubmitted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
