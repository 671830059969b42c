package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpati/storefront/internal/catalog"
	"github.com/warungpati/storefront/internal/events"
	"github.com/warungpati/storefront/internal/notify"
	"github.com/warungpati/storefront/internal/profile"
	"github.com/warungpati/storefront/internal/store"
	"github.com/warungpati/storefront/internal/webhook"
)

const sid = "sid-1"

type recordingNotifier struct {
	texts    []string
	variants []notify.Variant
}

func (n *recordingNotifier) Push(_ string, text string, opts notify.Options) string {
	n.texts = append(n.texts, text)
	n.variants = append(n.variants, opts.Variant)
	return "toast-id"
}

type fakeSubmitter struct {
	calls  int
	err    error
	embeds []webhook.Embed
}

func (s *fakeSubmitter) Submit(_ context.Context, _ string, embeds []webhook.Embed) error {
	s.calls++
	s.embeds = embeds
	return s.err
}

type fakePublisher struct {
	keys   [][]byte
	values [][]byte
}

func (p *fakePublisher) Publish(key, value []byte, _ ...kafkago.Header) {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
}

func newReconciler() (*Reconciler, *store.Store, *recordingNotifier, *fakeSubmitter, *fakePublisher) {
	st := store.New(store.NewMemKV())
	n := &recordingNotifier{}
	sub := &fakeSubmitter{}
	pub := &fakePublisher{}
	r := &Reconciler{
		Store:           st,
		Toasts:          n,
		Webhook:         sub,
		OrderWebhookURL: "http://hook",
		Producer:        pub,
		Service:         "storefront-api-test",
	}
	return r, st, n, sub, pub
}

func product(id string, stock int) catalog.Product {
	return catalog.Product{ID: id, Name: "Beras 5kg", Price: 68000, Img: "beras.jpg", Category: "Sembako", Stock: stock}
}

func TestAddAccumulatesQuantity(t *testing.T) {
	r, st, n, _, _ := newReconciler()
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, sid, product("p-0", 10), 2))
	require.NoError(t, r.Add(ctx, sid, product("p-0", 10), 3))

	items := st.ReadCart(ctx, sid)
	require.Len(t, items, 1, "same product upserts, never duplicates")
	assert.Equal(t, 5, items[0].Qty)
	assert.Equal(t, 68000, items[0].Price, "price snapshotted")
	assert.Contains(t, n.texts[0], "ditambahkan")
}

func TestAddOutOfStock(t *testing.T) {
	r, st, n, _, _ := newReconciler()
	ctx := context.Background()

	err := r.Add(ctx, sid, product("p-0", 0), 1)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, st.ReadCart(ctx, sid), "no write on out of stock")
	require.Len(t, n.texts, 1)
	assert.Equal(t, "Stok habis", n.texts[0])
	assert.Equal(t, notify.VariantWarning, n.variants[0])
}

func TestAddClampsQty(t *testing.T) {
	r, st, _, _, _ := newReconciler()
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 0))
	assert.Equal(t, 1, st.ReadCart(ctx, sid)[0].Qty)
}

func TestUpdateQuantity(t *testing.T) {
	r, st, n, _, _ := newReconciler()
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 2))

	require.NoError(t, r.UpdateQuantity(ctx, sid, "p-0", 7))
	assert.Equal(t, 7, st.ReadCart(ctx, sid)[0].Qty)

	// clamps to >= 1
	require.NoError(t, r.UpdateQuantity(ctx, sid, "p-0", -4))
	assert.Equal(t, 1, st.ReadCart(ctx, sid)[0].Qty)

	assert.Contains(t, n.texts, "Item diperbarui")
	assert.ErrorIs(t, r.UpdateQuantity(ctx, sid, "p-99", 2), ErrItemNotFound)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	r, st, _, _, _ := newReconciler()
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 1))

	// a lone request deletes nothing
	r.RequestDelete(sid, "p-0")
	assert.Len(t, st.ReadCart(ctx, sid), 1)
	id, ok := r.PendingDelete(sid)
	require.True(t, ok)
	assert.Equal(t, "p-0", id)

	require.NoError(t, r.ConfirmDelete(ctx, sid, "p-0"))
	assert.Empty(t, st.ReadCart(ctx, sid))
	_, ok = r.PendingDelete(sid)
	assert.False(t, ok)
}

func TestConfirmWithoutRequestFails(t *testing.T) {
	r, st, _, _, _ := newReconciler()
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 1))

	assert.ErrorIs(t, r.ConfirmDelete(ctx, sid, "p-0"), ErrNoPendingConfirm)
	assert.Len(t, st.ReadCart(ctx, sid), 1)
}

func TestCancelDelete(t *testing.T) {
	r, st, _, _, _ := newReconciler()
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 1))

	r.RequestDelete(sid, "p-0")
	r.CancelDelete(sid, "p-0")
	_, ok := r.PendingDelete(sid)
	assert.False(t, ok)
	assert.ErrorIs(t, r.ConfirmDelete(ctx, sid, "p-0"), ErrNoPendingConfirm)
	assert.Len(t, st.ReadCart(ctx, sid), 1)
}

func TestOnlyOnePendingConfirmPerSession(t *testing.T) {
	r, _, _, _, _ := newReconciler()
	r.RequestDelete(sid, "p-0")
	r.RequestDelete(sid, "p-1") // replaces the first
	id, ok := r.PendingDelete(sid)
	require.True(t, ok)
	assert.Equal(t, "p-1", id)

	// cancel with the stale id is a no-op
	r.CancelDelete(sid, "p-0")
	_, ok = r.PendingDelete(sid)
	assert.True(t, ok)
}

func TestTotal(t *testing.T) {
	items := []store.CartItem{
		{ID: "a", Name: "a", Price: 10000, Qty: 2},
		{ID: "b", Name: "b", Price: 2500, Qty: 3},
	}
	assert.Equal(t, 27500, Total(items))
	assert.Equal(t, 0, Total(nil))
}

func saveProfile(t *testing.T, st *store.Store) {
	t.Helper()
	p := profile.Profile{Nama: "Budi", Alamat: "Margorejo", NomorWa: "081234567890"}
	require.NoError(t, st.WriteProfile(context.Background(), sid, p))
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, _, n, sub, _ := newReconciler()

	_, err := r.Checkout(context.Background(), sid)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, sub.calls, "no submission attempt")
	require.Len(t, n.texts, 1)
	assert.Equal(t, "Keranjang kosong.", n.texts[0])
	assert.Equal(t, notify.VariantWarning, n.variants[0])
}

func TestCheckoutRequiresProfile(t *testing.T) {
	r, st, _, sub, _ := newReconciler()
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 1))

	_, err := r.Checkout(ctx, sid)
	assert.ErrorIs(t, err, ErrProfileRequired)
	assert.Zero(t, sub.calls)
	assert.Len(t, st.ReadCart(ctx, sid), 1, "cart untouched")
}

func TestCheckoutSubmitFailureLeavesCart(t *testing.T) {
	r, st, n, sub, pub := newReconciler()
	ctx := context.Background()
	saveProfile(t, st)
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 2))
	sub.err = errors.New("boom")

	_, err := r.Checkout(ctx, sid)
	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Len(t, st.ReadCart(ctx, sid), 1, "cart left unchanged on failure")
	assert.Empty(t, pub.values, "no event on failure")
	assert.Contains(t, n.texts, "Gagal mengirim pesanan.")
}

func TestCheckoutSuccess(t *testing.T) {
	r, st, n, sub, pub := newReconciler()
	ctx := context.Background()
	saveProfile(t, st)
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 2))
	r.RequestDelete(sid, "p-0")

	orderID, err := r.Checkout(ctx, sid)
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	assert.Equal(t, 1, sub.calls)
	require.Len(t, sub.embeds, 1)
	assert.Contains(t, sub.embeds[0].Fields[0].Value, "Beras 5kg x 2")

	assert.Empty(t, st.ReadCart(ctx, sid), "cart cleared on success")
	_, pending := r.PendingDelete(sid)
	assert.False(t, pending, "confirm state cleared")

	// checkout event published with the order id as partition key
	require.Len(t, pub.values, 1)
	assert.Equal(t, orderID, string(pub.keys[0]))
	var env events.Envelope
	require.NoError(t, json.Unmarshal(pub.values[0], &env))
	assert.Equal(t, events.EventCheckoutSubmitted, env.EventType)
	assert.Equal(t, orderID, env.CorrelationID)
	var payload events.CheckoutSubmittedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, 136000, payload.Total)
	assert.Equal(t, "Budi", payload.Customer.Nama)

	assert.Contains(t, n.texts, "Checkout sukses — pesanan dikirim ke admin.")
}

func TestCheckoutWithoutProducer(t *testing.T) {
	r, st, _, _, _ := newReconciler()
	r.Producer = nil
	ctx := context.Background()
	saveProfile(t, st)
	require.NoError(t, r.Add(ctx, sid, product("p-0", 5), 1))

	_, err := r.Checkout(ctx, sid)
	assert.NoError(t, err, "event publish is optional")
}
