package archive

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpati/storefront/internal/events"
	"github.com/warungpati/storefront/internal/kafkax"
	"github.com/warungpati/storefront/internal/store"
)

type fakeArchiver struct {
	orders []Order
	exists map[string]bool
}

func (f *fakeArchiver) Insert(_ context.Context, o Order) (bool, error) {
	if f.exists[o.ID] {
		return true, nil
	}
	f.orders = append(f.orders, o)
	return false, nil
}

func checkoutMessage(t *testing.T, eventID, orderID string) kafkago.Message {
	t.Helper()
	env := events.Envelope{
		EventID:       eventID,
		EventType:     events.EventCheckoutSubmitted,
		EventVersion:  1,
		OccurredAt:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Producer:      "storefront-api",
		CorrelationID: orderID,
	}
	env.Payload = kafkax.MustMarshal(events.CheckoutSubmittedPayload{
		OrderID:   orderID,
		SessionID: "sid-1",
		Items:     []events.OrderItem{{ProductID: "p-0", Name: "Beras 5kg", Qty: 2, Price: 68000}},
		Total:     136000,
		Customer:  events.Customer{Nama: "Budi", NomorWa: "081234567890", Alamat: "Margorejo"},
	})
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleCheckoutSubmitted(t *testing.T) {
	repo := &fakeArchiver{}
	svc := &Service{Repo: repo, Dedup: store.NewMemKV(), ServiceName: "fulfillment"}

	require.NoError(t, svc.HandleCheckoutSubmitted(context.Background(), checkoutMessage(t, "ev-1", "order-1")))
	require.Len(t, repo.orders, 1)
	o := repo.orders[0]
	assert.Equal(t, "order-1", o.ID)
	assert.Equal(t, 136000, o.Total)
	assert.Equal(t, "Budi", o.CustomerName)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Beras 5kg", o.Items[0].Name)
}

func TestHandleDedupsByEventID(t *testing.T) {
	repo := &fakeArchiver{}
	svc := &Service{Repo: repo, Dedup: store.NewMemKV()}
	ctx := context.Background()

	m := checkoutMessage(t, "ev-1", "order-1")
	require.NoError(t, svc.HandleCheckoutSubmitted(ctx, m))
	require.NoError(t, svc.HandleCheckoutSubmitted(ctx, m))
	assert.Len(t, repo.orders, 1, "replayed event skipped via dedup key")
}

func TestHandleIgnoresForeignEvents(t *testing.T) {
	repo := &fakeArchiver{}
	svc := &Service{Repo: repo, Dedup: store.NewMemKV()}

	env := events.Envelope{EventID: "ev-x", EventType: "SomethingElse"}
	m := kafkago.Message{Value: kafkax.MustMarshal(env)}
	require.NoError(t, svc.HandleCheckoutSubmitted(context.Background(), m))
	assert.Empty(t, repo.orders)
}

func TestHandleBadMessageErrs(t *testing.T) {
	svc := &Service{Repo: &fakeArchiver{}, Dedup: store.NewMemKV()}
	err := svc.HandleCheckoutSubmitted(context.Background(), kafkago.Message{Value: []byte("not-json")})
	assert.Error(t, err, "bad envelope must not commit the offset")
}
