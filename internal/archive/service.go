package archive

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/warungpati/storefront/internal/events"
	"github.com/warungpati/storefront/internal/kafkax"
	"github.com/warungpati/storefront/internal/logx"
	"github.com/warungpati/storefront/internal/redisx"
	"github.com/warungpati/storefront/internal/store"
)

type Archiver interface {
	Insert(ctx context.Context, o Order) (existed bool, err error)
}

type Service struct {
	Repo        Archiver
	Dedup       store.KV
	ServiceName string
}

// HandleCheckoutSubmitted is the consumer handler for the checkout
// topic: decode envelope, dedup by event id, archive, mark dedup.
func (s *Service) HandleCheckoutSubmitted(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventCheckoutSubmitted {
		return nil // ignore
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "fulfillment", env.EventID)
	if seen, _ := s.Dedup.Get(ctx, dkey); seen != "" {
		return nil
	}

	payload, err := kafkax.UnwrapPayload[events.CheckoutSubmittedPayload](env.Payload)
	if err != nil {
		return err
	}

	items := make([]Item, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, Item{ProductID: it.ProductID, Name: it.Name, Qty: it.Qty, Price: it.Price})
	}
	existed, err := s.Repo.Insert(ctx, Order{
		ID:            payload.OrderID,
		SessionID:     payload.SessionID,
		Total:         payload.Total,
		CustomerName:  payload.Customer.Nama,
		CustomerPhone: payload.Customer.NomorWa,
		Address:       payload.Customer.Alamat,
		AddressDetail: payload.Customer.DetailRumah,
		ReceivedAt:    env.OccurredAt,
		Items:         items,
	})
	if err != nil {
		return err
	}
	if existed {
		logx.Debug().Str("service", s.ServiceName).Str("order", payload.OrderID).Msg("order already archived")
	} else {
		logx.Info().Str("service", s.ServiceName).Str("order", payload.OrderID).Int("total", payload.Total).Msg("order archived")
	}

	if err := s.Dedup.Set(ctx, dkey, "1", redisx.TTLDedup); err != nil {
		logx.Warn().Err(err).Msg("dedup mark")
	}
	return nil
}
