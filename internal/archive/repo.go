// Package archive keeps a durable copy of submitted orders for the
// shop admin. The webhook is the delivery channel; this is the ledger.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Order struct {
	ID            string
	SessionID     string
	Total         int
	CustomerName  string
	CustomerPhone string
	Address       string
	AddressDetail string
	ReceivedAt    time.Time
	Items         []Item
}

type Item struct {
	ProductID string
	Name      string
	Qty       int
	Price     int
}

type Repo struct{ DB *pgxpool.Pool }

// Insert stores the order and its items in one tx, idempotent on
// order id: a replayed event returns existed=true and writes nothing.
func (r *Repo) Insert(ctx context.Context, o Order) (existed bool, err error) {
	var have string
	err = r.DB.QueryRow(ctx, `SELECT id FROM archived_orders WHERE id=$1`, o.ID).Scan(&have)
	if err == nil {
		return true, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO archived_orders(id, session_id, total, customer_name, customer_phone, address, address_detail, received_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, o.ID, o.SessionID, o.Total, o.CustomerName, o.CustomerPhone, o.Address, o.AddressDetail, o.ReceivedAt)
	if err != nil {
		return false, err
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO archived_order_items(order_id, product_id, name, qty, price)
			VALUES ($1,$2,$3,$4,$5)
		`, o.ID, it.ProductID, it.Name, it.Qty, it.Price)
		if err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return false, nil
}

// Recent lists the newest orders, items not included.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, session_id, total, customer_name, customer_phone, address, address_detail, received_at
		FROM archived_orders ORDER BY received_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.SessionID, &o.Total, &o.CustomerName, &o.CustomerPhone, &o.Address, &o.AddressDetail, &o.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
