package sales

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// List returns all transactions, most recent first, with their line items
// joined from the separate transaction_items store.
func (r *Repo) List(ctx context.Context) ([]Transaction, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, date, total, payment_method
	                              FROM transactions ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	index := map[string]int{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Total, &t.PaymentMethod); err != nil {
			return nil, err
		}
		index[t.ID] = len(txs)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}

	itemRows, err := r.DB.Query(ctx, `SELECT transaction_id, product_id, product_name, quantity, price
	                                  FROM transaction_items`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it TransactionItem
		if err := itemRows.Scan(&it.TransactionID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		if i, ok := index[it.TransactionID]; ok {
			txs[i].Items = append(txs[i].Items, it)
		}
	}
	return txs, itemRows.Err()
}

func (r *Repo) CreateHeader(ctx context.Context, t Transaction) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO transactions(id, date, total, payment_method)
		VALUES ($1, $2, $3, $4)
	`, t.ID, t.Date, t.Total, t.PaymentMethod)
	return err
}

// CreateItems inserts the captured line items one row at a time. A mid-loop
// failure leaves earlier rows behind; the checkout workflow compensates by
// deleting the whole transaction.
func (r *Repo) CreateItems(ctx context.Context, items []TransactionItem) error {
	for _, it := range items {
		_, err := r.DB.Exec(ctx, `
			INSERT INTO transaction_items(transaction_id, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, it.TransactionID, it.ProductID, it.ProductName, it.Quantity, it.Price)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", it.ProductID, err)
		}
	}
	return nil
}

// Delete removes a transaction and its items. Used as the compensating
// action when item persistence fails after the header was written.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id=$1`, id); err != nil {
		return err
	}
	_, err := r.DB.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
	return err
}
