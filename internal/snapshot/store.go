// Package snapshot keeps a local, read-only recovery copy of products and
// transactions in a single BoltDB file. It is a fallback for when the
// primary repository is unreachable, never a sync source of truth.
package snapshot

import (
	"encoding/json"
	"sort"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

const (
	bucketProducts     = "products"
	bucketTransactions = "transactions"
)

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the snapshot file and ensures both buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketProducts)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketTransactions))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// PutProducts replaces the stored product snapshot wholesale.
func (s *Store) PutProducts(products []catalog.Product) error {
	return s.replace(bucketProducts, func(b *bolt.Bucket) error {
		for _, p := range products {
			data, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(p.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// PutTransactions replaces the stored transaction snapshot wholesale.
func (s *Store) PutTransactions(txs []sales.Transaction) error {
	return s.replace(bucketTransactions, func(b *bolt.Bucket) error {
		for _, t := range txs {
			data, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(t.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) replace(bucket string, fill func(b *bolt.Bucket) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucket)); err != nil {
			return err
		}
		b, err := tx.CreateBucket([]byte(bucket))
		if err != nil {
			return err
		}
		return fill(b)
	})
}

// Products returns the stored product copy, newest first.
func (s *Store) Products() ([]catalog.Product, error) {
	var out []catalog.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketProducts)).ForEach(func(_, v []byte) error {
			var p catalog.Product
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Transactions returns the stored transaction copy, most recent first.
func (s *Store) Transactions() ([]sales.Transaction, error) {
	var out []sales.Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketTransactions)).ForEach(func(_, v []byte) error {
			var t sales.Transaction
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
