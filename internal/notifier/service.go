// Package notifier consumes the change feed and keeps the presentation-side
// read-models fresh: the BoltDB fallback snapshot and the Redis list cache.
// It is purely derivative; losing or replaying events never affects sales.
package notifier

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	kafkax "github.com/reskianugrahsari/aplikasi-kasir/internal/kafka"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/redisx"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/snapshot"
)

type Service struct {
	Catalog     *catalog.Repo
	Sales       *sales.Repo
	Snapshot    *snapshot.Store
	Redis       *redis.Client
	ServiceName string
}

// HandleProductChanged refreshes the product snapshot and drops the cached
// list so the next read sees current data.
func (s *Service) HandleProductChanged(ctx context.Context, m kafkago.Message) error {
	env, fresh, err := s.decode(m, sales.EventProductChanged)
	if err != nil || !fresh {
		return err
	}
	p, err := kafkax.UnwrapPayload[sales.ProductChangedPayload](env.Payload)
	if err != nil {
		return err
	}

	products, err := s.Catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh products: %w", err)
	}
	if err := s.Snapshot.PutProducts(products); err != nil {
		return fmt.Errorf("snapshot products: %w", err)
	}
	_ = s.Redis.Del(ctx, redisx.KeyProductCache).Err()
	log.Printf("snapshot refreshed: %d products (product %s %s)", len(products), p.ProductID, p.Change)
	return nil
}

// HandleTransactionCreated refreshes the transaction snapshot.
func (s *Service) HandleTransactionCreated(ctx context.Context, m kafkago.Message) error {
	env, fresh, err := s.decode(m, sales.EventTransactionCreated)
	if err != nil || !fresh {
		return err
	}
	p, err := kafkax.UnwrapPayload[sales.TransactionCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	txs, err := s.Sales.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh transactions: %w", err)
	}
	if err := s.Snapshot.PutTransactions(txs); err != nil {
		return fmt.Errorf("snapshot transactions: %w", err)
	}
	log.Printf("snapshot refreshed: %d transactions (transaction %s)", len(txs), p.TransactionID)
	return nil
}

// decode unwraps the envelope, filters by type, and dedups via Redis so a
// redelivered event is a no-op.
func (s *Service) decode(m kafkago.Message, wantType string) (sales.Envelope, bool, error) {
	ctx := context.Background()
	var env sales.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return env, false, err
	}
	if env.EventType != wantType {
		return env, false, nil
	}
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return env, false, nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return env, true, nil
}
