package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	kafkax "github.com/reskianugrahsari/aplikasi-kasir/internal/kafka"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/redisx"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

type ProductStore interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	Create(ctx context.Context, p catalog.Product) (catalog.Product, error)
	Update(ctx context.Context, id string, u catalog.ProductUpdate) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
}

type SnapshotReader interface {
	Products() ([]catalog.Product, error)
	Transactions() ([]sales.Transaction, error)
}

type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type ProductsHandler struct {
	Repo     ProductStore
	Snapshot SnapshotReader
	Redis    *redis.Client
	Producer EventPublisher
	Service  string
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Post("/products", h.createProduct)
	r.Patch("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
}

// listProducts serves from the Redis cache when possible, falls back to the
// database, and as a last resort serves the local snapshot copy.
func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeyProductCache).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	products, err := h.Repo.List(ctx)
	if err != nil {
		log.Printf("list products: %v, serving snapshot", err)
		if h.Snapshot != nil {
			if cached, snapErr := h.Snapshot.Products(); snapErr == nil {
				w.Header().Set("X-Data-Source", "snapshot")
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}

	if h.Redis != nil {
		if b, err := json.Marshal(products); err == nil {
			_ = h.Redis.Set(ctx, redisx.KeyProductCache, b, redisx.TTLProductCache).Err()
		}
	}
	writeJSON(w, http.StatusOK, products)
}

type productReq struct {
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Category catalog.Category `json:"category"`
	Image    string           `json:"image"`
	Stock    int              `json:"stock"`
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}
	if req.Name == "" || req.Price < 0 || req.Stock < 0 || !req.Category.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing or invalid fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.Create(ctx, catalog.Product{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Image:    req.Image,
		Stock:    req.Stock,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.invalidateCache(ctx)
	h.publishChanged(p.ID, "created")
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var u catalog.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}
	if u.Category != nil && !u.Category.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid category"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.invalidateCache(ctx)
	h.publishChanged(id, "updated")
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.invalidateCache(ctx)
	h.publishChanged(id, "deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductsHandler) invalidateCache(ctx context.Context) {
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, redisx.KeyProductCache).Err()
	}
}

func (h *ProductsHandler) publishChanged(productID, change string) {
	if h.Producer == nil {
		return
	}
	ev := sales.Envelope{
		EventID:      uuid.NewString(),
		EventType:    sales.EventProductChanged,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     h.Service,
	}
	ev.Payload = kafkax.MustMarshal(sales.ProductChangedPayload{ProductID: productID, Change: change})
	h.Producer.Publish(sales.PartitionKey(productID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(sales.EventProductChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
