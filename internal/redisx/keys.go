package redisx

import "time"

const (
	// Login session: session:{token} -> username
	KeySession = "session:%s"

	// Cached product list (JSON array), invalidated on every catalog mutation.
	KeyProductCache = "cache:products"

	// One-time seed marker so the default catalog is only inserted once.
	KeySeedDone = "seed:catalog:done"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession      = 12 * time.Hour
	TTLProductCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
