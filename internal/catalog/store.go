package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"gorodskoybaton/bot/internal/client"
	"gorodskoybaton/bot/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Store holds the current catalog as a swappable snapshot. Readers get
// whatever snapshot is installed; Refresh builds a new catalog off the
// chat-handling path and installs it atomically, so a reader never sees
// a half-built catalog.
type Store struct {
	client    client.StorefrontClient
	cacheFile string
	cacheTTL  time.Duration

	snapshot atomic.Pointer[domain.Catalog]
}

type cacheEnvelope struct {
	Catalog   *domain.Catalog `json:"catalog"`
	Timestamp int64           `json:"timestamp"`
}

// NewStore creates a catalog store starting from an empty catalog.
func NewStore(cl client.StorefrontClient, cacheFile string, cacheTTL time.Duration) *Store {
	s := &Store{
		client:    cl,
		cacheFile: cacheFile,
		cacheTTL:  cacheTTL,
	}
	s.snapshot.Store(&domain.Catalog{})
	return s
}

// Refresh replaces the catalog. A cache file younger than the freshness
// window wins over a live fetch; a failed fetch leaves an empty catalog
// installed rather than a partial one.
func (s *Store) Refresh(ctx context.Context) {
	if cached, ok := s.loadCache(); ok {
		s.snapshot.Store(cached)
		log.Info("Catalog loaded from cache")
		return
	}

	log.Info("Fetching catalog from storefront...")
	catalog, err := s.client.FetchCatalog(ctx)
	if err != nil {
		log.Errorf("Catalog fetch failed: %v", err)
		s.snapshot.Store(&domain.Catalog{})
		return
	}

	s.snapshot.Store(catalog)
	if err := s.saveCache(catalog); err != nil {
		log.Errorf("Failed to save catalog cache: %v", err)
	}
}

// Snapshot returns the currently installed catalog.
func (s *Store) Snapshot() *domain.Catalog {
	return s.snapshot.Load()
}

// Lookup scans all categories for a product id.
func (s *Store) Lookup(id int) (*domain.Product, bool) {
	return s.Snapshot().Lookup(id)
}

// ByCategory returns the products of a named category.
func (s *Store) ByCategory(name string) []domain.Product {
	return s.Snapshot().ByCategory(name)
}

// CategoryOf returns the name of the category containing a product id.
func (s *Store) CategoryOf(id int) (string, bool) {
	return s.Snapshot().CategoryOf(id)
}

// Categories returns category names in storefront order.
func (s *Store) Categories() []string {
	snapshot := s.Snapshot()
	names := make([]string, 0, len(snapshot.Categories))
	for _, cat := range snapshot.Categories {
		names = append(names, cat.Name)
	}
	return names
}

func (s *Store) loadCache() (*domain.Catalog, bool) {
	if s.cacheFile == "" {
		return nil, false
	}

	data, err := os.ReadFile(s.cacheFile)
	if err != nil {
		return nil, false
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.Warnf("Ignoring unreadable catalog cache: %v", err)
		return nil, false
	}
	if envelope.Catalog == nil || envelope.Catalog.Empty() {
		return nil, false
	}

	age := time.Since(time.Unix(envelope.Timestamp, 0))
	if age >= s.cacheTTL {
		return nil, false
	}

	return envelope.Catalog, true
}

func (s *Store) saveCache(catalog *domain.Catalog) error {
	if s.cacheFile == "" {
		return nil
	}

	data, err := json.MarshalIndent(cacheEnvelope{
		Catalog:   catalog,
		Timestamp: time.Now().Unix(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog cache: %w", err)
	}

	if err := os.WriteFile(s.cacheFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}
