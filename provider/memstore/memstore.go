// Package memstore is a sync.RWMutex-guarded in-memory implementation of
// provider.Storage, used for tests, benchmarks, and example programs
// (spec §1 "the in-memory storage used for tests... are OUT OF SCOPE and
// treated as collaborators").
//
// Grounded on the teacher's in-memory rate-limit bucket store: a mutex
// guarding a plain map, with no eviction or persistence policy beyond
// process lifetime.
package memstore

import (
	"context"
	"sync"

	"github.com/nexusid/scimcore/provider"
)

type key struct {
	tenantID     string
	resourceType string
	id           string
}

// Store is an in-memory provider.Storage. The zero value is not usable;
// construct with New.
type Store struct {
	mu      sync.RWMutex
	records map[key]provider.VersionedResource
	// order preserves insertion order per (tenant, resourceType) so List
	// results are stable across calls, matching what a real backing store
	// would typically offer via a primary-key scan.
	order map[string][]key
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		records: make(map[key]provider.VersionedResource),
		order:   make(map[string][]key),
	}
}

func orderKey(tenantID, resourceType string) string {
	return tenantID + "\x00" + resourceType
}

func (s *Store) Put(ctx context.Context, tenantID, resourceType, id string, record provider.VersionedResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{tenantID: tenantID, resourceType: resourceType, id: id}
	if _, exists := s.records[k]; !exists {
		ok := orderKey(tenantID, resourceType)
		s.order[ok] = append(s.order[ok], k)
	}
	s.records[k] = record
	return nil
}

func (s *Store) Get(ctx context.Context, tenantID, resourceType, id string) (provider.VersionedResource, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[key{tenantID: tenantID, resourceType: resourceType, id: id}]
	return v, ok, nil
}

func (s *Store) Delete(ctx context.Context, tenantID, resourceType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{tenantID: tenantID, resourceType: resourceType, id: id}
	if _, ok := s.records[k]; !ok {
		return nil
	}
	delete(s.records, k)

	ok := orderKey(tenantID, resourceType)
	keys := s.order[ok]
	for i, kk := range keys {
		if kk == k {
			s.order[ok] = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) List(ctx context.Context, tenantID, resourceType string) ([]provider.VersionedResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.order[orderKey(tenantID, resourceType)]
	out := make([]provider.VersionedResource, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.records[k]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) CountByType(ctx context.Context, tenantID, resourceType string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order[orderKey(tenantID, resourceType)]), nil
}

var _ provider.Storage = (*Store)(nil)
