package memory

import (
	"context"
	"fmt"
	"sync"

	"kolipanel/internal/core"
)

// Store is an in-memory SaleWriter/SaleSyncer used in tests and when no
// spreadsheet is configured.
type Store struct {
	mu    sync.Mutex
	items []core.Sale
}

func New() *Store {
	return &Store{}
}

// Append stores the sale and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, sale core.Sale) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, sale)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// SyncAll replaces the stored ledger.
func (s *Store) SyncAll(_ context.Context, sales []core.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Sale(nil), sales...)
	return nil
}

// Items returns a copy of the stored sales.
func (s *Store) Items() []core.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Sale(nil), s.items...)
}
