package roster

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: make(map[string][][]string)}
}

// Seed replaces a sheet's contents wholesale.
func (s *MemoryStore) Seed(sheet string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	s.sheets[sheet] = copied
}

// ReadRows returns a copy of the sheet's rows.
func (s *MemoryStore) ReadRows(_ context.Context, sheet string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.sheets[sheet]
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return copied, nil
}

// AppendRow adds a row at the end of the sheet.
func (s *MemoryStore) AppendRow(_ context.Context, sheet string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = append(s.sheets[sheet], append([]string(nil), row...))
	return nil
}

// DeleteRow removes the 1-based row position, shifting later rows up.
func (s *MemoryStore) DeleteRow(_ context.Context, sheet string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[sheet]
	if position < 1 || position > len(rows) {
		return fmt.Errorf("sheet %s has no row %d", sheet, position)
	}
	s.sheets[sheet] = append(rows[:position-1], rows[position:]...)
	return nil
}
