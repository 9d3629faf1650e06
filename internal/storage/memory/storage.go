package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ncseq/seqserver/internal/model"
	"github.com/ncseq/seqserver/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	records map[model.GameCode]*model.SessionRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		records: make(map[model.GameCode]*model.SessionRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) SaveSessionRecord(ctx context.Context, record *model.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records[record.Code] = &cp
	return nil
}

func (s *Storage) GetSessionRecord(ctx context.Context, code model.GameCode) (*model.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *Storage) ListSessionRecords(ctx context.Context) ([]*model.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*model.SessionRecord, 0, len(s.records))
	for _, record := range s.records {
		cp := *record
		records = append(records, &cp)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (s *Storage) DeleteSessionRecord(ctx context.Context, code model.GameCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, code)
	return nil
}
