package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
)

// LedgerStore keeps ledger snapshots in process memory.
type LedgerStore struct {
	mu      sync.RWMutex
	ledgers map[attendance.PeriodKey]*attendance.Ledger
}

var _ attendance.EventStore = (*LedgerStore)(nil)

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{ledgers: make(map[attendance.PeriodKey]*attendance.Ledger)}
}

func (s *LedgerStore) Get(ctx context.Context, key attendance.PeriodKey) (*attendance.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger, ok := s.ledgers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", attendance.ErrLedgerNotFound, key)
	}
	return ledger.Clone(), nil
}

func (s *LedgerStore) Put(ctx context.Context, ledger *attendance.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if stored, ok := s.ledgers[ledger.Key]; ok {
		current = stored.Version
	}
	if current != ledger.Version {
		return fmt.Errorf("%w: %s stored at %d, written from %d", attendance.ErrVersionConflict, ledger.Key, current, ledger.Version)
	}

	ledger.Version++
	s.ledgers[ledger.Key] = ledger.Clone()
	return nil
}

func (s *LedgerStore) List(ctx context.Context, prefix string) ([]attendance.PeriodKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []attendance.PeriodKey
	for key := range s.ledgers {
		if strings.HasPrefix(key.String(), prefix) {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys, nil
}
