package attendance

import (
	"sync"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
)

// periodLocks serializes writers per period. Registrations in different weeks never wait
// on each other.
type periodLocks struct {
	mu    sync.Mutex
	locks map[attendance.PeriodKey]*sync.Mutex
}

func newPeriodLocks() *periodLocks {
	return &periodLocks{locks: make(map[attendance.PeriodKey]*sync.Mutex)}
}

func (p *periodLocks) lock(key attendance.PeriodKey) (unlock func()) {
	p.mu.Lock()
	m, ok := p.locks[key]
	if !ok {
		m = &sync.Mutex{}
		p.locks[key] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}
