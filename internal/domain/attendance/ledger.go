package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type rowKey struct {
	worker string
	date   Date
}

// Ledger holds one ISO week of attendance rows, at most one per (worker, date).
// Version is the store revision the ledger was read at; zero means never stored.
type Ledger struct {
	Key     PeriodKey
	Version int64

	rows     map[rowKey]*Row
	rejected []Record
}

func NewLedger(key PeriodKey) *Ledger {
	return &Ledger{
		Key:  key,
		rows: make(map[rowKey]*Row),
	}
}

func (l *Ledger) Len() int {
	return len(l.rows)
}

// FindRow returns a copy of the (worker, date) row.
func (l *Ledger) FindRow(worker string, date Date) (Row, bool) {
	row, ok := l.rows[rowKey{worker: worker, date: date}]
	if !ok {
		return Row{}, false
	}
	return row.clone(), true
}

func (l *Ledger) validate(worker string, date Date) error {
	if strings.TrimSpace(worker) == "" {
		return ErrInvalidWorker
	}
	if !l.Key.Contains(date) {
		return fmt.Errorf("%w: %s not in %s", ErrDateOutsidePeriod, date, l.Key)
	}
	return nil
}

// UpsertCheckIn records the check-in for (worker, date). A second check-in is rejected
// and the first value is kept.
func (l *Ledger) UpsertCheckIn(worker string, date Date, at time.Time) error {
	if err := l.validate(worker, date); err != nil {
		return err
	}
	key := rowKey{worker: worker, date: date}
	row, ok := l.rows[key]
	if ok && row.CheckIn != nil {
		return ErrAlreadyCheckedIn
	}
	if !ok {
		row = &Row{Worker: worker, Date: date}
		l.rows[key] = row
	}
	in := at.UTC()
	row.CheckIn = &in
	return nil
}

// UpsertCheckOut closes the open row for (worker, date) and derives the worked duration.
func (l *Ledger) UpsertCheckOut(worker string, date Date, at time.Time) error {
	if err := l.validate(worker, date); err != nil {
		return err
	}
	row, ok := l.rows[rowKey{worker: worker, date: date}]
	if !ok || row.CheckIn == nil {
		return ErrNoCheckInYet
	}
	if row.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	return setCheckOut(row, at)
}

// OverwriteCheckIn replaces any previous check-in and starts the day over.
func (l *Ledger) OverwriteCheckIn(worker string, date Date, at time.Time) error {
	if err := l.validate(worker, date); err != nil {
		return err
	}
	in := at.UTC()
	l.rows[rowKey{worker: worker, date: date}] = &Row{Worker: worker, Date: date, CheckIn: &in}
	return nil
}

// OverwriteCheckOut replaces any previous check-out. A check-in is still required.
func (l *Ledger) OverwriteCheckOut(worker string, date Date, at time.Time) error {
	if err := l.validate(worker, date); err != nil {
		return err
	}
	row, ok := l.rows[rowKey{worker: worker, date: date}]
	if !ok || row.CheckIn == nil {
		return ErrNoCheckInYet
	}
	return setCheckOut(row, at)
}

// setCheckOut leaves row untouched when the duration would not be positive.
func setCheckOut(row *Row, at time.Time) error {
	out := at.UTC()
	worked := out.Sub(*row.CheckIn)
	if worked <= 0 {
		return ErrNonPositiveDuration
	}
	row.CheckOut = &out
	row.WorkedDuration = &worked
	return nil
}

// AllRows returns copies of every row ordered by worker, then date.
func (l *Ledger) AllRows() []Row {
	rows := make([]Row, 0, len(l.rows))
	for _, r := range l.rows {
		rows = append(rows, r.clone())
	}
	sortRows(rows)
	return rows
}

// Rejected returns stored records that could not be decoded. They are written back
// unchanged so a rewrite never drops data.
func (l *Ledger) Rejected() []Record {
	return append([]Record(nil), l.rejected...)
}

// Clone returns a deep copy.
func (l *Ledger) Clone() *Ledger {
	c := NewLedger(l.Key)
	c.Version = l.Version
	for k, r := range l.rows {
		row := r.clone()
		c.rows[k] = &row
	}
	c.rejected = l.Rejected()
	return c
}

// restore inserts a decoded row, enforcing the ledger invariants.
func (l *Ledger) restore(row Row) error {
	if err := l.validate(row.Worker, row.Date); err != nil {
		return err
	}
	key := rowKey{worker: row.Worker, date: row.Date}
	if _, exists := l.rows[key]; exists {
		return fmt.Errorf("duplicate row for %s on %s", row.Worker, row.Date)
	}
	if row.CheckIn == nil && row.CheckOut != nil {
		return ErrNoCheckInYet
	}
	if row.CheckOut != nil {
		worked := row.CheckOut.Sub(*row.CheckIn)
		if worked <= 0 {
			return ErrNonPositiveDuration
		}
		row.WorkedDuration = &worked
	} else {
		row.WorkedDuration = nil
	}
	r := row.clone()
	l.rows[key] = &r
	return nil
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Worker != rows[j].Worker {
			return rows[i].Worker < rows[j].Worker
		}
		return rows[i].Date.Before(rows[j].Date)
	})
}
