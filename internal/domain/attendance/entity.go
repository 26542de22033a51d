package attendance

import (
	"fmt"
	"time"
)

type Kind string

const (
	CheckIn  Kind = "check_in"
	CheckOut Kind = "check_out"
)

// RowState is the per (worker, date) registration state.
type RowState int

const (
	NoRecord RowState = iota
	CheckedIn
	Complete
)

func (s RowState) String() string {
	switch s {
	case CheckedIn:
		return "checked_in"
	case Complete:
		return "complete"
	default:
		return "no_record"
	}
}

// Row is one worker's attendance for one local day. Instants are UTC.
// WorkedDuration is set iff both CheckIn and CheckOut are set and CheckOut is after CheckIn.
type Row struct {
	Worker         string
	Date           Date
	CheckIn        *time.Time
	CheckOut       *time.Time
	WorkedDuration *time.Duration
}

func (r Row) State() RowState {
	switch {
	case r.CheckIn == nil:
		return NoRecord
	case r.CheckOut == nil:
		return CheckedIn
	default:
		return Complete
	}
}

// Open reports a row with a check-in and no check-out.
func (r Row) Open() bool {
	return r.State() == CheckedIn
}

func (r Row) clone() Row {
	c := Row{Worker: r.Worker, Date: r.Date}
	if r.CheckIn != nil {
		v := *r.CheckIn
		c.CheckIn = &v
	}
	if r.CheckOut != nil {
		v := *r.CheckOut
		c.CheckOut = &v
	}
	if r.WorkedDuration != nil {
		v := *r.WorkedDuration
		c.WorkedDuration = &v
	}
	return c
}

// Event is a recorded check-in or check-out.
type Event struct {
	ID              string
	Worker          string
	Kind            Kind
	OccurredAtUTC   time.Time
	OccurredAtLocal string
}

// Confirmation is returned for every successful registration.
type Confirmation struct {
	Event
	Date           Date
	Period         PeriodKey
	WorkedDuration *time.Duration
}

// Policy holds the registration window and re-registration rule.
type Policy struct {
	EntryDeadline   int
	ExitDeadline    int
	AllowReregister bool
}

func DefaultPolicy() Policy {
	return Policy{EntryDeadline: 11, ExitDeadline: 18}
}

// Check gates a registration on the local wall clock.
func (p Policy) Check(kind Kind, local time.Time) error {
	hour, minute := local.Hour(), local.Minute()
	switch kind {
	case CheckIn:
		if hour < p.EntryDeadline {
			return nil
		}
		return &PolicyError{Kind: kind, Deadline: p.EntryDeadline, LocalTime: local.Format(TimestampLayout)}
	case CheckOut:
		if hour < p.ExitDeadline || (hour == p.ExitDeadline && minute == 0) {
			return nil
		}
		return &PolicyError{Kind: kind, Deadline: p.ExitDeadline, LocalTime: local.Format(TimestampLayout)}
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

// WorkerTotal is one line of a weekly or monthly summary.
type WorkerTotal struct {
	Worker       string
	Total        time.Duration
	CompleteDays int
	OpenDays     int
}

// MonthlyReport merges every row dated in one calendar month.
type MonthlyReport struct {
	Year  int
	Month time.Month
	// Periods lists the weeks whose Monday falls in the month. Rows may also come
	// from the week that starts in the previous month.
	Periods []PeriodKey
	Rows    []Row
	Summary []WorkerTotal
	Skipped []*RecordError
}
