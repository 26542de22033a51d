package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Policy errors
	ErrOutsidePolicyWindow = errors.New("registration is outside the allowed time window")

	// Sequence errors
	ErrAlreadyCheckedIn  = errors.New("worker has already checked in today")
	ErrAlreadyCheckedOut = errors.New("worker has already checked out today")
	ErrNoCheckInYet      = errors.New("worker has not checked in yet today")

	// Data integrity errors
	ErrNonPositiveDuration = errors.New("check-out must be later than check-in")
	ErrUnparsableRecord    = errors.New("attendance record could not be parsed")
	ErrDateOutsidePeriod   = errors.New("date does not belong to the ledger period")
	ErrTimestampOffDate    = errors.New("timestamp does not fall on the row date")

	// Store errors
	ErrLedgerNotFound  = errors.New("attendance ledger not found")
	ErrVersionConflict = errors.New("attendance ledger was modified concurrently")

	// General errors
	ErrInvalidKind      = errors.New("invalid attendance event kind")
	ErrInvalidPeriodKey = errors.New("invalid period key")
	ErrInvalidWorker    = errors.New("worker identity is required")
)

// PolicyError reports a registration attempted outside its window.
// It matches ErrOutsidePolicyWindow with errors.Is.
type PolicyError struct {
	Kind      Kind
	Deadline  int
	LocalTime string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s not allowed at %s: deadline is %02d:00", e.Kind, e.LocalTime, e.Deadline)
}

func (e *PolicyError) Is(target error) bool {
	return target == ErrOutsidePolicyWindow
}

// RecordError describes a stored row that failed to decode.
type RecordError struct {
	Record Record
	Field  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s/%s: field %s: %v", e.Record.Worker, e.Record.Date, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (e *RecordError) Is(target error) bool {
	return target == ErrUnparsableRecord
}

// IsSequenceError reports duplicate or out-of-order registrations.
func IsSequenceError(err error) bool {
	return errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrAlreadyCheckedOut) ||
		errors.Is(err, ErrNoCheckInYet)
}
