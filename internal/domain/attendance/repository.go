package attendance

import (
	"context"
)

// EventStore persists whole ledgers, one snapshot per period.
type EventStore interface {
	// Get loads the ledger for key, or ErrLedgerNotFound.
	Get(ctx context.Context, key PeriodKey) (*Ledger, error)

	// Put replaces the stored snapshot. It fails with ErrVersionConflict when the stored
	// version differs from ledger.Version, and bumps ledger.Version on success.
	Put(ctx context.Context, ledger *Ledger) error

	// List returns stored period keys whose String() starts with prefix, in order.
	List(ctx context.Context, prefix string) ([]PeriodKey, error)
}
