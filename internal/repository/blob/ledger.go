package blob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/storage"
)

const ledgerDir = "ledgers/"

// LedgerStore keeps one spreadsheet per period in a BlobStore, named like
// "ledgers/registros_2024_W18.xlsx". The version check is read-then-write and only
// guards against stale snapshots; concurrent writers must be serialized by the caller.
type LedgerStore struct {
	blobs      storage.BlobStore
	normalizer *attendance.TimeNormalizer
}

var _ attendance.EventStore = (*LedgerStore)(nil)

func NewLedgerStore(blobs storage.BlobStore, normalizer *attendance.TimeNormalizer) *LedgerStore {
	return &LedgerStore{blobs: blobs, normalizer: normalizer}
}

func ledgerName(key attendance.PeriodKey) string {
	return ledgerDir + attendance.PeriodFilename(key) + ".xlsx"
}

func (s *LedgerStore) Get(ctx context.Context, key attendance.PeriodKey) (*attendance.Ledger, error) {
	data, err := s.blobs.Get(ctx, ledgerName(key))
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, fmt.Errorf("%w: %s", attendance.ErrLedgerNotFound, key)
		}
		return nil, fmt.Errorf("failed to read ledger %s: %w", key, err)
	}

	records, version, err := spreadsheet.DecodeLedger(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ledger %s: %w", key, err)
	}

	ledger, problems := s.normalizer.LedgerFromRecords(key, version, records)
	for _, p := range problems {
		slog.WarnContext(ctx, "skipping unreadable ledger row",
			"period", key.String(),
			"worker", p.Record.Worker,
			"date", p.Record.Date,
			"field", p.Field,
			"error", p.Err,
		)
	}
	return ledger, nil
}

func (s *LedgerStore) Put(ctx context.Context, ledger *attendance.Ledger) error {
	current, err := s.storedVersion(ctx, ledger.Key)
	if err != nil {
		return err
	}
	if current != ledger.Version {
		return fmt.Errorf("%w: %s stored at %d, written from %d", attendance.ErrVersionConflict, ledger.Key, current, ledger.Version)
	}

	next := ledger.Version + 1
	data, err := spreadsheet.EncodeLedger(s.normalizer.Records(ledger), next)
	if err != nil {
		return fmt.Errorf("failed to encode ledger %s: %w", ledger.Key, err)
	}
	if err := s.blobs.Put(ctx, ledgerName(ledger.Key), data, spreadsheet.ContentType); err != nil {
		return fmt.Errorf("failed to write ledger %s: %w", ledger.Key, err)
	}

	ledger.Version = next
	return nil
}

func (s *LedgerStore) storedVersion(ctx context.Context, key attendance.PeriodKey) (int64, error) {
	data, err := s.blobs.Get(ctx, ledgerName(key))
	if errors.Is(err, storage.ErrBlobNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger %s: %w", key, err)
	}
	_, version, err := spreadsheet.DecodeLedger(data)
	if err != nil {
		return 0, fmt.Errorf("failed to decode ledger %s: %w", key, err)
	}
	return version, nil
}

func (s *LedgerStore) List(ctx context.Context, prefix string) ([]attendance.PeriodKey, error) {
	names, err := s.blobs.List(ctx, ledgerDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}

	var keys []attendance.PeriodKey
	for _, name := range names {
		if path.Ext(name) != ".xlsx" {
			continue
		}
		key, err := attendance.ParsePeriodFilename(name)
		if err != nil {
			slog.WarnContext(ctx, "ignoring unrecognized ledger file", "name", name)
			continue
		}
		if strings.HasPrefix(key.String(), prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
