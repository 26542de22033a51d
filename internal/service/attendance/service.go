package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/worker"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	store      attendance.EventStore
	workers    worker.Directory
	blobs      storage.BlobStore
	normalizer *attendance.TimeNormalizer
	clock      attendance.Clock
	policy     attendance.Policy
	locks      *periodLocks
}

// Register implements attendance.AttendanceService.
//
// The whole read-modify-write runs under the period's lock, and the store rejects the
// write if another process changed the snapshot in between. A failed Put leaves the
// outcome unknown to the caller; nothing is rolled back.
func (a *AttendanceServiceImpl) Register(ctx context.Context, req attendance.RegisterRequest) (attendance.Confirmation, error) {
	if err := req.Validate(); err != nil {
		return attendance.Confirmation{}, err
	}
	if !a.workers.Exists(req.Worker) {
		return attendance.Confirmation{}, worker.ErrWorkerNotFound
	}

	nowUTC := a.clock.Now().UTC().Truncate(time.Second)
	local := a.normalizer.ToLocal(nowUTC)

	if err := a.policy.Check(req.Kind, local.WallClock); err != nil {
		return attendance.Confirmation{}, err
	}

	key := a.normalizer.PeriodKey(nowUTC)
	unlock := a.locks.lock(key)
	defer unlock()

	ledger, err := a.loadOrCreate(ctx, key)
	if err != nil {
		return attendance.Confirmation{}, err
	}

	if err := a.apply(ledger, req, local.Date, nowUTC); err != nil {
		return attendance.Confirmation{}, err
	}

	if err := a.store.Put(ctx, ledger); err != nil {
		return attendance.Confirmation{}, fmt.Errorf("failed to persist ledger %s: %w", key, err)
	}

	confirmation := attendance.Confirmation{
		Event: attendance.Event{
			ID:              uuid.NewString(),
			Worker:          req.Worker,
			Kind:            req.Kind,
			OccurredAtUTC:   nowUTC,
			OccurredAtLocal: a.normalizer.Format(nowUTC),
		},
		Date:   local.Date,
		Period: key,
	}
	if row, ok := ledger.FindRow(req.Worker, local.Date); ok && req.Kind == attendance.CheckOut {
		confirmation.WorkedDuration = row.WorkedDuration
	}
	return confirmation, nil
}

func (a *AttendanceServiceImpl) apply(ledger *attendance.Ledger, req attendance.RegisterRequest, date attendance.Date, now time.Time) error {
	switch {
	case req.Kind == attendance.CheckIn && a.policy.AllowReregister:
		return ledger.OverwriteCheckIn(req.Worker, date, now)
	case req.Kind == attendance.CheckIn:
		return ledger.UpsertCheckIn(req.Worker, date, now)
	case a.policy.AllowReregister:
		return ledger.OverwriteCheckOut(req.Worker, date, now)
	default:
		return ledger.UpsertCheckOut(req.Worker, date, now)
	}
}

// loadOrCreate persists an empty ledger the first time a period is seen.
func (a *AttendanceServiceImpl) loadOrCreate(ctx context.Context, key attendance.PeriodKey) (*attendance.Ledger, error) {
	ledger, err := a.store.Get(ctx, key)
	if err == nil {
		return ledger, nil
	}
	if !errors.Is(err, attendance.ErrLedgerNotFound) {
		return nil, fmt.Errorf("failed to load ledger %s: %w", key, err)
	}

	ledger = attendance.NewLedger(key)
	if err := a.store.Put(ctx, ledger); err != nil {
		return nil, fmt.Errorf("failed to create ledger %s: %w", key, err)
	}
	return ledger, nil
}

// loadForRead returns an empty ledger for periods that were never written.
func (a *AttendanceServiceImpl) loadForRead(ctx context.Context, key attendance.PeriodKey) (*attendance.Ledger, error) {
	ledger, err := a.store.Get(ctx, key)
	if errors.Is(err, attendance.ErrLedgerNotFound) {
		return attendance.NewLedger(key), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %s: %w", key, err)
	}
	return ledger, nil
}

func (a *AttendanceServiceImpl) resolvePeriod(req *attendance.WeeklyRequest) attendance.PeriodKey {
	if key, ok := req.Key(); ok {
		return key
	}
	return a.normalizer.PeriodKey(a.clock.Now())
}

// WeeklyTotal implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) WeeklyTotal(ctx context.Context, req attendance.WeeklyRequest) (attendance.WeeklyTotalResponse, error) {
	if err := req.Validate(true); err != nil {
		return attendance.WeeklyTotalResponse{}, err
	}
	key := a.resolvePeriod(&req)

	ledger, err := a.loadForRead(ctx, key)
	if err != nil {
		return attendance.WeeklyTotalResponse{}, err
	}

	total := attendance.WeeklyTotal(ledger, req.Worker)
	return attendance.WeeklyTotalResponse{
		Worker:       req.Worker,
		Period:       key.String(),
		Total:        attendance.FormatDuration(total),
		TotalSeconds: int64(total / time.Second),
	}, nil
}

// SummaryAllWorkers implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SummaryAllWorkers(ctx context.Context, req attendance.WeeklyRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(false); err != nil {
		return attendance.SummaryResponse{}, err
	}
	key := a.resolvePeriod(&req)

	ledger, err := a.loadForRead(ctx, key)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	return attendance.SummaryResponse{
		Period:  key.String(),
		Workers: attendance.NewWorkerTotalResponses(attendance.SummaryAllWorkers(ledger)),
	}, nil
}

// WorkerHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) WorkerHistory(ctx context.Context, req attendance.WeeklyRequest) (attendance.WorkerHistoryResponse, error) {
	if err := req.Validate(true); err != nil {
		return attendance.WorkerHistoryResponse{}, err
	}
	key := a.resolvePeriod(&req)

	ledger, err := a.loadForRead(ctx, key)
	if err != nil {
		return attendance.WorkerHistoryResponse{}, err
	}

	var rows []attendance.Row
	for _, row := range ledger.AllRows() {
		if row.Worker == req.Worker {
			rows = append(rows, row)
		}
	}

	return attendance.WorkerHistoryResponse{
		Worker: req.Worker,
		Period: key.String(),
		Total:  attendance.FormatDuration(attendance.WeeklyTotal(ledger, req.Worker)),
		Rows:   attendance.NewRowResponses(rows, a.normalizer),
	}, nil
}

// MonthlyReport implements attendance.AttendanceService.
//
// Every week touching the month is loaded so rows dated in the month are never dropped;
// the report's Periods lists the weeks attributed to the month by their Monday.
func (a *AttendanceServiceImpl) MonthlyReport(ctx context.Context, req attendance.MonthlyReportRequest) (attendance.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthlyReport{}, err
	}
	month := time.Month(req.Month)

	candidates := attendance.PeriodsTouchingMonth(req.Year, month)
	stored, err := a.storedPeriods(ctx, candidates)
	if err != nil {
		return attendance.MonthlyReport{}, err
	}

	var ledgers []*attendance.Ledger
	for _, key := range candidates {
		if !stored[key] {
			continue
		}
		ledger, err := a.store.Get(ctx, key)
		if errors.Is(err, attendance.ErrLedgerNotFound) {
			continue
		}
		if err != nil {
			return attendance.MonthlyReport{}, fmt.Errorf("failed to load ledger %s: %w", key, err)
		}
		ledgers = append(ledgers, ledger)
	}

	rows, skipped := attendance.MonthlyMerge(ledgers, req.Year, month)
	return attendance.MonthlyReport{
		Year:    req.Year,
		Month:   month,
		Periods: attendance.PeriodsAttributedToMonth(req.Year, month),
		Rows:    rows,
		Summary: attendance.Summarize(rows),
		Skipped: skipped,
	}, nil
}

// storedPeriods lists the candidate keys the store actually holds.
func (a *AttendanceServiceImpl) storedPeriods(ctx context.Context, candidates []attendance.PeriodKey) (map[attendance.PeriodKey]bool, error) {
	prefixes := make(map[string]bool)
	for _, key := range candidates {
		prefixes[fmt.Sprintf("%04d-", key.Year)] = true
	}

	stored := make(map[attendance.PeriodKey]bool)
	for prefix := range prefixes {
		keys, err := a.store.List(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list ledgers %q: %w", prefix, err)
		}
		for _, key := range keys {
			stored[key] = true
		}
	}
	return stored, nil
}

// ExportMonthlyReport implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportMonthlyReport(ctx context.Context, req attendance.MonthlyReportRequest) (attendance.ExportResponse, error) {
	report, err := a.MonthlyReport(ctx, req)
	if err != nil {
		return attendance.ExportResponse{}, err
	}

	content, err := spreadsheet.EncodeMonthlyReport(report, a.normalizer)
	if err != nil {
		return attendance.ExportResponse{}, fmt.Errorf("failed to render monthly report: %w", err)
	}

	name := attendance.MonthlyReportName(report.Year, report.Month)
	if err := a.blobs.Put(ctx, name, content, spreadsheet.ContentType); err != nil {
		return attendance.ExportResponse{}, fmt.Errorf("failed to store monthly report: %w", err)
	}

	return attendance.ExportResponse{
		Name:        name,
		ContentType: spreadsheet.ContentType,
		Content:     content,
	}, nil
}

// ExportCurrentPeriod implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportCurrentPeriod(ctx context.Context) error {
	key := a.normalizer.PeriodKey(a.clock.Now())

	ledger, err := a.store.Get(ctx, key)
	if errors.Is(err, attendance.ErrLedgerNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load ledger %s: %w", key, err)
	}

	content, err := spreadsheet.EncodeLedger(a.normalizer.Records(ledger), ledger.Version)
	if err != nil {
		return fmt.Errorf("failed to render ledger %s: %w", key, err)
	}

	if err := a.blobs.Put(ctx, attendance.PeriodExportName(key), content, spreadsheet.ContentType); err != nil {
		return fmt.Errorf("failed to store ledger export %s: %w", key, err)
	}
	return nil
}

func NewAttendanceService(
	store attendance.EventStore,
	workers worker.Directory,
	blobs storage.BlobStore,
	normalizer *attendance.TimeNormalizer,
	clock attendance.Clock,
	policy attendance.Policy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		store:      store,
		workers:    workers,
		blobs:      blobs,
		normalizer: normalizer,
		clock:      clock,
		policy:     policy,
		locks:      newPeriodLocks(),
	}
}
