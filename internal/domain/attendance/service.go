package attendance

import (
	"context"
)

// AttendanceService defines the registration and reporting operations
type AttendanceService interface {
	// Register records a check-in or check-out for the worker at the current instant
	Register(ctx context.Context, req RegisterRequest) (Confirmation, error)

	// WeeklyTotal sums a worker's completed rows in one period (current period by default)
	WeeklyTotal(ctx context.Context, req WeeklyRequest) (WeeklyTotalResponse, error)

	// SummaryAllWorkers totals every worker in one period
	SummaryAllWorkers(ctx context.Context, req WeeklyRequest) (SummaryResponse, error)

	// WorkerHistory lists a worker's rows in one period
	WorkerHistory(ctx context.Context, req WeeklyRequest) (WorkerHistoryResponse, error)

	// MonthlyReport merges every row dated in a calendar month
	MonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)

	// ExportMonthlyReport renders the monthly report as a workbook and stores it
	ExportMonthlyReport(ctx context.Context, req MonthlyReportRequest) (ExportResponse, error)

	// ExportCurrentPeriod stores the current period's ledger as a workbook
	ExportCurrentPeriod(ctx context.Context) error
}
