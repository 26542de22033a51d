package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// REGISTRATION DTOs
// ========================================

type RegisterRequest struct {
	Worker string `json:"-"`
	Kind   Kind   `json:"kind"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Worker) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker",
			Message: "worker is required",
		})
	}

	if r.Kind != CheckIn && r.Kind != CheckOut {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: check_in, check_out",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ConfirmationResponse struct {
	EventID        string  `json:"event_id"`
	Worker         string  `json:"worker"`
	Kind           Kind    `json:"kind"`
	Date           string  `json:"date"`
	LocalTime      string  `json:"local_time"`
	Period         string  `json:"period"`
	WorkedDuration *string `json:"worked_duration,omitempty"`
}

func NewConfirmationResponse(c Confirmation) ConfirmationResponse {
	return ConfirmationResponse{
		EventID:        c.ID,
		Worker:         c.Worker,
		Kind:           c.Kind,
		Date:           c.Date.String(),
		LocalTime:      c.OccurredAtLocal,
		Period:         c.Period.String(),
		WorkedDuration: durationPtrToString(c.WorkedDuration),
	}
}

// ========================================
// WEEKLY DTOs
// ========================================

// WeeklyRequest selects a period; an empty Period means the current one.
type WeeklyRequest struct {
	Worker string `json:"worker,omitempty"`
	Period string `json:"period,omitempty"`

	key *PeriodKey
}

// Validate parses Period. requireWorker is set by operations scoped to one worker.
func (r *WeeklyRequest) Validate(requireWorker bool) error {
	var errs validator.ValidationErrors

	if requireWorker && validator.IsEmpty(r.Worker) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker",
			Message: "worker is required",
		})
	}

	r.key = nil
	if !validator.IsEmpty(r.Period) {
		key, err := ParsePeriodKey(r.Period)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "period",
				Message: "period must be in YYYY-Www format",
			})
		} else {
			r.key = &key
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Key returns the parsed period, if one was given.
func (r *WeeklyRequest) Key() (PeriodKey, bool) {
	if r.key == nil {
		return PeriodKey{}, false
	}
	return *r.key, true
}

type RowResponse struct {
	Worker         string  `json:"worker"`
	Date           string  `json:"date"`
	CheckIn        *string `json:"check_in"`
	CheckOut       *string `json:"check_out"`
	WorkedDuration *string `json:"worked_duration"`
	State          string  `json:"state"`
}

type WorkerTotalResponse struct {
	Worker       string `json:"worker"`
	Total        string `json:"total"`
	TotalSeconds int64  `json:"total_seconds"`
	CompleteDays int    `json:"complete_days"`
	OpenDays     int    `json:"open_days"`
}

type WeeklyTotalResponse struct {
	Worker       string `json:"worker"`
	Period       string `json:"period"`
	Total        string `json:"total"`
	TotalSeconds int64  `json:"total_seconds"`
}

type SummaryResponse struct {
	Period  string                `json:"period"`
	Workers []WorkerTotalResponse `json:"workers"`
}

type WorkerHistoryResponse struct {
	Worker string        `json:"worker"`
	Period string        `json:"period"`
	Total  string        `json:"total"`
	Rows   []RowResponse `json:"rows"`
}

// ========================================
// MONTHLY DTOs
// ========================================

type MonthlyReportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 9999",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SkippedRowResponse struct {
	Worker string `json:"worker"`
	Date   string `json:"date"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type MonthlyReportResponse struct {
	Year    int                   `json:"year"`
	Month   int                   `json:"month"`
	Periods []string              `json:"periods"`
	Rows    []RowResponse         `json:"rows"`
	Summary []WorkerTotalResponse `json:"summary"`
	Skipped []SkippedRowResponse  `json:"skipped,omitempty"`
}

type ExportResponse struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

// ========================================
// MAPPERS
// ========================================

func NewRowResponse(row Row, n *TimeNormalizer) RowResponse {
	resp := RowResponse{
		Worker:         row.Worker,
		Date:           row.Date.String(),
		WorkedDuration: durationPtrToString(row.WorkedDuration),
		State:          row.State().String(),
	}
	if row.CheckIn != nil {
		s := n.Format(*row.CheckIn)
		resp.CheckIn = &s
	}
	if row.CheckOut != nil {
		s := n.Format(*row.CheckOut)
		resp.CheckOut = &s
	}
	return resp
}

func NewRowResponses(rows []Row, n *TimeNormalizer) []RowResponse {
	out := make([]RowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewRowResponse(row, n))
	}
	return out
}

func NewWorkerTotalResponses(totals []WorkerTotal) []WorkerTotalResponse {
	out := make([]WorkerTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, WorkerTotalResponse{
			Worker:       t.Worker,
			Total:        FormatDuration(t.Total),
			TotalSeconds: int64(t.Total / time.Second),
			CompleteDays: t.CompleteDays,
			OpenDays:     t.OpenDays,
		})
	}
	return out
}

func NewMonthlyReportResponse(r MonthlyReport, n *TimeNormalizer) MonthlyReportResponse {
	periods := make([]string, 0, len(r.Periods))
	for _, k := range r.Periods {
		periods = append(periods, k.String())
	}
	resp := MonthlyReportResponse{
		Year:    r.Year,
		Month:   int(r.Month),
		Periods: periods,
		Rows:    NewRowResponses(r.Rows, n),
		Summary: NewWorkerTotalResponses(r.Summary),
	}
	for _, s := range r.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedRowResponse{
			Worker: s.Record.Worker,
			Date:   s.Record.Date,
			Field:  s.Field,
			Reason: s.Err.Error(),
		})
	}
	return resp
}

// MonthlyReportName is the blob name of an exported monthly workbook.
func MonthlyReportName(year int, month time.Month) string {
	return fmt.Sprintf("reportes/reporte_%04d_%02d.xlsx", year, int(month))
}

// PeriodExportName is the blob name of an exported weekly workbook.
func PeriodExportName(key PeriodKey) string {
	return "exports/" + PeriodFilename(key) + ".xlsx"
}

func durationPtrToString(d *time.Duration) *string {
	if d == nil {
		return nil
	}
	s := FormatDuration(*d)
	return &s
}
