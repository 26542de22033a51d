package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	// Monthly attendance report as JSON
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)

	// Monthly attendance report as a workbook download
	ExportMonthlyReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	attendanceService attendance.AttendanceService
	normalizer        *attendance.TimeNormalizer
}

func NewReportHandler(attendanceService attendance.AttendanceService, normalizer *attendance.TimeNormalizer) ReportHandler {
	return &reportHandlerImpl{
		attendanceService: attendanceService,
		normalizer:        normalizer,
	}
}

func parseMonthlyRequest(w http.ResponseWriter, r *http.Request) (attendance.MonthlyReportRequest, bool) {
	year, ok := validator.IsInRange(r.URL.Query().Get("year"), 0, 9999)
	if !ok {
		response.BadRequest(w, "invalid year parameter", nil)
		return attendance.MonthlyReportRequest{}, false
	}

	month, ok := validator.IsInRange(r.URL.Query().Get("month"), 0, 99)
	if !ok {
		response.BadRequest(w, "invalid month parameter", nil)
		return attendance.MonthlyReportRequest{}, false
	}

	req := attendance.MonthlyReportRequest{Year: year, Month: month}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return attendance.MonthlyReportRequest{}, false
	}
	return req, true
}

// GetMonthlyReport handles GET /reports/monthly?year=&month=
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, ok := parseMonthlyRequest(w, r)
	if !ok {
		return
	}

	report, err := h.attendanceService.MonthlyReport(r.Context(), req)
	if err != nil {
		slog.Error("Monthly report failed", "year", req.Year, "month", req.Month, "error", err)
		response.HandleError(w, err)
		return
	}
	logSkipped(r, report)

	response.Success(w, attendance.NewMonthlyReportResponse(report, h.normalizer))
}

// ExportMonthlyReport handles GET /reports/monthly/export?year=&month=
func (h *reportHandlerImpl) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, ok := parseMonthlyRequest(w, r)
	if !ok {
		return
	}

	export, err := h.attendanceService.ExportMonthlyReport(r.Context(), req)
	if err != nil {
		slog.Error("Monthly export failed", "year", req.Year, "month", req.Month, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Monthly report exported", "name", export.Name, "bytes", len(export.Content))
	response.Attachment(w, export.Name, export.ContentType, export.Content)
}

func logSkipped(r *http.Request, report attendance.MonthlyReport) {
	for _, s := range report.Skipped {
		slog.WarnContext(r.Context(), "Monthly report skipped unreadable row",
			"year", report.Year,
			"month", int(report.Month),
			"worker", s.Record.Worker,
			"date", s.Record.Date,
			"field", s.Field,
			"error", s.Err,
		)
	}
}
