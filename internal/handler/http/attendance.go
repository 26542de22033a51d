package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetWeeklyTotal(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn handles POST /attendance/check-in
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, attendance.CheckIn)
}

// CheckOut handles POST /attendance/check-out
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, attendance.CheckOut)
}

func (h *attendanceHandlerImpl) register(w http.ResponseWriter, r *http.Request, kind attendance.Kind) {
	workerID, err := workerFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := attendance.RegisterRequest{Worker: workerID, Kind: kind}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	confirmation, err := h.attendanceService.Register(r.Context(), req)
	if err != nil {
		if attendance.IsSequenceError(err) {
			slog.Info("Registration rejected", "worker", workerID, "kind", kind, "error", err)
		} else {
			slog.Error("Registration failed", "worker", workerID, "kind", kind, "error", err)
		}
		response.HandleError(w, err)
		return
	}

	slog.Info("Registration recorded",
		"worker", workerID,
		"kind", kind,
		"local_time", confirmation.OccurredAtLocal,
		"period", confirmation.Period.String(),
	)
	response.Created(w, "Registration recorded", attendance.NewConfirmationResponse(confirmation))
}

// GetMyAttendance handles GET /attendance/me
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	workerID, err := workerFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := attendance.WeeklyRequest{
		Worker: workerID,
		Period: r.URL.Query().Get("period"),
	}
	history, err := h.attendanceService.WorkerHistory(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// GetWeeklyTotal handles GET /attendance/weekly?worker=&period=
func (h *attendanceHandlerImpl) GetWeeklyTotal(w http.ResponseWriter, r *http.Request) {
	req := attendance.WeeklyRequest{
		Worker: r.URL.Query().Get("worker"),
		Period: r.URL.Query().Get("period"),
	}
	if req.Worker == "" {
		workerID, err := workerFromRequest(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		req.Worker = workerID
	}

	total, err := h.attendanceService.WeeklyTotal(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, total)
}

// GetSummary handles GET /attendance/summary?period=
func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	req := attendance.WeeklyRequest{Period: r.URL.Query().Get("period")}

	summary, err := h.attendanceService.SummaryAllWorkers(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
