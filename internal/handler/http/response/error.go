package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/worker"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var policyErr *attendance.PolicyError
	if errors.As(err, &policyErr) {
		UnprocessableEntity(w, "OUTSIDE_POLICY_WINDOW", policyErr.Error(), map[string]string{
			"kind":       string(policyErr.Kind),
			"deadline":   fmt.Sprintf("%02d:00", policyErr.Deadline),
			"local_time": policyErr.LocalTime,
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")

	// Worker domain errors
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Check-in already registered for today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Check-out already registered for today")
	case errors.Is(err, attendance.ErrNoCheckInYet):
		Conflict(w, "No check-in registered for today")
	case errors.Is(err, attendance.ErrNonPositiveDuration):
		UnprocessableEntity(w, "NON_POSITIVE_DURATION", "Check-out must be later than check-in", nil)
	case errors.Is(err, attendance.ErrVersionConflict):
		Conflict(w, "Attendance changed concurrently, verify and retry")
	case errors.Is(err, attendance.ErrLedgerNotFound):
		NotFound(w, "Attendance period not found")
	case errors.Is(err, attendance.ErrInvalidPeriodKey):
		BadRequest(w, "Invalid period", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
