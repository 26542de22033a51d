package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService) *AttendanceJobs {
	return &AttendanceJobs{attendanceService: attendanceService}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, exportInterval time.Duration) {
	scheduler.AddJob("export_current_period", exportInterval, j.ExportCurrentPeriod)
}

// ExportCurrentPeriod refreshes the workbook copy of the running week's ledger.
func (j *AttendanceJobs) ExportCurrentPeriod(ctx context.Context) error {
	if err := j.attendanceService.ExportCurrentPeriod(ctx); err != nil {
		return fmt.Errorf("failed to export current period: %w", err)
	}
	return nil
}
