package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
)

// AttendanceJobs carries the nightly sweep that closes out the previous
// day: every active staff member without a record gets one derived from
// the calendar and their resolved schedule.
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	staffRepo         staff.StaffRepository
}

func NewAttendanceJobs(
	attendanceService attendance.AttendanceService,
	staffRepo staff.StaffRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		staffRepo:         staffRepo,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_previous_day", 1*time.Hour, j.SweepPreviousDay)
}

// SweepPreviousDay runs the idempotent batch sweep for yesterday. The job
// ticks hourly but only acts during the first hour of the day, so a restart
// mid-morning does not trigger a spurious sweep.
func (j *AttendanceJobs) SweepPreviousDay(ctx context.Context) error {
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	date := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	slog.Info("Cron: starting previous-day attendance sweep", "date", date.Format("2006-01-02"))

	userIDs, err := j.staffRepo.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active staff: %w", err)
	}

	var created, skipped, noSchedule, failed int
	for _, userID := range userIDs {
		result, err := j.attendanceService.ProcessDate(ctx, userID, date)
		if err != nil {
			failed++
			slog.Error("Cron: sweep failed for user", "user_id", userID, "error", err)
			continue
		}
		switch result.Outcome {
		case attendance.OutcomeCreated:
			created++
		case attendance.OutcomeSkipped:
			skipped++
		case attendance.OutcomeNoSchedule:
			noSchedule++
		}
	}

	slog.Info("Cron: previous-day attendance sweep finished",
		"date", date.Format("2006-01-02"),
		"created", created,
		"skipped", skipped,
		"no_schedule", noSchedule,
		"failed", failed,
	)

	return nil
}
