package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	staff.StaffRepository
	staff.BranchRepository
	calendarProvider calendar.Provider
	shiftResolver    shift.ShiftService
	verifier         geofence.Verifier
	defaults         staff.BranchAttendanceConfig
	batchWorkers     int
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	staffRepo staff.StaffRepository,
	branchRepo staff.BranchRepository,
	calendarProvider calendar.Provider,
	shiftResolver shift.ShiftService,
	verifier geofence.Verifier,
	defaults staff.BranchAttendanceConfig,
	batchWorkers int,
) attendance.AttendanceService {
	if batchWorkers <= 0 {
		batchWorkers = 1
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		StaffRepository:      staffRepo,
		BranchRepository:     branchRepo,
		calendarProvider:     calendarProvider,
		shiftResolver:        shiftResolver,
		verifier:             verifier,
		defaults:             defaults,
		batchWorkers:         batchWorkers,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// scheduleTimeOn anchors an "HH:MM" clock string on the given calendar day
// in the given location.
func scheduleTimeOn(date time.Time, clock string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		t, err = time.Parse("15:04:05", clock)
		if err != nil {
			return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func (a *AttendanceServiceImpl) branchFor(ctx context.Context, st staff.Staff) (*staff.Branch, error) {
	if st.BranchID == nil {
		return nil, nil
	}
	branch, err := a.BranchRepository.GetByID(ctx, *st.BranchID)
	if err != nil {
		if errors.Is(err, staff.ErrBranchNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load branch: %w", err)
	}
	return &branch, nil
}

func branchLocation(branch *staff.Branch) *time.Location {
	if branch == nil || branch.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(branch.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func zoneFor(branch *staff.Branch, cfg staff.BranchAttendanceConfig) geofence.Zone {
	zone := geofence.Zone{Mode: cfg.Mode, RadiusMeters: cfg.RadiusMeters}
	if branch != nil {
		zone.BranchID = &branch.ID
		if branch.Latitude != nil && branch.Longitude != nil {
			zone.Center = &geofence.Coordinates{Latitude: *branch.Latitude, Longitude: *branch.Longitude}
		}
	}
	return zone
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, actor staff.Actor, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	checkInTime, _ := time.Parse(time.RFC3339, req.CheckInTime)

	st, err := a.StaffRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return attendance.AttendanceResponse{}, staff.ErrStaffNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load staff record: %w", err)
	}

	branch, err := a.branchFor(ctx, st)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	cfg := branch.AttendanceConfig(a.defaults)
	loc := branchLocation(branch)

	// Holiday strictly precedes approved leave: on a holiday the day is a
	// holiday even for someone with leave booked.
	isHoliday, err := a.calendarProvider.IsHoliday(ctx, date, st.BranchID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if isHoliday {
		notes := "Holiday"
		return a.createRecord(ctx, attendance.AttendanceRecord{
			ID:     uuid.NewString(),
			UserID: actor.UserID,
			Date:   date,
			Status: attendance.StatusHoliday,
			Notes:  &notes,
		})
	}

	hasLeave, err := a.calendarProvider.HasApprovedLeave(ctx, actor.UserID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if hasLeave {
		notes := "Approved leave"
		return a.createRecord(ctx, attendance.AttendanceRecord{
			ID:     uuid.NewString(),
			UserID: actor.UserID,
			Date:   date,
			Status: attendance.StatusLeave,
			Notes:  &notes,
		})
	}

	// Geofence verification is advisory: recorded, never a gate.
	verification := a.verifier.Verify(ctx, zoneFor(branch, cfg), req.Coordinates)

	resolution, err := a.shiftResolver.Resolve(ctx, actor.UserID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := attendance.AttendanceRecord{
		ID:               uuid.NewString(),
		UserID:           actor.UserID,
		Date:             date,
		Status:           attendance.StatusPresent,
		CheckInTime:      &checkInTime,
		LocationVerified: verification.Verified,
		LocationName:     verification.LocationName,
	}
	if req.Coordinates != nil {
		record.CheckInLatitude = &req.Coordinates.Latitude
		record.CheckInLongitude = &req.Coordinates.Longitude
	}

	if resolution.Working() {
		record.ScheduledStartTime = &resolution.Schedule.StartTime
		record.ScheduledEndTime = &resolution.Schedule.EndTime

		scheduledStart := scheduleTimeOn(date, resolution.Schedule.StartTime, loc)
		graceLimit := scheduledStart.Add(time.Duration(cfg.GraceMinutes) * time.Minute)
		if checkInTime.After(graceLimit) {
			record.Status = attendance.StatusLate
		}
	} else if req.Status != nil {
		// With no shift there is nothing to be late against; the caller
		// may pick the status, defaulting to present.
		record.Status = attendance.Status(*req.Status)
	}

	return a.createRecord(ctx, record)
}

func (a *AttendanceServiceImpl) createRecord(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceResponse, error) {
	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyRecorded) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyRecorded
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return mapRecordToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, actor staff.Actor, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	checkOutTime, _ := time.Parse(time.RFC3339, req.CheckOutTime)

	record, err := a.AttendanceRepository.GetByUserAndDate(ctx, actor.UserID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance record: %w", err)
	}
	if record == nil || record.CheckInTime == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOutTime != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	st, err := a.StaffRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return attendance.AttendanceResponse{}, staff.ErrStaffNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load staff record: %w", err)
	}
	branch, err := a.branchFor(ctx, st)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	cfg := branch.AttendanceConfig(a.defaults)
	loc := branchLocation(branch)

	verification := a.verifier.Verify(ctx, zoneFor(branch, cfg), req.Coordinates)

	record.CheckOutTime = &checkOutTime
	// Once either side of the day verified a location, the day stays
	// verified.
	record.LocationVerified = record.LocationVerified || verification.Verified
	if record.LocationName == nil {
		record.LocationName = verification.LocationName
	}
	if req.Coordinates != nil {
		record.CheckOutLatitude = &req.Coordinates.Latitude
		record.CheckOutLongitude = &req.Coordinates.Longitude
	}

	resolution, err := a.shiftResolver.Resolve(ctx, actor.UserID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if resolution.Working() {
		applyDerivedMetrics(record, resolution.Schedule, date, loc)
	}

	if err := a.AttendanceRepository.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapRecordToResponse(*record), nil
}

// applyDerivedMetrics fills is_late, is_early_departure and
// actual_working_hours from the resolved schedule. The fields stay nil on
// unscheduled dates.
func applyDerivedMetrics(record *attendance.AttendanceRecord, schedule *shift.Schedule, date time.Time, loc *time.Location) {
	record.ScheduledStartTime = &schedule.StartTime
	record.ScheduledEndTime = &schedule.EndTime

	scheduledStart := scheduleTimeOn(date, schedule.StartTime, loc)
	scheduledEnd := scheduleTimeOn(date, schedule.EndTime, loc)

	isLate := record.CheckInTime.After(scheduledStart)
	record.IsLate = &isLate

	isEarly := record.CheckOutTime.Before(scheduledEnd)
	record.IsEarlyDeparture = &isEarly

	worked := record.CheckOutTime.Sub(*record.CheckInTime).Hours() - float64(schedule.BreakMinutes)/60.0
	if worked < 0 {
		worked = 0
	}
	rounded, _ := decimal.NewFromFloat(worked).Round(2).Float64()
	record.ActualWorkingHours = &rounded
}

// ManualMark implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ManualMark(ctx context.Context, actor staff.Actor, req attendance.ManualMarkRequest) (attendance.AttendanceResponse, error) {
	if !actor.CanManageAttendance() {
		return attendance.AttendanceResponse{}, staff.ErrNotPermitted
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	record := attendance.AttendanceRecord{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		Date:   date,
		Status: attendance.Status(req.Status),
		Notes:  req.Notes,
	}

	resolution, err := a.shiftResolver.Resolve(ctx, req.UserID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if resolution.Working() {
		record.ScheduledStartTime = &resolution.Schedule.StartTime
		record.ScheduledEndTime = &resolution.Schedule.EndTime
	}

	return a.createRecord(ctx, record)
}

// ProcessDate implements attendance.AttendanceService. One idempotent
// sweep unit: existing records are never touched, and insertion uses
// on-conflict-do-nothing so a concurrent interactive check-in wins.
func (a *AttendanceServiceImpl) ProcessDate(ctx context.Context, userID string, date time.Time) (attendance.ProcessResult, error) {
	result := attendance.ProcessResult{UserID: userID}

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return result, fmt.Errorf("failed to load attendance record: %w", err)
	}
	if existing != nil {
		result.Outcome = attendance.OutcomeSkipped
		return result, nil
	}

	st, err := a.StaffRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return result, staff.ErrStaffNotFound
		}
		return result, fmt.Errorf("failed to load staff record: %w", err)
	}

	isHoliday, err := a.calendarProvider.IsHoliday(ctx, date, st.BranchID)
	if err != nil {
		return result, err
	}
	if isHoliday {
		notes := "Holiday"
		return a.sweepInsert(ctx, result, attendance.AttendanceRecord{
			ID:     uuid.NewString(),
			UserID: userID,
			Date:   date,
			Status: attendance.StatusHoliday,
			Notes:  &notes,
		})
	}

	hasLeave, err := a.calendarProvider.HasApprovedLeave(ctx, userID, date)
	if err != nil {
		return result, err
	}
	if hasLeave {
		notes := "Approved leave"
		return a.sweepInsert(ctx, result, attendance.AttendanceRecord{
			ID:     uuid.NewString(),
			UserID: userID,
			Date:   date,
			Status: attendance.StatusLeave,
			Notes:  &notes,
		})
	}

	resolution, err := a.shiftResolver.Resolve(ctx, userID, date)
	if err != nil {
		return result, err
	}
	if !resolution.Working() {
		// Nothing was expected of the user; not an absence.
		result.Outcome = attendance.OutcomeNoSchedule
		return result, nil
	}

	notes := "Scheduled shift but no check-in recorded"
	return a.sweepInsert(ctx, result, attendance.AttendanceRecord{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Date:               date,
		Status:             attendance.StatusAbsent,
		ScheduledStartTime: &resolution.Schedule.StartTime,
		ScheduledEndTime:   &resolution.Schedule.EndTime,
		Notes:              &notes,
	})
}

func (a *AttendanceServiceImpl) sweepInsert(ctx context.Context, result attendance.ProcessResult, record attendance.AttendanceRecord) (attendance.ProcessResult, error) {
	inserted, err := a.AttendanceRepository.CreateIfAbsent(ctx, record)
	if err != nil {
		return result, fmt.Errorf("failed to insert sweep record: %w", err)
	}
	if !inserted {
		result.Outcome = attendance.OutcomeSkipped
		return result, nil
	}
	result.Outcome = attendance.OutcomeCreated
	status := record.Status
	result.Status = &status
	return result, nil
}

// RefreshDate implements attendance.AttendanceService. A schedule-request
// approval can land after the date already has a record, either from a
// check-in or from the sweep; this path rewrites that record against the
// newly resolved schedule instead of skipping it.
func (a *AttendanceServiceImpl) RefreshDate(ctx context.Context, userID string, date time.Time) (attendance.ProcessResult, error) {
	result := attendance.ProcessResult{UserID: userID}

	record, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return result, fmt.Errorf("failed to load attendance record: %w", err)
	}
	if record == nil {
		return a.ProcessDate(ctx, userID, date)
	}

	st, err := a.StaffRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return result, staff.ErrStaffNotFound
		}
		return result, fmt.Errorf("failed to load staff record: %w", err)
	}
	branch, err := a.branchFor(ctx, st)
	if err != nil {
		return result, err
	}
	cfg := branch.AttendanceConfig(a.defaults)
	loc := branchLocation(branch)

	resolution, err := a.shiftResolver.Resolve(ctx, userID, date)
	if err != nil {
		return result, err
	}

	if !resolution.Working() {
		record.ScheduledStartTime = nil
		record.ScheduledEndTime = nil
		record.IsLate = nil
		record.IsEarlyDeparture = nil
		record.ActualWorkingHours = nil
		// A sweep-created absence is stale once the date resolved to a
		// day off.
		if record.CheckInTime == nil && record.Status == attendance.StatusAbsent {
			record.Status = attendance.StatusLeave
			notes := "Approved leave"
			record.Notes = &notes
		}
	} else {
		record.ScheduledStartTime = &resolution.Schedule.StartTime
		record.ScheduledEndTime = &resolution.Schedule.EndTime
		if record.CheckInTime != nil {
			if record.Status == attendance.StatusPresent || record.Status == attendance.StatusLate {
				scheduledStart := scheduleTimeOn(date, resolution.Schedule.StartTime, loc)
				graceLimit := scheduledStart.Add(time.Duration(cfg.GraceMinutes) * time.Minute)
				if record.CheckInTime.After(graceLimit) {
					record.Status = attendance.StatusLate
				} else {
					record.Status = attendance.StatusPresent
				}
			}
			if record.CheckOutTime != nil {
				applyDerivedMetrics(record, resolution.Schedule, date, loc)
			}
		}
	}

	if err := a.AttendanceRepository.Update(ctx, *record); err != nil {
		return result, fmt.Errorf("failed to update attendance record: %w", err)
	}

	result.Outcome = attendance.OutcomeUpdated
	status := record.Status
	result.Status = &status
	return result, nil
}

// ProcessBatch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ProcessBatch(ctx context.Context, actor staff.Actor, req attendance.ProcessBatchRequest) (attendance.BatchSummary, error) {
	if !actor.CanManageAttendance() {
		return attendance.BatchSummary{}, staff.ErrNotPermitted
	}
	if err := req.Validate(); err != nil {
		return attendance.BatchSummary{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	userIDs := req.UserIDs
	if len(userIDs) == 0 {
		var err error
		userIDs, err = a.StaffRepository.ListActiveIDs(ctx)
		if err != nil {
			return attendance.BatchSummary{}, fmt.Errorf("failed to list active staff: %w", err)
		}
	}

	summary := attendance.BatchSummary{
		Date:    req.Date,
		Results: make([]attendance.ProcessResult, 0, len(userIDs)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.batchWorkers)

	for _, userID := range userIDs {
		g.Go(func() error {
			result, err := a.ProcessDate(gctx, userID, date)
			if err != nil {
				return fmt.Errorf("sweep failed for user %s: %w", userID, err)
			}
			mu.Lock()
			defer mu.Unlock()
			summary.Results = append(summary.Results, result)
			switch result.Outcome {
			case attendance.OutcomeCreated:
				summary.Created++
			case attendance.OutcomeSkipped:
				summary.Skipped++
			case attendance.OutcomeNoSchedule:
				summary.NoSchedule++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return attendance.BatchSummary{}, err
	}

	return summary, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, actor staff.Actor, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := a.AttendanceRepository.ListByUser(ctx, actor.UserID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}
	return buildListResponse(records, total, filter), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, actor staff.Actor, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	if !actor.CanManageAttendance() {
		return attendance.ListAttendanceResponse{}, staff.ErrNotPermitted
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}
	return buildListResponse(records, total, filter), nil
}

func buildListResponse(records []attendance.AttendanceRecord, total int64, filter attendance.ListFilter) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}
}

func mapRecordToResponse(rec attendance.AttendanceRecord) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                 rec.ID,
		UserID:             rec.UserID,
		Date:               rec.Date.Format("2006-01-02"),
		Status:             string(rec.Status),
		CheckInTime:        timePtrToString(rec.CheckInTime),
		CheckOutTime:       timePtrToString(rec.CheckOutTime),
		LocationVerified:   rec.LocationVerified,
		LocationName:       rec.LocationName,
		ScheduledStartTime: rec.ScheduledStartTime,
		ScheduledEndTime:   rec.ScheduledEndTime,
		IsLate:             rec.IsLate,
		IsEarlyDeparture:   rec.IsEarlyDeparture,
		ActualWorkingHours: rec.ActualWorkingHours,
		Notes:              rec.Notes,
	}
}
