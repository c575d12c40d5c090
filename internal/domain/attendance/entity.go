package attendance

import "time"

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusHalfDay),
	string(StatusLeave),
	string(StatusHoliday),
}

// AttendanceRecord is the single row per (user, date). It is created on
// first check-in, holiday/leave mark or batch sweep, updated in place at
// check-out, and never deleted in normal operation. The (user_id, date)
// pair is unique at the database level; the interactive path relies on
// insert-or-fail against that constraint instead of a read-then-write
// check.
type AttendanceRecord struct {
	ID                 string
	UserID             string
	Date               time.Time
	Status             Status
	CheckInTime        *time.Time
	CheckOutTime       *time.Time
	CheckInLatitude    *float64
	CheckInLongitude   *float64
	CheckOutLatitude   *float64
	CheckOutLongitude  *float64
	LocationVerified   bool
	LocationName       *string
	ScheduledStartTime *string
	ScheduledEndTime   *string
	IsLate             *bool
	IsEarlyDeparture   *bool
	ActualWorkingHours *float64
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
