package shift

import "time"

type RecurrencePattern string

const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceCustom  RecurrencePattern = "custom"
)

var RecurrencePatternValues = []string{
	string(RecurrenceDaily),
	string(RecurrenceWeekly),
	string(RecurrenceMonthly),
	string(RecurrenceCustom),
}

// ShiftTemplate is a reusable work-time pattern. Clock times are "HH:MM"
// strings in the branch-local day. RecurrenceDays is empty for templates
// that apply every day; a non-empty set restricts the template to those
// weekdays (canonical time.Weekday, normalized at write time).
type ShiftTemplate struct {
	ID                string
	Name              string
	StartTime         string
	EndTime           string
	BreakMinutes      int
	EffectiveFrom     *time.Time
	EffectiveTo       *time.Time
	RecurrencePattern RecurrencePattern
	RecurrenceDays    []time.Weekday
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AppliesOn reports whether the template's effective range and recurrence
// cover the date.
func (t ShiftTemplate) AppliesOn(date time.Time) bool {
	if t.EffectiveFrom != nil && date.Before(*t.EffectiveFrom) {
		return false
	}
	if t.EffectiveTo != nil && date.After(*t.EffectiveTo) {
		return false
	}
	if len(t.RecurrenceDays) == 0 {
		return true
	}
	weekday := date.Weekday()
	for _, d := range t.RecurrenceDays {
		if d == weekday {
			return true
		}
	}
	return false
}

type AssignmentType string

const (
	AssignmentPermanent AssignmentType = "permanent"
	AssignmentTemporary AssignmentType = "temporary"
	AssignmentRotating  AssignmentType = "rotating"
)

var AssignmentTypeValues = []string{
	string(AssignmentPermanent),
	string(AssignmentTemporary),
	string(AssignmentRotating),
}

type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusApproved  AssignmentStatus = "approved"
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusExpired   AssignmentStatus = "expired"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// ShiftAssignment binds a user to a template or a custom window for an
// effective range. At most one assignment per user is active; creating a
// new one expires the previous active row.
type ShiftAssignment struct {
	ID                 string
	UserID             string
	ShiftTemplateID    *string
	CustomStartTime    *string
	CustomEndTime      *string
	CustomBreakMinutes *int
	EffectiveFrom      time.Time
	EffectiveTo        *time.Time
	AssignmentType     AssignmentType
	Status             AssignmentStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Covers reports whether the assignment's effective range contains date.
// A nil EffectiveTo is open-ended.
func (a ShiftAssignment) Covers(date time.Time) bool {
	if date.Before(a.EffectiveFrom) {
		return false
	}
	if a.EffectiveTo != nil && date.After(*a.EffectiveTo) {
		return false
	}
	return true
}

type ExceptionType string

const (
	ExceptionDayOff          ExceptionType = "day_off"
	ExceptionSpecialSchedule ExceptionType = "special_schedule"
)

type ExceptionStatus string

const (
	ExceptionStatusActive  ExceptionStatus = "active"
	ExceptionStatusRevoked ExceptionStatus = "revoked"
)

// ShiftException is a one-off override for a single (user, date) that beats
// the standing assignment. Exceptions are revoked, never edited.
type ShiftException struct {
	ID              string
	UserID          string
	ExceptionDate   time.Time
	ExceptionType   ExceptionType
	NewStartTime    *string
	NewEndTime      *string
	NewBreakMinutes *int
	Reason          string
	ApprovedBy      *string
	Status          ExceptionStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
