package shift

// ScheduleSource records which tier of the resolution order produced the
// outcome. Resolution priority is exception, then active assignment, then
// nothing: manual overrides beat standing schedules, standing schedules
// beat no information.
type ScheduleSource string

const (
	SourceException     ScheduleSource = "exception"
	SourceDayOff        ScheduleSource = "day_off"
	SourceAssignment    ScheduleSource = "assignment"
	SourceNonWorkingDay ScheduleSource = "non_working_day"
	SourceUnscheduled   ScheduleSource = "unscheduled"
)

// Schedule is the effective work window for one (user, date).
type Schedule struct {
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
}

// Resolution is the outcome of resolving a user's schedule for a date.
// Schedule is nil when the user is not expected to work (day off, a
// non-working weekday, or no schedule information at all); Source says why.
type Resolution struct {
	Schedule *Schedule      `json:"schedule"`
	Source   ScheduleSource `json:"source"`
}

// Working reports whether a work window was resolved for the date.
func (r Resolution) Working() bool {
	return r.Schedule != nil
}
