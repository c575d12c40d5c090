package calendar

import "errors"

var ErrHolidayNotFound = errors.New("holiday not found")
