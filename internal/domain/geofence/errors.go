package geofence

import "errors"

var ErrLocationNotFound = errors.New("attendance location not found")
