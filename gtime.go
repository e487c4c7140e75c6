// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"math"
	"time"
)

// Time expressed as week number and seconds of week of a satellite time scale
type GTime struct {
	Week int
	Sec  float64
}

// Return week number and seconds of week of dt counted from origin
func NewGTime(dt, origin time.Time) *GTime {
	days, _ := splitDuration(dt.Sub(origin))
	return &GTime{
		Week: int(math.Floor(float64(days) / 7)),
		Sec:  WeekSec(dt, origin),
	}
}

// Return seconds since the beginning of the week
// - Whole days contribute their fraction of the week, the rest of the elapsed time contributes its whole seconds (sub-second part is dropped)
func WeekSec(dt, origin time.Time) float64 {
	days, secs := splitDuration(dt.Sub(origin))
	week := float64(days) / 7.
	seconds := float64((week - math.Trunc(week)) * SecPerWeek)
	seconds += float64(secs)
	return seconds
}

// Return seconds since the beginning of the day
func DaySec(dt time.Time) int {
	return dt.Hour()*3600 + dt.Minute()*60 + dt.Second()
}

// Return signed offset in whole seconds from the message epoch to the
// observation epoch; positive when the observation is later
// - Only the time-of-day part of the difference is used, both epochs are expected to fall on the same day
func SignedOffset(msgEpoch, obsEpoch time.Time) float64 {
	if !obsEpoch.Before(msgEpoch) {
		_, secs := splitDuration(obsEpoch.Sub(msgEpoch))
		return float64(secs)
	}
	_, secs := splitDuration(msgEpoch.Sub(obsEpoch))
	return -float64(secs)
}

// Split a duration into days (floored, may be negative) and whole seconds of
// the remaining day within [0, 86400)
func splitDuration(d time.Duration) (days int64, secs int64) {
	day := SecPerDay * time.Second
	days = int64(d / day)
	rem := d % day
	if rem < 0 {
		days--
		rem += day
	}
	return days, int64(rem / time.Second)
}
