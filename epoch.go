// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Build a UTC timestamp from epoch components read from a RINEX file
// - Two-digit years: >= 89 is 19xx, < 89 is 20xx
// - Seconds and minutes within [60,120] are carried over as a duration added after the timestamp is built with the field set to 59
// - Returns ErrInvalidEpoch if the components don't form a valid date and time
func NormalizeEpoch(year, month, day, hour, min, sec, usec int) (time.Time, error) {
	if year >= 0 && year < 100 {
		if year >= 89 {
			year += 1900
		} else {
			year += 2000
		}
	}

	var delta time.Duration
	if sec >= 60 && sec <= 120 {
		delta += time.Duration(sec-59) * time.Second
		sec = 59
	}
	if min >= 60 && min <= 120 {
		delta += time.Duration(min-59) * time.Minute
		min = 59
	}

	if month < 1 || month > 12 {
		return time.Time{}, errors.Wrapf(ErrInvalidEpoch, "month %d is out of range", month)
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, errors.Wrapf(ErrInvalidEpoch, "day %d is out of range", day)
	}
	if hour < 0 || hour > 23 {
		return time.Time{}, errors.Wrapf(ErrInvalidEpoch, "hour %d is out of range", hour)
	}
	if min < 0 || min > 59 {
		return time.Time{}, errors.Wrapf(ErrInvalidEpoch, "minute %d is out of range", min)
	}
	if sec < 0 || sec > 59 {
		return time.Time{}, errors.Wrapf(ErrInvalidEpoch, "second %d is out of range", sec)
	}
	if usec < 0 || usec >= 1000000 {
		return time.Time{}, errors.Wrapf(ErrInvalidEpoch, "microsecond %d is out of range", usec)
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, usec*1000, time.UTC)
	return t.Add(delta), nil
}

// Number of days in the month
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Split float seconds into whole seconds and microseconds
// - The microsecond part is rounded to one decimal before truncation so that 44.0 doesn't become 43 s 999999 us
func splitSeconds(sec float64) (int, int) {
	whole := math.Trunc(sec)
	frac := (sec - whole) * 1e6
	frac, _ = strconv.ParseFloat(strconv.FormatFloat(frac, 'f', 1, 64), 64)
	return int(whole), int(frac)
}
