// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"time"

	"github.com/pkg/errors"
)

// Ephemeris chosen for an observation epoch and the time argument to
// propagate it with
type Selection struct {
	Eph    *Ephemeris
	Offset float64 // seconds of week (GPS-way) or seconds from the message epoch (GLONASS-way)
}

// Return the time of the epoch measured on the scale of the satellite system
func ReferenceTime(sys SysType, t time.Time) (float64, error) {
	origin, err := sys.EpochStart()
	if err != nil {
		return 0, err
	}
	return WeekSec(t, origin), nil
}

// Return the message valid for the epoch among messages sorted by epoch
// - The last message whose epoch is not after t, or the first one if t precedes all of them
// - The date of t must be the date of the first message
func NearestMessage(msgs []*Ephemeris, t time.Time) (*Ephemeris, error) {
	if len(msgs) == 0 {
		return nil, errors.Wrap(ErrMessageNotFound, "no messages")
	}
	fy, fm, fd := msgs[0].Epoch.Date()
	ty, tm, td := t.UTC().Date()
	if fy != ty || fm != tm || fd != td {
		return nil, errors.Wrap(ErrMessageNotFound, "the dates of the nav message and observation must be the same")
	}

	left, right := -1, len(msgs)
	for right-left > 1 {
		pivot := (left + right) / 2
		if !t.Before(msgs[pivot].Epoch) {
			left = pivot
		} else {
			right = pivot
		}
	}
	if left == -1 {
		return msgs[0], nil
	}
	return msgs[left], nil
}

// Select the navigation message for the satellite at epoch t
// - GPS-way: the first message, offset is seconds of week
// - GLONASS-way: the nearest preceding message, offset is seconds from it
func FindMessage(nav NavIndex, sys SysType, num int, t time.Time) (Selection, error) {
	way := sys.Way()
	if way == UnknownWay {
		return Selection{}, errors.Wrapf(ErrUnknownSystem, "'%c'", sys)
	}

	msgs := nav.Messages(sys, num)
	if len(msgs) == 0 {
		return Selection{}, errors.Wrapf(ErrMessageNotFound, "no such satellite: %s", NewSatType(sys, num))
	}

	switch way {
	case GPSWay:
		sec, err := ReferenceTime(sys, t)
		if err != nil {
			return Selection{}, err
		}
		if DBG_ >= 3 {
			origin, _ := sys.EpochStart()
			gt := NewGTime(t, origin)
			PrintA("%s %s: week=%d sec=%.3f\n", NewSatType(sys, num), t.Format("2006/01/02 15:04:05"), gt.Week, gt.Sec)
		}
		return Selection{Eph: msgs[0], Offset: sec}, nil
	case GLOWay:
		eph, err := NearestMessage(msgs, t)
		if err != nil {
			return Selection{}, errors.Wrapf(err, "%s %s", NewSatType(sys, num), t.Format("2006/01/02 15:04:05"))
		}
		offset := SignedOffset(eph.Epoch, t)
		PrintD(3, "%s %s: msg day sec=%d obs day sec=%d dt=%.0f\n", NewSatType(sys, num), t.Format("2006/01/02 15:04:05"), DaySec(eph.Epoch), DaySec(t), offset)
		return Selection{Eph: eph, Offset: offset}, nil
	}
	return Selection{}, errors.Wrapf(ErrMessageNotFound, "%s %s", NewSatType(sys, num), t.Format("2006/01/02 15:04:05"))
}
