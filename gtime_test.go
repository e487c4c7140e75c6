// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var gpsStart = time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC)

func TestWeekSec(t *testing.T) {
	// 2 days and 30 seconds
	epoch := time.Date(1980, 1, 8, 0, 0, 30, 0, time.UTC)
	assert.Equal(t, 172830.0, WeekSec(epoch, gpsStart))

	// Fraction of the week of whole days is not exact
	epoch = time.Date(2017, 9, 8, 0, 40, 0, 0, time.UTC)
	assert.Equal(t, 434400.0000000393, WeekSec(epoch, gpsStart))

	// Sub-second part is dropped
	epoch = time.Date(1980, 1, 6, 0, 0, 30, 900000000, time.UTC)
	assert.Equal(t, 30.0, WeekSec(epoch, gpsStart))
}

func TestNewGTime(t *testing.T) {
	epoch := time.Date(1980, 1, 20, 0, 1, 0, 0, time.UTC)
	gt := NewGTime(epoch, gpsStart)
	assert.Equal(t, 2, gt.Week)
	assert.Equal(t, 60.0, gt.Sec)
}

func TestDaySec(t *testing.T) {
	epoch := time.Date(1980, 1, 6, 0, 2, 30, 0, time.UTC)
	assert.Equal(t, 150, DaySec(epoch))
}

func TestSignedOffset(t *testing.T) {
	obs := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	msg := time.Date(2017, 1, 1, 0, 0, 30, 0, time.UTC)
	assert.Equal(t, -30.0, SignedOffset(msg, obs))

	obs = time.Date(2017, 1, 1, 0, 5, 30, 0, time.UTC)
	msg = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 330.0, SignedOffset(msg, obs))

	assert.Equal(t, 0.0, SignedOffset(msg, msg))
}
