// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSysTypeWay(t *testing.T) {
	for _, s := range []SysType{'G', 'E', 'C', 'I', 'J'} {
		assert.Equal(t, GPSWay, s.Way(), "%c", s)
		_, err := s.EpochStart()
		assert.NoError(t, err, "%c", s)
	}
	for _, s := range []SysType{'R', 'S'} {
		assert.Equal(t, GLOWay, s.Way(), "%c", s)
	}
	assert.Equal(t, UnknownWay, SysType('X').Way())
	assert.False(t, SysType('X').IsValid())

	_, err := SysType('R').EpochStart()
	assert.ErrorIs(t, err, ErrUnknownSystem)
	_, err = SysType('X').valuesPerOrbit()
	assert.ErrorIs(t, err, ErrUnknownSystem)
}

func TestSatType(t *testing.T) {
	sat := NewSatType('G', 1)
	assert.Equal(t, SatType("G01"), sat)
	assert.Equal(t, SysType('G'), sat.Sys())
	assert.Equal(t, 1, sat.Num())

	sat = NewSatType('S', 120)
	assert.Equal(t, SatType("S120"), sat)
	assert.Equal(t, 120, sat.Num())

	for in, want := range map[string]SatType{"G01": "G01", "R5": "R05", " E11 ": "E11", "S120": "S120"} {
		got, err := ParseSatType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "G", "Gxx", "G-1"} {
		_, err := ParseSatType(in)
		assert.Error(t, err, in)
	}
}
