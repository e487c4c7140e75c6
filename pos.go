// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//-------------------------------------------------------------------
// Ellipsoid
//-------------------------------------------------------------------

type Ellipsoid struct {
	A float64 // Semi-major axis
	B float64 // Semi-minor axis
}

var WGS84 = Ellipsoid{A: Re, B: Rb}

// First eccentricity squared
func (ell Ellipsoid) E2() float64 {
	e := math.Sqrt(1 - math.Pow(ell.B, 2)/math.Pow(ell.A, 2))
	return e * e
}

//-------------------------------------------------------------------
// PosLBH
//-------------------------------------------------------------------

// Geodetic coordinates: longitude, latitude and height
type PosLBH struct {
	L float64
	B float64
	H float64
}

// Convert to geocentric coordinates (L and B in radians)
func (lbh PosLBH) ToXYZ(ell Ellipsoid) PosXYZ {
	e2 := ell.E2()
	sinb := math.Sin(lbh.B)
	n := ell.A / math.Sqrt(1-e2*sinb*sinb)
	return PosXYZ{
		X: (n + lbh.H) * math.Cos(lbh.B) * math.Cos(lbh.L),
		Y: (n + lbh.H) * math.Cos(lbh.B) * math.Sin(lbh.L),
		Z: (n*(1-e2) + lbh.H) * sinb,
	}
}

// Read from string "L B H" in degrees
func (lbh *PosLBH) Set(s string) error {
	f := strings.Fields(s)
	if len(f) != 3 {
		return errors.Errorf("can't read L B H: %q", s)
	}
	var v [3]float64
	for i := range v {
		x, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return errors.Wrapf(err, "can't read L B H: %q", s)
		}
		v[i] = x
	}
	lbh.L = ToRad(v[0])
	lbh.B = ToRad(v[1])
	lbh.H = v[2]
	return nil
}

// Convert to string (degrees)
func (lbh *PosLBH) String() string {
	return fmt.Sprintf("%.8f %.8f %.4f", ToDeg(lbh.L), ToDeg(lbh.B), lbh.H)
}

//-------------------------------------------------------------------
// PosXYZ
//-------------------------------------------------------------------

// Geocentric coordinates [m]
type PosXYZ struct {
	X float64
	Y float64
	Z float64
}

// Threshold and upper bound of the latitude iterations
const (
	lbhEps     = 1e-12
	maxLBHIter = 100
)

// Convert to geodetic coordinates
// - deg: L and B in degrees with L in [0, 360), radians otherwise
func (pos PosXYZ) ToLBH(ell Ellipsoid, deg bool) PosLBH {
	e2 := ell.E2()
	q := math.Sqrt(math.Pow(pos.X, 2) + math.Pow(pos.Y, 2))

	var l float64
	if pos.X == 0 {
		if pos.Y > 0 {
			l = PI / 2
		} else {
			l = 3 * PI / 2
		}
	} else {
		l = math.Atan2(pos.Y, pos.X)
	}

	// On the polar axis; the origin is taken as the depth of the north pole
	if q == 0 {
		b, h := PI/2, pos.Z-ell.B
		if pos.Z < 0 {
			b, h = -PI/2, -pos.Z-ell.B
		}
		if deg {
			l, b = ToDeg(l), ToDeg(b)
		}
		return PosLBH{L: l, B: b, H: h}
	}

	// Latitude by fixed-point iterations
	b1 := pos.Z / q * 1 / (1 - e2)
	b0 := b1
	n := 0.0
	for i := 0; i < maxLBHIter; i++ {
		w := math.Sqrt(1 - e2*math.Pow(math.Sin(b0), 2))
		n = ell.A / w
		t := pos.Z + n*e2*math.Sin(b0)
		b1 = math.Atan2(t, q)
		if math.Abs(b1-b0) <= lbhEps {
			break
		}
		b0 = b1
	}
	b := b1
	h := q*math.Cos(b) + pos.Z*math.Sin(b) - n*(1-e2*math.Pow(math.Sin(b), 2))

	if deg {
		l = ToDeg(l)
		b = ToDeg(b)
		if l < 0 {
			l += 360
		}
	}
	return PosLBH{L: l, B: b, H: h}
}

// Convert to local coordinates around base
func (pos PosXYZ) ToENU(base PosXYZ) PosENU {
	// Relative position from the reference location
	x := pos.X - base.X
	y := pos.Y - base.Y
	z := pos.Z - base.Z

	lbh := base.ToLBH(WGS84, false)
	s1, c1 := math.Sincos(lbh.L)
	s2, c2 := math.Sincos(lbh.B)

	return PosENU{
		E: -x*s1 + y*c1,
		N: -x*c1*s2 - y*s1*s2 + z*c2,
		U: x*c1*c2 + y*s1*c2 + z*s2,
	}
}

// Elevation of sat seen from usr [rad]
func (usr PosXYZ) Elevation(sat PosXYZ) float64 {
	enu := sat.ToENU(usr)
	return enu.Elevation()
}

// Azimuth of sat seen from usr [rad]
func (usr PosXYZ) Azimuth(sat PosXYZ) float64 {
	enu := sat.ToENU(usr)
	return enu.Azimuth()
}

func (pos PosXYZ) String() string {
	return fmt.Sprintf("%.4f %.4f %.4f", pos.X, pos.Y, pos.Z)
}

//-------------------------------------------------------------------
// PosENU
//-------------------------------------------------------------------

type PosENU struct {
	E float64
	N float64
	U float64
}

func (enu PosENU) Elevation() float64 {
	return math.Atan2(enu.U, math.Sqrt(enu.E*enu.E+enu.N*enu.N))
}

func (enu PosENU) Azimuth() float64 {
	return math.Atan2(enu.E, enu.N)
}
