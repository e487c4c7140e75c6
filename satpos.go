// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Calculate satellite position from orbit values and time argument
type PropagateFunc func(orbit []float64, t float64) (PosXYZ, error)

// Return position calculator for the satellite system
func Propagator(sys SysType) (PropagateFunc, error) {
	switch sys.Way() {
	case GPSWay:
		return KeplerXYZ, nil
	case GLOWay:
		return GlonassXYZ, nil
	default:
		return nil, errors.Wrapf(ErrUnknownSystem, "'%c'", sys)
	}
}

// Calculate satellite position of the selected message
func SatPos(sel Selection) (PosXYZ, error) {
	calc, err := Propagator(sel.Eph.Sys)
	if err != nil {
		return PosXYZ{}, err
	}
	return calc(sel.Eph.Orbit, sel.Offset)
}

// Upper bound of Kepler's equation iterations
const maxKeplerIter = 50

// Solve Kepler's equation E = M + e sin(E)
// - Newton iterations starting at E = M, stopped when the step size stops changing
func solveKepler(mk, ecc float64) float64 {
	ek := mk
	ek1 := ek + 1
	prv, cur := 0.0, 1.0
	for i := 0; prv != cur && i < maxKeplerIter; i++ {
		prv = math.Abs(ek - ek1)
		ek1 = ek
		ek = ek1 - (ek1-ecc*math.Sin(ek1)-mk)/(1-ecc*math.Cos(ek1))
		cur = math.Abs(ek - ek1)
	}
	return ek
}

// Rotation about X axis
func rotX(a float64) *mat.Dense {
	s, c := math.Sincos(a)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// Rotation about Z axis
func rotZ(a float64) *mat.Dense {
	s, c := math.Sincos(a)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// Calculate geocentric position of a GPS-way satellite
// - orbit: broadcast orbit values (IODE, Crs, DeltaN, M0, Cuc, e, Cus, sqrtA, Toe, Cic, Omega0, Cis, i0, Crc, omega, OmegaDot, IDOT, ...)
// - sec: seconds of week
func KeplerXYZ(orbit []float64, sec float64) (xyz PosXYZ, err error) {
	if len(orbit) < 17 {
		return xyz, errors.Wrapf(ErrRecordParse, "%d orbit values, Keplerian elements need 17", len(orbit))
	}
	crs := orbit[1]
	dn := orbit[2]
	m0 := orbit[3]
	cuc := orbit[4]
	ecc := orbit[5]
	cus := orbit[6]
	a := orbit[7] * orbit[7]
	toe := orbit[8]
	cic := orbit[9]
	omg0 := orbit[10]
	cis := orbit[11]
	i0 := orbit[12]
	crc := orbit[13]
	w := orbit[14]
	omgd := orbit[15]
	idot := orbit[16]

	tk := sec - toe
	if tk > SecPerWeek/2 {
		tk -= SecPerWeek
	} else if tk < -SecPerWeek/2 {
		tk += SecPerWeek
	}

	n := math.Sqrt(Mu/math.Pow(a, 3)) + dn
	mk := m0 + n*tk
	ek := solveKepler(mk, ecc)

	fs := math.Sqrt(1-ecc*ecc) * math.Sin(ek) / (1 - ecc*math.Cos(ek))
	fc := (math.Cos(ek) - ecc) / (1 - ecc*math.Cos(ek))
	vk := math.Atan2(fs, fc)

	pk := vk + w
	uk := pk + cuc*math.Cos(2*pk) + cus*math.Sin(2*pk)
	rk := a*(1-ecc*math.Cos(ek)) + crc*math.Cos(2*pk) + crs*math.Sin(2*pk)
	ik := i0 + (cic*math.Cos(2*pk) + cis*math.Sin(2*pk)) + idot*tk
	omk := omg0 + (omgd-OMGe)*tk - OMGe*toe

	// Position in the orbital plane rotated by inclination, then by right ascension
	var r mat.Dense
	r.Mul(rotZ(omk), rotX(ik))
	if DBG_ >= 4 {
		PrintMat(&r)
	}
	var p mat.VecDense
	p.MulVec(&r, mat.NewVecDense(3, []float64{rk * math.Cos(uk), rk * math.Sin(uk), 0}))

	xyz.X = p.AtVec(0)
	xyz.Y = p.AtVec(1)
	xyz.Z = p.AtVec(2)
	return xyz, nil
}

// Calculate geocentric position of a GLONASS-way satellite (GLONASS ICD ver 5.1, 2008)
// - orbit: X, Vx, Ax, -, Y, Vy, Ay, -, Z, Vz, Az, - [km, km/s, km/s^2]
// - dt: seconds from the message epoch
func GlonassXYZ(orbit []float64, dt float64) (xyz PosXYZ, err error) {
	if len(orbit) < 11 {
		return xyz, errors.Wrapf(ErrRecordParse, "%d orbit values, state vector needs 11", len(orbit))
	}
	x0 := orbit[0] * 1000
	vx := orbit[1] * 1000
	ax := orbit[2] * 1000

	y0 := orbit[4] * 1000
	vy := orbit[5] * 1000
	ay := orbit[6] * 1000

	z0 := orbit[8] * 1000
	vz := orbit[9] * 1000
	az := orbit[10] * 1000

	if dt == 0 {
		return PosXYZ{X: x0, Y: y0, Z: z0}, nil
	}

	r := math.Sqrt(x0*x0 + y0*y0 + z0*z0)
	r2 := r * r

	// Range dependent factors are taken at the initial state
	c1 := -(Mu / math.Pow(r, 3))
	c2 := 3 / 2. * J2GLO * Mu * AeGLO * AeGLO / math.Pow(r, 5)

	fx := func(x, z float64) float64 {
		return c1*x - c2*x*(1-5*z*z/r2) + OMGe*OMGe*x + 2*OMGe*vy + ax
	}
	fy := func(y, z float64) float64 {
		return c1*y - c2*y*(1-5*z*z/r2) + OMGe*OMGe*y - 2*OMGe*vx + ay
	}
	fz := func(z float64) float64 {
		return c1*z - c2*z*(3-5*z*z/r2) + az
	}

	var kx, ky, kz [3]float64

	// 1
	kx[0] = fx(x0, z0) * dt
	ky[0] = fy(y0, z0) * dt
	kz[0] = fz(z0) * dt

	x1 := x0 + vx*dt/2. + kx[0]*dt/8.
	y1 := y0 + vy*dt/2. + ky[0]*dt/8.
	z1 := z0 + vz*dt/2. + kz[0]*dt/8.

	// 2
	kx[1] = fx(x1, z1) * dt
	ky[1] = fy(y1, z1) * dt
	kz[1] = fz(z1) * dt

	x2 := x0 + vx*dt/2. + kx[1]*dt/8.
	y2 := y0 + vy*dt/2. + ky[1]*dt/8.
	z2 := z0 + vz*dt/2. + kz[1]*dt/8.

	// 3
	kx[2] = fx(x2, z2) * dt
	ky[2] = fy(y2, z2) * dt
	kz[2] = fz(z2) * dt

	xyz.X = x0 + vx*dt + (kx[0]+kx[1]+kx[2])*dt/6
	xyz.Y = y0 + vy*dt + (ky[0]+ky[1]+ky[2])*dt/6
	xyz.Z = z0 + vz*dt + (kz[0]+kz[1]+kz[2])*dt/6
	return xyz, nil
}
