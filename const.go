// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

const (
	PI    = 3.1415926535897932 // Pi
	Mu    = 398600.44e+9       // Earth gravitational constant [m^3/s^2]
	OMGe  = 7.2921151467e-5    // Earth rotation angular velocity [rad/s]
	AeGLO = 6378136.0          // Equatorial radius of the Earth, PZ-90 (GLONASS ICD) [m]
	J2GLO = 1082625.7e-9       // Second zonal harmonic of the geopotential (GLONASS ICD)
	Re    = 6378137.0          // WGS84 semi-major axis [m]
	Rb    = 6356752.314245     // WGS84 semi-minor axis [m]

	SecPerDay  = 86400  // Seconds in a day
	SecPerWeek = 604800 // Seconds in a week
)
