// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleMessageV2 = ` 1 15  6 21  1 59 44.0-3.993976861238D-06 5.684341886081D-13 0.000000000000D+00
    1.400000000000D+01-4.700000000000D+01 4.392682972878D-09-2.839730993303D+00
   -2.508983016014D-06 4.379398305900D-03 1.055561006069D-05 5.153669719696D+03
    7.184000000000D+03-7.823109626770D-08-2.426429599721D+00-8.381903171539D-08
    9.624417937924D-01 1.785000000000D+02 3.916456197607D-01-7.789967340551D-09
    1.664355041354D-10 1.000000000000D+00 1.850000000000D+03 0.000000000000D+00
    2.000000000000D+00 0.000000000000D+00 5.587935447693D-09 1.400000000000D+01
    3.000000000000D+01 4.000000000000D+00
`

const singleGeoMessageV3 = `S20 2017 09 08 00 16 32 0.000000000000e+00 0.000000000000e+00 4.330030000000e+05
     4.063672000000e+04 0.000000000000e+00 0.000000000000e+00 1.000000000000e+00
    -1.124591600000e+04 0.000000000000e+00 0.000000000000e+00 3.276700000000e+04
     0.000000000000e+00 0.000000000000e+00 0.000000000000e+00 2.150000000000e+02
`

// Header line with the label at column 61
func headerLine(s, label string) string {
	return s + strings.Repeat(" ", 60-len(s)) + label + "\n"
}

func TestReadVersionType(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		version float64
		format  Format
		ftype   byte
	}{
		{"2", "     2              NAVIGATION DATA", 2.0, FormatV2, 'N'},
		{"2.01", "     2.01           GLONASS NAV DATA", 2.01, FormatV2, 'G'},
		{"2.10 R", "     2.10           GLONASS NAV DATA", 2.1, FormatV2, 'G'},
		{"2.10 G", "     2.10           N: GPS NAV DATA", 2.1, FormatV2, 'N'},
		{"2.11", "     2.11           H: GEO NAV MSG DATA", 2.11, FormatV2, 'H'},
		{"3.00", "     3.00           N: GNSS NAV DATA    G: GPS", 3.0, FormatV3, 'N'},
		{"3.01", "     3.01           N: GNSS NAV DATA    G: GPS", 3.01, FormatV3, 'N'},
		{"3.02", "     3.02           N: GNSS NAV DATA    G: GPS", 3.02, FormatV3, 'N'},
		{"3.03", "     3.03           N: GNSS NAV DATA    G: GPS", 3.03, FormatV3, 'N'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hdr, err := ReadVersionType(strings.NewReader(headerLine(tt.line, "RINEX VERSION / TYPE")))
			require.NoError(t, err)
			assert.Equal(t, tt.version, hdr.Version)
			assert.Equal(t, tt.format, hdr.Format)
			assert.Equal(t, tt.ftype, hdr.FileType)
			if tt.format == FormatV3 {
				assert.Equal(t, SysType('G'), hdr.System)
			}
		})
	}
}

func TestReadVersionTypeUnsupported(t *testing.T) {
	for _, v := range []string{"3.04", "3.06", "2.12"} {
		t.Run(v, func(t *testing.T) {
			line := headerLine("     "+v+"           N: GNSS NAV DATA    G: GPS", "RINEX VERSION / TYPE")
			_, err := ReadVersionType(strings.NewReader(line))
			assert.ErrorIs(t, err, ErrUnsupportedVersion)
			assert.Contains(t, err.Error(), v)
		})
	}
}

func TestReadVersionTypeMalformed(t *testing.T) {
	_, err := ReadVersionType(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnexpectedEOF)

	_, err = ReadVersionType(strings.NewReader("     x.xx           N: GNSS NAV DATA\n"))
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = ReadVersionType(strings.NewReader("     2.11\n"))
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestSkipHeader(t *testing.T) {
	ls := newLineSource(strings.NewReader(
		headerLine("    18", "LEAP SECONDS") +
			headerLine("", "END OF HEADER") +
			" 1 16  4 11  0  0  0.0 0.169607810676D-04 0.113686837722D-11 0.000000000000D+00\n"))
	require.NoError(t, skipHeader(ls))
	line, err := ls.next()
	require.NoError(t, err)
	assert.Equal(t, " 1 16  4 11  0  0  0.0 0.169607810676D-04 0.113686837722D-11 0.000000000000D+00", line)

	ls = newLineSource(strings.NewReader(headerLine("    18", "LEAP SECONDS")))
	assert.ErrorIs(t, skipHeader(ls), ErrUnexpectedEOF)
}

func TestReadEpochV2(t *testing.T) {
	ls := newLineSource(strings.NewReader(singleMessageV2))
	el, err := readEpoch(ls, FormatV2, 'G')
	require.NoError(t, err)
	assert.Equal(t, SysType('G'), el.sys)
	assert.Equal(t, 1, el.num)
	assert.Equal(t, time.Date(2015, 6, 21, 1, 59, 44, 0, time.UTC), el.epoch)
	assert.Equal(t, [3]float64{-3.993976861238e-06, 5.684341886081e-13, 0}, el.clock)

	// The next line is an orbit line
	_, err = readEpoch(ls, FormatV2, 'G')
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, ErrRecordParse)
	assert.Equal(t, "    1.400000000000D+01-4.700000000000D+01 4.392682972878D-09-2.839730993303D+00", perr.Line)

	// End of input
	for i := 0; i < 6; i++ {
		_, err := ls.next()
		require.NoError(t, err)
	}
	_, err = readEpoch(ls, FormatV2, 'G')
	assert.Equal(t, io.EOF, err)
}

func TestReadEpochV3(t *testing.T) {
	ls := newLineSource(strings.NewReader(singleGeoMessageV3))
	el, err := readEpoch(ls, FormatV3, 0)
	require.NoError(t, err)
	assert.Equal(t, SysType('S'), el.sys)
	assert.Equal(t, 20, el.num)
	assert.Equal(t, time.Date(2017, 9, 8, 0, 16, 32, 0, time.UTC), el.epoch)
	assert.Equal(t, [3]float64{0, 0, 433003}, el.clock)
}

func TestReadEpochUnknownSystem(t *testing.T) {
	line := "X01 2017 09 08 00 00 00 5.530333146453e-05-4.547473508865e-13 0.000000000000e+00"
	_, err := readEpoch(newLineSource(strings.NewReader(line)), FormatV3, 0)
	assert.ErrorIs(t, err, ErrRecordParse)
	assert.ErrorIs(t, err, ErrUnknownSystem)
}

func TestReadEpochInvalidDate(t *testing.T) {
	line := " 1 15 13 21  1 59 44.0-3.993976861238D-06 5.684341886081D-13 0.000000000000D+00"
	_, err := readEpoch(newLineSource(strings.NewReader(line)), FormatV2, 'G')
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, line, perr.Line)
	assert.ErrorIs(t, err, ErrInvalidEpoch)
}

func TestReadOrbitLines(t *testing.T) {
	ls := newLineSource(strings.NewReader(singleMessageV2))
	_, err := ls.next()
	require.NoError(t, err)

	want := []string{
		"    1.400000000000D+01-4.700000000000D+01 4.392682972878D-09-2.839730993303D+00",
		"   -2.508983016014D-06 4.379398305900D-03 1.055561006069D-05 5.153669719696D+03",
		"    7.184000000000D+03-7.823109626770D-08-2.426429599721D+00-8.381903171539D-08",
		"    9.624417937924D-01 1.785000000000D+02 3.916456197607D-01-7.789967340551D-09",
		"    1.664355041354D-10 1.000000000000D+00 1.850000000000D+03 0.000000000000D+00",
		"    2.000000000000D+00 0.000000000000D+00 5.587935447693D-09 1.400000000000D+01",
		"    3.000000000000D+01 4.000000000000D+00",
	}
	got, err := readOrbitLines(ls, 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = readOrbitLines(ls, 7)
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestParseOrbitLines(t *testing.T) {
	orbits := []string{
		"    0.350000000000D+02 0.222500000000D+02 0.482198656938D-08 0.368417754673D+00",
		"    0.121630728245D-05 0.527631223667D-02 0.668689608574D-05 0.515364252472D+04",
		"    0.864000000000D+05 0.391155481338D-07-0.140616900879D+01 0.106170773506D-06",
		"    0.963711739811D+00 0.247687500000D+03 0.450110393247D+00-0.827070165078D-08",
		"    0.284654714154D-09 0.100000000000D+01 0.189200000000D+04 0.000000000000D+00",
		"    0.200000000000D+01                    0.512227416039D-08 0.350000000000D+02",
		"    0.805020000000D+05 0.400000000000D+01 0.000000000000D+00 0.000000000000D+00",
	}
	want := []float64{
		35.0, 22.25, 0.482198656938e-08, 0.368417754673e+00,
		0.121630728245e-05, 0.527631223667e-02, 0.668689608574e-05, 0.515364252472e+04,
		86400.0, 0.391155481338e-07, -0.140616900879e+01, 0.106170773506e-06,
		0.963711739811e+00, 0.247687500000e+03, 0.450110393247e+00, -0.827070165078e-08,
		0.284654714154e-09, 1.0, 0.189200000000e+04, 0.0,
		2.0, 0.0, 0.512227416039e-08, 35.0,
		0.805020000000e+05, 4.0,
	}
	got, err := parseOrbitLines(orbits, FormatV2.layout(), VALUES_PER_ORBIT[GPSWay])
	require.NoError(t, err)
	assert.Equal(t, want, got)

	orbits[2] = "    0.864000000000D+05 0.39115548x338D-07-0.140616900879D+01 0.106170773506D-06"
	_, err = parseOrbitLines(orbits, FormatV2.layout(), VALUES_PER_ORBIT[GPSWay])
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, orbits[2], perr.Line)
}

func TestNavReaderV2(t *testing.T) {
	nr, closer, err := OpenNav("testdata/nav_v2.16n")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, 2.11, nr.Header.Version)
	assert.Equal(t, byte('N'), nr.Header.FileType)

	want := []*Ephemeris{
		{
			Sys: 'G', Num: 1, Epoch: time.Date(2016, 4, 11, 0, 0, 0, 0, time.UTC),
			Clock: [3]float64{0.169607810676e-04, 0.113686837722e-11, 0.0},
			Orbit: []float64{
				35.0, 22.25, 0.482198656938e-08, 0.368417754673e+00,
				0.121630728245e-05, 0.527631223667e-02, 0.668689608574e-05, 0.515364252472e+04,
				86400, 0.391155481338e-07, -0.140616900879e+01, 0.106170773506e-06,
				0.963711739811e+00, 247.6875, 0.450110393247e+00, -0.827070165078e-08,
				0.284654714154e-09, 1, 1892.0, 0.0,
				2.0, 0.0, 0.512227416039e-08, 35.0,
				80502.0, 4.0,
			},
		},
		{
			Sys: 'G', Num: 2, Epoch: time.Date(2016, 4, 11, 0, 0, 0, 0, time.UTC),
			Clock: [3]float64{0.597649253905e-03, -0.181898940355e-11, 0.0},
			Orbit: []float64{
				83.0, 18.59375, 0.527057686384e-08, 0.763017673126e+00,
				0.114180147648e-05, 0.156129685929e-01, 0.783614814282e-05, 0.515374914742e+04,
				86400.0, -0.163912773132e-06, -0.145069785349e+01, 0.100582838059e-06,
				0.942463959213e+00, 223.65625, -0.213318032835e+01, -0.861071569602e-08,
				0.216080431326e-09, 1.0, 1892.0, 0.0,
				2.0, 0.0, -0.200234353542e-07, 83.0,
				86400.0, 0.0,
			},
		},
	}
	var got []*Ephemeris
	for nr.Next() {
		got = append(got, nr.Ephemeris())
	}
	require.NoError(t, nr.Err())
	assert.Equal(t, want, got)
}

func TestNavReaderV2Glonass(t *testing.T) {
	nr, closer, err := OpenNav("testdata/nav_glo_v2.17g")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, byte('G'), nr.Header.FileType)

	var got []*Ephemeris
	for nr.Next() {
		got = append(got, nr.Ephemeris())
	}
	require.NoError(t, nr.Err())
	require.Len(t, got, 2)

	assert.Equal(t, SatType("R03"), got[0].Sat())
	assert.Equal(t, SysType('R'), got[0].Sys)
	assert.Equal(t, time.Date(2017, 9, 8, 0, 15, 0, 0, time.UTC), got[0].Epoch)
	assert.InDeltaSlice(t, []float64{-5.26869297e-05, -3.637978807e-12, 810}, got[0].Clock[:], 1e-15)
	assert.InDeltaSlice(t, []float64{
		10395.9863281, -1.74798965454, -9.31322574615e-10, 0,
		-10525.5748047, -2.61644363403, 0, 1,
		21037.9931641, -0.486678123474, -9.31322574615e-10, 3,
	}, got[0].Orbit, 1e-9)
	assert.Equal(t, time.Date(2017, 9, 8, 0, 45, 0, 0, time.UTC), got[1].Epoch)
	assert.Len(t, got[1].Orbit, 12)
}

func TestNavReaderV2Geo(t *testing.T) {
	raw := headerLine("     2.11           H: GEO NAV MSG DATA", "RINEX VERSION / TYPE") +
		headerLine("", "END OF HEADER") +
		`20 17  9  8  0 16 32.0 0.000000000000D+00 0.000000000000D+00 4.330030000000D+05
    4.063672000000D+04 0.000000000000D+00 0.000000000000D+00 6.300000000000D+01
   -1.124591600000D+04 0.000000000000D+00 0.000000000000D+00 3.276700000000D+04
    0.000000000000D+00 0.000000000000D+00 0.000000000000D+00 1.200000000000D+01
`
	nr, err := NewNavReader(strings.NewReader(raw))
	require.NoError(t, err)
	require.True(t, nr.Next())
	eph := nr.Ephemeris()
	assert.Equal(t, SatType("S20"), eph.Sat())
	assert.Equal(t, time.Date(2017, 9, 8, 0, 16, 32, 0, time.UTC), eph.Epoch)
	require.Len(t, eph.Orbit, 12)
	assert.InDelta(t, 40636.72, eph.Orbit[0], 1e-9)
	assert.InDelta(t, 12.0, eph.Orbit[11], 1e-12)
	assert.False(t, nr.Next())
	require.NoError(t, nr.Err())
}

func TestNavReaderV3(t *testing.T) {
	nr, closer, err := OpenNav("testdata/nav_v3.17p")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, 3.03, nr.Header.Version)
	assert.Equal(t, byte('N'), nr.Header.FileType)
	assert.Equal(t, SysType('M'), nr.Header.System)

	var got []*Ephemeris
	for nr.Next() {
		got = append(got, nr.Ephemeris())
	}
	require.NoError(t, nr.Err())
	require.Len(t, got, 2)

	assert.Equal(t, SatType("G01"), got[0].Sat())
	assert.Equal(t, time.Date(2017, 9, 8, 0, 0, 0, 0, time.UTC), got[0].Epoch)
	assert.Equal(t, [3]float64{5.530333146453e-05, -4.547473508865e-13, 0}, got[0].Clock)
	assert.Len(t, got[0].Orbit, 26)
	assert.Equal(t, 5.153673307419e+03, got[0].Orbit[7])
	assert.Equal(t, 4.248180000000e+05, got[0].Orbit[24])

	assert.Equal(t, SatType("S20"), got[1].Sat())
	assert.Equal(t, time.Date(2017, 9, 8, 0, 16, 32, 0, time.UTC), got[1].Epoch)
	assert.Equal(t, [3]float64{0, 0, 433003}, got[1].Clock)
	assert.Equal(t, []float64{40636.72, 0, 0, 1.0, -11245.916, 0, 0, 32767.0, 0, 0, 0, 215.0}, got[1].Orbit)
}

func TestNavReaderTruncated(t *testing.T) {
	src := headerLine("     3.03           N: GNSS NAV DATA    S: SBAS", "RINEX VERSION / TYPE") +
		headerLine("", "END OF HEADER") +
		strings.Join(strings.Split(singleGeoMessageV3, "\n")[:3], "\n") + "\n"
	nr, err := NewNavReader(strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, nr.Next())
	assert.ErrorIs(t, nr.Err(), ErrUnexpectedEOF)
	assert.False(t, nr.Next())
}

func TestNavReaderBlankLines(t *testing.T) {
	src := headerLine("     3.03           N: GNSS NAV DATA    S: SBAS", "RINEX VERSION / TYPE") +
		headerLine("", "END OF HEADER") +
		singleGeoMessageV3 + "\n" + singleGeoMessageV3
	nav, err := BuildNavIndex(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, nav.Messages('S', 20), 2)
}

func TestNavReaderUnknownFileType(t *testing.T) {
	src := headerLine("     2.11           X: SOMETHING", "RINEX VERSION / TYPE") +
		headerLine("", "END OF HEADER")
	_, err := NewNavReader(strings.NewReader(src))
	assert.ErrorIs(t, err, ErrUnknownSystem)
}

func TestNavReaderNoEndOfHeader(t *testing.T) {
	src := headerLine("     3.03           N: GNSS NAV DATA    S: SBAS", "RINEX VERSION / TYPE")
	_, err := NewNavReader(strings.NewReader(src))
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}
