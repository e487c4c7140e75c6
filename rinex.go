// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// RINEX 2.11 / 3.03 format
// https://files.igs.org/pub/data/format/rinex211.txt
// https://files.igs.org/pub/data/format/rinex303.pdf
//

// Layout variant of a navigation file
type Format int

const (
	FormatV2 Format = 2
	FormatV3 Format = 3
)

// Supported versions
var RNX_VERSIONS = map[float64]Format{
	2.0:  FormatV2,
	2.01: FormatV2,
	2.1:  FormatV2,
	2.11: FormatV2,
	3.0:  FormatV3,
	3.01: FormatV3,
	3.02: FormatV3,
	3.03: FormatV3,
}

// Satellite system of a V2 file by its file type
var V2_FILE_SYSTEMS = map[byte]SysType{
	'N': 'G', // GPS
	'G': 'R', // Glonass
	'H': 'S', // SBAS (GEO), handled as Glonass
}

// Width of a field in broadcast orbit lines
const orbitItemLen = 19

// Column layout of each variant
type layout struct {
	orbitStart int // first column of the broadcast orbit values
	orbitEnd   int
}

func (f Format) layout() layout {
	switch f {
	case FormatV2:
		return layout{orbitStart: 3, orbitEnd: 75}
	default:
		return layout{orbitStart: 4, orbitEnd: 76}
	}
}

// Information of the first header line
type NavHeader struct {
	Version    float64
	VersionStr string // version as written in the file
	Format     Format
	FileType   byte
	System     SysType // V3 only
}

// Line source counting line numbers
type lineSource struct {
	sc      *bufio.Scanner
	lineNum int
}

func newLineSource(r io.Reader) *lineSource {
	return &lineSource{sc: bufio.NewScanner(r)}
}

// Return next line; io.EOF at the end of input
func (ls *lineSource) next() (string, error) {
	if ls.sc.Scan() {
		ls.lineNum++
		return ls.sc.Text(), nil
	}
	if err := ls.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Return columns [i, j) of the line, clipped to the line length
func field(l string, i, j int) string {
	if i >= len(l) {
		return ""
	}
	if j > len(l) {
		j = len(l)
	}
	return l[i:j]
}

// Read RINEX version, file type and (V3) satellite system from the first header line
func ReadVersionType(r io.Reader) (NavHeader, error) {
	return readVersionType(newLineSource(r))
}

func readVersionType(ls *lineSource) (hdr NavHeader, err error) {
	line, err := ls.next()
	if err == io.EOF {
		return hdr, errors.Wrap(ErrUnexpectedEOF, "empty navigation file")
	} else if err != nil {
		return hdr, err
	}

	hdr.VersionStr = strings.TrimSpace(field(line, 0, 9))
	hdr.Version, err = strconv.ParseFloat(hdr.VersionStr, 64)
	if err != nil {
		return hdr, errors.Wrapf(ErrMalformedHeader, "can't read version: %q", line)
	}
	if len(line) < 21 {
		return hdr, errors.Wrapf(ErrMalformedHeader, "can't read file type: %q", line)
	}
	hdr.FileType = line[20]

	f, ok := RNX_VERSIONS[hdr.Version]
	if !ok {
		return hdr, errors.Wrapf(ErrUnsupportedVersion, "version %s is not supported", hdr.VersionStr)
	}
	hdr.Format = f
	if f == FormatV3 && len(line) > 40 {
		hdr.System = SysType(line[40])
	}
	return hdr, nil
}

// Skip header lines up to and including END OF HEADER
func skipHeader(ls *lineSource) error {
	for {
		line, err := ls.next()
		if err == io.EOF {
			return errors.Wrap(ErrUnexpectedEOF, "END OF HEADER not found")
		} else if err != nil {
			return err
		}
		if field(line, 60, 73) == "END OF HEADER" {
			return nil
		}
	}
}

// Replace Fortran exponent markers
var expReplacer = strings.NewReplacer("D", "E", "d", "E")

func parseNavFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(expReplacer.Replace(s)), 64)
}

func parseNavInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// Epoch line contents
type epochLine struct {
	sys   SysType
	num   int
	epoch time.Time
	clock [3]float64
}

// Read satellite, epoch and clock terms from the next epoch line
// - Returns io.EOF at the end of input
// - Returns *ParseError if any field is not numeric
func readEpoch(ls *lineSource, f Format, sys SysType) (el epochLine, err error) {
	var line string
	for {
		line, err = ls.next()
		if err != nil {
			return el, err
		}
		if strings.TrimSpace(line) != "" {
			break
		}
	}
	switch f {
	case FormatV2:
		el, err = parseEpochLineV2(line)
		el.sys = sys
	default:
		el, err = parseEpochLineV3(line)
	}
	if err != nil {
		return el, &ParseError{What: "epoch", Line: line, Err: err}
	}
	return el, nil
}

// V2: " 1 15  6 21  1 59 44.0-3.993976861238D-06 5.684341886081D-13 0.000000000000D+00"
func parseEpochLineV2(line string) (el epochLine, err error) {
	if el.num, err = parseNavInt(field(line, 0, 2)); err != nil {
		return
	}
	// year, month, day, hour, min; + sec
	var ep [7]int
	for i := 0; i < 5; i++ {
		j := 2 + i*3
		if ep[i], err = parseNavInt(field(line, j, j+3)); err != nil {
			return
		}
	}
	sec, err := parseNavFloat(field(line, 17, 22))
	if err != nil {
		return
	}
	ep[5], ep[6] = splitSeconds(sec)
	if el.epoch, err = NormalizeEpoch(ep[0], ep[1], ep[2], ep[3], ep[4], ep[5], ep[6]); err != nil {
		return
	}
	for i, j := range []int{22, 41, 60} {
		if el.clock[i], err = parseNavFloat(field(line, j, j+orbitItemLen)); err != nil {
			return
		}
	}
	return
}

// V3: "S20 2017 09 08 00 16 32 0.000000000000e+00 0.000000000000e+00 4.330030000000e+05"
func parseEpochLineV3(line string) (el epochLine, err error) {
	el.sys = SysType(line[0])
	if !el.sys.IsValid() {
		return el, errors.Wrapf(ErrUnknownSystem, "'%c'", el.sys)
	}
	if el.num, err = parseNavInt(field(line, 1, 3)); err != nil {
		return
	}
	// year; + month, day, hour, min, sec
	var ep [6]int
	if ep[0], err = parseNavInt(field(line, 4, 9)); err != nil {
		return
	}
	for i := 1; i < 6; i++ {
		j := 8 + (i-1)*3
		if ep[i], err = parseNavInt(field(line, j, j+3)); err != nil {
			return
		}
	}
	if el.epoch, err = NormalizeEpoch(ep[0], ep[1], ep[2], ep[3], ep[4], ep[5], 0); err != nil {
		return
	}
	for i, j := range []int{23, 42, 61} {
		if el.clock[i], err = parseNavFloat(field(line, j, j+orbitItemLen)); err != nil {
			return
		}
	}
	return
}

// Read n broadcast orbit lines (right-trimmed)
func readOrbitLines(ls *lineSource, n int) ([]string, error) {
	orbits := make([]string, n)
	for i := range orbits {
		line, err := ls.next()
		if err == io.EOF {
			return nil, errors.Wrapf(ErrUnexpectedEOF, "%d of %d orbit lines read", i, n)
		} else if err != nil {
			return nil, err
		}
		orbits[i] = strings.TrimRight(line, " \t\r")
	}
	return orbits, nil
}

// Parse broadcast orbit lines into a flat list of values
// - Fields are 19 characters wide starting at column start
// - Only the first valuesPerOrbit[i] fields of line i are used
// - Blank fields are read as 0
func parseOrbitLines(orbits []string, l layout, valuesPerOrbit []int) ([]float64, error) {
	n := 0
	for _, v := range valuesPerOrbit {
		n += v
	}
	msg := make([]float64, 0, n)
	for num, orbit := range orbits {
		values := make([]string, 0, 4)
		for i := l.orbitStart; i < l.orbitEnd; i += orbitItemLen {
			values = append(values, strings.TrimRight(field(orbit, i, i+orbitItemLen), " "))
		}
		if num < len(valuesPerOrbit) && valuesPerOrbit[num] < len(values) {
			values = values[:valuesPerOrbit[num]]
		}
		for _, s := range values {
			if s == "" {
				msg = append(msg, 0)
				continue
			}
			v, err := parseNavFloat(s)
			if err != nil {
				return nil, &ParseError{What: "orbit", Line: orbit, Err: err}
			}
			msg = append(msg, v)
		}
	}
	return msg, nil
}

// Reader of RINEX navigation files producing one ephemeris at a time
//
//	nr, err := NewNavReader(f)
//	for nr.Next() {
//		eph := nr.Ephemeris()
//	}
//	err = nr.Err()
type NavReader struct {
	Header NavHeader // valid after NewNavReader
	ls     *lineSource
	sys    SysType // V2 only
	eph    *Ephemeris
	err    error
}

// Create a reader. The first header line is checked and the rest of the
// header is skipped.
func NewNavReader(r io.Reader) (*NavReader, error) {
	nr := &NavReader{ls: newLineSource(r)}
	hdr, err := readVersionType(nr.ls)
	if err != nil {
		return nil, err
	}
	nr.Header = hdr
	if hdr.Format == FormatV2 {
		sys, ok := V2_FILE_SYSTEMS[hdr.FileType]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSystem, "file type '%c'", hdr.FileType)
		}
		nr.sys = sys
	}
	if err := skipHeader(nr.ls); err != nil {
		return nil, err
	}
	PrintD(2, "rinex nav: version=%s type=%c format=V%d\n", hdr.VersionStr, hdr.FileType, hdr.Format)
	return nr, nil
}

// Read the next ephemeris. Returns false at the end of input or on error.
func (nr *NavReader) Next() bool {
	if nr.err != nil {
		return false
	}
	el, err := readEpoch(nr.ls, nr.Header.Format, nr.sys)
	if err != nil {
		nr.setErr(err)
		return false
	}
	vpo, err := el.sys.valuesPerOrbit()
	if err != nil {
		nr.setErr(err)
		return false
	}
	orbits, err := readOrbitLines(nr.ls, len(vpo))
	if err != nil {
		nr.setErr(err)
		return false
	}
	msg, err := parseOrbitLines(orbits, nr.Header.Format.layout(), vpo)
	if err != nil {
		nr.setErr(err)
		return false
	}
	nr.eph = &Ephemeris{
		Sys:   el.sys,
		Num:   el.num,
		Epoch: el.epoch,
		Clock: el.clock,
		Orbit: msg,
	}
	PrintD(3, "rinex nav: %s %s\n", nr.eph.Sat(), el.epoch.Format("2006/01/02 15:04:05.000000"))
	return true
}

// Return the ephemeris read by the last call to Next
func (nr *NavReader) Ephemeris() *Ephemeris {
	return nr.eph
}

// Return the first error other than the end of input
func (nr *NavReader) Err() error {
	if nr.err == io.EOF {
		return nil
	}
	return nr.err
}

func (nr *NavReader) setErr(err error) {
	if nr.err == nil || nr.err == io.EOF {
		nr.err = err
	}
}

// Open a navigation file. The caller must close the returned file.
func OpenNav(path string) (*NavReader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	nr, err := NewNavReader(f)
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrap(err, path)
	}
	return nr, f, nil
}
