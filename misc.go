// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

func ToDeg(rad float64) float64 {
	return rad / PI * 180.0
}

func ToRad(deg float64) float64 {
	return deg / 180.0 * PI
}

// ------------------------------------
// Debug print function
// ------------------------------------

func PrintMat(X mat.Matrix) {
	r, c := X.Dims()
	fmt.Fprintf(os.Stderr, "(%d x %d)\n", r, c)
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	fmt.Fprintf(os.Stderr, "%v\n", fa)
}

func PrintA(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}

func PrintAIf(cond bool, format string, a ...any) {
	if cond {
		PrintA(format, a...)
	}
}

// Debug display level
var DBG_ int

// Debug display
func PrintD(v int, format string, a ...any) {
	PrintAIf(DBG_ >= v, format, a...)
}

func PrintE(err error) {
	fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
}

// ------------------------------------
// For command argument parsing
// ------------------------------------

type SatVar []SatType

func (p *SatVar) Set(s string) error {
	*p = []SatType{}
	for _, a := range strings.Split(s, ",") {
		sat, err := ParseSatType(a)
		if err != nil {
			return err
		}
		*p = append(*p, sat)
	}
	return nil
}

func (p *SatVar) String() string {
	if p == nil {
		return ""
	}
	s := make([]string, len(*p))
	for i, sat := range *p {
		s[i] = string(sat)
	}
	return strings.Join(s, ",")
}

// Date and Time Parser (for command arguments)
type TimeStr time.Time

const timeStrLayout = "2006/01/02 15:04:05"

// Accept "YYYY/MM/DD hh:mm:ss" with optional fractional seconds, in UTC
func (p *TimeStr) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	t, err := time.Parse(timeStrLayout, s)
	if err != nil {
		return err
	}
	*p = TimeStr(t)
	return nil
}

// ------------------------------------
// Others
// ------------------------------------

// Order of satellite systems in listings
var sysOrder = map[byte]int{'G': 0, 'J': 1, 'E': 2, 'R': 3, 'C': 4, 'S': 5, 'I': 6}

// Sort the list of satellite names
func Sorted(s []SatType) []SatType {
	s2 := make([]SatType, len(s))
	copy(s2, s)
	sort.Slice(s2, func(i, j int) bool {
		oi, oj := sysOrder[s2[i][0]], sysOrder[s2[j][0]]
		if oi == oj {
			return s2[i] < s2[j]
		}
		return oi < oj
	})
	return s2
}
