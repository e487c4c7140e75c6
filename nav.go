// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Structure to store ephemeris (navigation data for one satellite, one issue)
type Ephemeris struct {
	Sys   SysType
	Num   int
	Epoch time.Time  // Time of clock (UTC timestamp as written in the file)
	Clock [3]float64 // SV clock bias, drift and drift rate
	Orbit []float64  // Broadcast orbit values; 26 for GPS-way, 12 for GLONASS-way
}

func (e *Ephemeris) Sat() SatType {
	return NewSatType(e.Sys, e.Num)
}

func (e *Ephemeris) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### Nav. for %s (%c, %d)\n", e.Sat(), e.Sys, e.Num))
	sb.WriteString(fmt.Sprintf("  Epoch: %s\n", e.Epoch.Format("2006/01/02 15:04:05.000000")))
	sb.WriteString(fmt.Sprintf("  Clock: %v\n", e.Clock))
	sb.WriteString(fmt.Sprintf("  Orbit: %v\n", e.Orbit))
	return sb.String()
}

// Structure to store navigation data for each satellite at each time
// - Map with satellite name as Key and slice sorted by epoch in ascending order as Value
type NavIndex map[SatType][]*Ephemeris

// Build the index from a navigation file stream
func BuildNavIndex(r io.Reader) (NavIndex, error) {
	nr, err := NewNavReader(r)
	if err != nil {
		return nil, err
	}
	nav := NavIndex{}
	for nr.Next() {
		eph := nr.Ephemeris()
		nav[eph.Sat()] = append(nav[eph.Sat()], eph)
	}
	if err := nr.Err(); err != nil {
		return nil, err
	}

	// Records are not necessarily written in time order
	for _, v := range nav {
		slices.SortStableFunc(v, func(a, b *Ephemeris) int {
			return a.Epoch.Compare(b.Epoch)
		})
	}
	return nav, nil
}

// Read navigation file
func ReadNavFile(fn string) (NavIndex, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	nav, err := BuildNavIndex(f)
	if err != nil {
		return nil, errors.Wrap(err, fn)
	}
	return nav, nil
}

// Return messages for the satellite
func (p NavIndex) Messages(sys SysType, num int) []*Ephemeris {
	return p[NewSatType(sys, num)]
}

// Number of ephemerides in the index
func (p NavIndex) Len() int {
	n := 0
	for _, v := range p {
		n += len(v)
	}
	return n
}

// Return satellite names in the index, sorted
func (p NavIndex) Sats() []SatType {
	return Sorted(maps.Keys(p))
}

// Display navigation data overview
func (p NavIndex) String() string {
	var sb strings.Builder
	sb.WriteString("epoch:\n")
	for _, sat := range p.Sats() {
		sb.WriteString(fmt.Sprintf("\t%s: ", sat))
		if len(p[sat]) > 0 {
			st := p[sat][0].Epoch
			et := p[sat][len(p[sat])-1].Epoch
			sb.WriteString(fmt.Sprintf("%s - %s (%d)\n",
				st.Format("2006/01/02 15:04:05.000"), et.Format("2006/01/02 15:04:05.000"), len(p[sat])))
		} else {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
