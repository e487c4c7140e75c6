// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Width of each value of APPROX POSITION XYZ
const approxItemLen = 14

// Read the approximate receiver position from a RINEX observation header
// - The stream is rewound afterwards when it supports seeking
func RetrieveXYZ(r io.Reader) (xyz PosXYZ, err error) {
	ls := newLineSource(r)
	defer func() {
		if s, ok := r.(io.Seeker); ok {
			if _, serr := s.Seek(0, io.SeekStart); serr != nil && err == nil {
				err = serr
			}
		}
	}()

	for {
		line, err := ls.next()
		if err == io.EOF {
			return xyz, errors.Wrap(ErrXYZNotFound, "END OF HEADER not found")
		} else if err != nil {
			return xyz, err
		}

		label := strings.ToUpper(strings.TrimRight(field(line, 60, len(line)), " \t\r"))
		switch label {
		case "APPROX POSITION XYZ":
			var v [3]float64
			for i := range v {
				s := field(line, i*approxItemLen, (i+1)*approxItemLen)
				if v[i], err = parseNavFloat(s); err != nil {
					return xyz, &ParseError{What: "approximate position", Line: line, Err: err}
				}
			}
			PrintD(2, "approx position: %v\n", v)
			return PosXYZ{X: v[0], Y: v[1], Z: v[2]}, nil
		case "END OF HEADER":
			return xyz, ErrXYZNotFound
		}
	}
}

// Read the approximate receiver position from a RINEX observation file
func RetrieveXYZFile(fn string) (PosXYZ, error) {
	f, err := os.Open(fn)
	if err != nil {
		return PosXYZ{}, err
	}
	defer f.Close()
	xyz, err := RetrieveXYZ(f)
	if err != nil {
		return xyz, errors.Wrap(err, fn)
	}
	return xyz, nil
}
