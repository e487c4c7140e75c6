// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Use errors.Is to test for them; the returned errors carry
// additional context around these values.
var (
	ErrUnsupportedVersion = errors.New("unsupported RINEX version")
	ErrMalformedHeader    = errors.New("malformed RINEX header")
	ErrUnexpectedEOF      = errors.New("unexpected end of the file")
	ErrRecordParse        = errors.New("can't parse the record")
	ErrUnknownSystem      = errors.New("unknown satellite system")
	ErrMessageNotFound    = errors.New("navigation message not found")
	ErrInvalidEpoch       = errors.New("invalid epoch")
	ErrXYZNotFound        = errors.New("approximate position not found")
)

// ParseError is returned when a fixed-width field of a RINEX line
// is not valid numeric text. Line holds the raw line as read.
type ParseError struct {
	What string // "epoch", "orbit", ...
	Line string
	Err  error // cause, may be nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("can't read %s: %q: %s", e.What, e.Line, e.Err.Error())
	}
	return fmt.Sprintf("can't read %s: %q", e.What, e.Line)
}

// Is makes every ParseError match ErrRecordParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrRecordParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
