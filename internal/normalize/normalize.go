// package normalize converts raw wire values into their canonical form.
//
// Every function is pure. Unrecognized tokens are reported as [shared.ErrDecode].
package normalize

import (
	"fmt"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

// EmptyAsNil maps "" to nil.
func EmptyAsNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SentinelAsNil maps the placeholder sentinel (and "") to nil.
func SentinelAsNil(s, sentinel string) *string {
	if s == sentinel {
		return nil
	}
	return EmptyAsNil(s)
}

// ZeroAsNil maps the zero value of T to nil.
func ZeroAsNil[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// Collapse maps a value whose every field is absent or default to nil.
//
// A value with at least one populated field is returned whole.
func Collapse[T comparable](v T) *T {
	return ZeroAsNil(v)
}

// BinaryBool decodes the "1"/"0" flag encoding.
func BinaryBool(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected \"1\" or \"0\", got %q", shared.ErrDecode, s)
	}
}

// TokenBool decodes a presence flag: token is true, "" is false.
func TokenBool(s, token string) (bool, error) {
	switch s {
	case token:
		return true, nil
	case "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected %q or \"\", got %q", shared.ErrDecode, token, s)
	}
}

// Date parses s with layout. The all-zero sentinel maps to nil.
func Date(s, zero, layout string) (*models.Date, error) {
	if s == zero {
		return nil, nil
	}
	d, err := models.ParseDate(layout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q: %v", shared.ErrDecode, s, err)
	}
	return &d, nil
}

// Bitflags returns the taxonomy entries whose bit is set in mask.
//
// Bit i corresponds to taxonomy[i]; the result keeps taxonomy order.
func Bitflags[C any](mask uint32, taxonomy []C) []C {
	var out []C
	for i, c := range taxonomy {
		if i >= 32 {
			break
		}
		if mask>>i&1 == 1 {
			out = append(out, c)
		}
	}
	return out
}
