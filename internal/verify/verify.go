// package verify checks a source's declared category taxonomy against the categories its songs use.
package verify

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

// MismatchError lists the keys used but not declared (Extra) and declared but not used (Missing).
type MismatchError struct {
	Extra   []string
	Missing []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: extra [%s], missing [%s]",
		shared.ErrConsistency, strings.Join(e.Extra, ", "), strings.Join(e.Missing, ", "))
}

func (e *MismatchError) Unwrap() error { return shared.ErrConsistency }

// SequenceError carries the structural diff between a declared and an authoritative taxonomy.
type SequenceError struct {
	Diff string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("%v: declared categories differ from the authoritative list (-declared +authoritative):\n%s",
		shared.ErrConsistency, e.Diff)
}

func (e *SequenceError) Unwrap() error { return shared.ErrConsistency }

// SetEqual fails with a [*MismatchError] when the sets of declared and used keys differ.
// Duplicates on either side are ignored.
func SetEqual[K comparable](declared, used []K) error {
	want := toSet(declared)
	got := toSet(used)

	var e MismatchError
	for k := range got {
		if _, ok := want[k]; !ok {
			e.Extra = append(e.Extra, fmt.Sprint(k))
		}
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			e.Missing = append(e.Missing, fmt.Sprint(k))
		}
	}

	if len(e.Extra) == 0 && len(e.Missing) == 0 {
		return nil
	}
	slices.Sort(e.Extra)
	slices.Sort(e.Missing)
	return &e
}

// ExactSequence fails with a [*SequenceError] unless declared equals authoritative element for element.
func ExactSequence[C any](declared, authoritative []C) error {
	if models.Equal(declared, authoritative) {
		return nil
	}
	return &SequenceError{Diff: models.Diff(declared, authoritative)}
}

// IsMismatch reports whether err carries a set mismatch and returns it.
func IsMismatch(err error) (*MismatchError, bool) {
	var m *MismatchError
	ok := errors.As(err, &m)
	return m, ok
}

func toSet[K comparable](keys []K) map[K]struct{} {
	set := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
