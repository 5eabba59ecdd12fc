// Package cross defines candidate breeding crosses and reads pair lists.
//
// A [Cross] is an ordered (mother, father) pair of sample identifiers. Crosses
// are comparable values and can be used directly as map keys; a cross is
// distinct from its reverse.
//
// # Pair Lists
//
// Candidate crosses come from a plain text file with one pair per line:
//
//	# dam    sire
//	F0_01    F0_07
//	F0_02    F0_07
//
// Fields are separated by any whitespace. Blank lines and lines starting with
// '#' are skipped. Order is preserved; duplicates are preserved too, so that
// the optimizer can report them instead of silently dropping them.
package cross

import (
	"fmt"
	"strings"

	"github.com/matzehuels/crosscover/pkg/errors"
)

// Cross is a candidate mating pair. It encodes as its label in JSON and TOML.
type Cross struct {
	Mother string
	Father string
}

// New returns the cross mother x father.
func New(mother, father string) Cross {
	return Cross{Mother: mother, Father: father}
}

// Label returns the human-readable form "{mother} x {father}".
func (c Cross) Label() string {
	return c.Mother + " x " + c.Father
}

// String implements fmt.Stringer.
func (c Cross) String() string { return c.Label() }

// Reverse returns father x mother.
func (c Cross) Reverse() Cross {
	return Cross{Mother: c.Father, Father: c.Mother}
}

// Validate checks both sample identifiers.
func (c Cross) Validate() error {
	if err := errors.ValidateSampleID(c.Mother); err != nil {
		return err
	}
	return errors.ValidateSampleID(c.Father)
}

// Parse reads a cross written either as a label ("a x b") or as two
// whitespace separated fields ("a b").
func Parse(s string) (Cross, error) {
	fields := strings.Fields(s)
	switch {
	case len(fields) == 3 && fields[1] == "x":
		fields = []string{fields[0], fields[2]}
	case len(fields) != 2:
		return Cross{}, errors.New(errors.ErrCodeInvalidPairs, "cannot parse cross %q: want \"mother x father\" or \"mother father\"", s)
	}
	c := New(fields[0], fields[1])
	if err := c.Validate(); err != nil {
		return Cross{}, err
	}
	return c, nil
}

// Labels returns the label of every cross in order.
func Labels(crosses []Cross) []string {
	out := make([]string, len(crosses))
	for i, c := range crosses {
		out[i] = c.Label()
	}
	return out
}

// Dedupe returns crosses with repeated entries removed, keeping the first
// occurrence of each, together with the dropped repeats in input order.
// The input slice is not modified.
func Dedupe(crosses []Cross) (unique, dupes []Cross) {
	seen := make(map[Cross]bool, len(crosses))
	unique = make([]Cross, 0, len(crosses))
	for _, c := range crosses {
		if seen[c] {
			dupes = append(dupes, c)
			continue
		}
		seen[c] = true
		unique = append(unique, c)
	}
	return unique, dupes
}

// Samples returns every sample referenced by crosses, in first-seen order.
func Samples(crosses []Cross) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, c := range crosses {
		add(c.Mother)
		add(c.Father)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (c Cross) MarshalText() ([]byte, error) {
	return []byte(c.Label()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cross) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return fmt.Errorf("cross: %w", err)
	}
	*c = parsed
	return nil
}
