// Package genotype classifies biallelic genotype calls and decides whether a
// mother x father cross is informative at a locus.
//
// A cross is informative when exactly one parent is homozygous (AA or BB)
// and the other is heterozygous (AB): offspring genotypes then reveal which
// allele the heterozygous parent transmitted, so Mendelian inheritance can be
// checked in F1 progeny.
//
// Assay exports contain no-call markers and other unexpected symbols. Every
// function in this package is total over arbitrary strings: an unrecognised
// symbol parses as [NoCall] and never makes a locus informative.
package genotype

import "strings"

// Call is a parsed genotype call.
type Call uint8

const (
	// NoCall is the zero value and covers every unrecognised symbol.
	NoCall Call = iota
	HomA
	HomB
	Het
)

// String returns the canonical symbol for c.
func (c Call) String() string {
	switch c {
	case HomA:
		return "AA"
	case HomB:
		return "BB"
	case Het:
		return "AB"
	default:
		return "NoCall"
	}
}

// IsHomozygous reports whether c is AA or BB.
func (c Call) IsHomozygous() bool { return c == HomA || c == HomB }

// IsHeterozygous reports whether c is AB.
func (c Call) IsHeterozygous() bool { return c == Het }

// IsKnown reports whether c is anything other than [NoCall].
func (c Call) IsKnown() bool { return c == HomA || c == HomB || c == Het }

// Codes is the symbol alphabet used by an assay export.
type Codes struct {
	HomA string `json:"hom_a" toml:"hom_a"`
	HomB string `json:"hom_b" toml:"hom_b"`
	Het  string `json:"het" toml:"het"`
}

// DefaultCodes matches the Axiom "Call Codes" export.
var DefaultCodes = Codes{HomA: "AA", HomB: "BB", Het: "AB"}

// WithDefaults fills any empty symbol from [DefaultCodes].
func (c Codes) WithDefaults() Codes {
	if c.HomA == "" {
		c.HomA = DefaultCodes.HomA
	}
	if c.HomB == "" {
		c.HomB = DefaultCodes.HomB
	}
	if c.Het == "" {
		c.Het = DefaultCodes.Het
	}
	return c
}

// Parse maps s to a Call. Surrounding whitespace is ignored; anything that
// is not one of the three symbols is [NoCall].
func (c Codes) Parse(s string) Call {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return NoCall
	case c.HomA:
		return HomA
	case c.HomB:
		return HomB
	case c.Het:
		return Het
	default:
		return NoCall
	}
}

// IsInformative reports whether the cross mother x father is informative
// when the calls are written in the c alphabet.
func (c Codes) IsInformative(mother, father string) bool {
	return Informative(c.Parse(mother), c.Parse(father))
}

// Parse maps s to a Call using [DefaultCodes].
func Parse(s string) Call { return DefaultCodes.Parse(s) }

// IsInformative reports whether the cross mother x father is informative
// for the default AA/BB/AB alphabet.
func IsInformative(mother, father string) bool {
	return DefaultCodes.IsInformative(mother, father)
}

// Informative reports whether exactly one of the two calls is homozygous and
// the other heterozygous. The test is symmetric in its arguments.
func Informative(mother, father Call) bool {
	return (mother.IsHomozygous() && father.IsHeterozygous()) ||
		(mother.IsHeterozygous() && father.IsHomozygous())
}
