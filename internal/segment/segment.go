// Package segment resolves the eight VM memory segment names (spec
// section 4.5) to the physical addressing scheme the Hack platform uses
// for each of them. It plays the role the "BuiltInTable" well-known
// symbol table plays in a Hack assembler: a small, declarative lookup
// rather than a scatter of string comparisons in the code generator.
package segment

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrBadIndex is returned when an index is out of range for its segment
// (currently only "pointer", which admits only 0 and 1).
var ErrBadIndex = errors.New("index out of range for segment")

// ErrUnknownSegment is returned for a segment name outside the eight
// recognised identifiers.
var ErrUnknownSegment = errors.New("unknown segment")

// Kind distinguishes the addressing scheme a segment uses.
type Kind int

const (
	// Pointered segments resolve to memory[*Base + index]: the base
	// register itself holds the address of index 0.
	Pointered Kind = iota
	// Fixed segments resolve to memory[Base + index] where Base is a
	// literal physical address, not a register to dereference.
	Fixed
	// PointerPair is the two-cell "pointer" segment: index 0 means
	// THIS, index 1 means THAT, and both ARE the base registers
	// themselves (no addition, no dereference for push; direct store
	// for pop).
	PointerPair
	// StaticVar resolves to a per-unit symbolic variable name.
	StaticVar
	// ConstantLiteral is the synthetic "constant" segment: push treats
	// the index as a literal value; pop is undefined for it.
	ConstantLiteral
)

// Descriptor describes how to reach a given (segment, index) pair.
type Descriptor struct {
	Kind Kind

	// Base is the register symbol ("LCL", "ARG", "THIS", "THAT") for
	// Pointered segments, or the literal base address symbol for
	// Fixed segments ("5" for temp, expressed as a decimal string).
	Base string

	// Offset is the resolved index, already validated against Kind's
	// constraints.
	Offset int
}

var pointeredBases = map[string]string{
	"local":    "LCL",
	"argument": "ARG",
	"this":     "THIS",
	"that":     "THAT",
}

// Resolve maps a segment name and index to its Descriptor.
func Resolve(name string, index int) (Descriptor, error) {
	if base, ok := pointeredBases[name]; ok {
		return Descriptor{Kind: Pointered, Base: base, Offset: index}, nil
	}

	switch name {
	case "constant":
		return Descriptor{Kind: ConstantLiteral, Offset: index}, nil

	case "temp":
		return Descriptor{Kind: Fixed, Base: "5", Offset: index}, nil

	case "pointer":
		if index != 0 && index != 1 {
			return Descriptor{}, errors.Wrapf(ErrBadIndex, "pointer %d", index)
		}
		return Descriptor{Kind: PointerPair, Offset: index}, nil

	case "static":
		return Descriptor{Kind: StaticVar, Offset: index}, nil

	default:
		return Descriptor{}, errors.Wrapf(ErrUnknownSegment, "%q", name)
	}
}

// PointerRegister returns the register name ("THIS" or "THAT") a pointer
// segment index addresses.
func PointerRegister(index int) string {
	if index == 0 {
		return "THIS"
	}
	return "THAT"
}

// StaticSymbol builds the symbolic name a static variable is emitted
// under: "<unitBase>.<index>" (spec section 4.5, "Static naming").
func StaticSymbol(unitBase string, index int) string {
	return unitBase + "." + strconv.Itoa(index)
}
