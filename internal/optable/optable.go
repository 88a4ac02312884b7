// Package optable replaces the per-mnemonic switch statement an arithmetic
// generator would otherwise need with a small declarative table, per the
// "Nine arithmetic ops -> table" design note: each of the nine VM
// arithmetic/logical mnemonics maps to a category (unary, binary,
// comparison) and the Hack "comp" field that realises it.
package optable

import "github.com/pkg/errors"

// ErrUnknownOp is returned by Lookup for a mnemonic outside the nine
// recognised arithmetic/logical operators.
var ErrUnknownOp = errors.New("unknown arithmetic operator")

// Category groups the nine mnemonics by the shape of code they need.
type Category int

const (
	// Unary ops rewrite the top stack cell in place: neg, not.
	Unary Category = iota
	// Binary ops pop one operand into D and rewrite the new top cell
	// in terms of D and the (remaining) top cell: add, sub, and, or.
	Binary
	// Comparison ops pop one operand into D, compute top-D, and branch
	// to set the result cell to all-ones or zero: eq, gt, lt.
	Comparison
)

// Op describes how to realize one arithmetic/logical mnemonic.
type Op struct {
	Category Category

	// Comp is the Hack "comp" expression computing the result in
	// terms of M (the cell the result is written to: the top cell for
	// Unary ops, the deeper operand left on top after the pop for
	// Binary ops) and, for Binary ops, D (the popped operand). Unused for Comparison,
	// which always computes M-D before branching.
	Comp string

	// Jump is the Hack jump mnemonic used by Comparison ops to decide
	// whether M-D satisfies the test (JEQ/JGT/JLT).
	Jump string
}

var table = map[string]Op{
	"neg": {Category: Unary, Comp: "-M"},
	"not": {Category: Unary, Comp: "!M"},

	"add": {Category: Binary, Comp: "D+M"},
	"sub": {Category: Binary, Comp: "M-D"},
	"and": {Category: Binary, Comp: "D&M"},
	"or":  {Category: Binary, Comp: "D|M"},

	"eq": {Category: Comparison, Jump: "JEQ"},
	"gt": {Category: Comparison, Jump: "JGT"},
	"lt": {Category: Comparison, Jump: "JLT"},
}

// Lookup returns the Op descriptor for mnemonic, or ErrUnknownOp.
func Lookup(mnemonic string) (Op, error) {
	op, ok := table[mnemonic]
	if !ok {
		return Op{}, errors.Wrapf(ErrUnknownOp, "%q", mnemonic)
	}
	return op, nil
}
