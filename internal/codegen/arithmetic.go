package codegen

import (
	"github.com/pkg/errors"

	"github.com/skx/vmtranslate/internal/optable"
	"github.com/skx/vmtranslate/internal/token"
)

// Arithmetic emits the fragment for one of the nine ARITHMETIC commands
// (spec section 4.4). True is represented as -1 (all bits set), false as
// 0, matching the platform convention assumed by downstream consumers.
func (e *Emitter) Arithmetic(cmd token.Command) error {
	op, err := optable.Lookup(cmd.Op)
	if err != nil {
		return errors.Wrapf(err, "line %d", cmd.Line)
	}

	e.Comment("%s", cmd.Op)

	switch op.Category {
	case optable.Unary:
		// Rewrite the top cell in place; net stack effect is zero.
		e.emit(
			"@SP",
			"A=M-1",
			"M="+op.Comp,
		)

	case optable.Binary:
		// Pop top into D, rewrite the new top in terms of D and M.
		// Net stack effect is -1.
		e.emit(
			"@SP",
			"AM=M-1",
			"D=M",
			"A=A-1",
			"M="+op.Comp,
		)

	case optable.Comparison:
		e.emitComparison(cmd.Op, op)
	}

	return nil
}

// emitComparison realizes eq/gt/lt: pop top into D, compute M-D (the
// deeper cell minus the shallower one, per spec section 4.4's fixed
// operand ordering), then branch to set the result cell to all-ones or
// zero. mnemonic ("eq"/"gt"/"lt") is the label prefix, so the two labels
// minted for one comparison look like "eq0"/"eqcont0" (spec section 4.4).
func (e *Emitter) emitComparison(mnemonic string, op optable.Op) {
	trueLabel, contLabel := e.nextComparisonLabels(mnemonic)

	e.emit(
		"@SP",
		"AM=M-1",
		"D=M",
		"A=A-1",
		"D=M-D",
		"@"+trueLabel,
		"D;"+op.Jump,
		"@SP",
		"A=M-1",
		"M=0",
		"@"+contLabel,
		"0;JMP",
	)
	e.Label(trueLabel)
	e.emit(
		"@SP",
		"A=M-1",
		"M=-1",
	)
	e.Label(contLabel)
}
