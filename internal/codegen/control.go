package codegen

import (
	"github.com/skx/vmtranslate/internal/token"
)

// ControlFlow emits the fragment for a LABEL, GOTO, or IF_GOTO command
// (spec section 4.6). Labels are used verbatim; no scoping prefix is
// applied here, since scoping (if any) is the source author's
// responsibility.
func (e *Emitter) ControlFlow(cmd token.Command) {
	switch cmd.Kind {
	case token.LABEL:
		e.Comment("label %s", cmd.Arg1)
		e.Label(cmd.Arg1)

	case token.GOTO:
		e.Comment("goto %s", cmd.Arg1)
		e.emit(
			"@"+cmd.Arg1,
			"0;JMP",
		)

	case token.IFGOTO:
		e.Comment("if-goto %s", cmd.Arg1)
		// Pops regardless of outcome, then jumps iff the popped
		// boolean is true (D != 0).
		e.popD()
		e.emit(
			"@"+cmd.Arg1,
			"D;JNE",
		)
	}
}
