package codegen

import (
	"fmt"

	"github.com/skx/vmtranslate/internal/token"
)

// Call emits the CALL(f, nArgs) sequence of spec section 4.7: push the
// return-address label and the four saved frame registers, reposition
// ARG and LCL for the callee, jump to f, then declare the resumption
// label.
func (e *Emitter) Call(cmd token.Command) {
	retLabel := e.nextReturnLabel()

	e.Comment("call %s %d", cmd.Arg1, cmd.Arg2)

	// 1. Push the return-address label as a value (its address, not a
	//    dereference of it).
	e.emit(
		"@"+retLabel,
		"D=A",
	)
	e.pushD()

	// 2. Push saved LCL, ARG, THIS, THAT (their contents).
	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		e.emit(
			"@"+reg,
			"D=M",
		)
		e.pushD()
	}

	// 3. ARG = SP - 5 - nArgs.
	e.emit(
		"@SP",
		"D=M",
		fmt.Sprintf("@%d", 5+cmd.Arg2),
		"D=D-A",
		"@ARG",
		"M=D",
	)

	// 4. LCL = SP.
	e.emit(
		"@SP",
		"D=M",
		"@LCL",
		"M=D",
	)

	// 5. Unconditional jump to f.
	e.emit(
		"@"+cmd.Arg1,
		"0;JMP",
	)

	// 6. Resumption label.
	e.Label(retLabel)
}

// Function emits the FUNCTION(g, nVars) sequence of spec section 4.7:
// the entry label followed by nVars zero-initialized locals. It also
// records g as the current function name, so that subsequent CALLs
// generate return labels prefixed with g.
func (e *Emitter) Function(cmd token.Command) {
	e.Comment("function %s %d", cmd.Arg1, cmd.Arg2)
	e.Label(cmd.Arg1)
	e.SetCurrentFunction(cmd.Arg1)

	for i := 0; i < cmd.Arg2; i++ {
		e.emit(
			"@0",
			"D=A",
		)
		e.pushD()
	}
}

// Return emits the RETURN sequence of spec section 4.7. Step 3 (saving
// the popped value through ARG) must precede step 5 (restoring ARG
// itself), since ARG is needed to locate the caller's return-value slot
// before it is overwritten.
func (e *Emitter) Return() {
	e.Comment("return")

	// 1. frame = LCL.
	e.emit(
		"@LCL",
		"D=M",
		"@frame",
		"M=D",
	)

	// 2. retAddr = memory[frame - 5].
	e.emit(
		"@5",
		"A=D-A",
		"D=M",
		"@retAddr",
		"M=D",
	)

	// 3. *ARG = pop().
	e.popD()
	e.emit(
		"@ARG",
		"A=M",
		"M=D",
	)

	// 4. SP = ARG + 1.
	e.emit(
		"@ARG",
		"D=M+1",
		"@SP",
		"M=D",
	)

	// 5. Restore THAT, THIS, ARG, LCL, walking down from frame.
	for _, reg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		e.emit(
			"@frame",
			"AM=M-1",
			"D=M",
			"@"+reg,
			"M=D",
		)
	}

	// 6. Jump through retAddr.
	e.emit(
		"@retAddr",
		"A=M",
		"0;JMP",
	)
}
