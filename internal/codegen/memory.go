package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/skx/vmtranslate/internal/segment"
	"github.com/skx/vmtranslate/internal/token"
)

// ErrUndefinedPop is returned when a POP targets the "constant"
// pseudo-segment, which has no address to pop into (spec section 4.5).
var ErrUndefinedPop = errors.New("pop constant is undefined")

// PushPop emits the fragment for a PUSH or POP command, resolving the
// segment/index pair to a physical address per the table in spec
// section 4.5.
func (e *Emitter) PushPop(cmd token.Command) error {
	desc, err := segment.Resolve(cmd.Arg1, cmd.Arg2)
	if err != nil {
		return errors.Wrapf(err, "line %d", cmd.Line)
	}

	e.Comment("%s %s %d", kindWord(cmd.Kind), cmd.Arg1, cmd.Arg2)

	if cmd.Kind == token.PUSH {
		e.emitPush(desc, cmd)
		return nil
	}

	return e.emitPop(desc, cmd)
}

func kindWord(k token.Kind) string {
	if k == token.PUSH {
		return "push"
	}
	return "pop"
}

func (e *Emitter) emitPush(desc segment.Descriptor, cmd token.Command) {
	switch desc.Kind {
	case segment.ConstantLiteral:
		e.emit(
			fmt.Sprintf("@%d", desc.Offset),
			"D=A",
		)

	case segment.Pointered:
		e.emit(
			fmt.Sprintf("@%d", desc.Offset),
			"D=A",
			"@"+desc.Base,
			"A=D+M",
			"D=M",
		)

	case segment.Fixed:
		e.emit(
			fmt.Sprintf("@%d", desc.Offset+5),
			"D=M",
		)

	case segment.PointerPair:
		e.emit(
			"@"+segment.PointerRegister(desc.Offset),
			"D=M",
		)

	case segment.StaticVar:
		e.emit(
			"@"+segment.StaticSymbol(e.unitBase, desc.Offset),
			"D=M",
		)
	}

	e.pushD()
}

func (e *Emitter) emitPop(desc segment.Descriptor, cmd token.Command) error {
	switch desc.Kind {
	case segment.ConstantLiteral:
		return errors.Wrapf(ErrUndefinedPop, "line %d", cmd.Line)

	case segment.Pointered:
		// Effective-address spill (spec section 4.5): resolve
		// base+index into a scratch address cell BEFORE touching
		// the stack, so popping the operand afterwards cannot
		// clobber the address computation.
		addr := e.nextAddrLabel()
		e.emit(
			fmt.Sprintf("@%d", desc.Offset),
			"D=A",
			"@"+desc.Base,
			"D=D+M",
			"@"+addr,
			"M=D",
		)
		e.popD()
		e.emit(
			"@"+addr,
			"A=M",
			"M=D",
		)

	case segment.Fixed:
		addr := e.nextAddrLabel()
		e.emit(
			fmt.Sprintf("@%d", desc.Offset+5),
			"D=A",
			"@"+addr,
			"M=D",
		)
		e.popD()
		e.emit(
			"@"+addr,
			"A=M",
			"M=D",
		)

	case segment.PointerPair:
		// THIS/THAT are already direct registers; no address
		// spill is needed.
		e.popD()
		e.emit(
			"@"+segment.PointerRegister(desc.Offset),
			"M=D",
		)

	case segment.StaticVar:
		e.popD()
		e.emit(
			"@"+segment.StaticSymbol(e.unitBase, desc.Offset),
			"M=D",
		)
	}

	return nil
}
