// Package driver implements the top-level orchestration of spec section
// 4.8: bootstrap emission, per-unit dispatch to the codegen generators,
// and the termination fragment. It is grounded on the teacher's
// compiler.Compile() three-phase pipeline (tokenize -> internal form ->
// output), generalized from a single expression to an ordered stream of
// VM source units.
//
// The driver never touches the filesystem itself: per spec section 1,
// filesystem enumeration is an external collaborator. Its only interface
// to the core is an ordered stream of SourceUnit values, each already
// identified by its base name.
package driver

import (
	"io"
	"unicode"

	"github.com/pkg/errors"

	"github.com/skx/vmtranslate/internal/codegen"
	"github.com/skx/vmtranslate/internal/token"
	"github.com/skx/vmtranslate/internal/vmparse"
)

// ErrBadBaseName is returned when a unit's base name does not begin
// with an uppercase letter (spec section 3).
var ErrBadBaseName = errors.New("base name must begin with an uppercase letter")

// Mode selects between the two driver modes of spec section 4.8.
type Mode int

const (
	// SingleUnit mode omits the bootstrap, processes the given units
	// (normally exactly one), and appends the termination fragment.
	SingleUnit Mode = iota
	// MultiUnit mode prepends the bootstrap prologue, processes every
	// given unit, and omits the termination fragment.
	MultiUnit
)

// SourceUnit is a named text resource holding a sequence of VM commands
// (spec section 3). BaseName is the portion of the originating filename
// before the first '.'.
type SourceUnit struct {
	BaseName string
	Reader   io.Reader
}

// ValidateBaseName reports ErrBadBaseName if base does not start with an
// uppercase letter, per the Source unit invariant of spec section 3.
func ValidateBaseName(base string) error {
	if base == "" {
		return errors.Wrap(ErrBadBaseName, "empty base name")
	}
	r := []rune(base)[0]
	if !unicode.IsUpper(r) {
		return errors.Wrapf(ErrBadBaseName, "%q", base)
	}
	return nil
}

// Driver runs the translation pipeline over an ordered stream of source
// units. A Driver is created fresh for each run and discarded afterwards;
// it owns no state beyond one codegen.Emitter's worth of process-scoped
// counters (spec section 9).
type Driver struct{}

// New returns a ready-to-use Driver.
func New() *Driver {
	return &Driver{}
}

// Translate runs the full pipeline over units in the given Mode and
// returns the emitted assembly, one instruction/label per line.
func (d *Driver) Translate(units []SourceUnit, mode Mode) ([]string, error) {
	e := codegen.NewEmitter()

	if mode == MultiUnit {
		emitBootstrap(e)
	}

	for _, u := range units {
		if err := ValidateBaseName(u.BaseName); err != nil {
			return nil, err
		}
		e.SetUnit(u.BaseName)
		if err := translateUnit(e, u); err != nil {
			return nil, errors.Wrapf(err, "translating %s", u.BaseName)
		}
	}

	if mode == SingleUnit {
		emitTerminator(e)
	}

	return e.Lines(), nil
}

// translateUnit tokenizes, classifies, and dispatches every command in
// one source unit, in source order.
func translateUnit(e *codegen.Emitter, u SourceUnit) error {
	t := vmparse.NewTokenizer(u.Reader)
	for {
		raw, lineNo, ok, err := t.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		cmd, err := vmparse.Classify(raw, lineNo)
		if err != nil {
			return err
		}

		if err := dispatch(e, cmd); err != nil {
			return err
		}
	}
}

// dispatch sends one classified command to the generator responsible
// for its Kind (spec section 2's "driver dispatches to the appropriate
// generator" data flow).
func dispatch(e *codegen.Emitter, cmd token.Command) error {
	switch cmd.Kind {
	case token.PUSH, token.POP:
		return e.PushPop(cmd)
	case token.ARITHMETIC:
		return e.Arithmetic(cmd)
	case token.LABEL, token.GOTO, token.IFGOTO:
		e.ControlFlow(cmd)
	case token.FUNCTION:
		e.Function(cmd)
	case token.CALL:
		e.Call(cmd)
	case token.RETURN:
		e.Return()
	}
	return nil
}

// bootstrapCall is the function the bootstrap calls. The call is emitted
// while the "current function" is still empty, producing the unreachable
// "$ret.0" label verbatim (spec section 9, resolved open question).
const bootstrapCall = "Sys.init"

// emitBootstrap emits "SP=256" followed by a synthetic "call Sys.init 0"
// (spec section 4.8), run before any FUNCTION has set the current
// function name.
func emitBootstrap(e *codegen.Emitter) {
	e.Comment("bootstrap")
	e.SetSP(256)
	e.Call(token.Command{Kind: token.CALL, Arg1: bootstrapCall, Arg2: 0})
}

// emitTerminator appends the single-unit mode's infinite self-loop, so
// that the program halts deterministically rather than falling off the
// end of memory (spec section 4.8, section 9 Glossary "Terminator").
func emitTerminator(e *codegen.Emitter) {
	e.Comment("terminate")
	e.Label("END")
	e.GotoSelf("END")
}
