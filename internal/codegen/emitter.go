// Package codegen implements the emitter primitives and the four
// generators of spec section 4: arithmetic/logical, memory-access,
// control-flow, and call/return. It is grounded on the teacher's
// compiler/generator.go, generalized from one-shot string concatenation
// into an explicit, passed-by-reference accumulator (spec section 9:
// "process-scoped state with explicit lifecycle").
package codegen

import (
	"fmt"
)

// Emitter accumulates emitted assembly lines and owns the small amount
// of mutable state spec section 3 assigns to "Emitter state": the three
// monotonic label counters (comparison, scratch-address, return-address),
// the current function name, and the current unit base name. It has no ambient/global state: a Driver creates one,
// threads it through every generator call, and discards it at the end of
// a translation run.
type Emitter struct {
	lines []string

	cmpCounter int // mints eqN/gtN/ltN + <op>contN label pairs
	addrCount  int // mints addrN scratch-address labels
	retCount   int // mints <fn>$ret.N return-address labels

	currentFunction string // prefix for CALL-minted return labels
	unitBase        string // scope prefix for "static" variables
}

// NewEmitter returns a fresh Emitter with empty output and zeroed
// counters.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Lines returns the accumulated output, one assembly instruction (or
// label declaration) per entry, in emission order.
func (e *Emitter) Lines() []string {
	return e.lines
}

// emit appends one or more raw lines verbatim.
func (e *Emitter) emit(lines ...string) {
	e.lines = append(e.lines, lines...)
}

// emitf appends a single formatted line.
func (e *Emitter) emitf(format string, args ...interface{}) {
	e.lines = append(e.lines, fmt.Sprintf(format, args...))
}

// SetUnit sets the current source unit's base name, used to scope
// "static" variable symbols (spec section 4.5).
func (e *Emitter) SetUnit(base string) {
	e.unitBase = base
}

// Unit returns the current source unit's base name.
func (e *Emitter) Unit() string {
	return e.unitBase
}

// SetCurrentFunction records g as the most recently seen FUNCTION name,
// used as the prefix for CALL-minted return labels until the next
// FUNCTION command (spec section 4.7).
func (e *Emitter) SetCurrentFunction(g string) {
	e.currentFunction = g
}

// CurrentFunction returns the most recently recorded function name.
// It is empty before any FUNCTION command has been seen, which is the
// state the bootstrap's synthetic call to Sys.init runs under (spec
// section 9).
func (e *Emitter) CurrentFunction() string {
	return e.currentFunction
}

// pushD emits the "push-D-to-stack" primitive (spec section 4.3):
// store D into memory[SP], then increment SP.
func (e *Emitter) pushD() {
	e.emit(
		"@SP",
		"A=M",
		"M=D",
		"@SP",
		"M=M+1",
	)
}

// popD emits the "pop-to-D" primitive (spec section 4.3): decrement SP,
// then load memory[SP] into D. This is the classic Hack idiom
// "@SP / AM=M-1 / D=M", which decrements and dereferences in one
// instruction.
func (e *Emitter) popD() {
	e.emit(
		"@SP",
		"AM=M-1",
		"D=M",
	)
}

// nextAddrLabel mints a fresh, uniquely-indexed scratch-address label
// ("addrN"), per the resolved open question in spec section 9 preferring
// the indexed form over a single shared "addr" cell.
func (e *Emitter) nextAddrLabel() string {
	label := fmt.Sprintf("addr%d", e.addrCount)
	e.addrCount++
	return label
}

// nextComparisonLabels mints the "true" and "continue" label pair for one
// eq/gt/lt comparison. Both labels share the same counter value and
// differ only in their prefix (spec section 4.4).
func (e *Emitter) nextComparisonLabels(op string) (trueLabel, contLabel string) {
	n := e.cmpCounter
	e.cmpCounter++
	return fmt.Sprintf("%s%d", op, n), fmt.Sprintf("%scont%d", op, n)
}

// nextReturnLabel mints the next "<currentFunction>$ret.N" label used by
// CALL as its resumption point (spec section 4.7).
func (e *Emitter) nextReturnLabel() string {
	n := e.retCount
	e.retCount++
	return fmt.Sprintf("%s$ret.%d", e.currentFunction, n)
}

// Label emits a label declaration "(name)".
func (e *Emitter) Label(name string) {
	e.emitf("(%s)", name)
}

// SetSP emits code setting SP to the literal value n, used by the
// driver's bootstrap prologue (spec section 4.8).
func (e *Emitter) SetSP(n int) {
	e.emit(
		fmt.Sprintf("@%d", n),
		"D=A",
		"@SP",
		"M=D",
	)
}

// GotoSelf emits an unconditional jump to label. It does not declare the
// label; placed right after Label(label), it forms the infinite self-loop
// used as the single-unit termination fragment (spec section 4.8).
func (e *Emitter) GotoSelf(label string) {
	e.emit(
		"@"+label,
		"0;JMP",
	)
}

// Comment emits a human-readable comment line, used by generators to
// mark the start of each command's fragment the way the teacher's
// generator does ("# [ABS]", "# [PUSH]", ...).
func (e *Emitter) Comment(format string, args ...interface{}) {
	e.emitf("// %s", fmt.Sprintf(format, args...))
}
