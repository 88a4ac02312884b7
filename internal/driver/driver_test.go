package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skx/vmtranslate/internal/codegen"
	"github.com/skx/vmtranslate/internal/vmparse"
)

// emitLines classifies and dispatches each command string in order,
// returning the accumulated assembly. It is a thin wrapper used only by
// tests to exercise the generators without going through a Driver.
func emitLines(t *testing.T, cmds []string) []string {
	t.Helper()
	e := codegen.NewEmitter()
	for i, c := range cmds {
		cmd, err := vmparse.Classify(c, i+1)
		require.NoError(t, err, "classifying %q", c)
		require.NoError(t, dispatch(e, cmd), "dispatching %q", c)
	}
	return e.Lines()
}

// newSeededSimulator returns a simulator whose SP/LCL/ARG/THIS/THAT
// registers are pre-set to non-overlapping addresses, the way a real
// Hack runtime would have them after the bootstrap, so that segment
// fragments referencing LCL/ARG/THIS/THAT don't alias the stack itself.
func newSeededSimulator(lines []string) *simulator {
	s := newSimulator(lines)
	s.ram[0] = 256 // SP
	s.ram[1] = 400 // LCL
	s.ram[2] = 410 // ARG
	s.ram[3] = 420 // THIS
	s.ram[4] = 430 // THAT
	return s
}

func unit(base, src string) SourceUnit {
	return SourceUnit{BaseName: base, Reader: strings.NewReader(src)}
}

// --- S1: single push constant and add -------------------------------

func TestScenarioPushAdd(t *testing.T) {
	d := New()
	lines, err := d.Translate([]SourceUnit{unit("Main", "push constant 7\npush constant 8\nadd\n")}, SingleUnit)
	require.NoError(t, err)

	s := newSeededSimulator(lines)
	s.run(1000)

	assert.Equal(t, 15, s.ram[256])
	assert.Equal(t, 257, s.ram[0])
}

// --- S2: comparison yielding true -------------------------------------

func TestScenarioEqTrue(t *testing.T) {
	d := New()
	lines, err := d.Translate([]SourceUnit{unit("Main", "push constant 5\npush constant 5\neq\n")}, SingleUnit)
	require.NoError(t, err)

	s := newSeededSimulator(lines)
	s.run(1000)

	assert.Equal(t, -1, s.ram[256])
	assert.Equal(t, 257, s.ram[0])
}

// --- S3: comparison yielding false -------------------------------------

func TestScenarioGtFalse(t *testing.T) {
	d := New()
	lines, err := d.Translate([]SourceUnit{unit("Main", "push constant 3\npush constant 9\ngt\n")}, SingleUnit)
	require.NoError(t, err)

	s := newSeededSimulator(lines)
	s.run(1000)

	assert.Equal(t, 0, s.ram[256])
	assert.Equal(t, 257, s.ram[0])
}

// --- S4: static round-trip ---------------------------------------------

func TestScenarioStaticRoundTrip(t *testing.T) {
	d := New()
	lines, err := d.Translate([]SourceUnit{
		unit("Foo", "push constant 42\npop static 0\npush static 0\n"),
	}, SingleUnit)
	require.NoError(t, err)

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "@Foo.0", "static symbol must be scoped by unit base name")

	s := newSeededSimulator(lines)
	s.run(1000)

	addr, ok := s.vars["Foo.0"]
	require.True(t, ok, "Foo.0 must have been referenced as a symbol")
	assert.Equal(t, 42, s.ram[addr])
	assert.Equal(t, 42, s.ram[256])
}

// --- S5: function call/return across two units -------------------------

func TestScenarioCallReturn(t *testing.T) {
	sys := "function Sys.init 0\n" +
		"push constant 3\n" +
		"push constant 4\n" +
		"call Main.sum2 2\n" +
		"label Halt\n" +
		"goto Halt\n"
	main := "function Main.sum2 0\n" +
		"push argument 0\n" +
		"push argument 1\n" +
		"add\n" +
		"return\n"

	d := New()
	lines, err := d.Translate([]SourceUnit{unit("Sys", sys), unit("Main", main)}, MultiUnit)
	require.NoError(t, err)

	s := newSimulator(lines) // bootstrap sets SP itself; don't pre-seed.
	s.run(5000)

	// Bootstrap pushes a 5-cell frame (SP 256->261), Sys.init pushes
	// two constants (SP 261->263), then call pushes another 5-cell
	// frame (SP 263->268) and sets ARG = 268-5-2 = 261. The returned
	// sum is stored there, and SP is repositioned to one past it
	// (spec section 4.7 RETURN steps 3-4, and the "Calling-convention
	// round-trip" testable property).
	argAtCall := 261
	assert.Equal(t, 7, s.ram[argAtCall])
	assert.Equal(t, argAtCall+1, s.ram[0])
}

// --- S6: nested label minting is pairwise unique ------------------------

func TestScenarioUniqueComparisonLabels(t *testing.T) {
	lines := emitLines(t, []string{
		"push constant 1",
		"push constant 1",
		"eq",
		"push constant 2",
		"push constant 3",
		"eq",
		"push constant 4",
		"push constant 5",
		"eq",
	})

	var labels []string
	for _, l := range lines {
		if strings.HasPrefix(l, "(eq") {
			labels = append(labels, l)
		}
	}

	require.Len(t, labels, 6) // eqN + eqcontN for three comparisons
	seen := map[string]bool{}
	for _, l := range labels {
		assert.False(t, seen[l], "label %s minted more than once", l)
		seen[l] = true
	}
}

// --- Property 4: static isolation across units --------------------------

func TestStaticIsolationAcrossUnits(t *testing.T) {
	d := New()
	lines, err := d.Translate([]SourceUnit{
		unit("Foo", "push constant 1\npop static 3\n"),
		unit("Bar", "push constant 2\npop static 3\n"),
	}, MultiUnit)
	require.NoError(t, err)

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "@Foo.3")
	assert.Contains(t, joined, "@Bar.3")
}

// --- Property 1: stack discipline for a representative set of kinds ----

func TestStackDisciplineDeltas(t *testing.T) {
	cases := []struct {
		name     string
		prefix   []string
		op       string
		expected int
	}{
		{"push constant", nil, "push constant 5", 1},
		{"pop local", []string{"push constant 9"}, "pop local 0", -1},
		{"unary neg", []string{"push constant 9"}, "neg", 0},
		{"binary add", []string{"push constant 9", "push constant 3"}, "add", -1},
		{"if-goto", []string{"push constant 0", "push constant 0", "eq"}, "if-goto Done", -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			without := emitLines(t, append(append([]string{}, c.prefix...), "label Done"))
			full := emitLines(t, append(append([]string{}, c.prefix...), c.op, "label Done"))

			sWithout := newSeededSimulator(without)
			sWithout.run(1000)

			sFull := newSeededSimulator(full)
			sFull.run(1000)

			delta := sFull.ram[0] - sWithout.ram[0]
			assert.Equal(t, c.expected, delta, "net SP delta for %s", c.name)
		})
	}
}

// --- Bootstrap / terminator placement (spec section 9 open question) ---

func TestBootstrapOnlyInMultiUnitMode(t *testing.T) {
	d := New()

	single, err := d.Translate([]SourceUnit{unit("Main", "push constant 1\n")}, SingleUnit)
	require.NoError(t, err)
	assert.NotContains(t, strings.Join(single, "\n"), "Sys.init")
	assert.Contains(t, strings.Join(single, "\n"), "(END)")

	multi, err := d.Translate([]SourceUnit{unit("Main", "push constant 1\n")}, MultiUnit)
	require.NoError(t, err)
	assert.Contains(t, strings.Join(multi, "\n"), "Sys.init")
	assert.Contains(t, strings.Join(multi, "\n"), "$ret.0")
	assert.NotContains(t, strings.Join(multi, "\n"), "(END)")
}

func TestValidateBaseName(t *testing.T) {
	require.NoError(t, ValidateBaseName("Foo"))
	require.Error(t, ValidateBaseName("foo"))
	require.Error(t, ValidateBaseName(""))
}
