// Package vmparse implements the Tokenizer and Command classifier of
// spec section 4.1/4.2: it turns the raw text of a VM source unit into a
// stream of classified token.Command values.
package vmparse

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/skx/vmtranslate/internal/token"
)

// ErrUnknownCommand is returned when the first field of a command line
// does not match any recognised opcode.
var ErrUnknownCommand = errors.New("unknown command")

// ErrMalformedArgument is returned when a command requires a numeric
// second argument that cannot be parsed as a non-negative integer.
var ErrMalformedArgument = errors.New("malformed argument")

// Tokenizer strips comments and whitespace from a source unit and yields
// one non-empty command string at a time, in source order.
//
// It never inspects opcode names or argument counts: that is the job of
// Classify. This mirrors the teacher's lexer, which stepped one rune at a
// time through its input; here we step one line at a time, since a VM
// command never spans more than one line.
type Tokenizer struct {
	scan *bufio.Scanner
	line int
}

// NewTokenizer builds a Tokenizer reading from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{scan: bufio.NewScanner(r)}
}

// Next returns the next non-empty, comment-stripped command line together
// with its 1-based line number. ok is false once the input is exhausted.
func (t *Tokenizer) Next() (line string, lineNo int, ok bool, err error) {
	for t.scan.Scan() {
		t.line++
		raw := stripComment(t.scan.Text())
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		return raw, t.line, true, nil
	}
	if err := t.scan.Err(); err != nil {
		return "", 0, false, errors.Wrap(err, "reading source unit")
	}
	return "", 0, false, nil
}

// stripComment removes a trailing "//"-introduced comment from a single
// line, if present. It scans byte-by-byte rather than using strings.Index
// so that a bare "/" (not followed by a second "/") is left untouched.
func stripComment(line string) string {
	for i := 0; i < len(line)-1; i++ {
		if line[i] == '/' && line[i+1] == '/' {
			return line[:i]
		}
	}
	return line
}
