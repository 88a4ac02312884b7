package vmparse

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/skx/vmtranslate/internal/token"
)

// arithmeticOps is the set of recognised arithmetic/logical mnemonics.
var arithmeticOps = map[string]bool{
	token.Add: true, token.Sub: true, token.Neg: true,
	token.Eq: true, token.Gt: true, token.Lt: true,
	token.And: true, token.Or: true, token.Not: true,
}

// Classify splits a raw, already comment-stripped command line into 1-3
// whitespace-separated fields and builds the corresponding token.Command
// (spec section 4.2). lineNo is carried through purely for diagnostics.
func Classify(raw string, lineNo int) (token.Command, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return token.Command{}, errors.Wrapf(ErrUnknownCommand, "line %d: empty command", lineNo)
	}

	cmd := token.Command{Raw: raw, Line: lineNo}
	op := fields[0]

	switch {
	case op == "push" || op == "pop":
		cmd.Kind = token.PUSH
		if op == "pop" {
			cmd.Kind = token.POP
		}
		if len(fields) != 3 {
			return token.Command{}, errors.Wrapf(ErrMalformedArgument, "line %d: %q requires segment and index", lineNo, op)
		}
		cmd.Arg1 = fields[1]
		idx, err := parseIndex(fields[2])
		if err != nil {
			return token.Command{}, errors.Wrapf(err, "line %d", lineNo)
		}
		cmd.Arg2 = idx

	case op == "label" || op == "goto" || op == "if-goto":
		switch op {
		case "label":
			cmd.Kind = token.LABEL
		case "goto":
			cmd.Kind = token.GOTO
		case "if-goto":
			cmd.Kind = token.IFGOTO
		}
		if len(fields) != 2 {
			return token.Command{}, errors.Wrapf(ErrMalformedArgument, "line %d: %q requires a label", lineNo, op)
		}
		cmd.Arg1 = fields[1]

	case op == "function" || op == "call":
		if op == "function" {
			cmd.Kind = token.FUNCTION
		} else {
			cmd.Kind = token.CALL
		}
		if len(fields) != 3 {
			return token.Command{}, errors.Wrapf(ErrMalformedArgument, "line %d: %q requires a name and a count", lineNo, op)
		}
		cmd.Arg1 = fields[1]
		n, err := parseIndex(fields[2])
		if err != nil {
			return token.Command{}, errors.Wrapf(err, "line %d", lineNo)
		}
		cmd.Arg2 = n

	case op == "return":
		cmd.Kind = token.RETURN
		if len(fields) != 1 {
			return token.Command{}, errors.Wrapf(ErrMalformedArgument, "line %d: %q takes no arguments", lineNo, op)
		}

	case arithmeticOps[op]:
		cmd.Kind = token.ARITHMETIC
		cmd.Op = op
		if len(fields) != 1 {
			return token.Command{}, errors.Wrapf(ErrMalformedArgument, "line %d: %q takes no arguments", lineNo, op)
		}

	default:
		return token.Command{}, errors.Wrapf(ErrUnknownCommand, "line %d: %q", lineNo, op)
	}

	return cmd, nil
}

// parseIndex parses arg2 as a non-negative integer.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedArgument, "%q is not an integer", s)
	}
	if n < 0 {
		return 0, errors.Wrapf(ErrMalformedArgument, "%q must not be negative", s)
	}
	return n, nil
}
