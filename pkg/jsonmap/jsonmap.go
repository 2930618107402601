// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package jsonmap is the public API of the jsonmap JSON-to-JSON
// transformation language: parse a program once with Compile, then
// Translate as many input documents through it as needed.
package jsonmap

import (
	"github.com/kyle-silver/jsonmap/internal/lang/ast"
	"github.com/kyle-silver/jsonmap/internal/lang/eval"
	lex "github.com/kyle-silver/jsonmap/internal/lang/lexer"
	"github.com/kyle-silver/jsonmap/internal/lang/parser"
	"github.com/kyle-silver/jsonmap/internal/lang/value"
)

// Value is the JSON value abstraction programs read from and produce.
type Value = value.Value

// ErrorKind identifies which error category an Error belongs to.
type ErrorKind string

const (
	KindLexError      ErrorKind = "LexError"
	KindParseError    ErrorKind = "ParseError"
	KindMissingField  ErrorKind = "MissingField"
	KindOutOfBounds   ErrorKind = "OutOfBounds"
	KindTypeMismatch  ErrorKind = "TypeMismatch"
	KindDuplicateKey  ErrorKind = "DuplicateKey"
)

// Error is the single tagged error value translate() and Program.Run
// return: a kind, a human-readable message, and whichever of source
// position (lex/parse errors) or evaluation path (evaluator errors)
// applies.
type Error struct {
	Kind    ErrorKind
	Message string

	// Line and Column are set for LexError and ParseError.
	Line   int
	Column int

	// Path is set for MissingField, OutOfBounds, TypeMismatch, and
	// DuplicateKey: a JSON-pointer-like path into the output, e.g.
	// "$.classroom.teacher".
	Path string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return string(e.Kind) + ": " + e.Message + " (at " + e.Path + ")"
	}
	return string(e.Kind) + ": " + e.Message
}

// Program is a parsed jsonmap program, ready to run against any number of
// input values. Parsing happens once; Run is safe to call concurrently from
// independent goroutines, since evaluation is a pure recursive walk over
// immutable inputs.
type Program struct {
	ast *ast.Program
}

// Compile parses program text into a reusable Program.
func Compile(programText string) (*Program, error) {
	prog, err := parser.Parse("", programText)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	return &Program{ast: prog}, nil
}

// Run evaluates the compiled program against input, producing the output
// value or a typed Error.
func (p *Program) Run(input Value) (Value, error) {
	out, err := eval.Evaluate(p.ast, input)
	if err != nil {
		return Value{}, wrapEvalErr(err)
	}
	return out, nil
}

// Translate is the single programmatic entry point: it compiles programText
// and immediately runs it against input. Callers translating the same
// program against many inputs should use Compile + Program.Run instead to
// avoid re-parsing.
func Translate(programText string, input Value) (Value, error) {
	prog, err := Compile(programText)
	if err != nil {
		return Value{}, err
	}
	return prog.Run(input)
}

// Decode parses JSON text into a Value.
func Decode(data []byte) (Value, error) {
	return value.Decode(data)
}

// Encode renders a Value as JSON text, preserving object key order.
func Encode(v Value) ([]byte, error) {
	return v.MarshalJSON()
}

func wrapParseErr(err error) error {
	if lexErr, ok := err.(*lex.Error); ok {
		return &Error{
			Kind:    KindLexError,
			Message: lexErr.Message,
			Line:    lexErr.Pos.Line,
			Column:  lexErr.Pos.Column,
		}
	}
	if parseErr, ok := err.(*parser.Error); ok {
		return &Error{
			Kind:    KindParseError,
			Message: parseErr.Message,
			Line:    parseErr.Pos.Line,
			Column:  parseErr.Pos.Column,
		}
	}
	return err
}

func wrapEvalErr(err error) error {
	evalErr, ok := err.(*eval.Error)
	if !ok {
		return err
	}
	var kind ErrorKind
	switch evalErr.Kind {
	case eval.KindMissingField:
		kind = KindMissingField
	case eval.KindOutOfBounds:
		kind = KindOutOfBounds
	case eval.KindTypeMismatch:
		kind = KindTypeMismatch
	case eval.KindDuplicateKey:
		kind = KindDuplicateKey
	default:
		kind = KindTypeMismatch
	}
	return &Error{Kind: kind, Message: evalErr.Message, Path: evalErr.Path}
}
