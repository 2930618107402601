// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package token defines the lexical token kinds for the jsonmap language,
// built on top of participle's lexer primitives (Position, Token, TokenType)
// so the hand-written lexer and parser share the same position/error
// vocabulary the wider Go DSL ecosystem uses.
package token

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Position and Token are participle's lexer types, reused directly: Position
// already carries (Filename, Offset, Line, Column) and Token already pairs a
// Type with its matched text and Position.
type (
	Position = lexer.Position
	Token    = lexer.Token
)

// Kind values follow participle's convention of negative TokenTypes (EOF is
// participle's own -1; everything else we define is below it, from -3 down).
const (
	EOF    = lexer.EOF
	Ident  lexer.TokenType = -(iota + 2)
	String
	Number

	// Keywords. Identifiers with these exact lexemes are reclassified by
	// the lexer instead of being left as Ident.
	KwMap
	KwZip
	KwBind
	KwTrue
	KwFalse
	KwNull

	// Punctuation and operators.
	Assign    // =
	Semi      // ;
	Colon     // :
	Comma     // ,
	Dot       // .
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Ref       // &
	AnonRef   // &?
	GlobalRef // &!
)

var names = map[lexer.TokenType]string{
	EOF:       "EOF",
	Ident:     "identifier",
	String:    "string",
	Number:    "number",
	KwMap:     "'map'",
	KwZip:     "'zip'",
	KwBind:    "'bind'",
	KwTrue:    "'true'",
	KwFalse:   "'false'",
	KwNull:    "'null'",
	Assign:    "'='",
	Semi:      "';'",
	Colon:     "':'",
	Comma:     "','",
	Dot:       "'.'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LBracket:  "'['",
	RBracket:  "']'",
	Ref:       "'&'",
	AnonRef:   "'&?'",
	GlobalRef: "'&!'",
}

// KindString renders a token kind the way parser error messages expect:
// quoted punctuation and keywords, bare names for token classes.
func KindString(k lexer.TokenType) string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps a lexeme to its reclassified keyword kind.
var keywords = map[string]lexer.TokenType{
	"map":   KwMap,
	"zip":   KwZip,
	"bind":  KwBind,
	"true":  KwTrue,
	"false": KwFalse,
	"null":  KwNull,
}

// Lookup reclassifies an identifier lexeme as a keyword kind, if it is one.
func Lookup(lexeme string) (lexer.TokenType, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}

// Describe renders a token for "expected X, found Y" parse error messages.
func Describe(t Token) string {
	if t.Type == EOF {
		return "end of input"
	}
	if t.Type == String {
		return fmt.Sprintf("%q", t.Value)
	}
	return fmt.Sprintf("%q", t.Value)
}
