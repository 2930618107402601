// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package parser turns a jsonmap token stream into an ast.Program by hand
// written recursive descent. A declarative participle grammar was
// considered and rejected: jsonmap's object bodies commit to a dialect only
// after the first separator, and "zip" resolves its variadic source list
// against its body by re-interpreting the last bracketed expression — both
// are easier to express as imperative lookahead than as participle struct
// tags.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/kyle-silver/jsonmap/internal/lang/ast"
	lex "github.com/kyle-silver/jsonmap/internal/lang/lexer"
	"github.com/kyle-silver/jsonmap/internal/lang/token"
)

// Error is a parse error: a source position plus an "expected X, found Y"
// style message.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Parse lexes and parses jsonmap source text into a Program.
func Parse(filename, src string) (*ast.Program, error) {
	toks, err := lex.Lex(filename, src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already-lexed token stream (as produced by
// internal/lang/lexer.Lex) into a Program.
func ParseTokens(toks []token.Token) (*ast.Program, error) {
	p := &parser{toks: toks}
	startPos := p.peek().Pos

	var bindings []ast.Binding
	for p.peekType() != token.EOF {
		b, err := p.parseBinding()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)

		if p.peekType() == token.Semi {
			p.advance()
		} else if p.peekType() != token.EOF {
			return nil, p.errorf(p.peek().Pos, "expected ';' or end of input, found %s", token.Describe(p.peek()))
		}
	}

	if err := checkDuplicateNames(bindings); err != nil {
		return nil, err
	}
	return &ast.Program{Bindings: bindings, Pos: startPos}, nil
}

type parser struct {
	toks []token.Token
	pos  int
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *parser) peekType() lexer.TokenType {
	return p.peek().Type
}

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(pos token.Position, format string, args ...any) error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expectedErr(what string) error {
	return p.errorf(p.peek().Pos, "expected %s, found %s", what, token.Describe(p.peek()))
}

func (p *parser) expect(kind lexer.TokenType, desc string) (token.Token, error) {
	if p.peekType() != kind {
		return token.Token{}, p.expectedErr(desc)
	}
	return p.advance(), nil
}

// checkDuplicateNames enforces that a name introduced at a program or
// object scope appears at most once; a repeat is a parse-time error. Used
// for both program-level and object-literal-level bindings.
func checkDuplicateNames(bindings []ast.Binding) error {
	seen := make(map[string]token.Position, len(bindings))
	for _, b := range bindings {
		if _, ok := seen[b.Name]; ok {
			return &Error{Pos: b.Pos, Message: fmt.Sprintf("duplicate binding name %q", b.Name)}
		}
		seen[b.Name] = b.Pos
	}
	return nil
}

// parseName accepts either a bare identifier or a quoted string as a
// binding/entry name (grammar: name := identifier | string).
func (p *parser) parseName() (string, token.Position, error) {
	t := p.peek()
	switch t.Type {
	case token.Ident, token.String:
		p.advance()
		return t.Value, t.Pos, nil
	default:
		return "", token.Position{}, p.expectedErr("a name")
	}
}

// parseBinding parses "name '=' expr" — the program-scope binding form.
func (p *parser) parseBinding() (ast.Binding, error) {
	name, pos, err := p.parseName()
	if err != nil {
		return ast.Binding{}, err
	}
	if _, err := p.expect(token.Assign, "'='"); err != nil {
		return ast.Binding{}, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return ast.Binding{}, err
	}
	return ast.Binding{Name: name, Value: value, Pos: pos}, nil
}

// canStartExpr reports whether the current token can begin an expr; used to
// decide when zip's variadic source list has run out of sources.
func (p *parser) canStartExpr() bool {
	switch p.peekType() {
	case token.KwNull, token.KwTrue, token.KwFalse, token.Number, token.String,
		token.Ref, token.AnonRef, token.GlobalRef,
		token.LBracket, token.LBrace,
		token.KwMap, token.KwZip, token.KwBind:
		return true
	default:
		return false
	}
}

func (p *parser) parseExpr() (ast.Expr, error) {
	t := p.peek()
	switch t.Type {
	case token.KwNull:
		p.advance()
		return &ast.JsonNull{Pos: t.Pos}, nil
	case token.KwTrue:
		p.advance()
		return &ast.JsonBool{Value: true, Pos: t.Pos}, nil
	case token.KwFalse:
		p.advance()
		return &ast.JsonBool{Value: false, Pos: t.Pos}, nil
	case token.Number:
		p.advance()
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return nil, p.errorf(t.Pos, "malformed number literal %q", t.Value)
		}
		return &ast.JsonNumber{Value: f, Pos: t.Pos}, nil
	case token.String:
		p.advance()
		return &ast.JsonString{Value: t.Value, Pos: t.Pos}, nil
	case token.Ref:
		return p.parseRef(ast.Current)
	case token.AnonRef:
		return p.parseRef(ast.Anonymous)
	case token.GlobalRef:
		return p.parseRef(ast.Global)
	case token.LBracket:
		return p.parseListLit()
	case token.LBrace:
		return p.parseObjectLit()
	case token.KwMap:
		return p.parseMap()
	case token.KwZip:
		return p.parseZip()
	case token.KwBind:
		return p.parseBind()
	default:
		return nil, p.expectedErr("an expression")
	}
}

// parseRef parses a reference expression. For every root ("&", "&?", "&!"),
// an optional first path step follows the root token directly with no
// leading dot (as in "&!store"); a dot introduces every step after the
// first, and may also introduce the first one (as in "&?.0.1").
func (p *parser) parseRef(root ast.RefRoot) (ast.Expr, error) {
	pos := p.peek().Pos
	p.advance() // consume '&' / '&?' / '&!'

	var path ast.Path
	if step, ok, err := p.tryParsePathStep(); err != nil {
		return nil, err
	} else if ok {
		path = append(path, step)
	}
	for p.peekType() == token.Dot {
		p.advance()
		step, err := p.parsePathStep()
		if err != nil {
			return nil, err
		}
		path = append(path, step)
	}
	return &ast.Ref{Root: root, Path: path, Pos: pos}, nil
}

func (p *parser) tryParsePathStep() (ast.PathStep, bool, error) {
	switch p.peekType() {
	case token.Ident, token.String, token.Number:
		step, err := p.parsePathStep()
		return step, true, err
	default:
		return ast.PathStep{}, false, nil
	}
}

func (p *parser) parsePathStep() (ast.PathStep, error) {
	t := p.peek()
	switch t.Type {
	case token.Ident, token.String:
		p.advance()
		return ast.PathStep{Field: t.Value, Pos: t.Pos}, nil
	case token.Number:
		p.advance()
		idx, err := parseIndexLiteral(t.Value)
		if err != nil {
			return ast.PathStep{}, p.errorf(t.Pos, "%s", err.Error())
		}
		return ast.PathStep{Index: idx, IsIndex: true, Pos: t.Pos}, nil
	default:
		return ast.PathStep{}, p.expectedErr("a field name or index")
	}
}

// parseIndexLiteral rejects numeric path steps that aren't plain
// non-negative integers: a numeric step always addresses a list index,
// never an object key, and must be a bare integer.
func parseIndexLiteral(raw string) (uint32, error) {
	if strings.ContainsAny(raw, ".eE") || strings.HasPrefix(raw, "-") {
		return 0, fmt.Errorf("expected a non-negative integer index, found %q", raw)
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("expected a non-negative integer index, found %q", raw)
	}
	return uint32(v), nil
}

func (p *parser) parseListLit() (ast.Expr, error) {
	pos := p.peek().Pos
	if _, err := p.expect(token.LBracket, "'['"); err != nil {
		return nil, err
	}
	var elems []ast.Expr
	if p.peekType() == token.RBracket {
		p.advance()
		return &ast.ListLit{Elements: elems, Pos: pos}, nil
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.peekType() == token.Comma {
			p.advance()
			if p.peekType() == token.RBracket {
				break
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RBracket, "']'"); err != nil {
		return nil, err
	}
	return &ast.ListLit{Elements: elems, Pos: pos}, nil
}

func (p *parser) parseObjectLit() (ast.Expr, error) {
	pos := p.peek().Pos
	p.advance() // '{'
	entries, err := p.parseObjectBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	if err := checkDuplicateNames(entries); err != nil {
		return nil, err
	}
	return &ast.ObjectLit{Entries: entries, Pos: pos}, nil
}

// parseObjectBody parses the inside of "{ ... }": either empty, or a run of
// entries in one of two dialects. The dialect is decided by the first
// separator seen ('=' commits to statement style, ':' commits to JSON
// style); a later entry using the other separator is a parse error.
func (p *parser) parseObjectBody() ([]ast.Binding, error) {
	var entries []ast.Binding
	if p.peekType() == token.RBrace {
		return entries, nil
	}

	const (
		dialectUnset = iota
		dialectStmt
		dialectJSON
	)
	dialect := dialectUnset

	for {
		name, namePos, err := p.parseName()
		if err != nil {
			return nil, err
		}

		switch p.peekType() {
		case token.Assign:
			if dialect == dialectJSON {
				return nil, p.errorf(p.peek().Pos, "cannot mix '=' statement-style entries with ':' JSON-style entries in the same object")
			}
			dialect = dialectStmt
			p.advance()
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.Binding{Name: name, Value: value, Pos: namePos})
			if p.peekType() == token.Semi {
				p.advance()
			} else if p.peekType() != token.RBrace {
				return nil, p.errorf(p.peek().Pos, "expected ';' after entry, found %s", token.Describe(p.peek()))
			}
		case token.Colon:
			if dialect == dialectStmt {
				return nil, p.errorf(p.peek().Pos, "cannot mix ':' JSON-style entries with '=' statement-style entries in the same object")
			}
			dialect = dialectJSON
			p.advance()
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.Binding{Name: name, Value: value, Pos: namePos})
			if p.peekType() == token.Comma {
				p.advance()
			} else if p.peekType() != token.RBrace {
				return nil, p.errorf(p.peek().Pos, "expected ',' after entry, found %s", token.Describe(p.peek()))
			}
		default:
			return nil, p.expectedErr("'=' or ':'")
		}

		if p.peekType() == token.RBrace {
			return entries, nil
		}
	}
}

// parseBody parses the block following "map"/"bind": a list body or an
// object body. Unlike zip, map and bind take exactly one source expr before
// the body, so there is no ambiguity to resolve here — the source was
// already consumed in full by parseExpr before parseBody is called.
func (p *parser) parseBody() (ast.Body, error) {
	switch p.peekType() {
	case token.LBracket:
		pos := p.peek().Pos
		p.advance()
		if p.peekType() == token.RBracket {
			return ast.Body{}, p.errorf(pos, "list body must not be empty")
		}
		var elems []ast.Expr
		for {
			e, err := p.parseExpr()
			if err != nil {
				return ast.Body{}, err
			}
			elems = append(elems, e)
			if p.peekType() == token.Comma {
				p.advance()
				if p.peekType() == token.RBracket {
					break
				}
				continue
			}
			break
		}
		if _, err := p.expect(token.RBracket, "']'"); err != nil {
			return ast.Body{}, err
		}
		return ast.Body{Kind: ast.BodyList, List: elems, Pos: pos}, nil
	case token.LBrace:
		pos := p.peek().Pos
		p.advance()
		entries, err := p.parseObjectBody()
		if err != nil {
			return ast.Body{}, err
		}
		if _, err := p.expect(token.RBrace, "'}'"); err != nil {
			return ast.Body{}, err
		}
		if err := checkDuplicateNames(entries); err != nil {
			return ast.Body{}, err
		}
		return ast.Body{Kind: ast.BodyObject, Object: entries, Pos: pos}, nil
	default:
		return ast.Body{}, p.expectedErr("a list or object body")
	}
}

func (p *parser) parseMap() (ast.Expr, error) {
	pos := p.peek().Pos
	p.advance() // 'map'
	source, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.Map{Source: source, Body: body, Pos: pos}, nil
}

func (p *parser) parseBind() (ast.Expr, error) {
	pos := p.peek().Pos
	p.advance() // 'bind'
	source, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.Bind{Source: source, Body: body, Pos: pos}, nil
}

// parseZip resolves the source-list-vs-body ambiguity by greedily parsing
// every expression it can (each one already fully consumed by parseExpr,
// brackets and all) until the next token cannot start another expression,
// then reinterpreting the final parsed expression as the body: the final
// bracketed expression is always the body, never another source.
func (p *parser) parseZip() (ast.Expr, error) {
	pos := p.peek().Pos
	p.advance() // 'zip'

	var pending []ast.Expr
	for p.canStartExpr() {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		pending = append(pending, e)
	}
	if len(pending) < 2 {
		return nil, p.errorf(pos, "'zip' requires at least one source and a body")
	}

	sources := pending[:len(pending)-1]
	body, err := exprToBody(pending[len(pending)-1])
	if err != nil {
		return nil, err
	}
	return &ast.Zip{Sources: sources, Body: body, Pos: pos}, nil
}

// exprToBody reinterprets an already-parsed list or object literal as a
// Body. Only these two shapes are valid zip bodies; anything else means the
// body could not be isolated from the source list.
func exprToBody(e ast.Expr) (ast.Body, error) {
	switch v := e.(type) {
	case *ast.ListLit:
		if len(v.Elements) == 0 {
			return ast.Body{}, &Error{Pos: v.Pos, Message: "list body for 'zip' must not be empty"}
		}
		return ast.Body{Kind: ast.BodyList, List: v.Elements, Pos: v.Pos}, nil
	case *ast.ObjectLit:
		if err := checkDuplicateNames(v.Entries); err != nil {
			return ast.Body{}, err
		}
		return ast.Body{Kind: ast.BodyObject, Object: v.Entries, Pos: v.Pos}, nil
	default:
		return ast.Body{}, &Error{Pos: e.Position(), Message: fmt.Sprintf("expected a list or object body for 'zip', found %s", describeExpr(e))}
	}
}

func describeExpr(e ast.Expr) string {
	switch e.(type) {
	case *ast.JsonNull, *ast.JsonBool, *ast.JsonNumber, *ast.JsonString:
		return "a literal"
	case *ast.Ref:
		return "a reference"
	case *ast.Map:
		return "a 'map' expression"
	case *ast.Zip:
		return "a 'zip' expression"
	case *ast.Bind:
		return "a 'bind' expression"
	default:
		return "an expression"
	}
}
