// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package ast defines the jsonmap abstract syntax tree: programs, bindings,
// expressions, references, and bodies. Every node carries the source
// Position it was parsed from. Evaluation errors do not copy it: they
// report an evaluation path instead.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kyle-silver/jsonmap/internal/lang/token"
)

// Program is an ordered list of top-level bindings. Names are unique within
// the program scope; the parser rejects duplicates before this type is ever
// constructed.
type Program struct {
	Bindings []Binding
	Pos      token.Position
}

func (p *Program) String() string {
	parts := make([]string, len(p.Bindings))
	for i, b := range p.Bindings {
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}

// Binding is a single "name = expr" entry, at program scope or inside an
// ObjectLit/BodyObject.
type Binding struct {
	Name  string
	Value Expr
	Pos   token.Position
}

func (b Binding) String() string {
	return fmt.Sprintf("%s = %s;", b.Name, b.Value.String())
}

// Expr is any jsonmap expression node.
type Expr interface {
	exprNode()
	String() string
	Position() token.Position
}

// JsonNull is the literal `null`.
type JsonNull struct {
	Pos token.Position
}

func (*JsonNull) exprNode()                 {}
func (n *JsonNull) String() string          { return "null" }
func (n *JsonNull) Position() token.Position { return n.Pos }

// JsonBool is a literal `true`/`false`.
type JsonBool struct {
	Value bool
	Pos   token.Position
}

func (*JsonBool) exprNode() {}
func (n *JsonBool) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}
func (n *JsonBool) Position() token.Position { return n.Pos }

// JsonNumber is a literal number.
type JsonNumber struct {
	Value float64
	Pos   token.Position
}

func (*JsonNumber) exprNode()                 {}
func (n *JsonNumber) String() string          { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *JsonNumber) Position() token.Position { return n.Pos }

// JsonString is a literal quoted string.
type JsonString struct {
	Value string
	Pos   token.Position
}

func (*JsonString) exprNode()                 {}
func (n *JsonString) String() string          { return strconv.Quote(n.Value) }
func (n *JsonString) Position() token.Position { return n.Pos }

// ListLit is a `[expr, expr, ...]` list literal.
type ListLit struct {
	Elements []Expr
	Pos      token.Position
}

func (*ListLit) exprNode() {}
func (n *ListLit) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (n *ListLit) Position() token.Position { return n.Pos }

// ObjectLit is a `{ ... }` record literal: an ordered list of bindings,
// each naming one output key.
type ObjectLit struct {
	Entries []Binding
	Pos     token.Position
}

func (*ObjectLit) exprNode() {}
func (n *ObjectLit) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = e.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
func (n *ObjectLit) Position() token.Position { return n.Pos }

// RefRoot identifies which of the three environment scopes a Ref starts from.
type RefRoot int

const (
	// Current is the `&name...` root: env.current.
	Current RefRoot = iota
	// Anonymous is the `&?` root: env.anon.
	Anonymous
	// Global is the `&!` root: env.global.
	Global
)

func (r RefRoot) String() string {
	switch r {
	case Current:
		return "&"
	case Anonymous:
		return "&?"
	case Global:
		return "&!"
	default:
		return "&?!"
	}
}

// PathStep is one segment of a Ref's path: either a named field or a list
// index. Exactly one of the two is meaningful, selected by IsIndex.
type PathStep struct {
	Field   string
	Index   uint32
	IsIndex bool
	Pos     token.Position
}

func (s PathStep) String() string {
	if s.IsIndex {
		return strconv.FormatUint(uint64(s.Index), 10)
	}
	return s.Field
}

// Path is an ordered sequence of PathSteps applied left to right.
type Path []PathStep

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Ref is a reference expression: a root scope plus a path into it.
type Ref struct {
	Root RefRoot
	Path Path
	Pos  token.Position
}

func (*Ref) exprNode() {}
func (n *Ref) String() string {
	if len(n.Path) == 0 {
		return n.Root.String()
	}
	return n.Root.String() + n.Path.String()
}
func (n *Ref) Position() token.Position { return n.Pos }

// BodyKind distinguishes the two Body shapes.
type BodyKind int

const (
	BodyList BodyKind = iota
	BodyObject
)

// Body is the block following map/zip/bind: either an ordered list of
// expressions (BodyList) or an ordered list of bindings (BodyObject).
type Body struct {
	Kind    BodyKind
	List    []Expr
	Object  []Binding
	Pos     token.Position
}

func (b Body) String() string {
	switch b.Kind {
	case BodyList:
		parts := make([]string, len(b.List))
		for i, e := range b.List {
			parts[i] = e.String()
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case BodyObject:
		parts := make([]string, len(b.Object))
		for i, e := range b.Object {
			parts[i] = e.String()
		}
		return "{ " + strings.Join(parts, " ") + " }"
	default:
		return "<invalid body>"
	}
}

// Map iterates `Source` (which must evaluate to a list), evaluating `Body`
// once per element with current = anon = element.
type Map struct {
	Source Expr
	Body    Body
	Pos     token.Position
}

func (*Map) exprNode() {}
func (n *Map) String() string {
	return fmt.Sprintf("map %s %s", n.Source.String(), n.Body.String())
}
func (n *Map) Position() token.Position { return n.Pos }

// Zip pairwise-iterates Sources (each must evaluate to a list), evaluating
// Body once per tuple with anon = the tuple and current = the object-merge
// of its object-kind members.
type Zip struct {
	Sources []Expr
	Body    Body
	Pos     token.Position
}

func (*Zip) exprNode() {}
func (n *Zip) String() string {
	parts := make([]string, len(n.Sources))
	for i, s := range n.Sources {
		parts[i] = s.String()
	}
	return fmt.Sprintf("zip %s %s", strings.Join(parts, " "), n.Body.String())
}
func (n *Zip) Position() token.Position { return n.Pos }

// Bind evaluates Source once, rebinds current to it (anon and global are
// unchanged), and evaluates Body once under the new current.
type Bind struct {
	Source Expr
	Body   Body
	Pos    token.Position
}

func (*Bind) exprNode() {}
func (n *Bind) String() string {
	return fmt.Sprintf("bind %s %s", n.Source.String(), n.Body.String())
}
func (n *Bind) Position() token.Position { return n.Pos }
