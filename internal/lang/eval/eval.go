// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package eval walks a jsonmap ast.Program against an input value.Value,
// producing an output value.Value or a typed evaluation error.
//
// The evaluator keeps no mutable state beyond the recursive call stack: each
// scope-introducing node (bind/map/zip) derives a fresh child Env from its
// parent and hands that down, never mutating the parent. This mirrors the
// teacher's EvalContext/evalBlock dispatch-by-node-kind pattern, adapted
// from boolean policy evaluation to JSON value production.
package eval

import (
	"fmt"

	"github.com/kyle-silver/jsonmap/internal/lang/ast"
	"github.com/kyle-silver/jsonmap/internal/lang/token"
	"github.com/kyle-silver/jsonmap/internal/lang/value"
)

// Kind identifies one of the evaluation-time error categories. Lex and
// parse errors are distinct Go types produced by their own packages and
// never constructed here.
type Kind int

const (
	KindMissingField Kind = iota
	KindOutOfBounds
	KindTypeMismatch
	KindDuplicateKey
)

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "MissingField"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindDuplicateKey:
		return "DuplicateKey"
	default:
		return "UnknownError"
	}
}

// Error is the evaluator's single tagged error value. It always carries the
// JSON-pointer-like Path that led to the failure.
type Error struct {
	Kind     Kind
	Message  string
	Path     string
	Pos      token.Position
	Expected string
	Actual   string
	Length   int
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Env is the three-role evaluation environment: current, anon, and global
// scopes are distinct fields, never overloaded onto one slot.
type Env struct {
	current value.Value
	anon    value.Value
	global  value.Value
	path    string
}

// NewEnv builds the initial environment for a program run: current, anon,
// and global all start out equal to the input value.
func NewEnv(input value.Value) *Env {
	return &Env{current: input, anon: input, global: input, path: "$"}
}

func (e *Env) withCurrent(v value.Value) *Env {
	return &Env{current: v, anon: e.anon, global: e.global, path: e.path}
}

func (e *Env) withCurrentAndAnon(v value.Value) *Env {
	return &Env{current: v, anon: v, global: e.global, path: e.path}
}

func (e *Env) withPath(path string) *Env {
	return &Env{current: e.current, anon: e.anon, global: e.global, path: path}
}

// Evaluate runs a Program against an input value, producing the program's
// output object.
func Evaluate(program *ast.Program, input value.Value) (value.Value, error) {
	env := NewEnv(input)
	members := make([]value.Member, 0, len(program.Bindings))
	for _, b := range program.Bindings {
		childEnv := env.withPath(env.path + "." + b.Name)
		v, err := evalExpr(b.Value, childEnv)
		if err != nil {
			return value.Value{}, err
		}
		members = append(members, value.Member{Key: b.Name, Value: v})
	}
	obj, err := value.NewObject(members)
	if err != nil {
		return value.Value{}, &Error{Kind: KindDuplicateKey, Message: err.Error(), Path: env.path}
	}
	return value.FromObject(obj), nil
}

func evalExpr(e ast.Expr, env *Env) (value.Value, error) {
	switch n := e.(type) {
	case *ast.JsonNull:
		return value.Null(), nil
	case *ast.JsonBool:
		return value.Bool(n.Value), nil
	case *ast.JsonNumber:
		return value.Number(n.Value), nil
	case *ast.JsonString:
		return value.String(n.Value), nil
	case *ast.ListLit:
		return evalListLit(n, env)
	case *ast.ObjectLit:
		return evalObjectLit(n, env)
	case *ast.Ref:
		return evalRef(n, env)
	case *ast.Map:
		return evalMap(n, env)
	case *ast.Zip:
		return evalZip(n, env)
	case *ast.Bind:
		return evalBind(n, env)
	default:
		return value.Value{}, fmt.Errorf("eval: unhandled expr type %T", e)
	}
}

func evalListLit(n *ast.ListLit, env *Env) (value.Value, error) {
	items := make([]value.Value, 0, len(n.Elements))
	for i, elem := range n.Elements {
		childEnv := env.withPath(fmt.Sprintf("%s[%d]", env.path, i))
		v, err := evalExpr(elem, childEnv)
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, v)
	}
	return value.List(items), nil
}

func evalObjectLit(n *ast.ObjectLit, env *Env) (value.Value, error) {
	members, err := evalBindings(n.Entries, env)
	if err != nil {
		return value.Value{}, err
	}
	obj, err := value.NewObject(members)
	if err != nil {
		return value.Value{}, &Error{Kind: KindDuplicateKey, Message: err.Error(), Path: env.path}
	}
	return value.FromObject(obj), nil
}

func evalBindings(entries []ast.Binding, env *Env) ([]value.Member, error) {
	members := make([]value.Member, 0, len(entries))
	for _, b := range entries {
		childEnv := env.withPath(env.path + "." + b.Name)
		v, err := evalExpr(b.Value, childEnv)
		if err != nil {
			return nil, err
		}
		members = append(members, value.Member{Key: b.Name, Value: v})
	}
	return members, nil
}

// evalRef resolves a reference against the environment.
func evalRef(n *ast.Ref, env *Env) (value.Value, error) {
	var start value.Value
	switch n.Root {
	case ast.Current:
		start = env.current
	case ast.Anonymous:
		start = env.anon
	case ast.Global:
		start = env.global
	}
	return applyPath(start, n.Path, env)
}

func applyPath(start value.Value, path ast.Path, env *Env) (value.Value, error) {
	cur := start
	for _, step := range path {
		if step.IsIndex {
			list, ok := cur.List()
			if !ok {
				return value.Value{}, &Error{
					Kind:     KindTypeMismatch,
					Message:  fmt.Sprintf("expected a list to index, found %s", cur.Kind()),
					Path:     env.path,
					Expected: value.KindList.String(),
					Actual:   cur.Kind().String(),
				}
			}
			if int(step.Index) >= len(list) {
				return value.Value{}, &Error{
					Kind:    KindOutOfBounds,
					Message: fmt.Sprintf("index %d out of bounds for list of length %d", step.Index, len(list)),
					Path:    env.path,
					Length:  len(list),
				}
			}
			cur = list[step.Index]
			continue
		}

		obj, ok := cur.Object()
		if !ok {
			return value.Value{}, &Error{
				Kind:     KindTypeMismatch,
				Message:  fmt.Sprintf("expected an object to read field %q, found %s", step.Field, cur.Kind()),
				Path:     env.path,
				Expected: value.KindObject.String(),
				Actual:   cur.Kind().String(),
			}
		}
		v, ok := obj.Get(step.Field)
		if !ok {
			return value.Value{}, &Error{
				Kind:    KindMissingField,
				Message: fmt.Sprintf("object has no field %q", step.Field),
				Path:    env.path,
			}
		}
		cur = v
	}
	return cur, nil
}

// evalBind evaluates source once, rebinds only current (anon and global are
// left untouched), and evaluates the body once.
func evalBind(n *ast.Bind, env *Env) (value.Value, error) {
	src, err := evalExpr(n.Source, env)
	if err != nil {
		return value.Value{}, err
	}
	childEnv := env.withCurrent(src)
	return evalBody(n.Body, childEnv)
}

// evalMap iterates source (must be a list), evaluating body once per
// element with current = anon = element.
func evalMap(n *ast.Map, env *Env) (value.Value, error) {
	src, err := evalExpr(n.Source, env)
	if err != nil {
		return value.Value{}, err
	}
	items, ok := src.List()
	if !ok {
		return value.Value{}, &Error{
			Kind:     KindTypeMismatch,
			Message:  fmt.Sprintf("'map' requires a list source, found %s", src.Kind()),
			Path:     env.path,
			Expected: value.KindList.String(),
			Actual:   src.Kind().String(),
		}
	}

	out := make([]value.Value, 0, len(items))
	for i, item := range items {
		iterEnv := env.withCurrentAndAnon(item)
		iterEnv = iterEnv.withPath(fmt.Sprintf("%s[%d]", env.path, i))
		v, err := evalBody(n.Body, iterEnv)
		if err != nil {
			return value.Value{}, err
		}
		out = append(out, v)
	}
	return value.List(out), nil
}

// evalZip pairwise-iterates sources, each of which must evaluate to a list.
// The i-th tuple forms anon; current is the left-to-right object merge of
// the tuple's object-kind members (later sources win on key collision).
func evalZip(n *ast.Zip, env *Env) (value.Value, error) {
	if len(n.Sources) == 0 {
		return value.Value{}, &Error{Kind: KindTypeMismatch, Message: "'zip' requires at least one source", Path: env.path}
	}

	sourceLists := make([][]value.Value, len(n.Sources))
	minLen := -1
	for i, srcExpr := range n.Sources {
		src, err := evalExpr(srcExpr, env)
		if err != nil {
			return value.Value{}, err
		}
		items, ok := src.List()
		if !ok {
			return value.Value{}, &Error{
				Kind:     KindTypeMismatch,
				Message:  fmt.Sprintf("'zip' requires list sources, found %s", src.Kind()),
				Path:     env.path,
				Expected: value.KindList.String(),
				Actual:   src.Kind().String(),
			}
		}
		sourceLists[i] = items
		if minLen == -1 || len(items) < minLen {
			minLen = len(items)
		}
	}

	out := make([]value.Value, 0, minLen)
	for i := 0; i < minLen; i++ {
		tuple := make([]value.Value, len(sourceLists))
		for s := range sourceLists {
			tuple[s] = sourceLists[s][i]
		}
		merged, err := mergeTuple(tuple)
		if err != nil {
			return value.Value{}, &Error{Kind: KindDuplicateKey, Message: err.Error(), Path: fmt.Sprintf("%s[%d]", env.path, i)}
		}

		iterEnv := &Env{current: merged, anon: value.List(tuple), global: env.global, path: fmt.Sprintf("%s[%d]", env.path, i)}
		v, err := evalBody(n.Body, iterEnv)
		if err != nil {
			return value.Value{}, err
		}
		out = append(out, v)
	}
	return value.List(out), nil
}

// mergeTuple builds zip's merged "current" namespace: a left-to-right
// object merge over tuple elements that are objects. Non-object elements
// contribute nothing to the merge.
func mergeTuple(tuple []value.Value) (value.Value, error) {
	index := make(map[string]int)
	var members []value.Member
	for _, t := range tuple {
		obj, ok := t.Object()
		if !ok {
			continue
		}
		for _, m := range obj.Members() {
			if i, exists := index[m.Key]; exists {
				members[i] = m // later source wins
				continue
			}
			index[m.Key] = len(members)
			members = append(members, m)
		}
	}
	obj, err := value.NewObject(members)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromObject(obj), nil
}

// evalBody evaluates a Body under env: BodyList collapses to a single value
// when it has exactly one expression, otherwise emits a list of the
// per-expression values. BodyObject follows ObjectLit semantics.
func evalBody(b ast.Body, env *Env) (value.Value, error) {
	switch b.Kind {
	case ast.BodyList:
		if len(b.List) == 1 {
			return evalExpr(b.List[0], env)
		}
		items := make([]value.Value, 0, len(b.List))
		for i, e := range b.List {
			childEnv := env.withPath(fmt.Sprintf("%s[%d]", env.path, i))
			v, err := evalExpr(e, childEnv)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.List(items), nil
	case ast.BodyObject:
		members, err := evalBindings(b.Object, env)
		if err != nil {
			return value.Value{}, err
		}
		obj, err := value.NewObject(members)
		if err != nil {
			return value.Value{}, &Error{Kind: KindDuplicateKey, Message: err.Error(), Path: env.path}
		}
		return value.FromObject(obj), nil
	default:
		return value.Value{}, fmt.Errorf("eval: unknown body kind %v", b.Kind)
	}
}
