package chartex

import (
	"go/ast"
	"go/token"
	"strconv"
)

// Sentinel values the structural walker degrades to instead of failing the
// extraction.
const (
	sentinelUnknown = `unknown`
	sentinelCyclic  = `unresolved-cyclic`
)

// walker serializes declared value shapes into JSON-compatible structures
// without executing anything: basic literals to their values, identifiers of
// declared types to the type symbol's name, composite literals field- or
// element-wise. The visited set, keyed by resolved declaration name, guards
// self- and mutually-referential shapes; a cycle yields a sentinel rather
// than looping.
type walker struct {
	src     *Source
	visited map[string]bool
}

func (w *walker) value(expr ast.Expr) any {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return w.value(e.X)

	case *ast.UnaryExpr:
		switch e.Op {
		case token.AND:
			return w.value(e.X)
		case token.SUB:
			if n, ok := w.value(e.X).(float64); ok {
				return -n
			}
		}
		return sentinelUnknown

	case *ast.BasicLit:
		switch e.Kind {
		case token.STRING:
			if v, err := strconv.Unquote(e.Value); err == nil {
				return v
			}
		case token.INT:
			if v, err := strconv.ParseInt(e.Value, 0, 64); err == nil {
				return float64(v)
			}
		case token.FLOAT:
			if v, err := strconv.ParseFloat(e.Value, 64); err == nil {
				return v
			}
		}
		return sentinelUnknown

	case *ast.Ident:
		switch e.Name {
		case `true`:
			return true
		case `false`:
			return false
		case `nil`:
			return nil
		}
		// a declared type serializes to its symbol's name
		if _, ok := w.src.types[e.Name]; ok {
			return e.Name
		}
		if v, ok := w.src.values[e.Name]; ok {
			if w.visited[e.Name] {
				return sentinelCyclic
			}
			w.visited[e.Name] = true
			return w.value(v)
		}
		return sentinelUnknown

	case *ast.CompositeLit:
		if len(e.Elts) == 0 {
			if name := typeNameOf(e.Type); name != `` {
				return name
			}
			return map[string]any{}
		}
		if _, ok := e.Elts[0].(*ast.KeyValueExpr); ok {
			m := make(map[string]any, len(e.Elts))
			for _, elt := range e.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				key, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}
				m[key.Name] = w.value(kv.Value)
			}
			return m
		}
		// unkeyed literal: element-wise, assumes a homogeneous element
		arr := make([]any, 0, len(e.Elts))
		for _, elt := range e.Elts {
			arr = append(arr, w.value(elt))
		}
		return arr

	case *ast.CallExpr:
		// a constructor call serializes to its result type's name, but only
		// when that result is a type declared in the source
		if name := typeNameOf(e.Fun); name != `` {
			if fn, ok := w.src.funcs[name]; ok {
				t := firstResultType(fn)
				if _, ok := w.src.types[t]; ok {
					return t
				}
			}
		}
		return sentinelUnknown
	}

	return sentinelUnknown
}
