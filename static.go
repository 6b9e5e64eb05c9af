package chartex

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// markerImportPath identifies annotation calls in parsed source. Calls to
// Target, Describe, Guard, Action and Invoke imported from this path are the
// recognized metadata markers.
const markerImportPath = `github.com/chartex/chartex`

var primitives = map[string]bool{
	`Target`:   true,
	`Describe`: true,
	`Guard`:    true,
	`Action`:   true,
	`Invoke`:   true,
}

// Source is a parsed set of Go files belonging to one package, indexed by
// top-level declaration. Nothing is type-checked or executed.
type Source struct {
	fset    *token.FileSet
	files   []*ast.File
	aliases map[*ast.File]string

	types  map[string]*ast.TypeSpec
	funcs  map[string]*ast.FuncDecl
	fnFile map[string]*ast.File
	values map[string]ast.Expr
}

// ParseSource parses path, a .go file or a directory of .go files (test
// files excluded).
func ParseSource(p string) (*Source, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf(`parse source: %w`, err)
	}

	fset := token.NewFileSet()
	var files []*ast.File

	parse := func(name string) error {
		f, err := parser.ParseFile(fset, name, nil, parser.SkipObjectResolution)
		if err != nil {
			return fmt.Errorf(`parse source: %w`, err)
		}
		files = append(files, f)
		return nil
	}

	if info.IsDir() {
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf(`parse source: %w`, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), `.go`) || strings.HasSuffix(e.Name(), `_test.go`) {
				continue
			}
			if err := parse(filepath.Join(p, e.Name())); err != nil {
				return nil, err
			}
		}
	} else {
		if err := parse(p); err != nil {
			return nil, err
		}
	}

	src := &Source{
		fset:    fset,
		files:   files,
		aliases: map[*ast.File]string{},
		types:   map[string]*ast.TypeSpec{},
		funcs:   map[string]*ast.FuncDecl{},
		fnFile:  map[string]*ast.File{},
		values:  map[string]ast.Expr{},
	}
	src.index()
	return src, nil
}

func (s *Source) index() {
	for _, f := range s.files {
		s.aliases[f] = markerAlias(f)

		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch sp := spec.(type) {
					case *ast.TypeSpec:
						s.types[sp.Name.Name] = sp
					case *ast.ValueSpec:
						for i, n := range sp.Names {
							if i < len(sp.Values) {
								s.values[n.Name] = sp.Values[i]
							}
						}
					}
				}
			case *ast.FuncDecl:
				if d.Recv == nil {
					s.funcs[d.Name.Name] = d
					s.fnFile[d.Name.Name] = f
				}
			}
		}
	}
}

// markerAlias returns the local name the file imports the annotation package
// under, "." for a dot import, or "" when the file does not import it.
func markerAlias(f *ast.File) string {
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || p != markerImportPath {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name
		}
		return path.Base(markerImportPath)
	}
	return ``
}

// ExtractFromDeclarations builds a statechart by walking declared types in
// parsed source (static path). A named construct missing from the source is
// reported through the config logger and skipped; the remaining constructs
// are still extracted.
func ExtractFromDeclarations(src *Source, names []string, cfg Config) (*Statechart, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf(`source is nil`)
	}

	l := cfg.logger()
	chart := newChart(cfg)

	for _, name := range names {
		spec, ok := src.types[name]
		if !ok {
			l.Warn(`construct not found in source, skipping`, `construct`, name)
			continue
		}
		st, ok := spec.Type.(*ast.StructType)
		if !ok {
			l.Warn(`construct is not a struct type, skipping`, `construct`, name)
			continue
		}
		chart.States[StateRef(name)] = src.buildDeclaredNode(name, st)
	}

	return chart, nil
}

func (s *Source) buildDeclaredNode(typeName string, st *ast.StructType) StateNode {
	inits := s.transitionInits(typeName)

	var recs []transitionRec
	for _, field := range st.Fields.List {
		if !s.isFuncField(field.Type) {
			continue
		}
		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}
			init, ok := inits[name.Name]
			if !ok {
				continue
			}
			meta, ok := s.foldAnnotations(init.file, init.expr)
			if !ok {
				continue
			}
			recs = append(recs, transitionRec{
				event: eventName(name.Name, fieldTag(field)),
				meta:  meta,
			})
		}
	}

	return shapeNode(recs)
}

type fieldInit struct {
	expr ast.Expr
	file *ast.File
}

// transitionInits finds the expressions assigned to typeName's fields:
// composite literals of the type anywhere in the source, overridden by field
// assignments inside functions returning the type (constructor bodies).
// Assignments are matched by field name only, a documented simplification of
// the untyped walk.
func (s *Source) transitionInits(typeName string) map[string]fieldInit {
	inits := map[string]fieldInit{}

	for _, f := range s.files {
		f := f
		ast.Inspect(f, func(n ast.Node) bool {
			cl, ok := n.(*ast.CompositeLit)
			if !ok || typeNameOf(cl.Type) != typeName {
				return true
			}
			for _, elt := range cl.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				key, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}
				inits[key.Name] = fieldInit{expr: kv.Value, file: f}
			}
			return true
		})
	}

	for name, fn := range s.funcs {
		if fn.Body == nil || !returnsType(fn, typeName) {
			continue
		}
		f := s.fnFile[name]
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			as, ok := n.(*ast.AssignStmt)
			if !ok {
				return true
			}
			for i, lhs := range as.Lhs {
				if i >= len(as.Rhs) {
					break
				}
				sel, ok := lhs.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				inits[sel.Sel.Name] = fieldInit{expr: as.Rhs[i], file: f}
			}
			return true
		})
	}

	return inits
}

// foldAnnotations folds a nested annotation call chain into one merged
// record. The innermost call applies first, matching run-time evaluation
// order. A chain whose outermost expression is not an annotation call carries
// no metadata.
func (s *Source) foldAnnotations(f *ast.File, expr ast.Expr) (TransitionMeta, bool) {
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return TransitionMeta{}, false
	}
	prim := s.primitiveName(f, call)
	if prim == `` || len(call.Args) != 2 {
		return TransitionMeta{}, false
	}

	meta, _ := s.foldAnnotations(f, call.Args[1])
	meta.merge(s.fragment(f, prim, call.Args[0]))
	return meta, true
}

func (s *Source) primitiveName(f *ast.File, call *ast.CallExpr) string {
	alias := s.aliases[f]
	if alias == `` {
		return ``
	}

	switch fn := call.Fun.(type) {
	case *ast.SelectorExpr:
		x, ok := fn.X.(*ast.Ident)
		if ok && x.Name == alias && primitives[fn.Sel.Name] {
			return fn.Sel.Name
		}
	case *ast.Ident:
		if alias == `.` && primitives[fn.Name] {
			return fn.Name
		}
	}
	return ``
}

func (s *Source) fragment(f *ast.File, prim string, arg ast.Expr) TransitionMeta {
	switch prim {
	case `Target`:
		return TransitionMeta{Target: s.staticRef(arg, map[string]bool{})}
	case `Describe`:
		return TransitionMeta{Description: s.stringValue(arg)}
	case `Guard`:
		name, desc := s.refFields(arg)
		return TransitionMeta{Guards: []GuardRef{{Name: name, Description: desc}}}
	case `Action`:
		name, desc := s.refFields(arg)
		return TransitionMeta{Actions: []ActionRef{{Name: name, Description: desc}}}
	case `Invoke`:
		inv := &InvokeMeta{}
		if cl := s.compositeLitOf(arg, map[string]bool{}); cl != nil {
			for _, elt := range cl.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				key, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}
				switch key.Name {
				case `Src`:
					inv.Src = s.stringValue(kv.Value)
				case `OnDone`:
					inv.OnDone = s.staticRef(kv.Value, map[string]bool{})
				case `OnError`:
					inv.OnError = s.staticRef(kv.Value, map[string]bool{})
				case `Description`:
					inv.Description = s.stringValue(kv.Value)
				}
			}
		}
		return TransitionMeta{Invoke: inv}
	}
	return TransitionMeta{}
}

// staticRef resolves a target expression to a state name: string literals
// pass through, a composite literal or identifier of a declared type yields
// the type symbol's name, a constructor call yields its result type's name.
// The visited set guards reference cycles through package-level values.
func (s *Source) staticRef(expr ast.Expr, visited map[string]bool) StateRef {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return s.staticRef(e.X, visited)
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return s.staticRef(e.X, visited)
		}
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			if v, err := strconv.Unquote(e.Value); err == nil {
				return StateRef(v)
			}
		}
	case *ast.CompositeLit:
		if name := typeNameOf(e.Type); name != `` {
			return StateRef(name)
		}
	case *ast.Ident:
		if _, ok := s.types[e.Name]; ok {
			return StateRef(e.Name)
		}
		if v, ok := s.values[e.Name]; ok {
			if visited[e.Name] {
				return sentinelCyclic
			}
			visited[e.Name] = true
			return s.staticRef(v, visited)
		}
	case *ast.CallExpr:
		// a constructor call targets its result type, when that type is
		// declared in the source
		if name := typeNameOf(e.Fun); name != `` {
			if fn, ok := s.funcs[name]; ok {
				t := firstResultType(fn)
				if _, ok := s.types[t]; ok {
					return StateRef(t)
				}
			}
		}
	}
	return sentinelUnknown
}

// stringValue serializes expr and keeps it only when it is a string;
// anything else degrades to the unknown sentinel.
func (s *Source) stringValue(expr ast.Expr) string {
	w := &walker{src: s, visited: map[string]bool{}}
	if v, ok := w.value(expr).(string); ok {
		return v
	}
	return string(sentinelUnknown)
}

// refFields recovers the Name and Description fields of a GuardRef or
// ActionRef expression.
func (s *Source) refFields(expr ast.Expr) (name, desc string) {
	name = string(sentinelUnknown)

	w := &walker{src: s, visited: map[string]bool{}}
	m, ok := w.value(expr).(map[string]any)
	if !ok {
		return name, desc
	}
	if v, ok := m[`Name`].(string); ok {
		name = v
	}
	if v, ok := m[`Description`].(string); ok {
		desc = v
	}
	return name, desc
}

func (s *Source) compositeLitOf(expr ast.Expr, visited map[string]bool) *ast.CompositeLit {
	switch e := expr.(type) {
	case *ast.CompositeLit:
		return e
	case *ast.ParenExpr:
		return s.compositeLitOf(e.X, visited)
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return s.compositeLitOf(e.X, visited)
		}
	case *ast.Ident:
		if v, ok := s.values[e.Name]; ok && !visited[e.Name] {
			visited[e.Name] = true
			return s.compositeLitOf(v, visited)
		}
	}
	return nil
}

func (s *Source) isFuncField(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.FuncType:
		return true
	case *ast.Ident:
		if ts, ok := s.types[e.Name]; ok {
			_, ok := ts.Type.(*ast.FuncType)
			return ok
		}
	}
	return false
}

func fieldTag(field *ast.Field) reflect.StructTag {
	if field.Tag == nil {
		return ``
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return ``
	}
	return reflect.StructTag(raw)
}

func returnsType(fn *ast.FuncDecl, typeName string) bool {
	if fn.Type.Results == nil {
		return false
	}
	for _, r := range fn.Type.Results.List {
		if typeNameOf(r.Type) == typeName {
			return true
		}
	}
	return false
}

func firstResultType(fn *ast.FuncDecl) string {
	if fn.Type.Results == nil || len(fn.Type.Results.List) == 0 {
		return ``
	}
	return typeNameOf(fn.Type.Results.List[0].Type)
}

func typeNameOf(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return typeNameOf(e.X)
	case *ast.ParenExpr:
		return typeNameOf(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return typeNameOf(e.X)
	}
	return ``
}
