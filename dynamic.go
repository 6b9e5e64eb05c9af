package chartex

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// buildLiveNode walks the exported func-typed fields of a live state
// instance. Fields without a ledger record are not transitions and are
// skipped silently.
func buildLiveNode(instance any, l *Ledger) (StateNode, error) {
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return StateNode{}, fmt.Errorf(`state instance is nil`)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return StateNode{}, fmt.Errorf(`state instance must be a struct, got %T`, instance)
	}

	var recs []transitionRec

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.Func {
			continue
		}

		fv := v.Field(i)
		if fv.IsNil() {
			continue
		}

		meta, ok := l.Read(fv.Interface())
		if !ok {
			continue
		}

		recs = append(recs, transitionRec{
			event: eventName(f.Name, f.Tag),
			meta:  meta,
		})
	}

	return shapeNode(recs), nil
}

// eventName prefers the chart struct tag, else the field name with its first
// rune lowered. The static path applies the same rule to declared fields.
func eventName(field string, tag reflect.StructTag) string {
	if v := tag.Get(`chart`); v != `` {
		return v
	}

	r, size := utf8.DecodeRuneInString(field)
	return string(unicode.ToLower(r)) + field[size:]
}
