package chartex

import (
	"fmt"
	"reflect"
)

// resolveRef maps a state-producing construct to its canonical name. Strings
// and StateRefs pass through; other values resolve to their (indirected) type
// name, or the %T stringification when the type is unnamed. The static path
// must produce the same name for the same logical construct.
func resolveRef(ref any) StateRef {
	switch r := ref.(type) {
	case nil:
		return ``
	case StateRef:
		return r
	case string:
		return StateRef(r)
	}

	t := reflect.TypeOf(ref)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != `` {
		return StateRef(t.Name())
	}

	return StateRef(fmt.Sprintf(`%T`, ref))
}
