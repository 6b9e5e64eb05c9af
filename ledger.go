package chartex

import (
	"reflect"
	"sync"
)

// Ledger is a side table of transition metadata keyed by the transition
// func's identity. The zero value is ready to use.
//
// Records are written at definition time by the annotation primitives and
// read during extraction; the design assumes all writes for an identity
// happen before any read of it.
type Ledger struct {
	mu   sync.Mutex
	recs map[uintptr]*TransitionMeta
}

// DefaultLedger is the process-wide table the annotation primitives write to.
var DefaultLedger = &Ledger{}

func (l *Ledger) Merge(fn any, frag TransitionMeta) {
	id, ok := funcID(fn)
	if !ok {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.recs == nil {
		l.recs = make(map[uintptr]*TransitionMeta)
	}

	rec := l.recs[id]
	if rec == nil {
		rec = &TransitionMeta{}
		l.recs[id] = rec
	}
	rec.merge(frag)
}

// Read returns a copy of the merged record for fn. The second return value
// reports whether fn has been annotated at all; an unannotated func is not a
// transition of interest, not an error.
func (l *Ledger) Read(fn any) (TransitionMeta, bool) {
	id, ok := funcID(fn)
	if !ok {
		return TransitionMeta{}, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.recs[id]
	if rec == nil {
		return TransitionMeta{}, false
	}

	var out TransitionMeta
	rec.CopyTo(&out)
	return out, true
}

// funcID returns the code pointer of a func value. Two closures created from
// the same func literal share a code pointer, so a transition must be
// annotated once, at initialization.
func funcID(fn any) (uintptr, bool) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0, false
	}
	return v.Pointer(), true
}
