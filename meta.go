package chartex

// StateRef is the canonical symbolic name of a state-producing construct.
// Two refs are equal iff their names are equal; two unrelated constructs that
// share a name are indistinguishable.
type StateRef string

// GuardRef names a precondition gating a transition. The guard's logic lives
// in the transition's own implementation; only the name and description are
// recorded.
type GuardRef struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ActionRef names a side effect of a transition.
type ActionRef struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// InvokeSpec describes an asynchronous operation bound to a state, with
// success and failure destinations. OnDone and OnError accept a StateRef, a
// plain string or a state construct value.
type InvokeSpec struct {
	Src         string
	OnDone      any
	OnError     any
	Description string
}

// InvokeMeta is an InvokeSpec with its destinations resolved to state names.
type InvokeMeta struct {
	Src         string
	OnDone      StateRef
	OnError     StateRef
	Description string
}

// TransitionMeta is the merged metadata record of one transition.
type TransitionMeta struct {
	Target      StateRef
	Description string
	Guards      []GuardRef
	Actions     []ActionRef
	Invoke      *InvokeMeta
}

func (m *TransitionMeta) CopyTo(to *TransitionMeta) {
	to.Target = m.Target
	to.Description = m.Description

	to.Guards = to.Guards[:0]
	to.Guards = append(to.Guards, m.Guards...)
	to.Actions = to.Actions[:0]
	to.Actions = append(to.Actions, m.Actions...)

	if m.Invoke != nil {
		inv := *m.Invoke
		to.Invoke = &inv
	} else {
		to.Invoke = nil
	}
}

// merge applies frag on top of m: scalars last write wins, guard and action
// lists concatenate in application order without deduplication, invoke is
// replaced wholesale.
func (m *TransitionMeta) merge(frag TransitionMeta) {
	if frag.Target != `` {
		m.Target = frag.Target
	}
	if frag.Description != `` {
		m.Description = frag.Description
	}
	m.Guards = append(m.Guards, frag.Guards...)
	m.Actions = append(m.Actions, frag.Actions...)
	if frag.Invoke != nil {
		inv := *frag.Invoke
		m.Invoke = &inv
	}
}
