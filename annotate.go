package chartex

// Target records ref as the destination state of impl and returns impl
// unchanged. ref may be a StateRef, a plain string or a state construct
// value; constructs resolve to their type name. Applying Target again
// overwrites the previous destination.
func Target[F any](ref any, impl F) F {
	DefaultLedger.Merge(impl, TransitionMeta{Target: resolveRef(ref)})
	return impl
}

// Describe records a human description of impl and returns it unchanged.
// Last write wins.
func Describe[F any](text string, impl F) F {
	DefaultLedger.Merge(impl, TransitionMeta{Description: text})
	return impl
}

// Guard appends a named precondition to impl's metadata and returns impl
// unchanged. Guards accumulate in application order: in a nested chain the
// innermost annotation is recorded first.
func Guard[F any](g GuardRef, impl F) F {
	DefaultLedger.Merge(impl, TransitionMeta{Guards: []GuardRef{g}})
	return impl
}

// Action appends a named side effect to impl's metadata and returns impl
// unchanged. Actions accumulate like guards and are not deduplicated.
func Action[F any](a ActionRef, impl F) F {
	DefaultLedger.Merge(impl, TransitionMeta{Actions: []ActionRef{a}})
	return impl
}

// Invoke records impl as an asynchronous operation bound to its enclosing
// state and returns impl unchanged. A transition carrying both an invoke spec
// and a target surfaces on both the state's invoke list and its on mapping.
func Invoke[F any](spec InvokeSpec, impl F) F {
	DefaultLedger.Merge(impl, TransitionMeta{Invoke: &InvokeMeta{
		Src:         spec.Src,
		OnDone:      resolveRef(spec.OnDone),
		OnError:     resolveRef(spec.OnError),
		Description: spec.Description,
	}})
	return impl
}
