package chartex

import (
	"fmt"
	"sort"
)

// Advisory is a non-fatal finding from the validation pass. Dangling
// references are preserved in the document; advisories only describe them.
type Advisory struct {
	State   StateRef
	Message string
}

// Validate reports a missing initial state and dangling transition or invoke
// targets. Advisories come out in state-name order, so the output is
// deterministic.
func (c *Statechart) Validate() []Advisory {
	var advs []Advisory

	if _, ok := c.States[c.Initial]; !ok {
		advs = append(advs, Advisory{
			State:   c.Initial,
			Message: fmt.Sprintf(`initial state %q has no states entry`, c.Initial),
		})
	}

	names := make([]StateRef, 0, len(c.States))
	for name := range c.States {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, name := range names {
		node := c.States[name]

		events := make([]string, 0, len(node.On))
		for ev := range node.On {
			events = append(events, ev)
		}
		sort.Strings(events)

		for _, ev := range events {
			def := node.On[ev]
			if _, ok := c.States[def.Target]; !ok {
				advs = append(advs, Advisory{
					State:   name,
					Message: fmt.Sprintf(`event %q targets unknown state %q`, ev, def.Target),
				})
			}
		}

		for _, inv := range node.Invoke {
			if _, ok := c.States[inv.OnDone.Target]; !ok {
				advs = append(advs, Advisory{
					State:   name,
					Message: fmt.Sprintf(`invoke %q onDone targets unknown state %q`, inv.Src, inv.OnDone.Target),
				})
			}
			if _, ok := c.States[inv.OnError.Target]; !ok {
				advs = append(advs, Advisory{
					State:   name,
					Message: fmt.Sprintf(`invoke %q onError targets unknown state %q`, inv.Src, inv.OnError.Target),
				})
			}
		}
	}

	return advs
}
