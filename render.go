package chartex

import (
	"bytes"
	"fmt"
	"sort"
)

// RenderDOT renders the statechart as a Graphviz digraph. States and events
// are emitted in sorted order, so the output is deterministic. Invoke
// destinations show up as dashed edges labeled with the invoke source.
func RenderDOT(c *Statechart) string {
	var b bytes.Buffer

	fmt.Fprintf(&b, "digraph %q {\n", c.ID)
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n")
	b.WriteString("  __initial [shape=point];\n")
	fmt.Fprintf(&b, "  __initial -> %q;\n", string(c.Initial))

	names := make([]StateRef, 0, len(c.States))
	for name := range c.States {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, name := range names {
		fmt.Fprintf(&b, "  %q;\n", string(name))
	}

	for _, name := range names {
		node := c.States[name]

		events := make([]string, 0, len(node.On))
		for ev := range node.On {
			events = append(events, ev)
		}
		sort.Strings(events)

		for _, ev := range events {
			def := node.On[ev]
			label := ev
			if def.Cond != `` {
				label = fmt.Sprintf(`%s [%s]`, ev, def.Cond)
			}
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", string(name), string(def.Target), label)
		}

		for _, inv := range node.Invoke {
			fmt.Fprintf(&b, "  %q -> %q [label=%q, style=dashed];\n", string(name), string(inv.OnDone.Target), inv.Src+` done`)
			fmt.Fprintf(&b, "  %q -> %q [label=%q, style=dashed];\n", string(name), string(inv.OnError.Target), inv.Src+` error`)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
