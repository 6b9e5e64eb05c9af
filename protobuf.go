package chartex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/VictoriaMetrics/easyproto"
)

var mp = &easyproto.MarshalerPool{}

// MarshalStatechart appends the document's wire encoding to dst. States and
// events are emitted in sorted order, so the encoding is deterministic.
//
//	message Statechart {
//	  string id = 1;
//	  string initial = 2;
//	  string description = 3;
//	  repeated StateEntry states = 4;
//	}
func MarshalStatechart(c *Statechart, dst []byte) []byte {
	m := mp.Get()
	defer mp.Put(m)

	mm := m.MessageMarshaler()
	if c.ID != `` {
		mm.AppendString(1, c.ID)
	}
	if c.Initial != `` {
		mm.AppendString(2, string(c.Initial))
	}
	if c.Description != `` {
		mm.AppendString(3, c.Description)
	}

	names := make([]StateRef, 0, len(c.States))
	for name := range c.States {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, name := range names {
		marshalStateEntry(name, c.States[name], mm.AppendMessage(4))
	}

	return m.Marshal(dst)
}

//	message StateEntry {
//	  string name = 1;
//	  StateNode node = 2;
//	}
func marshalStateEntry(name StateRef, node StateNode, mm *easyproto.MessageMarshaler) {
	mm.AppendString(1, string(name))
	marshalStateNode(node, mm.AppendMessage(2))
}

//	message StateNode {
//	  repeated OnEntry on = 1;
//	  repeated Invoke invoke = 2;
//	}
func marshalStateNode(node StateNode, mm *easyproto.MessageMarshaler) {
	events := make([]string, 0, len(node.On))
	for ev := range node.On {
		events = append(events, ev)
	}
	sort.Strings(events)
	for _, ev := range events {
		onMM := mm.AppendMessage(1)
		onMM.AppendString(1, ev)
		marshalTransitionDef(node.On[ev], onMM.AppendMessage(2))
	}

	for _, inv := range node.Invoke {
		invMM := mm.AppendMessage(2)
		if inv.Src != `` {
			invMM.AppendString(1, inv.Src)
		}
		if inv.OnDone.Target != `` {
			invMM.AppendString(2, string(inv.OnDone.Target))
		}
		if inv.OnError.Target != `` {
			invMM.AppendString(3, string(inv.OnError.Target))
		}
		if inv.Description != `` {
			invMM.AppendString(4, inv.Description)
		}
	}
}

//	message Transition {
//	  string target = 1;
//	  string description = 2;
//	  string cond = 3;
//	  repeated string actions = 4;
//	}
func marshalTransitionDef(def TransitionDef, mm *easyproto.MessageMarshaler) {
	if def.Target != `` {
		mm.AppendString(1, string(def.Target))
	}
	if def.Description != `` {
		mm.AppendString(2, def.Description)
	}
	if def.Cond != `` {
		mm.AppendString(3, def.Cond)
	}
	for _, a := range def.Actions {
		mm.AppendString(4, a)
	}
}

func UnmarshalStatechart(src []byte, c *Statechart) (err error) {
	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return fmt.Errorf(`cannot read next field`)
		}
		switch fc.FieldNum {
		case 1:
			id, ok := fc.String()
			if !ok {
				return fmt.Errorf(`cannot read 'string id = 1;' field`)
			}
			c.ID = strings.Clone(id)
		case 2:
			initial, ok := fc.String()
			if !ok {
				return fmt.Errorf(`cannot read 'string initial = 2;' field`)
			}
			c.Initial = StateRef(strings.Clone(initial))
		case 3:
			desc, ok := fc.String()
			if !ok {
				return fmt.Errorf(`cannot read 'string description = 3;' field`)
			}
			c.Description = strings.Clone(desc)
		case 4:
			data, ok := fc.MessageData()
			if !ok {
				return fmt.Errorf(`cannot read 'repeated StateEntry states = 4;' field`)
			}
			name, node, err := unmarshalStateEntry(data)
			if err != nil {
				return err
			}
			if c.States == nil {
				c.States = make(map[StateRef]StateNode)
			}
			c.States[name] = node
		}
	}
	return nil
}

func unmarshalStateEntry(src []byte) (name StateRef, node StateNode, err error) {
	node.On = map[string]TransitionDef{}

	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return ``, node, fmt.Errorf(`cannot read next field`)
		}
		switch fc.FieldNum {
		case 1:
			n, ok := fc.String()
			if !ok {
				return ``, node, fmt.Errorf(`cannot read 'string name = 1;' field`)
			}
			name = StateRef(strings.Clone(n))
		case 2:
			data, ok := fc.MessageData()
			if !ok {
				return ``, node, fmt.Errorf(`cannot read 'StateNode node = 2;' field`)
			}
			if err := unmarshalStateNode(data, &node); err != nil {
				return ``, node, err
			}
		}
	}
	return name, node, nil
}

func unmarshalStateNode(src []byte, node *StateNode) (err error) {
	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return fmt.Errorf(`cannot read next field`)
		}
		switch fc.FieldNum {
		case 1:
			data, ok := fc.MessageData()
			if !ok {
				return fmt.Errorf(`cannot read 'repeated OnEntry on = 1;' field`)
			}
			if err := unmarshalOnEntry(data, node); err != nil {
				return err
			}
		case 2:
			data, ok := fc.MessageData()
			if !ok {
				return fmt.Errorf(`cannot read 'repeated Invoke invoke = 2;' field`)
			}
			inv, err := unmarshalInvokeDef(data)
			if err != nil {
				return err
			}
			node.Invoke = append(node.Invoke, inv)
		}
	}
	return nil
}

//	message OnEntry {
//	  string event = 1;
//	  Transition transition = 2;
//	}
func unmarshalOnEntry(src []byte, node *StateNode) (err error) {
	var event string
	var def TransitionDef

	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return fmt.Errorf(`cannot read next field`)
		}
		switch fc.FieldNum {
		case 1:
			ev, ok := fc.String()
			if !ok {
				return fmt.Errorf(`cannot read 'string event = 1;' field`)
			}
			event = strings.Clone(ev)
		case 2:
			data, ok := fc.MessageData()
			if !ok {
				return fmt.Errorf(`cannot read 'Transition transition = 2;' field`)
			}
			if err := unmarshalTransitionDef(data, &def); err != nil {
				return err
			}
		}
	}

	node.On[event] = def
	return nil
}

func unmarshalTransitionDef(src []byte, def *TransitionDef) (err error) {
	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return fmt.Errorf(`cannot read next field`)
		}
		switch fc.FieldNum {
		case 1:
			target, ok := fc.String()
			if !ok {
				return fmt.Errorf(`cannot read 'string target = 1;' field`)
			}
			def.Target = StateRef(strings.Clone(target))
		case 2:
			desc, ok := fc.String()
			if !ok {
				return fmt.Errorf(`cannot read 'string description = 2;' field`)
			}
			def.Description = strings.Clone(desc)
		case 3:
			cond, ok := fc.String()
			if !ok {
				return fmt.Errorf(`cannot read 'string cond = 3;' field`)
			}
			def.Cond = strings.Clone(cond)
		case 4:
			action, ok := fc.String()
			if !ok {
				return fmt.Errorf(`cannot read 'repeated string actions = 4;' field`)
			}
			def.Actions = append(def.Actions, strings.Clone(action))
		}
	}
	return nil
}

//	message Invoke {
//	  string src = 1;
//	  string on_done = 2;
//	  string on_error = 3;
//	  string description = 4;
//	}
func unmarshalInvokeDef(src []byte) (inv InvokeDef, err error) {
	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return inv, fmt.Errorf(`cannot read next field`)
		}
		switch fc.FieldNum {
		case 1:
			s, ok := fc.String()
			if !ok {
				return inv, fmt.Errorf(`cannot read 'string src = 1;' field`)
			}
			inv.Src = strings.Clone(s)
		case 2:
			s, ok := fc.String()
			if !ok {
				return inv, fmt.Errorf(`cannot read 'string on_done = 2;' field`)
			}
			inv.OnDone = TargetDef{Target: StateRef(strings.Clone(s))}
		case 3:
			s, ok := fc.String()
			if !ok {
				return inv, fmt.Errorf(`cannot read 'string on_error = 3;' field`)
			}
			inv.OnError = TargetDef{Target: StateRef(strings.Clone(s))}
		case 4:
			s, ok := fc.String()
			if !ok {
				return inv, fmt.Errorf(`cannot read 'string description = 4;' field`)
			}
			inv.Description = strings.Clone(s)
		}
	}
	return inv, nil
}
