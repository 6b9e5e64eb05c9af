package chartex

import "strings"

// Statechart is the assembled graph document. A produced document is an
// immutable snapshot: re-running extraction on an unmodified source yields a
// byte-identical document.
type Statechart struct {
	ID          string                 `json:"id" yaml:"id"`
	Initial     StateRef               `json:"initial" yaml:"initial"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	States      map[StateRef]StateNode `json:"states" yaml:"states"`
}

// StateNode is the per-state view: transitions carrying a target keyed by
// event name, plus invoke descriptors split out because they describe
// state-entry behavior rather than a discrete event.
type StateNode struct {
	On     map[string]TransitionDef `json:"on" yaml:"on"`
	Invoke []InvokeDef              `json:"invoke,omitempty" yaml:"invoke,omitempty"`
}

type TransitionDef struct {
	Target      StateRef `json:"target" yaml:"target"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Cond        string   `json:"cond,omitempty" yaml:"cond,omitempty"`
	Actions     []string `json:"actions,omitempty" yaml:"actions,omitempty"`
}

type TargetDef struct {
	Target StateRef `json:"target" yaml:"target"`
}

type InvokeDef struct {
	Src         string    `json:"src" yaml:"src"`
	OnDone      TargetDef `json:"onDone" yaml:"onDone"`
	OnError     TargetDef `json:"onError" yaml:"onError"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

func newChart(cfg Config) *Statechart {
	return &Statechart{
		ID:          cfg.ID,
		Initial:     cfg.Initial,
		Description: cfg.Description,
		States:      map[StateRef]StateNode{},
	}
}

type transitionRec struct {
	event string
	meta  TransitionMeta
}

// shapeNode folds merged transition records into a StateNode: only records
// carrying a target become on entries, invoke records are split out, guards
// conjoin into a single cond. Both extraction paths funnel through here.
func shapeNode(recs []transitionRec) StateNode {
	node := StateNode{On: map[string]TransitionDef{}}

	for _, r := range recs {
		if r.meta.Invoke != nil {
			node.Invoke = append(node.Invoke, InvokeDef{
				Src:         r.meta.Invoke.Src,
				OnDone:      TargetDef{Target: r.meta.Invoke.OnDone},
				OnError:     TargetDef{Target: r.meta.Invoke.OnError},
				Description: r.meta.Invoke.Description,
			})
		}

		if r.meta.Target == `` {
			continue
		}

		def := TransitionDef{
			Target:      r.meta.Target,
			Description: r.meta.Description,
		}
		if len(r.meta.Guards) > 0 {
			names := make([]string, len(r.meta.Guards))
			for i, g := range r.meta.Guards {
				names[i] = g.Name
			}
			def.Cond = strings.Join(names, ` && `)
		}
		for _, a := range r.meta.Actions {
			def.Actions = append(def.Actions, a.Name)
		}

		node.On[r.event] = def
	}

	return node
}
