package chartex

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrIDEmpty      = errors.New(`id empty`)
	ErrInitialEmpty = errors.New(`initial state empty`)
)

// Config is the chart-level configuration. ID and Initial are required;
// omitting either is a contract violation and fails the run immediately.
type Config struct {
	ID          string
	Initial     StateRef
	Description string

	// Logger receives advisories. Defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) validate() error {
	if c.ID == `` {
		return fmt.Errorf(`config: %w`, ErrIDEmpty)
	}
	if c.Initial == `` {
		return fmt.Errorf(`config: %w`, ErrInitialEmpty)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// ExtractFromLiveStates builds a statechart from live state instances keyed
// by state name (dynamic path). Each instance's annotated func-typed fields
// become the state's transitions.
func ExtractFromLiveStates(states map[string]any, cfg Config) (*Statechart, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	chart := newChart(cfg)
	for name, instance := range states {
		node, err := buildLiveNode(instance, DefaultLedger)
		if err != nil {
			return nil, fmt.Errorf(`state %s: %w`, name, err)
		}
		chart.States[StateRef(name)] = node
	}

	return chart, nil
}

// ExtractSingle wraps one live instance as a whole chart. The state is named
// by the instance's resolved type name, which also serves as the initial
// state when cfg.Initial is empty.
func ExtractSingle(instance any, cfg Config) (*Statechart, error) {
	name := resolveRef(instance)
	if cfg.Initial == `` {
		cfg.Initial = name
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	node, err := buildLiveNode(instance, DefaultLedger)
	if err != nil {
		return nil, fmt.Errorf(`state %s: %w`, name, err)
	}

	chart := newChart(cfg)
	chart.States[name] = node
	return chart, nil
}
