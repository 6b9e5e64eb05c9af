package chartex_test

import (
	"encoding/json"
	"testing"

	"github.com/chartex/chartex"
	"github.com/stretchr/testify/require"
)

// Dynamic twin of testdata/machines/auth.go: same construct names, same
// annotation chains. Both extraction paths must emit the same graph for it.

type LoggedOut struct {
	Login func(user, pass string) error
}

type LoggedIn struct {
	Logout func() error
	Lock   func(reason string) error
}

type Locked struct {
	Unlock func(code string) error
}

var twinLoggedOut = &LoggedOut{
	Login: chartex.Describe(`sign the user in`,
		chartex.Guard(chartex.GuardRef{Name: `validCredentials`, Description: `username and password match`},
			chartex.Action(chartex.ActionRef{Name: `setSession`},
				chartex.Target(LoggedIn{}, func(user, pass string) error {
					return nil
				})))),
}

var twinLoggedIn = &LoggedIn{
	Logout: chartex.Action(chartex.ActionRef{Name: `clearSession`},
		chartex.Target(LoggedOut{}, func() error {
			return nil
		})),
	Lock: chartex.Guard(chartex.GuardRef{Name: `tooManyAttempts`},
		chartex.Target(Locked{}, func(reason string) error {
			return nil
		})),
}

var twinLocked = &Locked{
	Unlock: chartex.Target(LoggedOut{}, func(code string) error {
		return nil
	}),
}

func TestStaticDynamicEquivalence(t *testing.T) {
	src, err := chartex.ParseSource(`testdata/machines`)
	require.NoError(t, err)

	cfg := chartex.Config{ID: `auth`, Initial: `LoggedOut`}

	staticChart, err := chartex.ExtractFromDeclarations(src, []string{`LoggedOut`, `LoggedIn`, `Locked`}, cfg)
	require.NoError(t, err)

	dynChart, err := chartex.ExtractFromLiveStates(map[string]any{
		`LoggedOut`: twinLoggedOut,
		`LoggedIn`:  twinLoggedIn,
		`Locked`:    twinLocked,
	}, cfg)
	require.NoError(t, err)

	staticDoc, err := json.Marshal(staticChart)
	require.NoError(t, err)
	dynDoc, err := json.Marshal(dynChart)
	require.NoError(t, err)
	require.Equal(t, string(dynDoc), string(staticDoc))
}

func TestStaticInvokeAndAssignedFields(t *testing.T) {
	src, err := chartex.ParseSource(`testdata/machines`)
	require.NoError(t, err)

	chart, err := chartex.ExtractFromDeclarations(src,
		[]string{`Idle`, `Loading`, `Success`, `Failure`},
		chartex.Config{ID: `fetch`, Initial: `Idle`})
	require.NoError(t, err)

	loading := chart.States[`Loading`]
	require.NotContains(t, loading.On, `load`)
	require.Equal(t, []chartex.InvokeDef{{
		Src:         `fetchData`,
		OnDone:      chartex.TargetDef{Target: `Success`},
		OnError:     chartex.TargetDef{Target: `Failure`},
		Description: `fetch the resource body`,
	}}, loading.Invoke)
	require.Equal(t, chartex.StateRef(`Idle`), loading.On[`cancel`].Target)

	require.Equal(t, `attemptsLeft`, chart.States[`Failure`].On[`retry`].Cond)
}

func TestStaticSentinels(t *testing.T) {
	src, err := chartex.ParseSource(`testdata/machines`)
	require.NoError(t, err)

	chart, err := chartex.ExtractFromDeclarations(src, []string{`Odd`},
		chartex.Config{ID: `odd`, Initial: `Odd`})
	require.NoError(t, err)

	node := chart.States[`Odd`]

	// cyclic package-level value references degrade to a sentinel
	require.Equal(t, `unresolved-cyclic`, node.On[`SPIN`].Cond)
	require.Equal(t, chartex.StateRef(`Odd`), node.On[`SPIN`].Target)

	// unresolvable call degrades to a sentinel, resolvable var works;
	// innermost annotation first
	require.Equal(t, `oddEnough && unknown`, node.On[`weird`].Cond)
	require.Equal(t, `odd`, node.On[`weird`].Description)

	// invoke and target on one transition surface on both lists
	require.Equal(t, chartex.StateRef(`Gone`), node.On[`both`].Target)
	require.Equal(t, []chartex.InvokeDef{{
		Src:     `watch`,
		OnDone:  chartex.TargetDef{Target: `Odd`},
		OnError: chartex.TargetDef{Target: `Gone`},
	}}, node.Invoke)
}

func TestStaticMissingConstructAdvisory(t *testing.T) {
	src, err := chartex.ParseSource(`testdata/machines`)
	require.NoError(t, err)

	l, h := newTestLogger(t)

	chart, err := chartex.ExtractFromDeclarations(src, []string{`LoggedOut`, `Ghost`},
		chartex.Config{ID: `auth`, Initial: `LoggedOut`, Logger: l})
	require.NoError(t, err)

	h.AssertMessage(`construct not found in source, skipping`)

	require.Contains(t, chart.States, chartex.StateRef(`LoggedOut`))
	require.NotContains(t, chart.States, chartex.StateRef(`Ghost`))
}

func TestStaticSingleFile(t *testing.T) {
	src, err := chartex.ParseSource(`testdata/machines/auth.go`)
	require.NoError(t, err)

	chart, err := chartex.ExtractFromDeclarations(src, []string{`LoggedOut`},
		chartex.Config{ID: `auth`, Initial: `LoggedOut`})
	require.NoError(t, err)

	login := chart.States[`LoggedOut`].On[`login`]
	require.Equal(t, chartex.StateRef(`LoggedIn`), login.Target)
	require.Equal(t, `validCredentials`, login.Cond)
	require.Equal(t, []string{`setSession`}, login.Actions)
	require.Equal(t, `sign the user in`, login.Description)
}

func TestStaticDeterministic(t *testing.T) {
	src, err := chartex.ParseSource(`testdata/machines`)
	require.NoError(t, err)

	cfg := chartex.Config{ID: `fetch`, Initial: `Idle`}
	names := []string{`Idle`, `Loading`, `Success`, `Failure`}

	chart1, err := chartex.ExtractFromDeclarations(src, names, cfg)
	require.NoError(t, err)
	chart2, err := chartex.ExtractFromDeclarations(src, names, cfg)
	require.NoError(t, err)

	doc1, err := json.Marshal(chart1)
	require.NoError(t, err)
	doc2, err := json.Marshal(chart2)
	require.NoError(t, err)
	require.Equal(t, doc1, doc2)
}
