package machines

import (
	"context"

	"github.com/chartex/chartex"
)

type Idle struct {
	Fetch func(ctx context.Context, url string) error
}

type Loading struct {
	Load   func(ctx context.Context) error
	Cancel func() error
}

type Success struct {
	Refresh func(ctx context.Context) error
}

type Failure struct {
	Retry func(ctx context.Context) error
}

func NewIdle() *Idle {
	return &Idle{
		Fetch: chartex.Target(Loading{}, func(ctx context.Context, url string) error {
			return nil
		}),
	}
}

func NewLoading() *Loading {
	l := &Loading{}
	l.Load = chartex.Invoke(chartex.InvokeSpec{
		Src:         `fetchData`,
		OnDone:      Success{},
		OnError:     Failure{},
		Description: `fetch the resource body`,
	}, func(ctx context.Context) error {
		return nil
	})
	l.Cancel = chartex.Target(Idle{}, func() error {
		return nil
	})
	return l
}

func NewSuccess() *Success {
	return &Success{
		Refresh: chartex.Target(Loading{}, func(ctx context.Context) error {
			return nil
		}),
	}
}

func NewFailure() *Failure {
	return &Failure{
		Retry: chartex.Guard(chartex.GuardRef{Name: `attemptsLeft`},
			chartex.Target(Loading{}, func(ctx context.Context) error {
				return nil
			})),
	}
}
