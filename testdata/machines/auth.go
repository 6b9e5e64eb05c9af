package machines

import (
	"errors"

	"github.com/chartex/chartex"
)

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

type session struct {
	user string
}

func NewLoggedOut(s *session) *LoggedOut {
	return &LoggedOut{
		Login: chartex.Describe(`sign the user in`,
			chartex.Guard(chartex.GuardRef{Name: `validCredentials`, Description: `username and password match`},
				chartex.Action(chartex.ActionRef{Name: `setSession`},
					chartex.Target(LoggedIn{}, func(user, pass string) error {
						if user == `` || pass == `` {
							return errors.New(`empty credentials`)
						}
						s.user = user
						return nil
					})))),
	}
}

func NewLoggedIn(s *session) *LoggedIn {
	return &LoggedIn{
		Logout: chartex.Action(chartex.ActionRef{Name: `clearSession`},
			chartex.Target(LoggedOut{}, func() error {
				s.user = ``
				return nil
			})),
		Lock: chartex.Guard(chartex.GuardRef{Name: `tooManyAttempts`},
			chartex.Target(Locked{}, func(reason string) error {
				return nil
			})),
	}
}

func NewLocked() *Locked {
	return &Locked{
		Unlock: chartex.Target(LoggedOut{}, func(code string) error {
			return nil
		}),
	}
}
