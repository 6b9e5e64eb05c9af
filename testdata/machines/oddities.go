package machines

import (
	"os"

	"github.com/chartex/chartex"
)

// Deliberately degenerate shapes: the extractor must degrade to sentinels
// instead of failing.

type Odd struct {
	Spin  func()       `chart:"SPIN"`
	Weird func() error
	Both  func() error
}

var loopA = loopB
var loopB = loopA

var oddGuard = chartex.GuardRef{Name: `oddEnough`}

func mystery() string {
	return os.Getenv(`MYSTERY`)
}

func NewOdd() *Odd {
	return &Odd{
		Spin: chartex.Guard(chartex.GuardRef{Name: loopA},
			chartex.Target(`Odd`, func() {})),
		Weird: chartex.Guard(chartex.GuardRef{Name: mystery()},
			chartex.Describe(`odd`,
				chartex.Guard(oddGuard,
					chartex.Target(Odd{}, func() error {
						return nil
					})))),
		Both: chartex.Invoke(chartex.InvokeSpec{Src: `watch`, OnDone: Odd{}, OnError: `Gone`},
			chartex.Target(`Gone`, func() error {
				return nil
			})),
	}
}
