package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock yields the server-assigned timestamps (analysis dates, upload dates,
// insight dates). Components take a Clock so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystem() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
