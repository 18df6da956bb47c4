package lifecycle

import "context"

type SignalSource struct{}

func (SignalSource) Name() string { return "signals" }

func (SignalSource) Run(context.Context, chan<- Event) error {
	return ErrUnsupported
}
