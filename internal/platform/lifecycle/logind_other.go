//go:build !linux

package lifecycle

import "context"

type LogindSource struct{}

func (LogindSource) Name() string { return "logind" }

func (LogindSource) Run(context.Context, chan<- Event) error {
	return ErrUnsupported
}
