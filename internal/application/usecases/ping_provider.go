package usecases

import (
	"context"
	"fmt"
)

// Pinger is a provider that can report whether it is reachable.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

type PingProvider struct {
	Provider Pinger
}

func (u PingProvider) Execute(ctx context.Context) error {
	if u.Provider == nil {
		return fmt.Errorf("provider is nil")
	}
	if err := u.Provider.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", u.Provider.Name(), err)
	}
	return nil
}
