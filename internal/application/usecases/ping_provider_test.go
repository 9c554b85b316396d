package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (f fakePinger) Name() string                 { return "fake" }
func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestPingProvider(t *testing.T) {
	assert.NoError(t, PingProvider{Provider: fakePinger{}}.Execute(context.Background()))

	err := PingProvider{Provider: fakePinger{err: errors.New("down")}}.Execute(context.Background())
	assert.EqualError(t, err, "fake: down")

	assert.Error(t, PingProvider{}.Execute(context.Background()))
}
