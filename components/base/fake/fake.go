// Package fake implements a fake base.
package fake

import (
	"context"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/wallnav/components/base"
)

// Base is a fake base that records every command it is given.
type Base struct {
	mu        sync.Mutex
	commands  []base.VelocityCommand
	stopCount int
	closed    bool

	// SetVelocityErr, when set, is returned by SetVelocity instead of recording the command.
	SetVelocityErr error
}

// NewBase instantiates a new fake base.
func NewBase() *Base {
	return &Base{}
}

// SetVelocity records the command.
func (b *Base) SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("fake base is closed")
	}
	if b.SetVelocityErr != nil {
		return b.SetVelocityErr
	}
	b.commands = append(b.commands, base.CommandFromVectors(linear, angular))
	return nil
}

// Stop records a zero command.
func (b *Base) Stop(ctx context.Context, extra map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopCount++
	b.commands = append(b.commands, base.VelocityCommand{})
	return nil
}

// Commands returns a copy of every command received so far.
func (b *Base) Commands() []base.VelocityCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]base.VelocityCommand(nil), b.commands...)
}

// Last returns the most recent command and whether there was one.
func (b *Base) Last() (base.VelocityCommand, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.commands) == 0 {
		return base.VelocityCommand{}, false
	}
	return b.commands[len(b.commands)-1], true
}

// StopCount returns how many times Stop was called.
func (b *Base) StopCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopCount
}

// Close makes subsequent SetVelocity calls fail.
func (b *Base) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
