package udp

import (
	"context"
	"encoding/json"
	"net"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/wallnav/components/base"
	"go.viam.com/wallnav/logging"
)

var _ = base.Base(&CommandSender{})

// CommandSender is a base that forwards every velocity command as a JSON datagram.
type CommandSender struct {
	logger logging.Logger

	mu     sync.Mutex
	conn   *net.UDPConn
	closed bool
}

// NewCommandSender returns a sender writing to addr.
func NewCommandSender(addr string, logger logging.Logger) (*CommandSender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve command address %q", addr)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %q", addr)
	}
	logger.Infow("sending velocity commands", "addr", udpAddr.String())
	return &CommandSender{logger: logger, conn: conn}, nil
}

// SetVelocity sends the planar part of the velocity.
func (s *CommandSender) SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	return s.send(ctx, base.CommandFromVectors(linear, angular))
}

// Stop sends a zero command.
func (s *CommandSender) Stop(ctx context.Context, extra map[string]interface{}) error {
	return s.send(ctx, base.VelocityCommand{})
}

func (s *CommandSender) send(ctx context.Context, cmd base.VelocityCommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("command sender is closed")
	}
	// the deadline sticks to the socket, so a context without one must clear it
	deadline, _ := ctx.Deadline()
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if _, err := s.conn.Write(data); err != nil {
		return errors.Wrap(err, "failed to send command")
	}
	return nil
}

// Close releases the socket.
func (s *CommandSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
