package udp

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	goutils "go.viam.com/utils"

	"go.viam.com/wallnav/components/movementsensor"
	"go.viam.com/wallnav/logging"
)

// A Handler consumes decoded sensor datagrams.
type Handler interface {
	HandleOdometry(odom movementsensor.Odometry)
	HandleScan(ranges []float64) error
}

// Stats counts datagrams seen by a Listener.
type Stats struct {
	Odometry uint64
	Scans    uint64
	Dropped  uint64
}

// Listener receives sensor datagrams on a UDP socket and hands them to a Handler.
type Listener struct {
	conn    *net.UDPConn
	handler Handler
	logger  logging.Logger
	bufSize int

	activeBackgroundWorkers sync.WaitGroup
	odometry                atomic.Uint64
	scans                   atomic.Uint64
	dropped                 atomic.Uint64
}

// NewListener binds addr and starts delivering datagrams to handler until Close. A bufSize of
// zero uses DefaultReadBufferSize.
func NewListener(addr string, bufSize int, handler Handler, logger logging.Logger) (*Listener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve listen address %q", addr)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %q", addr)
	}
	if bufSize <= 0 {
		bufSize = DefaultReadBufferSize
	}

	l := &Listener{conn: conn, handler: handler, logger: logger, bufSize: bufSize}
	l.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(l.readLoop, l.activeBackgroundWorkers.Done)
	logger.Infow("listening for sensor datagrams", "addr", conn.LocalAddr().String())
	return l, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Stats returns the datagram counters.
func (l *Listener) Stats() Stats {
	return Stats{
		Odometry: l.odometry.Load(),
		Scans:    l.scans.Load(),
		Dropped:  l.dropped.Load(),
	}
}

// Close stops the listener and waits for the read loop to exit.
func (l *Listener) Close() error {
	err := l.conn.Close()
	l.activeBackgroundWorkers.Wait()
	return err
}

func (l *Listener) readLoop() {
	buf := make([]byte, l.bufSize)
	for {
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.logger.Debugw("read failed", "error", err)
			continue
		}
		if err := l.dispatch(buf[:n]); err != nil {
			l.dropped.Inc()
			l.logger.Debugw("dropping datagram", "from", from.String(), "error", err)
		}
	}
}

func (l *Listener) dispatch(data []byte) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return errors.Wrap(err, "malformed datagram")
	}
	switch msg.Type {
	case TypeOdometry:
		l.handler.HandleOdometry(msg.Odometry())
		l.odometry.Inc()
	case TypeScan:
		if err := l.handler.HandleScan(msg.Ranges); err != nil {
			return err
		}
		l.scans.Inc()
	default:
		return errors.Errorf("unknown datagram type %q", msg.Type)
	}
	return nil
}
