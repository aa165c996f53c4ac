// Package udp carries sensor samples into the controller and velocity commands out of it as JSON
// datagrams.
package udp

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/wallnav/components/movementsensor"
)

// Datagram types.
const (
	TypeOdometry = "odom"
	TypeScan     = "scan"
)

// DefaultReadBufferSize fits a 720 sample sweep with room to spare.
const DefaultReadBufferSize = 64 * 1024

// Vector is a position on the wire.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation on the wire, scalar part first.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Message is an inbound datagram. Odometry datagrams fill Position, Orientation and
// LinearVelocity; scan datagrams fill Ranges. Readings must be finite since JSON cannot carry
// infinities; senders should report the sensor's maximum range instead.
type Message struct {
	Type           string     `json:"type"`
	Position       Vector     `json:"position"`
	Orientation    Quaternion `json:"orientation"`
	LinearVelocity float64    `json:"linear_velocity,omitempty"`
	Ranges         []float64  `json:"ranges,omitempty"`
}

// Odometry converts an odometry datagram.
func (m *Message) Odometry() movementsensor.Odometry {
	return movementsensor.Odometry{
		Position: r3.Vector{X: m.Position.X, Y: m.Position.Y, Z: m.Position.Z},
		Orientation: quat.Number{
			Real: m.Orientation.W,
			Imag: m.Orientation.X,
			Jmag: m.Orientation.Y,
			Kmag: m.Orientation.Z,
		},
		LinearVelocity: m.LinearVelocity,
	}
}

// NewOdometryMessage builds the datagram for odom.
func NewOdometryMessage(odom movementsensor.Odometry) Message {
	return Message{
		Type:     TypeOdometry,
		Position: Vector{X: odom.Position.X, Y: odom.Position.Y, Z: odom.Position.Z},
		Orientation: Quaternion{
			W: odom.Orientation.Real,
			X: odom.Orientation.Imag,
			Y: odom.Orientation.Jmag,
			Z: odom.Orientation.Kmag,
		},
		LinearVelocity: odom.LinearVelocity,
	}
}

// NewScanMessage builds the datagram for a sweep.
func NewScanMessage(ranges []float64) Message {
	return Message{Type: TypeScan, Ranges: ranges}
}
