package ros

import (
	"time"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/wallnav/components/movementsensor"
)

// Meta is the record time gobag attaches to every message.
type Meta struct {
	Secs  int64
	Nsecs int64
}

// Time returns the record time.
func (m Meta) Time() time.Time {
	return time.Unix(m.Secs, m.Nsecs)
}

type vector3 struct {
	X float64
	Y float64
	Z float64
}

// OdometryMessage is a nav_msgs/Odometry message.
type OdometryMessage struct {
	Meta Meta
	Data struct {
		Pose struct {
			Pose struct {
				Position    vector3
				Orientation struct {
					X float64
					Y float64
					Z float64
					W float64
				}
			}
		}
		Twist struct {
			Twist struct {
				Linear  vector3
				Angular vector3
			}
		}
	}
}

// Odometry converts the message into a pose sample.
func (m *OdometryMessage) Odometry() movementsensor.Odometry {
	pose := m.Data.Pose.Pose
	return movementsensor.Odometry{
		Position: r3.Vector{X: pose.Position.X, Y: pose.Position.Y, Z: pose.Position.Z},
		Orientation: quat.Number{
			Real: pose.Orientation.W,
			Imag: pose.Orientation.X,
			Jmag: pose.Orientation.Y,
			Kmag: pose.Orientation.Z,
		},
		LinearVelocity: m.Data.Twist.Twist.Linear.X,
	}
}

// LaserScanMessage is a sensor_msgs/LaserScan message.
type LaserScanMessage struct {
	Meta Meta
	Data struct {
		AngleMin       float64 `json:"angle_min"`
		AngleMax       float64 `json:"angle_max"`
		AngleIncrement float64 `json:"angle_increment"`
		RangeMin       float64 `json:"range_min"`
		RangeMax       float64 `json:"range_max"`
		Ranges         []float64
	}
}

// Ranges returns the sweep. gobag writes infinite readings as zero; those, and any other reading
// below range_min, are reported as range_max.
func (m *LaserScanMessage) Ranges() []float64 {
	ranges := make([]float64, len(m.Data.Ranges))
	for i, r := range m.Data.Ranges {
		if r <= 0 || r < m.Data.RangeMin {
			r = m.Data.RangeMax
		}
		ranges[i] = r
	}
	return ranges
}
