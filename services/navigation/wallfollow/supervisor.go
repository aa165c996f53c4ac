package wallfollow

import (
	"go.viam.com/wallnav/components/base"
	"go.viam.com/wallnav/components/lidar"
	"go.viam.com/wallnav/control"
	"go.viam.com/wallnav/spatialmath"
)

// Transition records one stage advance.
type Transition struct {
	From Stage
	To   Stage
	Pose spatialmath.Pose2D
}

// Decision is the outcome of one supervisor step.
type Decision struct {
	Stage       Stage
	Transitions []Transition
	Command     base.VelocityCommand
	// Bearing and Reading are the range fed to the standoff controller. They are unset once the
	// program has reached StageStop.
	Bearing lidar.Bearing
	Reading float64
}

// Supervisor sequences the driving stages. It is not safe for concurrent use; a single tick
// goroutine owns it along with the standoff controller it feeds.
type Supervisor struct {
	stages []StageConfig
	pid    *control.StandoffPID
	stage  Stage
}

// NewSupervisor returns a supervisor in StageLeaveHome. stages must hold NumDriveStages entries.
func NewSupervisor(stages []StageConfig, pid *control.StandoffPID) *Supervisor {
	return &Supervisor{
		stages: append([]StageConfig(nil), stages...),
		pid:    pid,
		stage:  StageLeaveHome,
	}
}

// Stage returns the current stage.
func (s *Supervisor) Stage() Stage {
	return s.stage
}

// Step runs one tick. Guards are checked before any action: while the current stage's stay
// condition is false the supervisor advances, possibly through several stages, and only then
// runs the action of the stage it lands in.
func (s *Supervisor) Step(pose spatialmath.Pose2D, scan *lidar.Scan) Decision {
	var transitions []Transition
	for !s.stage.Terminal() && !s.stages[s.stage-1].Holds(pose) {
		next := s.stage + 1
		transitions = append(transitions, Transition{From: s.stage, To: next, Pose: pose})
		s.stage = next
	}

	decision := Decision{Stage: s.stage, Transitions: transitions}
	if s.stage.Terminal() {
		return decision
	}

	sc := s.stages[s.stage-1]
	decision.Bearing = sc.Bearing
	decision.Reading = scan.Range(sc.Bearing)
	decision.Command = s.pid.Next(sc.Speed, decision.Reading)
	return decision
}
