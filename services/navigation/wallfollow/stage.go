package wallfollow

import "fmt"

// Stage is one phase of the wall following program. Stages only ever advance.
type Stage int

// The stages of the program, in order.
const (
	StageLeaveHome Stage = iota + 1
	StageFirstGap
	StageTowardSecondGap
	StageSecondGap
	StageApproachCharger
	StageStop
)

// NumDriveStages is the number of stages that drive the base before StageStop.
const NumDriveStages = int(StageStop) - 1

// Terminal reports whether s is the final stage.
func (s Stage) Terminal() bool {
	return s >= StageStop
}

func (s Stage) String() string {
	switch s {
	case StageLeaveHome:
		return "leave_home"
	case StageFirstGap:
		return "first_gap"
	case StageTowardSecondGap:
		return "toward_second_gap"
	case StageSecondGap:
		return "second_gap"
	case StageApproachCharger:
		return "approach_charger"
	case StageStop:
		return "stop"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}
