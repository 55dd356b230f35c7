package pipeline

import (
	"errors"
	"strings"
)

// Stage is a pipeline status code from the statuses catalog. The hiring
// pipeline is a fixed sequence of review stages ending in one of two
// terminal states.
type Stage string

const (
	StageAdminSelection Stage = "admin_selection"
	StagePsychotest     Stage = "psychotest"
	StageInterview      Stage = "interview"
	StageAccepted       Stage = "accepted"
	StageRejected       Stage = "rejected"
)

// Outcome is the binary result of one review stage, recorded on the
// history row for that stage. It is distinct from the pipeline status.
type Outcome string

const (
	OutcomePassed Outcome = "passed"
	OutcomeFailed Outcome = "failed"
)

// DecisionPending is the final_decision value of a report that has not
// reached a terminal stage yet.
const DecisionPending = "pending"

var (
	ErrUnknownStage   = errors.New("unknown pipeline stage")
	ErrInvalidOutcome = errors.New("invalid stage outcome")
	ErrTerminalStage  = errors.New("pipeline is closed for this application")
)

// order is the single definition of the review sequence. Next derives
// every legal transition from it; nothing else in the codebase encodes
// stage ordering.
var order = []Stage{StageAdminSelection, StagePsychotest, StageInterview}

func ParseStage(code string) (Stage, error) {
	s := Stage(strings.TrimSpace(strings.ToLower(code)))
	switch s {
	case StageAdminSelection, StagePsychotest, StageInterview, StageAccepted, StageRejected:
		return s, nil
	}
	return "", ErrUnknownStage
}

func ParseOutcome(code string) (Outcome, error) {
	o := Outcome(strings.TrimSpace(strings.ToLower(code)))
	switch o {
	case OutcomePassed, OutcomeFailed:
		return o, nil
	}
	return "", ErrInvalidOutcome
}

// IsTerminal reports whether no further transitions are accepted.
func (s Stage) IsTerminal() bool {
	return s == StageAccepted || s == StageRejected
}

// IsReviewStage reports whether s is a stage an application can currently
// sit at awaiting a reviewer action.
func (s Stage) IsReviewStage() bool {
	for _, st := range order {
		if st == s {
			return true
		}
	}
	return false
}

// First returns the stage a newly created application starts at.
func First() Stage {
	return order[0]
}

// Stages returns the review sequence in pipeline order.
func Stages() []Stage {
	out := make([]Stage, len(order))
	copy(out, order)
	return out
}

// Next computes the stage an application moves to when the given review
// stage closes with the given outcome. A failed outcome short-circuits to
// rejected regardless of stage; a passed outcome on the last review stage
// lands on accepted.
func Next(current Stage, outcome Outcome) (Stage, error) {
	if current.IsTerminal() {
		return "", ErrTerminalStage
	}
	idx := -1
	for i, st := range order {
		if st == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", ErrUnknownStage
	}

	switch outcome {
	case OutcomeFailed:
		return StageRejected, nil
	case OutcomePassed:
		if idx == len(order)-1 {
			return StageAccepted, nil
		}
		return order[idx+1], nil
	}
	return "", ErrInvalidOutcome
}

// Decision maps a terminal stage to the report's final_decision value.
func Decision(terminal Stage) (string, bool) {
	switch terminal {
	case StageAccepted:
		return string(StageAccepted), true
	case StageRejected:
		return string(StageRejected), true
	}
	return "", false
}
