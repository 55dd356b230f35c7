package pipeline

import (
	"errors"
	"testing"
)

func TestNext_TransitionTable(t *testing.T) {
	cases := []struct {
		current Stage
		outcome Outcome
		next    Stage
	}{
		{StageAdminSelection, OutcomePassed, StagePsychotest},
		{StageAdminSelection, OutcomeFailed, StageRejected},
		{StagePsychotest, OutcomePassed, StageInterview},
		{StagePsychotest, OutcomeFailed, StageRejected},
		{StageInterview, OutcomePassed, StageAccepted},
		{StageInterview, OutcomeFailed, StageRejected},
	}

	for _, c := range cases {
		got, err := Next(c.current, c.outcome)
		if err != nil {
			t.Fatalf("Next(%s, %s): unexpected err: %v", c.current, c.outcome, err)
		}
		if got != c.next {
			t.Fatalf("Next(%s, %s) = %s, want %s", c.current, c.outcome, got, c.next)
		}
	}
}

func TestNext_TerminalStagesClosed(t *testing.T) {
	for _, s := range []Stage{StageAccepted, StageRejected} {
		for _, o := range []Outcome{OutcomePassed, OutcomeFailed} {
			if _, err := Next(s, o); !errors.Is(err, ErrTerminalStage) {
				t.Fatalf("Next(%s, %s): expected ErrTerminalStage, got %v", s, o, err)
			}
		}
	}
}

func TestNext_InvalidOutcome(t *testing.T) {
	if _, err := Next(StageAdminSelection, Outcome("maybe")); !errors.Is(err, ErrInvalidOutcome) {
		t.Fatalf("expected ErrInvalidOutcome, got %v", err)
	}
}

func TestNext_UnknownStage(t *testing.T) {
	if _, err := Next(Stage("onboarding"), OutcomePassed); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("  Admin_Selection ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s != StageAdminSelection {
		t.Fatalf("got %s", s)
	}
	if _, err := ParseStage("screening"); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestParseOutcome(t *testing.T) {
	o, err := ParseOutcome("PASSED")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if o != OutcomePassed {
		t.Fatalf("got %s", o)
	}
	if _, err := ParseOutcome("ok"); !errors.Is(err, ErrInvalidOutcome) {
		t.Fatalf("expected ErrInvalidOutcome, got %v", err)
	}
}

func TestFirst(t *testing.T) {
	if First() != StageAdminSelection {
		t.Fatalf("pipeline must start at admin_selection, got %s", First())
	}
}

func TestMonotonicProgression(t *testing.T) {
	// Passing every stage must walk the review sequence in order and end
	// at accepted without skipping or revisiting a stage.
	seen := map[Stage]bool{}
	s := First()
	for !s.IsTerminal() {
		if seen[s] {
			t.Fatalf("stage %s visited twice", s)
		}
		seen[s] = true
		next, err := Next(s, OutcomePassed)
		if err != nil {
			t.Fatalf("unexpected err at %s: %v", s, err)
		}
		s = next
	}
	if s != StageAccepted {
		t.Fatalf("full pass ended at %s, want accepted", s)
	}
	if len(seen) != len(Stages()) {
		t.Fatalf("visited %d stages, want %d", len(seen), len(Stages()))
	}
}
