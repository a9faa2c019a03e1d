// Package onboarding implements the profile-setup wizard as an explicit
// finite-state machine: named steps, a transition table, and per-step
// advance predicates over a single accumulating draft.
package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/studymate-app/studymate/internal/client/models"
)

// Step names one wizard state. The flow is strictly linear; there is no
// branching or skipping between steps.
type Step int

const (
	StepBasics Step = iota
	StepAvatar
	StepSubjects
	StepAcademic
	StepPreferences
	StepSchedule
	StepReview
)

// stepSpec is one row of the transition table.
type stepSpec struct {
	name       string
	prev, next Step
	canAdvance func(*Draft) bool
}

// transitions is the whole machine. Next is gated by canAdvance; Back is
// unconditional. A step whose next is itself is terminal for the Next
// operation (Review advances by submitting, not by stepping).
var transitions = map[Step]stepSpec{
	StepBasics: {
		name: "basics",
		prev: StepBasics,
		next: StepAvatar,
		canAdvance: func(d *Draft) bool {
			return d.Name != ""
		},
	},
	StepAvatar: {
		// The avatar is optional; the step always allows advancing.
		name:       "avatar",
		prev:       StepBasics,
		next:       StepSubjects,
		canAdvance: func(*Draft) bool { return true },
	},
	StepSubjects: {
		name: "subjects",
		prev: StepAvatar,
		next: StepAcademic,
		canAdvance: func(d *Draft) bool {
			return d.UserType != "" && len(d.Subjects) > 0
		},
	},
	StepAcademic: {
		name: "academic",
		prev: StepSubjects,
		next: StepPreferences,
		canAdvance: func(d *Draft) bool {
			switch d.UserType {
			case models.UserTypeExam:
				return d.ExamType != "" && d.TargetYear != ""
			case models.UserTypeCollege:
				return d.Semester != "" && d.Course != ""
			default:
				return false
			}
		},
	},
	StepPreferences: {
		name: "preferences",
		prev: StepAcademic,
		next: StepSchedule,
		canAdvance: func(d *Draft) bool {
			return len(d.StudyPreferences) > 0
		},
	},
	StepSchedule: {
		name: "schedule",
		prev: StepPreferences,
		next: StepReview,
		canAdvance: func(d *Draft) bool {
			return d.DailyStudyHours > 0
		},
	},
	StepReview: {
		name:       "review",
		prev:       StepSchedule,
		next:       StepReview,
		canAdvance: func(*Draft) bool { return false },
	},
}

func (s Step) String() string {
	if spec, ok := transitions[s]; ok {
		return spec.name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// CanAdvance reports whether the draft satisfies the step's predicate.
// The wizard disables its Next control whenever this is false.
func CanAdvance(s Step, d *Draft) bool {
	spec, ok := transitions[s]
	if !ok {
		return false
	}
	return spec.canAdvance(d)
}

// SubmitFunc persists the accumulated draft; in production it is the
// session controller's UpdateUserType.
type SubmitFunc func(ctx context.Context, details models.AcademicDetails, update models.ProfileUpdate) error

var (
	ErrCannotAdvance    = errors.New("current step is incomplete")
	ErrNotAtReview      = errors.New("not at the review step")
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrAlreadyCompleted = errors.New("onboarding already completed")
	ErrMissingAcademic  = errors.New("academic details incomplete")
	ErrMissingUserType  = errors.New("no study mode selected")
)

// Sequencer drives the wizard. The draft is discarded wholesale on
// completion or abandonment and is never partially persisted mid-flow.
type Sequencer struct {
	step      Step
	draft     Draft
	submit    SubmitFunc
	inFlight  bool
	completed bool
}

func NewSequencer(submit SubmitFunc) *Sequencer {
	return &Sequencer{step: StepBasics, submit: submit}
}

func (s *Sequencer) Step() Step      { return s.step }
func (s *Sequencer) Draft() *Draft   { return &s.draft }
func (s *Sequencer) Completed() bool { return s.completed }

// CanAdvance reports whether Next would currently succeed.
func (s *Sequencer) CanAdvance() bool {
	return CanAdvance(s.step, &s.draft)
}

// Next moves forward one step if the current step's predicate holds.
func (s *Sequencer) Next() error {
	if s.step == StepReview {
		return ErrNotAtReview
	}
	if !s.CanAdvance() {
		return ErrCannotAdvance
	}
	s.step = transitions[s.step].next
	return nil
}

// Back moves backward one step. It is unconditional; at the first step it
// is a no-op.
func (s *Sequencer) Back() {
	s.step = transitions[s.step].prev
}

// Submit completes the wizard from the review step, calling the submit
// function exactly once with the full accumulated draft. On failure the
// wizard stays on review and the draft is retained, so the user can retry
// without re-entering anything.
func (s *Sequencer) Submit(ctx context.Context) error {
	if s.completed {
		return ErrAlreadyCompleted
	}
	if s.step != StepReview {
		return ErrNotAtReview
	}
	if s.inFlight {
		return ErrSubmitInFlight
	}

	details, err := s.draft.AcademicDetails()
	if err != nil {
		return err
	}

	s.inFlight = true
	err = s.submit(ctx, details, s.draft.ProfileUpdate())
	s.inFlight = false
	if err != nil {
		return err
	}

	s.completed = true
	return nil
}
