package authoring

import (
	"errors"
	"fmt"

	"lingo/models/course"
)

var (
	// ErrNotDraft is returned when a non-draft version is edited.
	ErrNotDraft = errors.New("version is not a draft, create a new draft first")
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid version status transition")
)

// transitions lists the allowed status changes. ARCHIVED and REJECTED are terminal.
var transitions = map[string][]string{
	course.StatusDraft:  {course.StatusPublic},
	course.StatusPublic: {course.StatusPublic, course.StatusRejected, course.StatusArchived},
}

// CanTransition reports whether a version may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates and applies a status change on v.
func Transition(v *course.CourseVersion, to string) error {
	if !CanTransition(v.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Status, to)
	}
	v.Status = to
	return nil
}

// Terminal reports whether no transition leaves status.
func Terminal(status string) bool {
	return len(transitions[status]) == 0
}

// EnsureEditable fails unless v is a draft.
func EnsureEditable(v *course.CourseVersion) error {
	if v.Status != course.StatusDraft {
		return ErrNotDraft
	}
	return nil
}
