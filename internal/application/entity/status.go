package entity

import (
	"fmt"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewed    Status = "reviewed"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusHired       Status = "hired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusRejected, StatusHired:
		return true
	}
	return false
}

// Terminal statuses accept no further action.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusHired
}

// Action is an employer decision on an application.
type Action string

const (
	ActionReview    Action = "review"
	ActionShortlist Action = "shortlist"
	ActionReject    Action = "reject"
	ActionHire      Action = "hire"
)

var ErrInvalidTransition = fmt.Errorf("invalid application status transition: %w", apperr.ErrConflict)

// allowed lists, per action, the statuses it may start from.
var allowed = map[Action]struct {
	from []Status
	to   Status
}{
	ActionReview:    {from: []Status{StatusPending}, to: StatusReviewed},
	ActionShortlist: {from: []Status{StatusPending, StatusReviewed}, to: StatusShortlisted},
	ActionReject:    {from: []Status{StatusPending, StatusReviewed, StatusShortlisted}, to: StatusRejected},
	ActionHire:      {from: []Status{StatusShortlisted}, to: StatusHired},
}

// Next returns the status reached by applying a to from.
func Next(from Status, a Action) (Status, error) {
	rule, ok := allowed[a]
	if !ok {
		return from, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, a)
	}
	for _, s := range rule.from {
		if s == from {
			return rule.to, nil
		}
	}
	return from, fmt.Errorf("%w: cannot %s a %s application", ErrInvalidTransition, a, from)
}
