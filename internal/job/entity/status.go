package entity

import (
	"fmt"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusClosed:
		return true
	}
	return false
}

// Action is an employer operation that moves a job between statuses.
type Action string

const (
	ActionPublish    Action = "publish"
	ActionClose      Action = "close"
	ActionReactivate Action = "reactivate"
)

var ErrInvalidTransition = fmt.Errorf("invalid job status transition: %w", apperr.ErrConflict)

type edge struct {
	from   Status
	action Action
}

var transitions = map[edge]Status{
	{StatusDraft, ActionPublish}:     StatusActive,
	{StatusActive, ActionClose}:      StatusClosed,
	{StatusClosed, ActionReactivate}: StatusActive,
}

// Next returns the status reached by applying a to from.
func Next(from Status, a Action) (Status, error) {
	to, ok := transitions[edge{from, a}]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s a %s job", ErrInvalidTransition, a, from)
	}
	return to, nil
}
