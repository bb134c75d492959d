// Package workflow holds the three-state lifecycle shared by advance, leave
// and service requests: PENDING moves once to APPROVED or REJECTED and stays
// there.
package workflow

import (
	"strings"

	"github.com/frahmantamala/staff-requests/internal"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) Valid() bool {
	return s == StatusPending || s.IsTerminal()
}

func (s Status) String() string {
	return string(s)
}

// ParseDecision accepts only a terminal status, case-insensitively.
func ParseDecision(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsTerminal() {
		return "", internal.NewValidationFieldError("status", "status must be APPROVED or REJECTED", internal.ErrCodeInvalidStatus)
	}
	return s, nil
}

// Authorize is the role gate for every decision.
func Authorize(actor internal.Actor) error {
	if !actor.IsHR() {
		return internal.ErrUnauthorized
	}
	return nil
}

// Decide checks that actor may move a request from current to next. It does
// not persist anything; stores apply the transition with a conditional update
// on status = PENDING.
func Decide(actor internal.Actor, current, next Status) error {
	if err := Authorize(actor); err != nil {
		return err
	}
	if !next.IsTerminal() {
		return internal.NewValidationFieldError("status", "status must be APPROVED or REJECTED", internal.ErrCodeInvalidStatus)
	}
	if current != StatusPending {
		return internal.ErrInvalidTransition
	}
	return nil
}
