package store

import (
	"context"
	"time"
)

// Session is the guided-dialog state kept per session id.
type Session struct {
	ID       string `json:"id"`
	Mode     string `json:"mode"`     // ModeVacation | ModeDepartment | ModeResignation
	Awaiting string `json:"awaiting"` // AwaitingEmployeeID | AwaitingDepartmentName

	// Set once the user picked a transfer target.
	TargetDepartment *Department `json:"target_department,omitempty"`

	// Version is bumped by the store on every Set; CompareAndDelete matches on it.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	ModeVacation    = "vacation"
	ModeDepartment  = "department"
	ModeResignation = "resignation"

	AwaitingEmployeeID     = "employee_id"
	AwaitingDepartmentName = "department_name"
)

// Guided reports whether the session describes a live guided dialog. Anything
// else is a stale entry the orchestrator may clear.
func (s *Session) Guided() bool {
	if s == nil {
		return false
	}
	switch s.Awaiting {
	case AwaitingEmployeeID:
		switch s.Mode {
		case ModeVacation, ModeResignation:
			return true
		case ModeDepartment:
			return s.TargetDepartment != nil
		}
	case AwaitingDepartmentName:
		return s.Mode == ModeDepartment
	}
	return false
}

// SessionStore keeps guided-dialog sessions with TTL expiry.
// Lock serializes check-then-mutate sequences for one session id; callers
// must release it with the returned function.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*Session, bool, error)
	Set(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
	CompareAndDelete(ctx context.Context, sessionID string, version int64) (bool, error)
	Lock(ctx context.Context, sessionID string) (func(), error)
}
