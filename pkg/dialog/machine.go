// Package dialog drives the scripted multi-turn HR workflows: vacation
// balance, department transfer and resignation. Guided turns are never
// persisted as questions.
package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/store"
)

// Reply statuses.
const (
	StatusVacationQuery       = "vacation_query"
	StatusDepartmentQuery     = "department_query"
	StatusResignationQuery    = "resignation_query"
	StatusDepartmentIDRequest = "department_id_request"
	StatusDepartmentInvalid   = "department_invalid"

	StatusVacationAnswered    = "vacation_answered"
	StatusDepartmentAnswered  = "department_answered"
	StatusResignationAnswered = "resignation_answered"
	StatusQueryCancelled      = "query_cancelled"

	StatusVacationInvalidFormat    = "vacation_invalid_format"
	StatusDepartmentInvalidFormat  = "department_invalid_format"
	StatusResignationInvalidFormat = "resignation_invalid_format"

	StatusVacationNotFound           = "vacation_not_found"
	StatusDepartmentEmployeeNotFound = "department_employee_not_found"
	StatusResignationNotFound        = "resignation_not_found"
	StatusDepartmentSame             = "department_same"

	StatusError = "error"
)

const cancelInput = "q"

// Turn is one inbound message for a session.
type Turn struct {
	SessionID       string
	Text            string
	Language        string
	IsMenuSelection bool
}

// Reply is the machine's answer to a handled turn.
type Reply struct {
	Status string
	Answer string
}

type handler func(ctx context.Context, s *store.Session, t Turn) Reply

// Machine holds no per-session state of its own; everything lives in the store.
type Machine struct {
	sessions   store.SessionStore
	directory  Directory
	catalog    *i18n.Catalog
	classifier *Classifier
	logger     logger.ILogger

	starters map[Intent]func(ctx context.Context, t Turn) Reply
	awaiting map[string]handler
}

func NewMachine(sessions store.SessionStore, directory Directory, catalog *i18n.Catalog, log logger.ILogger) *Machine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	m := &Machine{
		sessions:   sessions,
		directory:  directory,
		catalog:    catalog,
		classifier: NewClassifier(catalog),
		logger:     log,
	}
	m.starters = map[Intent]func(context.Context, Turn) Reply{
		IntentVacation:    m.startVacation,
		IntentDepartment:  m.startDepartment,
		IntentResignation: m.startResignation,
	}
	m.awaiting = map[string]handler{
		store.ModeVacation + "/" + store.AwaitingEmployeeID:       m.onVacationEmployeeID,
		store.ModeResignation + "/" + store.AwaitingEmployeeID:    m.onResignationEmployeeID,
		store.ModeDepartment + "/" + store.AwaitingDepartmentName: m.onDepartmentName,
		store.ModeDepartment + "/" + store.AwaitingEmployeeID:     m.onDepartmentEmployeeID,
	}
	return m
}

// Classify exposes the trigger classifier.
func (m *Machine) Classify(text string) Intent {
	return m.classifier.Classify(text)
}

// Handle runs the turn through the guided dialog if one is active for the
// session or the turn is a menu selection of a trigger phrase. The bool is
// false when the turn belongs to the answering engine instead.
func (m *Machine) Handle(ctx context.Context, t Turn) (Reply, bool) {
	unlock, err := m.sessions.Lock(ctx, t.SessionID)
	if err != nil {
		m.logger.Error("dialog", "Session lock failed", map[string]interface{}{
			"session_id": t.SessionID,
			"error":      err.Error(),
		})
		return Reply{}, false
	}
	defer unlock()

	session, found, err := m.sessions.Get(ctx, t.SessionID)
	if err != nil {
		m.logger.Error("dialog", "Session lookup failed", map[string]interface{}{
			"session_id": t.SessionID,
			"error":      err.Error(),
		})
		found = false
	}

	if found && session.Guided() {
		return m.continueDialog(ctx, session, t), true
	}

	// a stale entry does not block a new dialog; Set overwrites it
	if t.IsMenuSelection {
		if start, ok := m.starters[m.classifier.Classify(t.Text)]; ok {
			return start(ctx, t), true
		}
	}
	return Reply{}, false
}

func (m *Machine) continueDialog(ctx context.Context, s *store.Session, t Turn) Reply {
	if strings.EqualFold(strings.TrimSpace(t.Text), cancelInput) {
		if err := m.sessions.Delete(ctx, s.ID); err != nil {
			return m.failure(t, "cancel", err)
		}
		return Reply{
			Status: StatusQueryCancelled,
			Answer: m.catalog.Text("dialog.cancelled."+s.Mode, t.Language),
		}
	}

	h, ok := m.awaiting[s.Mode+"/"+s.Awaiting]
	if !ok {
		// Guided() already vetted the pair
		return m.failure(t, "dispatch", fmt.Errorf("no handler for %s/%s", s.Mode, s.Awaiting))
	}
	return h(ctx, s, t)
}

// failure keeps the session and asks the user to retry later.
func (m *Machine) failure(t Turn, step string, err error) Reply {
	m.logger.Error("dialog", "Guided step failed", map[string]interface{}{
		"session_id": t.SessionID,
		"step":       step,
		"error":      err.Error(),
	})
	return Reply{
		Status: StatusError,
		Answer: m.catalog.Text("dialog.directory_unavailable", t.Language),
	}
}

// parseEmployeeID accepts ASCII digits only, after trimming.
func parseEmployeeID(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrInvalidInputFormat
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, ErrInvalidInputFormat
		}
	}
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, ErrInvalidInputFormat
	}
	return id, nil
}

func formatDepartments(departments []store.Department) string {
	lines := make([]string, len(departments))
	for i, d := range departments {
		lines[i] = "• " + d.Name
	}
	return strings.Join(lines, "\n")
}
