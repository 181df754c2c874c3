package dialog

import (
	"context"
	"fmt"
	"strings"

	"hr-helpdesk-be/pkg/store"
)

func (m *Machine) startVacation(ctx context.Context, t Turn) Reply {
	return m.start(ctx, t, store.ModeVacation, StatusVacationQuery, m.catalog.Text("dialog.vacation_prompt", t.Language))
}

func (m *Machine) startResignation(ctx context.Context, t Turn) Reply {
	return m.start(ctx, t, store.ModeResignation, StatusResignationQuery, m.catalog.Text("dialog.resignation_prompt", t.Language))
}

func (m *Machine) startDepartment(ctx context.Context, t Turn) Reply {
	departments, err := m.directory.ListDepartments(ctx)
	if err != nil {
		return m.failure(t, "list_departments", fmt.Errorf("%w: %v", ErrConnectivity, err))
	}

	session := &store.Session{
		ID:       t.SessionID,
		Mode:     store.ModeDepartment,
		Awaiting: store.AwaitingDepartmentName,
	}
	if err := m.sessions.Set(ctx, session); err != nil {
		return m.failure(t, "start_department", err)
	}
	return Reply{
		Status: StatusDepartmentQuery,
		Answer: m.catalog.Format("dialog.department_prompt", t.Language, map[string]interface{}{
			"departments": formatDepartments(departments),
		}),
	}
}

func (m *Machine) start(ctx context.Context, t Turn, mode, status, prompt string) Reply {
	session := &store.Session{
		ID:       t.SessionID,
		Mode:     mode,
		Awaiting: store.AwaitingEmployeeID,
	}
	if err := m.sessions.Set(ctx, session); err != nil {
		return m.failure(t, "start_"+mode, err)
	}
	return Reply{Status: status, Answer: prompt}
}

func (m *Machine) invalidID(t Turn, status string) Reply {
	return Reply{Status: status, Answer: m.catalog.Text("dialog.invalid_employee_id", t.Language)}
}

func (m *Machine) unknownEmployee(t Turn, status string, id int64) Reply {
	return Reply{
		Status: status,
		Answer: m.catalog.Format("dialog.employee_not_found", t.Language, map[string]interface{}{"id": id}),
	}
}

// finish ends the dialog. A failed delete is logged only: the answer is
// already known and the session will expire.
func (m *Machine) finish(ctx context.Context, s *store.Session, reply Reply) Reply {
	if err := m.sessions.Delete(ctx, s.ID); err != nil {
		m.logger.Warn("dialog", "Failed to delete finished session", map[string]interface{}{
			"session_id": s.ID,
			"error":      err.Error(),
		})
	}
	return reply
}

func (m *Machine) onVacationEmployeeID(ctx context.Context, s *store.Session, t Turn) Reply {
	id, err := parseEmployeeID(t.Text)
	if err != nil {
		return m.invalidID(t, StatusVacationInvalidFormat)
	}

	emp, err := m.directory.LookupEmployeeVacation(ctx, id)
	if err != nil {
		return m.failure(t, "lookup_vacation", fmt.Errorf("%w: %v", ErrConnectivity, err))
	}
	if emp == nil {
		return m.unknownEmployee(t, StatusVacationNotFound, id)
	}

	return m.finish(ctx, s, Reply{
		Status: StatusVacationAnswered,
		Answer: m.catalog.Format("dialog.vacation_answer", t.Language, map[string]interface{}{
			"name": emp.Name,
			"days": emp.RemainingVacation,
		}),
	})
}

func (m *Machine) onResignationEmployeeID(ctx context.Context, s *store.Session, t Turn) Reply {
	id, err := parseEmployeeID(t.Text)
	if err != nil {
		return m.invalidID(t, StatusResignationInvalidFormat)
	}

	emp, err := m.directory.LookupEmployeeDepartment(ctx, id)
	if err != nil {
		return m.failure(t, "lookup_resignation", fmt.Errorf("%w: %v", ErrConnectivity, err))
	}
	if emp == nil {
		return m.unknownEmployee(t, StatusResignationNotFound, id)
	}

	return m.finish(ctx, s, Reply{
		Status: StatusResignationAnswered,
		Answer: m.catalog.Format("dialog.resignation_answer", t.Language, map[string]interface{}{
			"name":       emp.Name,
			"department": emp.Department.Name,
			"head":       emp.Department.Head,
		}),
	})
}

func (m *Machine) onDepartmentName(ctx context.Context, s *store.Session, t Turn) Reply {
	input := strings.TrimSpace(t.Text)

	dept, err := m.directory.LookupDepartmentByName(ctx, input)
	if err != nil {
		return m.failure(t, "lookup_department", fmt.Errorf("%w: %v", ErrConnectivity, err))
	}

	if dept == nil {
		departments, err := m.directory.ListDepartments(ctx)
		if err != nil {
			return m.failure(t, "list_departments", fmt.Errorf("%w: %v", ErrConnectivity, err))
		}
		return Reply{
			Status: StatusDepartmentInvalid,
			Answer: m.catalog.Format("dialog.department_not_found", t.Language, map[string]interface{}{
				"input":       input,
				"departments": formatDepartments(departments),
			}),
		}
	}

	s.Awaiting = store.AwaitingEmployeeID
	s.TargetDepartment = dept
	if err := m.sessions.Set(ctx, s); err != nil {
		return m.failure(t, "select_department", err)
	}

	return Reply{
		Status: StatusDepartmentIDRequest,
		Answer: m.catalog.Format("dialog.department_selected", t.Language, map[string]interface{}{
			"department": dept.Name,
		}),
	}
}

func (m *Machine) onDepartmentEmployeeID(ctx context.Context, s *store.Session, t Turn) Reply {
	id, err := parseEmployeeID(t.Text)
	if err != nil {
		return m.invalidID(t, StatusDepartmentInvalidFormat)
	}

	emp, err := m.directory.LookupEmployeeDepartment(ctx, id)
	if err != nil {
		return m.failure(t, "lookup_employee_department", fmt.Errorf("%w: %v", ErrConnectivity, err))
	}
	if emp == nil {
		return m.unknownEmployee(t, StatusDepartmentEmployeeNotFound, id)
	}

	target := s.TargetDepartment
	current := emp.Department
	if sameDepartment(current, *target) {
		return m.finish(ctx, s, Reply{
			Status: StatusDepartmentSame,
			Answer: m.catalog.Format("dialog.department_same", t.Language, map[string]interface{}{
				"department": current.Name,
			}),
		})
	}

	return m.finish(ctx, s, Reply{
		Status: StatusDepartmentAnswered,
		Answer: m.catalog.Format("dialog.department_answer", t.Language, map[string]interface{}{
			"name":         emp.Name,
			"current":      current.Name,
			"target":       target.Name,
			"current_head": current.Head,
			"target_head":  target.Head,
		}),
	})
}

func sameDepartment(a, b store.Department) bool {
	if a.ID != 0 && b.ID != 0 {
		return a.ID == b.ID
	}
	return strings.EqualFold(strings.TrimSpace(a.Name), strings.TrimSpace(b.Name))
}
