package mapper

import (
	"hr-helpdesk-be/internal/model"
	"hr-helpdesk-be/pkg/store"
)

// DirectoryMapper converts directory rows into the views the dialogs use.
type DirectoryMapper struct{}

func NewDirectoryMapper() *DirectoryMapper {
	return &DirectoryMapper{}
}

func (m *DirectoryMapper) ToDepartment(d *model.Department) *store.Department {
	if d == nil {
		return nil
	}
	return &store.Department{
		ID:   d.DepartmentId,
		Name: d.DepartmentName,
		Head: d.DepartmentHead,
	}
}

func (m *DirectoryMapper) ToDepartments(departments []*model.Department) []store.Department {
	out := make([]store.Department, len(departments))
	for i, d := range departments {
		out[i] = *m.ToDepartment(d)
	}
	return out
}

func (m *DirectoryMapper) ToEmployeeVacation(e *model.Employee) *store.EmployeeVacation {
	if e == nil {
		return nil
	}
	return &store.EmployeeVacation{
		EmployeeID:        e.EmployeeId,
		Name:              e.Name,
		RemainingVacation: e.RemainingVacations,
	}
}

// ToEmployeeDepartment expects Department to be preloaded.
func (m *DirectoryMapper) ToEmployeeDepartment(e *model.Employee) *store.EmployeeDepartment {
	if e == nil {
		return nil
	}
	return &store.EmployeeDepartment{
		EmployeeID: e.EmployeeId,
		Name:       e.Name,
		Department: *m.ToDepartment(&e.Department),
	}
}
