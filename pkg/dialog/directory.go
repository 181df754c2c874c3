package dialog

import (
	"context"

	"hr-helpdesk-be/pkg/store"
)

// Directory is the employee/department lookup the guided dialogs rely on.
// Lookups return (nil, nil) when nothing matches; an error always means the
// directory could not be reached.
type Directory interface {
	LookupEmployeeVacation(ctx context.Context, employeeID int64) (*store.EmployeeVacation, error)
	LookupEmployeeDepartment(ctx context.Context, employeeID int64) (*store.EmployeeDepartment, error)

	// LookupDepartmentByName tries an exact case- and space-insensitive match
	// before falling back to a substring match.
	LookupDepartmentByName(ctx context.Context, name string) (*store.Department, error)

	ListDepartments(ctx context.Context) ([]store.Department, error)
}
