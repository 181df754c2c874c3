package implementation

import (
	"context"
	"errors"
	"strings"

	"hr-helpdesk-be/internal/mapper"
	"hr-helpdesk-be/internal/model"
	"hr-helpdesk-be/internal/repository/contract"
	"hr-helpdesk-be/internal/repository/specification"
	"hr-helpdesk-be/pkg/store"

	"gorm.io/gorm"
)

type DirectoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DirectoryMapper
}

func NewDirectoryRepository(db *gorm.DB) contract.DirectoryRepository {
	return &DirectoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewDirectoryMapper(),
	}
}

func (r *DirectoryRepositoryImpl) LookupEmployeeVacation(ctx context.Context, employeeID int64) (*store.EmployeeVacation, error) {
	var m model.Employee
	err := specification.ByEmployeeID{ID: employeeID}.Apply(r.db.WithContext(ctx)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEmployeeVacation(&m), nil
}

// LookupEmployeeDepartment ignores employees without a department, as the
// inner join would.
func (r *DirectoryRepositoryImpl) LookupEmployeeDepartment(ctx context.Context, employeeID int64) (*store.EmployeeDepartment, error) {
	var m model.Employee
	err := r.db.WithContext(ctx).
		Joins("Department").
		Where("employees.employee_id = ?", employeeID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if m.Department.DepartmentId == 0 {
		return nil, nil
	}
	return r.mapper.ToEmployeeDepartment(&m), nil
}

func (r *DirectoryRepositoryImpl) LookupDepartmentByName(ctx context.Context, name string) (*store.Department, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	specs := []specification.Specification{
		specification.DepartmentNameEquals{Name: name},
		specification.DepartmentNameContains{Name: name},
	}
	for _, spec := range specs {
		var m model.Department
		query := specification.OrderBy{Field: "department_name"}.Apply(spec.Apply(r.db.WithContext(ctx)))
		err := query.First(&m).Error
		if err == nil {
			return r.mapper.ToDepartment(&m), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func (r *DirectoryRepositoryImpl) ListDepartments(ctx context.Context) ([]store.Department, error) {
	var models []*model.Department
	query := specification.OrderBy{Field: "department_name"}.Apply(r.db.WithContext(ctx))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToDepartments(models), nil
}
