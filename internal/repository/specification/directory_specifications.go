package specification

import (
	"strings"

	"gorm.io/gorm"
)

type ByEmployeeID struct {
	ID int64
}

func (s ByEmployeeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("employee_id = ?", s.ID)
}

// DepartmentNameEquals matches ignoring case and surrounding spaces.
type DepartmentNameEquals struct {
	Name string
}

func (s DepartmentNameEquals) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(TRIM(department_name)) = ?", strings.ToLower(strings.TrimSpace(s.Name)))
}

// DepartmentNameContains is a case-insensitive substring match.
type DepartmentNameContains struct {
	Name string
}

func (s DepartmentNameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(TRIM(department_name)) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(strings.TrimSpace(s.Name)))+"%")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
