package model

// Department and Employee back the guided HR dialogs. They are maintained by
// HR outside this service; the API only reads them.
type Department struct {
	DepartmentId   int64  `gorm:"column:department_id;primaryKey;autoIncrement"`
	DepartmentName string `gorm:"column:department_name;type:varchar(100);not null;uniqueIndex"`
	DepartmentHead string `gorm:"column:department_head;type:varchar(100)"`
}

func (Department) TableName() string {
	return "departments"
}

type Employee struct {
	EmployeeId         int64      `gorm:"column:employee_id;primaryKey;autoIncrement:false"`
	Name               string     `gorm:"column:name;type:varchar(100);not null"`
	DepartmentId       int64      `gorm:"column:department_id;index"`
	Department         Department `gorm:"foreignKey:DepartmentId;references:DepartmentId"`
	RemainingVacations int        `gorm:"column:remaining_vacations;default:0"`
}

func (Employee) TableName() string {
	return "employees"
}
