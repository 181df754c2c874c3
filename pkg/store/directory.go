package store

// Department is a directory department with its head.
type Department struct {
	ID   int64  `json:"department_id"`
	Name string `json:"department_name"`
	Head string `json:"department_head"`
}

// EmployeeVacation is the vacation balance view of an employee.
type EmployeeVacation struct {
	EmployeeID        int64  `json:"employee_id"`
	Name              string `json:"name"`
	RemainingVacation int    `json:"remaining_vacations"`
}

// EmployeeDepartment is an employee joined with their current department.
type EmployeeDepartment struct {
	EmployeeID int64      `json:"employee_id"`
	Name       string     `json:"employee_name"`
	Department Department `json:"department"`
}
