package hr

import (
	"database/sql"
	"fmt"

	"github.com/saltyorg/reviewkeeper/internal/record"
)

// Employee works in a department and is the subject of reviews
type Employee struct {
	record.Key
	name         string
	jobTitle     string
	departmentID sql.NullInt64
}

// NewEmployee returns an unsaved employee, or a *ValidationError
func NewEmployee(name, jobTitle string, departmentID int64) (*Employee, error) {
	e := &Employee{}
	if err := e.SetName(name); err != nil {
		return nil, err
	}
	if err := e.SetJobTitle(jobTitle); err != nil {
		return nil, err
	}
	e.SetDepartmentID(departmentID)
	return e, nil
}

func (e *Employee) Name() string {
	return e.name
}

func (e *Employee) SetName(name string) error {
	if err := checkNonEmpty("name", name); err != nil {
		return err
	}
	e.name = name
	return nil
}

func (e *Employee) JobTitle() string {
	return e.jobTitle
}

func (e *Employee) SetJobTitle(jobTitle string) error {
	if err := checkNonEmpty("job_title", jobTitle); err != nil {
		return err
	}
	e.jobTitle = jobTitle
	return nil
}

// DepartmentID returns the referenced department, or zero when the column is NULL
func (e *Employee) DepartmentID() int64 {
	return e.departmentID.Int64
}

// HasDepartment reports whether the employee references a department
func (e *Employee) HasDepartment() bool {
	return e.departmentID.Valid
}

// SetDepartmentID is enforced by the departments foreign key on save
func (e *Employee) SetDepartmentID(departmentID int64) {
	e.departmentID = sql.NullInt64{Int64: departmentID, Valid: true}
}

// ClearDepartmentID stores NULL in department_id on the next save or update
func (e *Employee) ClearDepartmentID() {
	e.departmentID = sql.NullInt64{}
}

func (e *Employee) String() string {
	return fmt.Sprintf("<Employee %s: %s, %s, Department ID: %s>", formatID(e.ID()), e.name, e.jobTitle, formatNullID(e.departmentID))
}

var employeeTable = record.Table[*Employee]{
	Name: "employees",
	Schema: `
		CREATE TABLE IF NOT EXISTS employees (
			id INTEGER PRIMARY KEY,
			name TEXT,
			job_title TEXT,
			department_id INTEGER,
			FOREIGN KEY (department_id) REFERENCES departments(id)
		)
	`,
	Columns: []string{"name", "job_title", "department_id"},
	Values: func(e *Employee) []any {
		return []any{e.name, e.jobTitle, e.departmentID}
	},
	Scan: func() ([]any, func() (*Employee, error)) {
		var (
			name, jobTitle string
			departmentID   sql.NullInt64
		)
		return []any{&name, &jobTitle, &departmentID}, func() (*Employee, error) {
			e, err := NewEmployee(name, jobTitle, departmentID.Int64)
			if err != nil {
				return nil, err
			}
			e.departmentID = departmentID
			return e, nil
		}
	},
}
