package hr

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/reviewkeeper/internal/record"
)

// Session binds the department, employee and review repositories to one
// store. Each repository owns its identity map, so instances are shared
// for the lifetime of the session and no longer.
type Session struct {
	departments *record.Repository[*Department]
	employees   *record.Repository[*Employee]
	reviews     *record.Repository[*Review]
}

// NewSession creates a session with empty identity maps
func NewSession(store record.Store) *Session {
	return &Session{
		departments: record.NewRepository(store, departmentTable),
		employees:   record.NewRepository(store, employeeTable),
		reviews:     record.NewRepository(store, reviewTable),
	}
}

// WithStore returns a session bound to store, typically a *sql.Tx, that
// shares this session's identity maps
func (s *Session) WithStore(store record.Store) *Session {
	return &Session{
		departments: s.departments.WithStore(store),
		employees:   s.employees.WithStore(store),
		reviews:     s.reviews.WithStore(store),
	}
}

func (s *Session) Departments() *record.Repository[*Department] {
	return s.departments
}

func (s *Session) Employees() *record.Repository[*Employee] {
	return s.employees
}

func (s *Session) Reviews() *record.Repository[*Review] {
	return s.reviews
}

// CreateTables creates every table, parents first
func (s *Session) CreateTables(ctx context.Context) error {
	if err := s.departments.CreateTable(ctx); err != nil {
		return err
	}
	if err := s.employees.CreateTable(ctx); err != nil {
		return err
	}
	return s.reviews.CreateTable(ctx)
}

// DropTables drops every table, children first
func (s *Session) DropTables(ctx context.Context) error {
	if err := s.reviews.DropTable(ctx); err != nil {
		return err
	}
	if err := s.employees.DropTable(ctx); err != nil {
		return err
	}
	return s.departments.DropTable(ctx)
}

// Reset clears every identity map so later loads read the store again
func (s *Session) Reset() {
	s.departments.Identity().Clear()
	s.employees.Identity().Clear()
	s.reviews.Identity().Clear()
	log.Debug().Msg("Session identity maps cleared")
}

// CreateDepartment validates and saves a new department
func (s *Session) CreateDepartment(ctx context.Context, name, location string) (*Department, error) {
	d, err := NewDepartment(name, location)
	if err != nil {
		return nil, err
	}
	if err := s.departments.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateEmployee validates and saves a new employee
func (s *Session) CreateEmployee(ctx context.Context, name, jobTitle string, departmentID int64) (*Employee, error) {
	e, err := NewEmployee(name, jobTitle, departmentID)
	if err != nil {
		return nil, err
	}
	if err := s.employees.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateReview validates and saves a new review
func (s *Session) CreateReview(ctx context.Context, year int, summary string, employeeID int64) (*Review, error) {
	r, err := NewReview(year, summary, employeeID)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// FindDepartmentByName returns the first department with name, or nil
func (s *Session) FindDepartmentByName(ctx context.Context, name string) (*Department, error) {
	return s.departments.FindFirstWhere(ctx, "name", name)
}

// FindEmployeeByName returns the first employee with name, or nil
func (s *Session) FindEmployeeByName(ctx context.Context, name string) (*Employee, error) {
	return s.employees.FindFirstWhere(ctx, "name", name)
}

// EmployeeReviews returns the reviews filed against an employee
func (s *Session) EmployeeReviews(ctx context.Context, employeeID int64) ([]*Review, error) {
	return s.reviews.FindWhere(ctx, "employee_id", employeeID)
}

// DepartmentEmployees returns the employees assigned to a department
func (s *Session) DepartmentEmployees(ctx context.Context, departmentID int64) ([]*Employee, error) {
	return s.employees.FindWhere(ctx, "department_id", departmentID)
}
