package hr

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/saltyorg/reviewkeeper/internal/record"
)

// Review is an annual performance review filed against an employee
type Review struct {
	record.Key
	year       int
	summary    string
	employeeID sql.NullInt64
}

// NewReview returns an unsaved review, or a *ValidationError if any
// attribute is out of range
func NewReview(year int, summary string, employeeID int64) (*Review, error) {
	r := &Review{}
	if err := r.SetYear(year); err != nil {
		return nil, err
	}
	if err := r.SetSummary(summary); err != nil {
		return nil, err
	}
	r.SetEmployeeID(employeeID)
	return r, nil
}

func (r *Review) Year() int {
	return r.year
}

// SetYear requires year >= MinReviewYear
func (r *Review) SetYear(year int) error {
	if err := check("year", year, "gte="+strconv.Itoa(MinReviewYear),
		fmt.Sprintf("year must be an integer greater than or equal to %d", MinReviewYear)); err != nil {
		return err
	}
	r.year = year
	return nil
}

func (r *Review) Summary() string {
	return r.summary
}

// SetSummary requires a non-empty summary
func (r *Review) SetSummary(summary string) error {
	if err := checkNonEmpty("summary", summary); err != nil {
		return err
	}
	r.summary = summary
	return nil
}

// EmployeeID returns the referenced employee, or zero when the column is NULL
func (r *Review) EmployeeID() int64 {
	return r.employeeID.Int64
}

// HasEmployee reports whether the review references an employee
func (r *Review) HasEmployee() bool {
	return r.employeeID.Valid
}

// SetEmployeeID is not checked locally; the employees foreign key rejects
// unknown ids when the review is persisted.
func (r *Review) SetEmployeeID(employeeID int64) {
	r.employeeID = sql.NullInt64{Int64: employeeID, Valid: true}
}

// ClearEmployeeID stores NULL in employee_id on the next save or update
func (r *Review) ClearEmployeeID() {
	r.employeeID = sql.NullInt64{}
}

func (r *Review) String() string {
	return fmt.Sprintf("<Review %s: %d, %s, Employee: %s>", formatID(r.ID()), r.year, r.summary, formatNullID(r.employeeID))
}

var reviewTable = record.Table[*Review]{
	Name: "reviews",
	Schema: `
		CREATE TABLE IF NOT EXISTS reviews (
			id INTEGER PRIMARY KEY,
			year INT,
			summary TEXT,
			employee_id INTEGER,
			FOREIGN KEY (employee_id) REFERENCES employees(id)
		)
	`,
	Columns: []string{"year", "summary", "employee_id"},
	Values: func(r *Review) []any {
		return []any{r.year, r.summary, r.employeeID}
	},
	Scan: func() ([]any, func() (*Review, error)) {
		var (
			year       int
			summary    string
			employeeID sql.NullInt64
		)
		return []any{&year, &summary, &employeeID}, func() (*Review, error) {
			r, err := NewReview(year, summary, employeeID.Int64)
			if err != nil {
				return nil, err
			}
			r.employeeID = employeeID
			return r, nil
		}
	},
}

func formatID(id int64) string {
	if id == 0 {
		return "None"
	}
	return strconv.FormatInt(id, 10)
}

func formatNullID(id sql.NullInt64) string {
	if !id.Valid {
		return "None"
	}
	return strconv.FormatInt(id.Int64, 10)
}
