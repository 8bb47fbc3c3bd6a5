package hr

import (
	"fmt"

	"github.com/saltyorg/reviewkeeper/internal/record"
)

// Department groups employees at a location
type Department struct {
	record.Key
	name     string
	location string
}

// NewDepartment returns an unsaved department, or a *ValidationError
func NewDepartment(name, location string) (*Department, error) {
	d := &Department{}
	if err := d.SetName(name); err != nil {
		return nil, err
	}
	if err := d.SetLocation(location); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Department) Name() string {
	return d.name
}

func (d *Department) SetName(name string) error {
	if err := checkNonEmpty("name", name); err != nil {
		return err
	}
	d.name = name
	return nil
}

func (d *Department) Location() string {
	return d.location
}

func (d *Department) SetLocation(location string) error {
	if err := checkNonEmpty("location", location); err != nil {
		return err
	}
	d.location = location
	return nil
}

func (d *Department) String() string {
	return fmt.Sprintf("<Department %s: %s, %s>", formatID(d.ID()), d.name, d.location)
}

var departmentTable = record.Table[*Department]{
	Name: "departments",
	Schema: `
		CREATE TABLE IF NOT EXISTS departments (
			id INTEGER PRIMARY KEY,
			name TEXT,
			location TEXT
		)
	`,
	Columns: []string{"name", "location"},
	Values: func(d *Department) []any {
		return []any{d.name, d.location}
	},
	Scan: func() ([]any, func() (*Department, error)) {
		var name, location string
		return []any{&name, &location}, func() (*Department, error) {
			return NewDepartment(name, location)
		}
	},
}
