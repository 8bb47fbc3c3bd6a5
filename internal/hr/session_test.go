package hr

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/reviewkeeper/internal/database"
	"github.com/saltyorg/reviewkeeper/internal/record"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	_, s := newTestSessionDB(t)
	return s
}

func newTestSessionDB(t *testing.T) (*database.DB, *Session) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), database.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewSession(db)
	require.NoError(t, s.CreateTables(context.Background()))
	return db, s
}

// seedEmployee creates department 1 and employee 1
func seedEmployee(t *testing.T, s *Session) *Employee {
	t.Helper()
	ctx := context.Background()

	d, err := s.CreateDepartment(ctx, "Payroll", "Building A")
	require.NoError(t, err)

	e, err := s.CreateEmployee(ctx, "Lee", "Accountant", d.ID())
	require.NoError(t, err)
	return e
}

func TestCreateReview_Scenario(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedEmployee(t, s)

	r, err := s.CreateReview(ctx, 2023, "Exceeded expectations", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.ID())
	assert.Equal(t, 2023, r.Year())
	assert.Equal(t, "Exceeded expectations", r.Summary())
	assert.Equal(t, int64(1), r.EmployeeID())
	assert.Equal(t, "<Review 1: 2023, Exceeded expectations, Employee: 1>", r.String())

	found, err := s.Reviews().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, r, found)

	require.NoError(t, s.Reviews().Delete(ctx, r))
	assert.Equal(t, int64(0), r.ID())

	found, err = s.Reviews().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCreateReview_ValidationCreatesNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedEmployee(t, s)

	r, err := s.CreateReview(ctx, 1999, "Too early", 1)
	assert.Nil(t, r)
	require.ErrorIs(t, err, ErrValidation)

	count, err := s.Reviews().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateReview_ForeignKeyEnforcedByStore(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	r, err := s.CreateReview(ctx, 2023, "Nobody", 99)
	assert.Nil(t, r)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, s.Reviews().Identity().Len())
}

func TestReviewUpdate_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedEmployee(t, s)

	r, err := s.CreateReview(ctx, 2022, "Meets expectations", 1)
	require.NoError(t, err)

	require.NoError(t, r.SetYear(2024))
	require.NoError(t, r.SetSummary("Promoted"))
	require.NoError(t, s.Reviews().Update(ctx, r))

	s.Reset()

	fresh, err := s.Reviews().FindByID(ctx, r.ID())
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.NotSame(t, r, fresh)
	assert.Equal(t, 2024, fresh.Year())
	assert.Equal(t, "Promoted", fresh.Summary())
	assert.Equal(t, int64(1), fresh.EmployeeID())
}

func TestReviewSave_Twice(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedEmployee(t, s)

	r, err := s.CreateReview(ctx, 2022, "Once", 1)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Reviews().Save(ctx, r), record.ErrAlreadyPersisted)
}

func TestGetAll_CountMatchesRows(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedEmployee(t, s)

	for year := 2020; year < 2025; year++ {
		_, err := s.CreateReview(ctx, year, "Annual", 1)
		require.NoError(t, err)
	}

	s.Reset()

	all, err := s.Reviews().All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	for i, r := range all {
		assert.Equal(t, 2020+i, r.Year())
	}
}

func TestRelationshipLookups(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	lee := seedEmployee(t, s)

	sam, err := s.CreateEmployee(ctx, "Sam", "Clerk", lee.DepartmentID())
	require.NoError(t, err)

	_, err = s.CreateReview(ctx, 2021, "Good", lee.ID())
	require.NoError(t, err)
	_, err = s.CreateReview(ctx, 2022, "Great", lee.ID())
	require.NoError(t, err)
	_, err = s.CreateReview(ctx, 2022, "Fine", sam.ID())
	require.NoError(t, err)

	reviews, err := s.EmployeeReviews(ctx, lee.ID())
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	staff, err := s.DepartmentEmployees(ctx, lee.DepartmentID())
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Same(t, lee, staff[0])
	assert.Same(t, sam, staff[1])

	found, err := s.FindEmployeeByName(ctx, "Sam")
	require.NoError(t, err)
	assert.Same(t, sam, found)

	dept, err := s.FindDepartmentByName(ctx, "Payroll")
	require.NoError(t, err)
	require.NotNil(t, dept)
	assert.Equal(t, lee.DepartmentID(), dept.ID())

	missing, err := s.FindDepartmentByName(ctx, "Legal")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDropTables(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedEmployee(t, s)

	require.NoError(t, s.DropTables(ctx))
	require.NoError(t, s.DropTables(ctx))
	require.NoError(t, s.CreateTables(ctx))

	count, err := s.Employees().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLoad_NullForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, s := newTestSessionDB(t)
	lee := seedEmployee(t, s)

	_, err := s.CreateReview(ctx, 2021, "Linked", lee.ID())
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO reviews (year, summary, employee_id) VALUES (2023, 'Unassigned', NULL)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO employees (name, job_title, department_id) VALUES ('Kim', 'Temp', NULL)")
	require.NoError(t, err)

	r, err := s.Reviews().FindByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.False(t, r.HasEmployee())
	assert.Equal(t, int64(0), r.EmployeeID())
	assert.Equal(t, "<Review 2: 2023, Unassigned, Employee: None>", r.String())

	s.Reset()

	all, err := s.Reviews().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].HasEmployee())
	assert.False(t, all[1].HasEmployee())

	kim, err := s.FindEmployeeByName(ctx, "Kim")
	require.NoError(t, err)
	require.NotNil(t, kim)
	assert.False(t, kim.HasDepartment())
	assert.Equal(t, "<Employee 2: Kim, Temp, Department ID: None>", kim.String())
}

func TestUpdate_ClearForeignKeyWritesNull(t *testing.T) {
	ctx := context.Background()
	db, s := newTestSessionDB(t)
	seedEmployee(t, s)

	r, err := s.CreateReview(ctx, 2022, "Reassigned", 1)
	require.NoError(t, err)

	r.ClearEmployeeID()
	require.NoError(t, s.Reviews().Update(ctx, r))

	var isNull bool
	require.NoError(t, db.QueryRow("SELECT employee_id IS NULL FROM reviews WHERE id = ?", r.ID()).Scan(&isNull))
	assert.True(t, isNull)

	s.Reset()
	fresh, err := s.Reviews().FindByID(ctx, r.ID())
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.False(t, fresh.HasEmployee())
}

func TestDropTables_RollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	db, s := newTestSessionDB(t)
	seedEmployee(t, s)

	abort := errors.New("abort")
	err := db.Transaction(func(tx *sql.Tx) error {
		if err := s.WithStore(tx).DropTables(ctx); err != nil {
			return err
		}
		return abort
	})
	require.ErrorIs(t, err, abort)

	// Tables and rows survive the rollback; only the identity maps were cleared
	assert.Equal(t, 0, s.Employees().Identity().Len())
	lee, err := s.FindEmployeeByName(ctx, "Lee")
	require.NoError(t, err)
	require.NotNil(t, lee)
	assert.Equal(t, int64(1), lee.ID())

	require.NoError(t, db.Transaction(func(tx *sql.Tx) error {
		return s.WithStore(tx).DropTables(ctx)
	}))
	_, err = s.Employees().Count(ctx)
	assert.Error(t, err)
}
