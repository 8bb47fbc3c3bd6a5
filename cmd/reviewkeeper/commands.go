package main

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/reviewkeeper/internal/hr"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the departments, employees and reviews tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.db.Transaction(func(tx *sql.Tx) error {
				return a.session.WithStore(tx).CreateTables(cmd.Context())
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tables ready")
			return nil
		},
	}
}

func (a *app) dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop every table and all rows in them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.db.Transaction(func(tx *sql.Tx) error {
				return a.session.WithStore(tx).DropTables(cmd.Context())
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tables dropped")
			return nil
		},
	}
}

func (a *app) maintainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maintain",
		Short: "Refresh planner statistics and reclaim unused space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.db.Optimize(); err != nil {
				return err
			}
			if err := a.db.Vacuum(); err != nil {
				return err
			}
			log.Info().Str("path", a.db.Path()).Msg("Database maintenance complete")
			fmt.Fprintln(cmd.OutOrStdout(), "Maintenance complete")
			return nil
		},
	}
}

func (a *app) departmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "department",
		Short: "Manage departments",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME LOCATION",
			Short: "Add a department",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := a.session.CreateDepartment(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), d)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List departments",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				departments, err := a.session.Departments().All(cmd.Context())
				if err != nil {
					return err
				}
				for _, d := range departments {
					fmt.Fprintln(cmd.OutOrStdout(), d)
				}
				return nil
			},
		},
	)

	return cmd
}

func (a *app) employeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME JOB_TITLE DEPARTMENT_ID",
			Short: "Add an employee",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				departmentID, err := parseID(args[2])
				if err != nil {
					return err
				}
				e, err := a.session.CreateEmployee(cmd.Context(), args[0], args[1], departmentID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), e)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list [DEPARTMENT_ID]",
			Short: "List employees, optionally only those in one department",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var employees []*hr.Employee
				var err error
				if len(args) == 1 {
					departmentID, perr := parseID(args[0])
					if perr != nil {
						return perr
					}
					employees, err = a.session.DepartmentEmployees(cmd.Context(), departmentID)
				} else {
					employees, err = a.session.Employees().All(cmd.Context())
				}
				if err != nil {
					return err
				}
				for _, e := range employees {
					fmt.Fprintln(cmd.OutOrStdout(), e)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "reviews EMPLOYEE_ID",
			Short: "List the reviews filed against an employee",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				employeeID, err := parseID(args[0])
				if err != nil {
					return err
				}
				reviews, err := a.session.EmployeeReviews(cmd.Context(), employeeID)
				if err != nil {
					return err
				}
				for _, r := range reviews {
					fmt.Fprintln(cmd.OutOrStdout(), r)
				}
				return nil
			},
		},
	)

	return cmd
}

func (a *app) reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Manage reviews",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add YEAR SUMMARY EMPLOYEE_ID",
			Short: "Add a review",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				year, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q: %w", args[0], err)
				}
				employeeID, err := parseID(args[2])
				if err != nil {
					return err
				}
				r, err := a.session.CreateReview(cmd.Context(), year, args[1], employeeID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), r)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List reviews",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				reviews, err := a.session.Reviews().All(cmd.Context())
				if err != nil {
					return err
				}
				for _, r := range reviews {
					fmt.Fprintln(cmd.OutOrStdout(), r)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show ID",
			Short: "Show one review",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := a.findReview(cmd, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), r)
				return nil
			},
		},
		a.reviewUpdateCmd(),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a review",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := a.findReview(cmd, args[0])
				if err != nil {
					return err
				}
				if err := a.session.Reviews().Delete(cmd.Context(), r); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted review %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}

func (a *app) reviewUpdateCmd() *cobra.Command {
	var (
		year       int
		summary    string
		employeeID int64
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the year, summary or employee of a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.findReview(cmd, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("year") {
				if err := r.SetYear(year); err != nil {
					return err
				}
			}
			if flags.Changed("summary") {
				if err := r.SetSummary(summary); err != nil {
					return err
				}
			}
			if flags.Changed("employee") {
				r.SetEmployeeID(employeeID)
			}

			if err := a.session.Reviews().Update(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Review year")
	cmd.Flags().StringVar(&summary, "summary", "", "Review summary")
	cmd.Flags().Int64Var(&employeeID, "employee", 0, "Employee id")

	return cmd
}

func (a *app) findReview(cmd *cobra.Command, arg string) (*hr.Review, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	r, err := a.session.Reviews().FindByID(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("review %d not found", id)
	}
	return r, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
