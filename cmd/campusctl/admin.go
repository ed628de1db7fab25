package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acmello/campusctl/internal/edu"
	"github.com/acmello/campusctl/internal/resource"
	"github.com/acmello/campusctl/internal/ui"
)

// listOptions are the shared pagination/search/filter flags of every admin
// list command.
type listOptions struct {
	page     int
	pageSize int
	search   string
	filters  []string
}

func (o *listOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.page, "page", 1, "page number")
	cmd.Flags().IntVar(&o.pageSize, "page-size", 10, "items per page")
	cmd.Flags().StringVar(&o.search, "search", "", "free-text search")
	cmd.Flags().StringArrayVar(&o.filters, "filter", nil, "field filter as field=value (repeatable)")
}

func (o *listOptions) query() (resource.Query, error) {
	q := resource.Query{Page: o.page, PageSize: o.pageSize, Search: o.search}
	for _, f := range o.filters {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return resource.Query{}, fmt.Errorf("invalid --filter %q, want field=value", f)
		}
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Filters[k] = v
	}
	return q, nil
}

// adminSurface restores the session, checks the admin role and returns the
// admin API surface.
func adminSurface(ctx context.Context, a *app) (*edu.Admin, error) {
	if _, err := a.requireSession(ctx, edu.RoleAdmin); err != nil {
		return nil, err
	}
	return edu.NewAdmin(a.api), nil
}

func newListCmd[T any](entity string, build func(*edu.Admin, resource.Query) *resource.Controller[T], cols []ui.Column[T]) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + entity,
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			admin, err := adminSurface(ctx, a)
			if err != nil {
				return err
			}
			q, err := opts.query()
			if err != nil {
				return err
			}
			list := build(admin, q)
			if err := list.Load(ctx); err != nil {
				return err
			}
			if err := ui.RenderTable(os.Stdout, cols, list.Items()); err != nil {
				return err
			}
			p := list.Page()
			ui.RenderPageInfo(os.Stdout, p.CurrentPage, p.TotalPages, p.Total)
			return nil
		}),
	}
	opts.addFlags(cmd)
	return cmd
}

func newGetCmd[T any](entity string, client func(*edu.Admin) *resource.Client[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + entity + " as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			admin, err := adminSurface(ctx, a)
			if err != nil {
				return err
			}
			item, err := client(admin).Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(item)
		}),
	}
}

func newCreateCmd[T any](entity string, client func(*edu.Admin) *resource.Client[T]) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + entity + " from a JSON payload",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			admin, err := adminSurface(ctx, a)
			if err != nil {
				return err
			}
			payload, err := readPayload(file)
			if err != nil {
				return err
			}
			created, err := client(admin).Create(ctx, payload)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", entity)
			return printJSON(created)
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON payload file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newStatusCmd[T any](entity string, build func(*edu.Admin, resource.Query) *resource.Controller[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a " + entity + "'s status",
		Args:  cobra.ExactArgs(2),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			admin, err := adminSurface(ctx, a)
			if err != nil {
				return err
			}
			if err := build(admin, resource.Query{}).UpdateStatus(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Updated %s %s to %s\n", entity, args[0], args[1])
			return nil
		}),
	}
}

func newDeleteCmd[T any](entity string, build func(*edu.Admin, resource.Query) *resource.Controller[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + entity,
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			admin, err := adminSurface(ctx, a)
			if err != nil {
				return err
			}
			if err := build(admin, resource.Query{}).Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s %s\n", entity, args[0])
			return nil
		}),
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readPayload decodes a JSON object from a file or stdin into a generic map
// so the server sees exactly what the operator wrote.
func readPayload(file string) (map[string]any, error) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var payload map[string]any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return payload, nil
}

func init() {
	studentsCmd := &cobra.Command{Use: "students", Short: "Manage student records"}
	studentsCmd.AddCommand(
		newListCmd("students", (*edu.Admin).StudentList, []ui.Column[edu.Student]{
			{Header: "ID", Value: func(s edu.Student) string { return ui.Truncate(s.ID, 12) }},
			{Header: "Name", Value: func(s edu.Student) string { return s.User.FullName() }},
			{Header: "Email", Value: func(s edu.Student) string { return s.User.Email }},
			{Header: "Class", Value: func(s edu.Student) string { return s.Class }},
			{Header: "Roll", Value: func(s edu.Student) string { return s.RollNumber }},
			{Header: "Status", Value: func(s edu.Student) string { return s.Status }},
		}),
		newGetCmd("student", func(a *edu.Admin) *resource.Client[edu.Student] { return a.Students }),
		newCreateCmd("student", func(a *edu.Admin) *resource.Client[edu.Student] { return a.Students }),
		newStatusCmd("student", (*edu.Admin).StudentList),
		newDeleteCmd("student", (*edu.Admin).StudentList),
	)

	teachersCmd := &cobra.Command{Use: "teachers", Short: "Manage teacher records"}
	teachersCmd.AddCommand(
		newListCmd("teachers", (*edu.Admin).TeacherList, []ui.Column[edu.Teacher]{
			{Header: "ID", Value: func(t edu.Teacher) string { return ui.Truncate(t.ID, 12) }},
			{Header: "Name", Value: func(t edu.Teacher) string { return t.User.FullName() }},
			{Header: "Employee", Value: func(t edu.Teacher) string { return t.EmployeeID }},
			{Header: "Specialization", Value: func(t edu.Teacher) string { return t.Specialization }},
			{Header: "Status", Value: func(t edu.Teacher) string { return t.Status }},
		}),
		newGetCmd("teacher", func(a *edu.Admin) *resource.Client[edu.Teacher] { return a.Teachers }),
		newCreateCmd("teacher", func(a *edu.Admin) *resource.Client[edu.Teacher] { return a.Teachers }),
		newStatusCmd("teacher", (*edu.Admin).TeacherList),
		newDeleteCmd("teacher", (*edu.Admin).TeacherList),
	)

	coursesCmd := &cobra.Command{Use: "courses", Short: "Manage courses"}
	coursesCmd.AddCommand(
		newListCmd("courses", (*edu.Admin).CourseList, []ui.Column[edu.Course]{
			{Header: "ID", Value: func(c edu.Course) string { return ui.Truncate(c.ID, 12) }},
			{Header: "Code", Value: func(c edu.Course) string { return c.Code }},
			{Header: "Name", Value: func(c edu.Course) string { return c.Name }},
			{Header: "Department", Value: func(c edu.Course) string { return c.Department }},
			{Header: "Level", Value: func(c edu.Course) string { return c.Level }},
			{Header: "Status", Value: func(c edu.Course) string { return c.Status }},
		}),
		newGetCmd("course", func(a *edu.Admin) *resource.Client[edu.Course] { return a.Courses }),
		newCreateCmd("course", func(a *edu.Admin) *resource.Client[edu.Course] { return a.Courses }),
		newStatusCmd("course", (*edu.Admin).CourseList),
		newDeleteCmd("course", (*edu.Admin).CourseList),
	)

	schedulesCmd := &cobra.Command{Use: "schedules", Short: "Manage the class schedule"}
	schedulesCmd.AddCommand(
		newListCmd("schedules", (*edu.Admin).ScheduleList, append([]ui.Column[edu.Schedule]{
			{Header: "ID", Value: func(s edu.Schedule) string { return ui.Truncate(s.ID, 12) }},
		}, scheduleColumns()...)),
		newCreateCmd("schedule", func(a *edu.Admin) *resource.Client[edu.Schedule] { return a.Schedules }),
		newStatusCmd("schedule", (*edu.Admin).ScheduleList),
		newDeleteCmd("schedule", (*edu.Admin).ScheduleList),
	)

	enrollmentsCmd := &cobra.Command{Use: "enrollments", Short: "Manage enrollments"}
	enrollmentsCmd.AddCommand(
		newListCmd("enrollments", (*edu.Admin).EnrollmentList, []ui.Column[edu.Enrollment]{
			{Header: "ID", Value: func(e edu.Enrollment) string { return ui.Truncate(e.ID, 12) }},
			{Header: "Student", Value: func(e edu.Enrollment) string { return ui.Truncate(e.StudentID, 12) }},
			{Header: "Course", Value: func(e edu.Enrollment) string { return ui.Truncate(e.CourseID, 12) }},
			{Header: "Enrolled", Value: func(e edu.Enrollment) string { return ui.FormatDate(e.EnrollmentDate) }},
			{Header: "Progress", Value: func(e edu.Enrollment) string { return fmt.Sprintf("%d%%", e.Progress) }},
			{Header: "Status", Value: func(e edu.Enrollment) string { return e.Status }},
		}),
		newCreateCmd("enrollment", func(a *edu.Admin) *resource.Client[edu.Enrollment] { return a.Enrollments }),
		newStatusCmd("enrollment", (*edu.Admin).EnrollmentList),
		newDeleteCmd("enrollment", (*edu.Admin).EnrollmentList),
	)

	rootCmd.AddCommand(studentsCmd, teachersCmd, coursesCmd, schedulesCmd, enrollmentsCmd)
}

// scheduleColumns is shared with the portal timetable views.
func scheduleColumns() []ui.Column[edu.Schedule] {
	return []ui.Column[edu.Schedule]{
		{Header: "Day", Value: func(s edu.Schedule) string { return s.DayOfWeek }},
		{Header: "Time", Value: func(s edu.Schedule) string { return s.StartTime + "-" + s.EndTime }},
		{Header: "Course", Value: func(s edu.Schedule) string { return s.CourseName }},
		{Header: "Room", Value: func(s edu.Schedule) string { return s.Room }},
		{Header: "Building", Value: func(s edu.Schedule) string { return s.Building }},
		{Header: "Status", Value: func(s edu.Schedule) string { return s.Status }},
	}
}
