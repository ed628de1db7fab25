package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acmello/campusctl/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the admin dashboard aggregates",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		admin, err := adminSurface(ctx, a)
		if err != nil {
			return err
		}
		stats, err := admin.DashboardStats(ctx)
		if err != nil {
			return err
		}

		o := stats.Overview
		fmt.Printf("Students:     %d\n", o.TotalStudents)
		fmt.Printf("Teachers:     %d\n", o.TotalTeachers)
		fmt.Printf("Courses:      %d (%d active)\n", o.TotalCourses, o.ActiveCourses)
		fmt.Printf("Enrollments:  %d (%d active)\n", o.TotalEnrollments, o.ActiveEnrollments)
		fmt.Printf("Completion:   %.1f%%\n", o.CompletionRate)
		fmt.Printf("Avg/course:   %.1f students\n", o.AvgStudentsPerCourse)

		fmt.Printf("\nToday's classes (%d):\n", stats.TodayClasses.Count)
		if err := ui.RenderTable(os.Stdout, scheduleColumns(), stats.TodayClasses.Classes); err != nil {
			return err
		}

		fmt.Println("\nPopular courses:")
		type popRow struct {
			name, code, dept string
			count            int
		}
		rows := make([]popRow, 0, len(stats.PopularCourses))
		for _, pc := range stats.PopularCourses {
			rows = append(rows, popRow{pc.Course.Name, pc.Course.Code, pc.Course.Department, pc.Count})
		}
		return ui.RenderTable(os.Stdout, []ui.Column[popRow]{
			{Header: "Course", Value: func(r popRow) string { return r.name }},
			{Header: "Code", Value: func(r popRow) string { return r.code }},
			{Header: "Department", Value: func(r popRow) string { return r.dept }},
			{Header: "Enrolled", Value: func(r popRow) string { return fmt.Sprintf("%d", r.count) }},
		}, rows)
	}),
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
