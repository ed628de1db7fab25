package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acmello/campusctl/internal/edu"
	"github.com/acmello/campusctl/internal/ui"
)

// Student portal: `campusctl my <subcommand>`.

var myCmd = &cobra.Command{
	Use:   "my",
	Short: "Student portal: your profile, courses, grades and timetable",
}

var myProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your student profile",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleStudent); err != nil {
			return err
		}
		profile, err := edu.NewStudentAPI(a.api).Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", profile.User.FullName(), profile.User.Email)
		fmt.Printf("Class: %s", profile.Class)
		if profile.Section != "" {
			fmt.Printf("  Section: %s", profile.Section)
		}
		if profile.RollNumber != "" {
			fmt.Printf("  Roll: %s", profile.RollNumber)
		}
		fmt.Println()
		fmt.Printf("Admitted: %s  Status: %s\n", ui.FormatDate(profile.AdmissionDate), profile.Status)
		return nil
	}),
}

var myCoursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List your enrolled courses",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleStudent); err != nil {
			return err
		}
		courses, err := edu.NewStudentAPI(a.api).Courses(ctx)
		if err != nil {
			return err
		}
		return ui.RenderTable(os.Stdout, courseColumns(), courses)
	}),
}

var myGradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "List your assessment grades",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleStudent); err != nil {
			return err
		}
		grades, err := edu.NewStudentAPI(a.api).Grades(ctx)
		if err != nil {
			return err
		}
		return ui.RenderTable(os.Stdout, gradeColumns(), grades)
	}),
}

var myScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show your weekly timetable",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleStudent); err != nil {
			return err
		}
		sched, err := edu.NewStudentAPI(a.api).Schedule(ctx)
		if err != nil {
			return err
		}
		return ui.RenderTable(os.Stdout, scheduleColumns(), sched)
	}),
}

var myProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show your per-course progress",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleStudent); err != nil {
			return err
		}
		progress, err := edu.NewStudentAPI(a.api).Progress(ctx)
		if err != nil {
			return err
		}
		return ui.RenderTable(os.Stdout, []ui.Column[edu.Enrollment]{
			{Header: "Course", Value: func(e edu.Enrollment) string { return ui.Truncate(e.CourseID, 12) }},
			{Header: "Enrolled", Value: func(e edu.Enrollment) string { return ui.FormatDate(e.EnrollmentDate) }},
			{Header: "Progress", Value: func(e edu.Enrollment) string { return fmt.Sprintf("%d%%", e.Progress) }},
			{Header: "Grade", Value: func(e edu.Enrollment) string { return e.Grade }},
			{Header: "Status", Value: func(e edu.Enrollment) string { return e.Status }},
		}, progress)
	}),
}

// Teacher portal: `campusctl teaching <subcommand>`.

var teachingCmd = &cobra.Command{
	Use:   "teaching",
	Short: "Teacher portal: your courses, timetable and grade entry",
}

var teachingCoursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses you teach",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleTeacher); err != nil {
			return err
		}
		courses, err := edu.NewTeacherAPI(a.api).Courses(ctx)
		if err != nil {
			return err
		}
		return ui.RenderTable(os.Stdout, courseColumns(), courses)
	}),
}

var teachingStudentsCmd = &cobra.Command{
	Use:   "students <courseId>",
	Short: "List the students enrolled in one of your courses",
	Args:  cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleTeacher); err != nil {
			return err
		}
		students, err := edu.NewTeacherAPI(a.api).CourseStudents(ctx, args[0])
		if err != nil {
			return err
		}
		return ui.RenderTable(os.Stdout, []ui.Column[edu.Student]{
			{Header: "ID", Value: func(s edu.Student) string { return ui.Truncate(s.ID, 12) }},
			{Header: "Name", Value: func(s edu.Student) string { return s.User.FullName() }},
			{Header: "Email", Value: func(s edu.Student) string { return s.User.Email }},
			{Header: "Class", Value: func(s edu.Student) string { return s.Class }},
			{Header: "Roll", Value: func(s edu.Student) string { return s.RollNumber }},
		}, students)
	}),
}

var teachingScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show your teaching timetable",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleTeacher); err != nil {
			return err
		}
		sched, err := edu.NewTeacherAPI(a.api).Schedule(ctx)
		if err != nil {
			return err
		}
		return ui.RenderTable(os.Stdout, scheduleColumns(), sched)
	}),
}

var teachingGradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "List the grades you have recorded",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleTeacher); err != nil {
			return err
		}
		grades, err := edu.NewTeacherAPI(a.api).Grades(ctx)
		if err != nil {
			return err
		}
		return ui.RenderTable(os.Stdout, gradeColumns(), grades)
	}),
}

var gradeOpts edu.GradeInput

var teachingGradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Record or update an assessment grade",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireSession(ctx, edu.RoleTeacher); err != nil {
			return err
		}
		g, err := edu.NewTeacherAPI(a.api).SubmitGrade(ctx, gradeOpts)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %s for student %s: %d/%d (%.1f%%)\n",
			g.AssessmentName, g.StudentID, g.ObtainedMarks, g.MaxMarks, g.Percentage)
		return nil
	}),
}

func courseColumns() []ui.Column[edu.Course] {
	return []ui.Column[edu.Course]{
		{Header: "Code", Value: func(c edu.Course) string { return c.Code }},
		{Header: "Name", Value: func(c edu.Course) string { return c.Name }},
		{Header: "Department", Value: func(c edu.Course) string { return c.Department }},
		{Header: "Credits", Value: func(c edu.Course) string { return fmt.Sprintf("%d", c.Credits) }},
		{Header: "Status", Value: func(c edu.Course) string { return c.Status }},
	}
}

func gradeColumns() []ui.Column[edu.Grade] {
	return []ui.Column[edu.Grade]{
		{Header: "Assessment", Value: func(g edu.Grade) string { return g.AssessmentName }},
		{Header: "Type", Value: func(g edu.Grade) string { return g.AssessmentType }},
		{Header: "Marks", Value: func(g edu.Grade) string { return fmt.Sprintf("%d/%d", g.ObtainedMarks, g.MaxMarks) }},
		{Header: "Percent", Value: func(g edu.Grade) string { return fmt.Sprintf("%.1f%%", g.Percentage) }},
		{Header: "Submitted", Value: func(g edu.Grade) string { return ui.FormatDate(g.SubmittedAt) }},
	}
}

func init() {
	myCmd.AddCommand(myProfileCmd, myCoursesCmd, myGradesCmd, myScheduleCmd, myProgressCmd)

	f := teachingGradeCmd.Flags()
	f.StringVar(&gradeOpts.StudentID, "student", "", "student id")
	f.StringVar(&gradeOpts.CourseID, "course", "", "course id")
	f.StringVar(&gradeOpts.AssessmentType, "type", "quiz", "assessment type")
	f.StringVar(&gradeOpts.AssessmentName, "name", "", "assessment name")
	f.IntVar(&gradeOpts.MaxMarks, "max", 100, "maximum marks")
	f.IntVar(&gradeOpts.ObtainedMarks, "marks", 0, "obtained marks")
	f.StringVar(&gradeOpts.Remarks, "remarks", "", "free-text remarks")
	_ = teachingGradeCmd.MarkFlagRequired("student")
	_ = teachingGradeCmd.MarkFlagRequired("course")
	_ = teachingGradeCmd.MarkFlagRequired("name")
	teachingCmd.AddCommand(teachingCoursesCmd, teachingStudentsCmd, teachingScheduleCmd, teachingGradesCmd, teachingGradeCmd)

	rootCmd.AddCommand(myCmd, teachingCmd)
}
