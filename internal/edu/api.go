package edu

import (
	"context"

	"github.com/acmello/campusctl/internal/resource"
)

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// DashboardStats are the admin dashboard aggregates. They are computed
// server-side by the aggregation endpoint, never derived client-side from a
// fetched page.
type DashboardStats struct {
	Overview struct {
		TotalStudents        int     `json:"totalStudents"`
		TotalTeachers        int     `json:"totalTeachers"`
		TotalCourses         int     `json:"totalCourses"`
		TotalEnrollments     int     `json:"totalEnrollments"`
		ActiveCourses        int     `json:"activeCourses"`
		ActiveEnrollments    int     `json:"activeEnrollments"`
		CompletionRate       float64 `json:"completionRate"`
		AvgStudentsPerCourse float64 `json:"avgStudentsPerCourse"`
	} `json:"overview"`
	TodayClasses struct {
		Count   int        `json:"count"`
		Classes []Schedule `json:"classes"`
	} `json:"todayClasses"`
	PopularCourses []PopularCourse `json:"popularCourses"`
}

type PopularCourse struct {
	CourseID string `json:"_id"`
	Course   struct {
		Name       string `json:"name"`
		Code       string `json:"code"`
		Department string `json:"department"`
	} `json:"course"`
	Count int `json:"count"`
}

// Admin is the admin-facing API surface: one resource client per managed
// collection plus the dashboard aggregation endpoint.
type Admin struct {
	Students    *resource.Client[Student]
	Teachers    *resource.Client[Teacher]
	Courses     *resource.Client[Course]
	Schedules   *resource.Client[Schedule]
	Enrollments *resource.Client[Enrollment]

	api resource.API
}

// NewAdmin builds the admin surface over the shared authenticated client.
func NewAdmin(api resource.API) *Admin {
	return &Admin{
		Students:    resource.NewClient[Student](api, "/admin/students"),
		Teachers:    resource.NewClient[Teacher](api, "/admin/teachers"),
		Courses:     resource.NewClient[Course](api, "/admin/courses"),
		Schedules:   resource.NewClient[Schedule](api, "/admin/schedules"),
		Enrollments: resource.NewClient[Enrollment](api, "/admin/enrollments"),
		api:         api,
	}
}

// Capability flags per admin list. Student, teacher and course rows support
// view, edit and delete; schedule and enrollment rows have no detail view,
// only status changes and removal.
var (
	FullCaps   = resource.Capabilities{View: true, Edit: true, Delete: true}
	RowOpsCaps = resource.Capabilities{Edit: true, Delete: true}
)

func (a *Admin) StudentList(q resource.Query) *resource.Controller[Student] {
	return resource.NewController(a.Students, FullCaps, q)
}

func (a *Admin) TeacherList(q resource.Query) *resource.Controller[Teacher] {
	return resource.NewController(a.Teachers, FullCaps, q)
}

func (a *Admin) CourseList(q resource.Query) *resource.Controller[Course] {
	return resource.NewController(a.Courses, FullCaps, q)
}

func (a *Admin) ScheduleList(q resource.Query) *resource.Controller[Schedule] {
	return resource.NewController(a.Schedules, RowOpsCaps, q)
}

func (a *Admin) EnrollmentList(q resource.Query) *resource.Controller[Enrollment] {
	return resource.NewController(a.Enrollments, RowOpsCaps, q)
}

// DashboardStats fetches the server-aggregated dashboard counts.
func (a *Admin) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var env envelope[*DashboardStats]
	if err := a.api.Get(ctx, "/admin/dashboard/stats", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// StudentAPI is the student-facing read surface.
type StudentAPI struct {
	api resource.API
}

func NewStudentAPI(api resource.API) *StudentAPI {
	return &StudentAPI{api: api}
}

func (s *StudentAPI) Profile(ctx context.Context) (*Student, error) {
	var env envelope[*Student]
	if err := s.api.Get(ctx, "/student/profile", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (s *StudentAPI) Courses(ctx context.Context) ([]Course, error) {
	var env envelope[[]Course]
	if err := s.api.Get(ctx, "/student/courses", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (s *StudentAPI) Grades(ctx context.Context) ([]Grade, error) {
	var env envelope[[]Grade]
	if err := s.api.Get(ctx, "/student/grades", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Schedule returns the student's timetable ordered by weekday and start
// time for display.
func (s *StudentAPI) Schedule(ctx context.Context) ([]Schedule, error) {
	var env envelope[[]Schedule]
	if err := s.api.Get(ctx, "/student/schedule", &env); err != nil {
		return nil, err
	}
	SortSchedules(env.Data)
	return env.Data, nil
}

func (s *StudentAPI) Progress(ctx context.Context) ([]Enrollment, error) {
	var env envelope[[]Enrollment]
	if err := s.api.Get(ctx, "/student/progress", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// TeacherAPI is the teacher-facing surface.
type TeacherAPI struct {
	api resource.API
}

func NewTeacherAPI(api resource.API) *TeacherAPI {
	return &TeacherAPI{api: api}
}

func (t *TeacherAPI) Courses(ctx context.Context) ([]Course, error) {
	var env envelope[[]Course]
	if err := t.api.Get(ctx, "/teacher/courses", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CourseStudents returns the enrolled roster of one of the teacher's courses,
// which is how a student is picked for grade entry.
func (t *TeacherAPI) CourseStudents(ctx context.Context, courseID string) ([]Student, error) {
	var env envelope[[]Student]
	if err := t.api.Get(ctx, "/teacher/courses/"+courseID+"/students", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Schedule returns the teacher's timetable ordered by weekday and start time.
func (t *TeacherAPI) Schedule(ctx context.Context) ([]Schedule, error) {
	var env envelope[[]Schedule]
	if err := t.api.Get(ctx, "/teacher/schedules", &env); err != nil {
		return nil, err
	}
	SortSchedules(env.Data)
	return env.Data, nil
}

func (t *TeacherAPI) Grades(ctx context.Context) ([]Grade, error) {
	var env envelope[[]Grade]
	if err := t.api.Get(ctx, "/teacher/grades", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GradeInput is the teacher grade-entry payload.
type GradeInput struct {
	StudentID      string `json:"studentId"`
	CourseID       string `json:"courseId"`
	AssessmentType string `json:"assessmentType"`
	AssessmentName string `json:"assessmentName"`
	MaxMarks       int    `json:"maxMarks"`
	ObtainedMarks  int    `json:"obtainedMarks"`
	Remarks        string `json:"remarks,omitempty"`
}

// SubmitGrade records or updates an assessment grade.
func (t *TeacherAPI) SubmitGrade(ctx context.Context, in GradeInput) (*Grade, error) {
	var env envelope[*Grade]
	if err := t.api.Put(ctx, "/teacher/grades", in, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
