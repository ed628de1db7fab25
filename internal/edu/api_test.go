package edu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acmello/campusctl/internal/httpx"
	"github.com/acmello/campusctl/internal/resource"
)

func newTestAPI(t *testing.T, handler http.Handler) *httpx.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return httpx.NewClient(srv.URL, 5*time.Second)
}

func TestAdminCollectionPaths(t *testing.T) {
	admin := NewAdmin(newTestAPI(t, http.NotFoundHandler()))

	paths := map[string]string{
		admin.Students.Path():    "/admin/students",
		admin.Teachers.Path():    "/admin/teachers",
		admin.Courses.Path():     "/admin/courses",
		admin.Schedules.Path():   "/admin/schedules",
		admin.Enrollments.Path(): "/admin/enrollments",
	}
	for got, want := range paths {
		if got != want {
			t.Errorf("expected path %q, got %q", want, got)
		}
	}
}

func TestAdminListCapabilities(t *testing.T) {
	admin := NewAdmin(newTestAPI(t, http.NotFoundHandler()))
	q := resource.Query{}

	if caps := admin.StudentList(q).Capabilities(); !caps.View || !caps.Edit || !caps.Delete {
		t.Errorf("student list should have full capabilities, got %+v", caps)
	}
	if caps := admin.ScheduleList(q).Capabilities(); caps.View || !caps.Edit || !caps.Delete {
		t.Errorf("schedule list should have edit/delete only, got %+v", caps)
	}
	if caps := admin.EnrollmentList(q).Capabilities(); caps.View {
		t.Errorf("enrollment list should have no detail view, got %+v", caps)
	}
}

func TestDashboardStats(t *testing.T) {
	admin := NewAdmin(newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/dashboard/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"overview": map[string]any{
					"totalStudents": 120,
					"totalCourses":  8,
				},
				"todayClasses": map[string]any{
					"count": 2,
					"classes": []map[string]any{
						{"_id": "s1", "dayOfWeek": "monday", "startTime": "09:00"},
						{"_id": "s2", "dayOfWeek": "monday", "startTime": "11:00"},
					},
				},
			},
		})
	})))

	stats, err := admin.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.Overview.TotalStudents != 120 {
		t.Errorf("expected 120 students, got %d", stats.Overview.TotalStudents)
	}
	if stats.TodayClasses.Count != 2 || len(stats.TodayClasses.Classes) != 2 {
		t.Errorf("unexpected today classes %+v", stats.TodayClasses)
	}
}

func TestStudentScheduleSorted(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/student/schedule" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"_id": "b", "dayOfWeek": "monday", "startTime": "14:00"},
				{"_id": "a", "dayOfWeek": "monday", "startTime": "08:00"},
			},
		})
	}))

	entries, err := NewStudentAPI(api).Schedule(context.Background())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "a" {
		t.Errorf("expected same-day entries sorted by start time, got %+v", entries)
	}
}

func TestTeacherCourseStudents(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teacher/courses/c1/students" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"_id": "st1", "class": "10A"},
				{"_id": "st2", "class": "10B"},
			},
		})
	}))

	roster, err := NewTeacherAPI(api).CourseStudents(context.Background(), "c1")
	if err != nil {
		t.Fatalf("CourseStudents: %v", err)
	}
	if len(roster) != 2 || roster[0].ID != "st1" {
		t.Errorf("unexpected roster %+v", roster)
	}
}

func TestTeacherSubmitGrade(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/teacher/grades" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in GradeInput
		json.NewDecoder(r.Body).Decode(&in)
		if in.AssessmentType != AssessmentQuiz || in.ObtainedMarks != 18 {
			t.Errorf("unexpected payload %+v", in)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "g1", "obtainedMarks": 18, "maxMarks": 20},
		})
	}))

	grade, err := NewTeacherAPI(api).SubmitGrade(context.Background(), GradeInput{
		StudentID:      "st1",
		CourseID:       "c1",
		AssessmentType: AssessmentQuiz,
		AssessmentName: "Quiz 1",
		MaxMarks:       20,
		ObtainedMarks:  18,
	})
	if err != nil {
		t.Fatalf("SubmitGrade: %v", err)
	}
	if grade.ID != "g1" {
		t.Errorf("expected decoded grade, got %+v", grade)
	}
}
