package mockapi

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acmello/campusctl/internal/edu"
)

// ---------------------------------------------------------------------------
// Admin dashboard
// ---------------------------------------------------------------------------

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	students := s.store.Students()
	teachers := s.store.Teachers()
	courses := s.store.Courses()
	enrollments := s.store.Enrollments()
	schedules := s.store.Schedules()

	var stats edu.DashboardStats
	stats.Overview.TotalStudents = len(students)
	stats.Overview.TotalTeachers = len(teachers)
	stats.Overview.TotalCourses = len(courses)
	stats.Overview.TotalEnrollments = len(enrollments)

	for _, c := range courses {
		if c.Status == edu.CourseActive {
			stats.Overview.ActiveCourses++
		}
	}

	var completed int
	perCourse := make(map[string]int)
	for _, en := range enrollments {
		switch en.Status {
		case edu.EnrollmentEnrolled:
			stats.Overview.ActiveEnrollments++
		case edu.EnrollmentCompleted:
			completed++
		}
		perCourse[en.CourseID]++
	}
	if len(enrollments) > 0 {
		stats.Overview.CompletionRate = float64(completed) / float64(len(enrollments)) * 100
	}
	if len(courses) > 0 {
		stats.Overview.AvgStudentsPerCourse = float64(len(enrollments)) / float64(len(courses))
	}

	today := strings.ToLower(time.Now().Weekday().String())
	classes := []edu.Schedule{}
	for _, sc := range schedules {
		if sc.DayOfWeek == today && sc.Status == edu.ScheduleScheduled {
			classes = append(classes, sc)
		}
	}
	edu.SortSchedules(classes)
	stats.TodayClasses.Count = len(classes)
	stats.TodayClasses.Classes = classes

	popular := []edu.PopularCourse{}
	for _, c := range courses {
		n := perCourse[c.ID]
		if n == 0 {
			continue
		}
		pc := edu.PopularCourse{CourseID: c.ID, Count: n}
		pc.Course.Name = c.Name
		pc.Course.Code = c.Code
		pc.Course.Department = c.Department
		popular = append(popular, pc)
	}
	sort.SliceStable(popular, func(i, j int) bool { return popular[i].Count > popular[j].Count })
	if len(popular) > 5 {
		popular = popular[:5]
	}
	stats.PopularCourses = popular

	writeData(w, http.StatusOK, stats)
}

// ---------------------------------------------------------------------------
// Student portal
// ---------------------------------------------------------------------------

// studentRecord resolves the student row belonging to the authenticated user.
func (s *Server) studentRecord(r *http.Request) (edu.Student, bool) {
	user := userFromContext(r.Context())
	for _, st := range s.store.Students() {
		if st.User.ID == user.ID {
			return st, true
		}
	}
	return edu.Student{}, false
}

// studentCourseIDs returns the ids of courses the student is or was enrolled
// in, excluding dropped ones.
func (s *Server) studentCourseIDs(studentID string) map[string]bool {
	ids := make(map[string]bool)
	for _, en := range s.store.Enrollments() {
		if en.StudentID == studentID && en.Status != edu.EnrollmentDropped {
			ids[en.CourseID] = true
		}
	}
	return ids
}

func (s *Server) handleStudentProfile(w http.ResponseWriter, r *http.Request) {
	st, ok := s.studentRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "student profile not found")
		return
	}
	writeData(w, http.StatusOK, st)
}

func (s *Server) handleStudentCourses(w http.ResponseWriter, r *http.Request) {
	st, ok := s.studentRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "student profile not found")
		return
	}
	ids := s.studentCourseIDs(st.ID)
	out := []edu.Course{}
	for _, c := range s.store.Courses() {
		if ids[c.ID] {
			out = append(out, c)
		}
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleStudentGrades(w http.ResponseWriter, r *http.Request) {
	st, ok := s.studentRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "student profile not found")
		return
	}
	out := []edu.Grade{}
	for _, g := range s.store.Grades() {
		if g.StudentID == st.ID {
			out = append(out, g)
		}
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleStudentSchedule(w http.ResponseWriter, r *http.Request) {
	st, ok := s.studentRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "student profile not found")
		return
	}
	ids := s.studentCourseIDs(st.ID)
	out := []edu.Schedule{}
	for _, sc := range s.store.Schedules() {
		if ids[sc.CourseID] && sc.Status == edu.ScheduleScheduled {
			out = append(out, sc)
		}
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleStudentProgress(w http.ResponseWriter, r *http.Request) {
	st, ok := s.studentRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "student profile not found")
		return
	}
	out := []edu.Enrollment{}
	for _, en := range s.store.Enrollments() {
		if en.StudentID == st.ID {
			out = append(out, en)
		}
	}
	writeData(w, http.StatusOK, out)
}

// ---------------------------------------------------------------------------
// Teacher portal
// ---------------------------------------------------------------------------

func (s *Server) teacherRecord(r *http.Request) (edu.Teacher, bool) {
	user := userFromContext(r.Context())
	for _, tc := range s.store.Teachers() {
		if tc.User.ID == user.ID {
			return tc, true
		}
	}
	return edu.Teacher{}, false
}

func (s *Server) handleTeacherCourses(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.teacherRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "teacher profile not found")
		return
	}
	out := []edu.Course{}
	for _, c := range s.store.Courses() {
		if c.TeacherID == tc.ID {
			out = append(out, c)
		}
	}
	writeData(w, http.StatusOK, out)
}

// handleTeacherCourseStudents returns the enrolled roster of one of the
// caller's own courses; other teachers' courses read as not found.
func (s *Server) handleTeacherCourseStudents(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.teacherRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "teacher profile not found")
		return
	}

	courseID := chi.URLParam(r, "courseId")
	owned := false
	for _, c := range s.store.Courses() {
		if c.ID == courseID && c.TeacherID == tc.ID {
			owned = true
			break
		}
	}
	if !owned {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	enrolled := make(map[string]bool)
	for _, en := range s.store.Enrollments() {
		if en.CourseID == courseID && en.Status != edu.EnrollmentDropped {
			enrolled[en.StudentID] = true
		}
	}
	out := []edu.Student{}
	for _, st := range s.store.Students() {
		if enrolled[st.ID] {
			out = append(out, st)
		}
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleTeacherSchedules(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.teacherRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "teacher profile not found")
		return
	}
	out := []edu.Schedule{}
	for _, sc := range s.store.Schedules() {
		if sc.TeacherID == tc.ID {
			out = append(out, sc)
		}
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleTeacherGrades(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.teacherRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "teacher profile not found")
		return
	}
	out := []edu.Grade{}
	for _, g := range s.store.Grades() {
		if g.TeacherID == tc.ID {
			out = append(out, g)
		}
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleTeacherSubmitGrade(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.teacherRecord(r)
	if !ok {
		writeError(w, http.StatusNotFound, "teacher profile not found")
		return
	}

	var in edu.GradeInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if in.StudentID == "" || in.CourseID == "" || in.AssessmentName == "" {
		writeError(w, http.StatusUnprocessableEntity, "studentId, courseId and assessmentName are required")
		return
	}
	if in.MaxMarks <= 0 || in.ObtainedMarks < 0 || in.ObtainedMarks > in.MaxMarks {
		writeError(w, http.StatusUnprocessableEntity, "marks out of range")
		return
	}

	g := s.store.UpsertGrade(edu.Grade{
		StudentID:      in.StudentID,
		CourseID:       in.CourseID,
		TeacherID:      tc.ID,
		AssessmentType: in.AssessmentType,
		AssessmentName: in.AssessmentName,
		MaxMarks:       in.MaxMarks,
		ObtainedMarks:  in.ObtainedMarks,
		Remarks:        in.Remarks,
		SubmittedAt:    time.Now().UTC(),
	})
	writeData(w, http.StatusOK, g)
}
