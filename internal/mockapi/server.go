// Package mockapi is an in-memory implementation of the platform's HTTP
// contract. It backs the client test suites and the `campusctl devserver`
// command; the real backend remains an external service.
package mockapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/acmello/campusctl/internal/edu"
	"github.com/acmello/campusctl/internal/metrics"
	"github.com/acmello/campusctl/internal/ratelimit"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// authAttemptsPerMinute bounds login and register attempts per account email.
const authAttemptsPerMinute = 10

// Server implements the platform API over an in-memory store.
type Server struct {
	store     *Store
	metrics   *metrics.Metrics
	limiter   *ratelimit.Limiter
	jwtSecret string
	tokenTTL  time.Duration
}

// NewServer creates a dev server over the given store.
func NewServer(store *Store, m *metrics.Metrics, jwtSecret string, tokenTTL time.Duration) *Server {
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		store:     store,
		metrics:   m,
		limiter:   ratelimit.New(authAttemptsPerMinute, time.Minute),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Router builds the chi router with all platform routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(slogRequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/metrics", s.metrics.PrometheusHandler().ServeHTTP)
	r.Get("/metrics/summary", s.metrics.Handler())

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)
	r.Group(func(gr chi.Router) {
		gr.Use(s.authMiddleware())
		gr.Get("/auth/me", s.handleMe)
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(s.authMiddleware(edu.RoleAdmin))

		ar.Get("/dashboard/stats", s.handleDashboardStats)

		ar.Get("/students", s.handleListStudents)
		ar.Post("/students", s.handleCreateStudent)
		ar.Get("/students/{id}", s.handleGetStudent)
		ar.Put("/students/{id}", s.handleUpdateStudent)
		ar.Delete("/students/{id}", s.handleDeleteStudent)

		ar.Get("/teachers", s.handleListTeachers)
		ar.Post("/teachers", s.handleCreateTeacher)
		ar.Get("/teachers/{id}", s.handleGetTeacher)
		ar.Put("/teachers/{id}", s.handleUpdateTeacher)
		ar.Delete("/teachers/{id}", s.handleDeleteTeacher)

		ar.Get("/courses", s.handleListCourses)
		ar.Post("/courses", s.handleCreateCourse)
		ar.Get("/courses/{id}", s.handleGetCourse)
		ar.Put("/courses/{id}", s.handleUpdateCourse)
		ar.Delete("/courses/{id}", s.handleDeleteCourse)

		ar.Get("/schedules", s.handleListSchedules)
		ar.Post("/schedules", s.handleCreateSchedule)
		ar.Put("/schedules/{id}", s.handleUpdateSchedule)
		ar.Delete("/schedules/{id}", s.handleDeleteSchedule)

		ar.Get("/enrollments", s.handleListEnrollments)
		ar.Post("/enrollments", s.handleCreateEnrollment)
		ar.Put("/enrollments/{id}", s.handleUpdateEnrollment)
		ar.Delete("/enrollments/{id}", s.handleDeleteEnrollment)
	})

	r.Route("/student", func(sr chi.Router) {
		sr.Use(s.authMiddleware(edu.RoleStudent))
		sr.Get("/profile", s.handleStudentProfile)
		sr.Get("/courses", s.handleStudentCourses)
		sr.Get("/grades", s.handleStudentGrades)
		sr.Get("/schedule", s.handleStudentSchedule)
		sr.Get("/progress", s.handleStudentProgress)
	})

	r.Route("/teacher", func(tr chi.Router) {
		tr.Use(s.authMiddleware(edu.RoleTeacher))
		tr.Get("/courses", s.handleTeacherCourses)
		tr.Get("/courses/{courseId}/students", s.handleTeacherCourseStudents)
		tr.Get("/schedules", s.handleTeacherSchedules)
		tr.Get("/grades", s.handleTeacherGrades)
		tr.Put("/grades", s.handleTeacherSubmitGrade)
	})

	return r
}

func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]any{"success": false, "msg": msg})
}

func writeData(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{"success": true, "data": data})
}

func readJSON(r *http.Request, v any) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}

// listParams are the pagination/search/filter parameters of a list request.
type listParams struct {
	page   int
	limit  int
	search string
	values url.Values
}

func parseListParams(r *http.Request) listParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	return listParams{
		page:   page,
		limit:  limit,
		search: strings.ToLower(strings.TrimSpace(q.Get("search"))),
		values: q,
	}
}

// writePage slices items into the requested page and writes the standard
// list envelope.
func writePage[T any](w http.ResponseWriter, items []T, p listParams) {
	total := len(items)
	pages := (total + p.limit - 1) / p.limit
	if pages < 1 {
		pages = 1
	}

	start := (p.page - 1) * p.limit
	end := min(start+p.limit, total)
	var data []T
	if start < total {
		data = items[start:end]
	} else {
		data = []T{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(data),
		"total":   total,
		"page":    p.page,
		"pages":   pages,
		"data":    data,
	})
}

func filtered[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}

// matchesSearch reports whether any field contains the (lowercased) needle.
func matchesSearch(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// matchesFilter reports whether the query either omits the field or matches
// the value exactly.
func matchesFilter(values url.Values, field, value string) bool {
	want := values.Get(field)
	return want == "" || want == value
}

type statusUpdate struct {
	Status string `json:"status"`
}

func (s *Server) decodeStatus(w http.ResponseWriter, r *http.Request) (string, bool) {
	var upd statusUpdate
	if err := readJSON(r, &upd); err != nil || upd.Status == "" {
		writeError(w, http.StatusUnprocessableEntity, "status is required")
		return "", false
	}
	return upd.Status, true
}

// ---------------------------------------------------------------------------
// Auth handlers
// ---------------------------------------------------------------------------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "email and password are required")
		return
	}
	if !s.limiter.Allow("login:"+req.Email, 0) {
		s.metrics.IncAuthFailure("login", "rate_limited")
		writeError(w, http.StatusTooManyRequests, "Too many attempts, try again later")
		return
	}

	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		s.metrics.IncAuthFailure("login", "bad_credentials")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if req.Role != "" && string(user.Role) != req.Role {
		s.metrics.IncAuthFailure("login", "role_mismatch")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := newAccessToken(s.jwtSecret, s.tokenTTL, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.metrics.IncAuthSuccess("login")
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`

	Class         string `json:"class"`
	ContactNumber string `json:"contactNumber"`
	ParentName    string `json:"parentName"`
	ParentContact string `json:"parentContact"`

	EmployeeID     string `json:"employeeId"`
	Qualification  string `json:"qualification"`
	Specialization string `json:"specialization"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "firstName, lastName, email and password are required")
		return
	}
	role := edu.Role(req.Role)
	if !role.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "role must be admin, teacher or student")
		return
	}
	if !s.limiter.Allow("register:"+req.Email, 0) {
		s.metrics.IncAuthFailure("register", "rate_limited")
		writeError(w, http.StatusTooManyRequests, "Too many attempts, try again later")
		return
	}

	user, err := s.store.CreateAccount(req.FirstName, req.LastName, req.Email, req.Password, role)
	if err != nil {
		if err == ErrDuplicateEmail {
			s.metrics.IncAuthFailure("register", "duplicate_email")
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	ref := edu.UserRef{ID: user.ID, FirstName: user.FirstName, LastName: user.LastName, Email: user.Email}
	switch role {
	case edu.RoleStudent:
		s.store.AddStudent(edu.Student{
			User:          ref,
			Class:         req.Class,
			ContactNumber: req.ContactNumber,
			ParentName:    req.ParentName,
			ParentContact: req.ParentContact,
			AdmissionDate: time.Now().UTC(),
		})
	case edu.RoleTeacher:
		s.store.AddTeacher(edu.Teacher{
			User:           ref,
			EmployeeID:     req.EmployeeID,
			Qualification:  req.Qualification,
			Specialization: req.Specialization,
			ContactNumber:  req.ContactNumber,
			JoiningDate:    time.Now().UTC(),
		})
	}

	token, err := newAccessToken(s.jwtSecret, s.tokenTTL, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.metrics.IncAuthSuccess("register")
	writeJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": userFromContext(r.Context())})
}

// ---------------------------------------------------------------------------
// Admin: students
// ---------------------------------------------------------------------------

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	items := filtered(s.store.Students(), func(st edu.Student) bool {
		return matchesSearch(p.search, st.User.FirstName, st.User.LastName, st.User.Email, st.RollNumber) &&
			matchesFilter(p.values, "class", st.Class) &&
			matchesFilter(p.values, "section", st.Section) &&
			matchesFilter(p.values, "status", st.Status)
	})
	writePage(w, items, p)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var st edu.Student
	if err := readJSON(r, &st); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if st.Class == "" {
		writeError(w, http.StatusUnprocessableEntity, "class is required")
		return
	}
	writeData(w, http.StatusCreated, s.store.AddStudent(st))
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, st := range s.store.Students() {
		if st.ID == id {
			writeData(w, http.StatusOK, st)
			return
		}
	}
	writeError(w, http.StatusNotFound, "student not found")
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	status, ok := s.decodeStatus(w, r)
	if !ok {
		return
	}
	st, err := s.store.SetStudentStatus(chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}
	writeData(w, http.StatusOK, st)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteStudent(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "msg": "student deleted"})
}

// ---------------------------------------------------------------------------
// Admin: teachers
// ---------------------------------------------------------------------------

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	items := filtered(s.store.Teachers(), func(tc edu.Teacher) bool {
		return matchesSearch(p.search, tc.User.FirstName, tc.User.LastName, tc.User.Email, tc.EmployeeID) &&
			matchesFilter(p.values, "specialization", tc.Specialization) &&
			matchesFilter(p.values, "status", tc.Status)
	})
	writePage(w, items, p)
}

func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	var tc edu.Teacher
	if err := readJSON(r, &tc); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if tc.EmployeeID == "" {
		writeError(w, http.StatusUnprocessableEntity, "employeeId is required")
		return
	}
	writeData(w, http.StatusCreated, s.store.AddTeacher(tc))
}

func (s *Server) handleGetTeacher(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, tc := range s.store.Teachers() {
		if tc.ID == id {
			writeData(w, http.StatusOK, tc)
			return
		}
	}
	writeError(w, http.StatusNotFound, "teacher not found")
}

func (s *Server) handleUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	status, ok := s.decodeStatus(w, r)
	if !ok {
		return
	}
	tc, err := s.store.SetTeacherStatus(chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, http.StatusNotFound, "teacher not found")
		return
	}
	writeData(w, http.StatusOK, tc)
}

func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTeacher(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "teacher not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "msg": "teacher deleted"})
}

// ---------------------------------------------------------------------------
// Admin: courses
// ---------------------------------------------------------------------------

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	items := filtered(s.store.Courses(), func(c edu.Course) bool {
		return matchesSearch(p.search, c.Name, c.Code, c.Description) &&
			matchesFilter(p.values, "department", c.Department) &&
			matchesFilter(p.values, "level", c.Level) &&
			matchesFilter(p.values, "status", c.Status)
	})
	writePage(w, items, p)
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var c edu.Course
	if err := readJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if c.Name == "" || c.Code == "" {
		writeError(w, http.StatusUnprocessableEntity, "name and code are required")
		return
	}
	writeData(w, http.StatusCreated, s.store.AddCourse(c))
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, c := range s.store.Courses() {
		if c.ID == id {
			writeData(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "course not found")
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	status, ok := s.decodeStatus(w, r)
	if !ok {
		return
	}
	c, err := s.store.SetCourseStatus(chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCourse(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "msg": "course deleted"})
}

// ---------------------------------------------------------------------------
// Admin: schedules
// ---------------------------------------------------------------------------

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	items := filtered(s.store.Schedules(), func(sc edu.Schedule) bool {
		return matchesSearch(p.search, sc.CourseName, sc.Room, sc.Building) &&
			matchesFilter(p.values, "dayOfWeek", sc.DayOfWeek) &&
			matchesFilter(p.values, "teacherId", sc.TeacherID) &&
			matchesFilter(p.values, "courseId", sc.CourseID) &&
			matchesFilter(p.values, "status", sc.Status)
	})
	writePage(w, items, p)
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var sc edu.Schedule
	if err := readJSON(r, &sc); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if sc.CourseID == "" || sc.DayOfWeek == "" || sc.StartTime == "" {
		writeError(w, http.StatusUnprocessableEntity, "courseId, dayOfWeek and startTime are required")
		return
	}
	writeData(w, http.StatusCreated, s.store.AddSchedule(sc))
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	status, ok := s.decodeStatus(w, r)
	if !ok {
		return
	}
	sc, err := s.store.SetScheduleStatus(chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}
	writeData(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSchedule(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "msg": "schedule deleted"})
}

// ---------------------------------------------------------------------------
// Admin: enrollments
// ---------------------------------------------------------------------------

func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	items := filtered(s.store.Enrollments(), func(en edu.Enrollment) bool {
		return matchesFilter(p.values, "status", en.Status) &&
			matchesFilter(p.values, "courseId", en.CourseID) &&
			matchesFilter(p.values, "studentId", en.StudentID)
	})
	writePage(w, items, p)
}

func (s *Server) handleCreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var en edu.Enrollment
	if err := readJSON(r, &en); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if en.StudentID == "" || en.CourseID == "" {
		writeError(w, http.StatusUnprocessableEntity, "studentId and courseId are required")
		return
	}
	writeData(w, http.StatusCreated, s.store.AddEnrollment(en))
}

func (s *Server) handleUpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	status, ok := s.decodeStatus(w, r)
	if !ok {
		return
	}
	en, err := s.store.SetEnrollmentStatus(chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, http.StatusNotFound, "enrollment not found")
		return
	}
	writeData(w, http.StatusOK, en)
}

func (s *Server) handleDeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEnrollment(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "enrollment not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "msg": "enrollment deleted"})
}
