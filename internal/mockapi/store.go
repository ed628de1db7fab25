package mockapi

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/acmello/campusctl/internal/edu"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrNoSuchAccount  = errors.New("account not found")
)

// account pairs a platform user with its password hash.
type account struct {
	user edu.User
	hash []byte
}

// Store is the in-memory dataset behind the development server. All entity
// slices keep insertion order, which is the order list endpoints page over.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]*account // keyed by email
	usersByID   map[string]*account
	students    []edu.Student
	teachers    []edu.Teacher
	courses     []edu.Course
	schedules   []edu.Schedule
	enrollments []edu.Enrollment
	grades      []edu.Grade
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]*account),
		usersByID: make(map[string]*account),
	}
}

// CreateAccount registers a user with a bcrypt password hash.
func (s *Store) CreateAccount(firstName, lastName, email, password string, role edu.Role) (*edu.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	acct := &account{
		user: edu.User{
			ID:        uuid.NewString(),
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Role:      role,
		},
		hash: hash,
	}
	s.accounts[email] = acct
	s.usersByID[acct.user.ID] = acct

	u := acct.user
	return &u, nil
}

// Authenticate verifies the credentials and returns the user.
func (s *Store) Authenticate(email, password string) (*edu.User, error) {
	s.mu.RLock()
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	u := acct.user
	return &u, nil
}

// UserByID resolves an authenticated user for the identity endpoint.
func (s *Store) UserByID(id string) (*edu.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.usersByID[id]
	if !ok {
		return nil, ErrNoSuchAccount
	}
	u := acct.user
	return &u, nil
}

// ---------------------------------------------------------------------------
// Entity collections
// ---------------------------------------------------------------------------

func (s *Store) AddStudent(st edu.Student) edu.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	st.CreatedAt, st.UpdatedAt = now, now
	if st.Status == "" {
		st.Status = edu.StudentActive
	}
	s.students = append(s.students, st)
	return st
}

func (s *Store) Students() []edu.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]edu.Student(nil), s.students...)
}

func (s *Store) DeleteStudent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, st := range s.students {
		if st.ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) SetStudentStatus(id, status string) (*edu.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].ID == id {
			s.students[i].Status = status
			s.students[i].UpdatedAt = time.Now().UTC()
			st := s.students[i]
			return &st, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) AddTeacher(tc edu.Teacher) edu.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tc.ID == "" {
		tc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tc.CreatedAt, tc.UpdatedAt = now, now
	if tc.Status == "" {
		tc.Status = edu.TeacherActive
	}
	s.teachers = append(s.teachers, tc)
	return tc
}

func (s *Store) Teachers() []edu.Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]edu.Teacher(nil), s.teachers...)
}

func (s *Store) DeleteTeacher(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tc := range s.teachers {
		if tc.ID == id {
			s.teachers = append(s.teachers[:i], s.teachers[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) SetTeacherStatus(id, status string) (*edu.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.teachers {
		if s.teachers[i].ID == id {
			s.teachers[i].Status = status
			s.teachers[i].UpdatedAt = time.Now().UTC()
			tc := s.teachers[i]
			return &tc, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) AddCourse(c edu.Course) edu.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Status == "" {
		c.Status = edu.CourseActive
	}
	s.courses = append(s.courses, c)
	return c
}

func (s *Store) Courses() []edu.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]edu.Course(nil), s.courses...)
}

func (s *Store) DeleteCourse(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.courses {
		if c.ID == id {
			s.courses = append(s.courses[:i], s.courses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) SetCourseStatus(id, status string) (*edu.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.courses {
		if s.courses[i].ID == id {
			s.courses[i].Status = status
			s.courses[i].UpdatedAt = time.Now().UTC()
			c := s.courses[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) AddSchedule(sc edu.Schedule) edu.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sc.CreatedAt, sc.UpdatedAt = now, now
	if sc.Status == "" {
		sc.Status = edu.ScheduleScheduled
	}
	s.schedules = append(s.schedules, sc)
	return sc
}

func (s *Store) Schedules() []edu.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]edu.Schedule(nil), s.schedules...)
}

func (s *Store) DeleteSchedule(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sc := range s.schedules {
		if sc.ID == id {
			s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) SetScheduleStatus(id, status string) (*edu.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			s.schedules[i].Status = status
			s.schedules[i].UpdatedAt = time.Now().UTC()
			sc := s.schedules[i]
			return &sc, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) AddEnrollment(en edu.Enrollment) edu.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if en.ID == "" {
		en.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	en.CreatedAt, en.UpdatedAt = now, now
	if en.Status == "" {
		en.Status = edu.EnrollmentEnrolled
	}
	if en.EnrollmentDate.IsZero() {
		en.EnrollmentDate = now
	}
	s.enrollments = append(s.enrollments, en)
	return en
}

func (s *Store) Enrollments() []edu.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]edu.Enrollment(nil), s.enrollments...)
}

func (s *Store) DeleteEnrollment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, en := range s.enrollments {
		if en.ID == id {
			s.enrollments = append(s.enrollments[:i], s.enrollments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) SetEnrollmentStatus(id, status string) (*edu.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.enrollments {
		if s.enrollments[i].ID == id {
			s.enrollments[i].Status = status
			s.enrollments[i].UpdatedAt = time.Now().UTC()
			en := s.enrollments[i]
			return &en, nil
		}
	}
	return nil, ErrNotFound
}

// UpsertGrade replaces an existing grade for the same student, course and
// assessment name, or appends a new one.
func (s *Store) UpsertGrade(g edu.Grade) edu.Grade {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if g.MaxMarks > 0 {
		g.Percentage = float64(g.ObtainedMarks) / float64(g.MaxMarks) * 100
	}
	for i := range s.grades {
		if s.grades[i].StudentID == g.StudentID &&
			s.grades[i].CourseID == g.CourseID &&
			s.grades[i].AssessmentName == g.AssessmentName {
			g.ID = s.grades[i].ID
			g.CreatedAt = s.grades[i].CreatedAt
			g.UpdatedAt = now
			s.grades[i] = g
			return g
		}
	}

	g.ID = uuid.NewString()
	g.CreatedAt, g.UpdatedAt = now, now
	if g.SubmittedAt.IsZero() {
		g.SubmittedAt = now
	}
	s.grades = append(s.grades, g)
	return g
}

func (s *Store) Grades() []edu.Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]edu.Grade(nil), s.grades...)
}
