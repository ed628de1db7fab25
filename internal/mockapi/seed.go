package mockapi

import (
	"fmt"
	"time"

	"github.com/acmello/campusctl/internal/edu"
)

// Default dev-server credentials.
const (
	SeedAdminEmail      = "admin@campus.dev"
	SeedAdminPassword   = "admin123"
	SeedTeacherEmail    = "ana.ribeiro@campus.dev"
	SeedTeacherPassword = "teach123"
	SeedStudentEmail    = "student01@campus.dev"
	SeedStudentPassword = "learn123"
)

// Seed loads a deterministic fixture data set: one admin, three teachers,
// twenty-five students, five courses with schedules, enrollments and a few
// grades. Intended for the dev server and integration tests.
func Seed(store *Store) error {
	if _, err := store.CreateAccount("Alice", "Mendes", SeedAdminEmail, SeedAdminPassword, edu.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	teacherSpecs := []struct {
		first, last, email, password, specialization string
	}{
		{"Ana", "Ribeiro", SeedTeacherEmail, SeedTeacherPassword, "Mathematics"},
		{"Bruno", "Costa", "bruno.costa@campus.dev", "teach123", "Physics"},
		{"Carla", "Duarte", "carla.duarte@campus.dev", "teach123", "Computer Science"},
	}
	teachers := make([]edu.Teacher, 0, len(teacherSpecs))
	for i, ts := range teacherSpecs {
		u, err := store.CreateAccount(ts.first, ts.last, ts.email, ts.password, edu.RoleTeacher)
		if err != nil {
			return fmt.Errorf("seed teacher %s: %w", ts.email, err)
		}
		tc := store.AddTeacher(edu.Teacher{
			User:           edu.UserRef{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email},
			EmployeeID:     fmt.Sprintf("EMP-%03d", i+1),
			Qualification:  "MSc",
			Specialization: ts.specialization,
			ContactNumber:  fmt.Sprintf("555-01%02d", i+1),
			JoiningDate:    time.Date(2020, time.August, 1, 0, 0, 0, 0, time.UTC),
		})
		teachers = append(teachers, tc)
	}

	firstNames := []string{
		"Joao", "Maria", "Pedro", "Sofia", "Lucas",
		"Ines", "Tiago", "Beatriz", "Miguel", "Clara",
		"Rafael", "Laura", "Diogo", "Marta", "Andre",
		"Helena", "Gustavo", "Rita", "Vasco", "Leonor",
		"Duarte", "Catarina", "Simao", "Matilde", "Tomas",
	}
	students := make([]edu.Student, 0, len(firstNames))
	for i, name := range firstNames {
		email := SeedStudentEmail
		if i > 0 {
			email = fmt.Sprintf("student%02d@campus.dev", i+1)
		}
		u, err := store.CreateAccount(name, "Silva", email, SeedStudentPassword, edu.RoleStudent)
		if err != nil {
			return fmt.Errorf("seed student %s: %w", email, err)
		}
		class := "10A"
		if i%2 == 1 {
			class = "10B"
		}
		st := store.AddStudent(edu.Student{
			User:          edu.UserRef{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email},
			Class:         class,
			Section:       string(rune('A' + i%2)),
			RollNumber:    fmt.Sprintf("R-%03d", i+1),
			AdmissionDate: time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC),
		})
		students = append(students, st)
	}

	courseSpecs := []struct {
		name, code, department, level string
		teacher                       int
	}{
		{"Calculus I", "MATH101", "Mathematics", "beginner", 0},
		{"Linear Algebra", "MATH201", "Mathematics", "intermediate", 0},
		{"Classical Mechanics", "PHYS110", "Physics", "beginner", 1},
		{"Algorithms", "CS210", "Computer Science", "intermediate", 2},
		{"Databases", "CS230", "Computer Science", "intermediate", 2},
	}
	courses := make([]edu.Course, 0, len(courseSpecs))
	for _, cs := range courseSpecs {
		c := store.AddCourse(edu.Course{
			Name:        cs.name,
			Code:        cs.code,
			Description: cs.name + " for undergraduates",
			TeacherID:   teachers[cs.teacher].ID,
			Credits:     6,
			Duration:    "1 semester",
			Department:  cs.department,
			Level:       cs.level,
			MaxStudents: 40,
		})
		courses = append(courses, c)
	}

	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	for i, c := range courses {
		store.AddSchedule(edu.Schedule{
			CourseID:     c.ID,
			CourseName:   c.Name,
			TeacherID:    c.TeacherID,
			DayOfWeek:    days[i%len(days)],
			StartTime:    fmt.Sprintf("%02d:00", 9+i),
			EndTime:      fmt.Sprintf("%02d:30", 10+i),
			Room:         fmt.Sprintf("%d0%d", i+1, i+2),
			Building:     "Main",
			Semester:     "Fall",
			AcademicYear: "2026/2027",
			IsRecurring:  true,
		})
	}

	for i, st := range students {
		c := courses[i%len(courses)]
		en := edu.Enrollment{StudentID: st.ID, CourseID: c.ID, Progress: (i * 7) % 100}
		if i%5 == 4 {
			en.Status = edu.EnrollmentCompleted
			en.Progress = 100
		}
		store.AddEnrollment(en)
		if i%3 == 0 {
			store.AddEnrollment(edu.Enrollment{StudentID: st.ID, CourseID: courses[(i+1)%len(courses)].ID})
		}
	}

	for i := 0; i < 5; i++ {
		st := students[i]
		c := courses[i%len(courses)]
		store.UpsertGrade(edu.Grade{
			StudentID:      st.ID,
			CourseID:       c.ID,
			TeacherID:      c.TeacherID,
			AssessmentType: edu.AssessmentQuiz,
			AssessmentName: "Quiz 1",
			MaxMarks:       20,
			ObtainedMarks:  12 + i,
			SubmittedAt:    time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		})
	}

	return nil
}
