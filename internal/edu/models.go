// Package edu defines the education-platform domain types and the typed API
// surfaces built on top of the generic resource client.
package edu

import (
	"sort"
	"time"
)

// Role is the authenticated user's role on the platform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the three platform roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleStudent
}

// LandingPath returns the role's landing route after a successful login.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/Admin/dashboard"
	case RoleTeacher:
		return "/Teacher/dashboard"
	default:
		return "/Student/dashboard"
	}
}

// User is the authenticated identity returned by the auth endpoints.
// Immutable from the client's perspective except via re-login.
type User struct {
	ID        string         `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Role      Role           `json:"role"`
	Profile   map[string]any `json:"profile,omitempty"`
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserRef is the embedded user subdocument carried by student and teacher
// records (the backend populates it on list endpoints).
type UserRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (u UserRef) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Student statuses.
const (
	StudentActive    = "active"
	StudentInactive  = "inactive"
	StudentGraduated = "graduated"
	StudentSuspended = "suspended"
)

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

type Student struct {
	ID            string    `json:"_id"`
	User          UserRef   `json:"userId"`
	DateOfBirth   string    `json:"dateOfBirth,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	Address       *Address  `json:"address,omitempty"`
	ParentName    string    `json:"parentName,omitempty"`
	ParentContact string    `json:"parentContact,omitempty"`
	Class         string    `json:"class"`
	Section       string    `json:"section,omitempty"`
	RollNumber    string    `json:"rollNumber,omitempty"`
	AdmissionDate time.Time `json:"admissionDate"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Teacher statuses.
const (
	TeacherActive   = "active"
	TeacherInactive = "inactive"
	TeacherOnLeave  = "on-leave"
	TeacherResigned = "resigned"
)

type Teacher struct {
	ID               string    `json:"_id"`
	User             UserRef   `json:"userId"`
	EmployeeID       string    `json:"employeeId"`
	Qualification    string    `json:"qualification"`
	Specialization   string    `json:"specialization"`
	Experience       int       `json:"experience,omitempty"`
	ContactNumber    string    `json:"contactNumber"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	Address          *Address  `json:"address,omitempty"`
	JoiningDate      time.Time `json:"joiningDate"`
	Status           string    `json:"status"`
	Bio              string    `json:"bio,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Course statuses and levels.
const (
	CourseActive    = "active"
	CourseInactive  = "inactive"
	CourseUpcoming  = "upcoming"
	CourseCompleted = "completed"
)

type Course struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	TeacherID     string    `json:"teacherId,omitempty"`
	Credits       int       `json:"credits"`
	Duration      string    `json:"duration"`
	Department    string    `json:"department"`
	Level         string    `json:"level"`
	Prerequisites []string  `json:"prerequisites,omitempty"`
	MaxStudents   int       `json:"maxStudents"`
	Status        string    `json:"status"`
	EnrolledCount int       `json:"enrolledCount,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Schedule statuses.
const (
	ScheduleScheduled = "scheduled"
	ScheduleCancelled = "cancelled"
	ScheduleCompleted = "completed"
)

type Schedule struct {
	ID           string    `json:"_id"`
	CourseID     string    `json:"courseId"`
	CourseName   string    `json:"courseName,omitempty"`
	TeacherID    string    `json:"teacherId"`
	DayOfWeek    string    `json:"dayOfWeek"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Room         string    `json:"room"`
	Building     string    `json:"building,omitempty"`
	Semester     string    `json:"semester"`
	AcademicYear string    `json:"academicYear"`
	IsRecurring  bool      `json:"isRecurring"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Enrollment statuses.
const (
	EnrollmentEnrolled  = "enrolled"
	EnrollmentDropped   = "dropped"
	EnrollmentCompleted = "completed"
	EnrollmentPending   = "pending"
)

type Enrollment struct {
	ID             string     `json:"_id"`
	StudentID      string     `json:"studentId"`
	CourseID       string     `json:"courseId"`
	EnrollmentDate time.Time  `json:"enrollmentDate"`
	Status         string     `json:"status"`
	Progress       int        `json:"progress,omitempty"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	Grade          string     `json:"grade,omitempty"`
	MarksObtained  int        `json:"marksObtained,omitempty"`
	Remarks        string     `json:"remarks,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Grade assessment types.
const (
	AssessmentQuiz          = "quiz"
	AssessmentAssignment    = "assignment"
	AssessmentMidterm       = "midterm"
	AssessmentFinal         = "final"
	AssessmentProject       = "project"
	AssessmentParticipation = "participation"
)

type Grade struct {
	ID             string    `json:"_id"`
	StudentID      string    `json:"studentId"`
	CourseID       string    `json:"courseId"`
	TeacherID      string    `json:"teacherId"`
	AssessmentType string    `json:"assessmentType"`
	AssessmentName string    `json:"assessmentName"`
	MaxMarks       int       `json:"maxMarks"`
	ObtainedMarks  int       `json:"obtainedMarks"`
	Percentage     float64   `json:"percentage,omitempty"`
	Grade          string    `json:"grade,omitempty"`
	Remarks        string    `json:"remarks,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// dayOrder maps lowercase weekday names to their display position.
var dayOrder = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// SortSchedules orders schedule entries by weekday, then by start time within
// the same day. This is a display convenience only; server page order is
// otherwise left untouched.
func SortSchedules(entries []Schedule) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := dayOrder[entries[i].DayOfWeek], dayOrder[entries[j].DayOfWeek]
		if di != dj {
			return di < dj
		}
		return entries[i].StartTime < entries[j].StartTime
	})
}
