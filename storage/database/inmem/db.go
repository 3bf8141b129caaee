package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/edusight/backend/core/record"
	"github.com/edusight/backend/core/school"
	"github.com/edusight/backend/core/user"
)

// DB is a mutex-guarded map store shared by the in-memory repositories.
// Used in tests and local dev; not meant for production.
type DB struct {
	mutex sync.RWMutex

	users       map[string]*user.User
	students    map[string]*school.Student
	teachers    map[string]*school.Teacher
	lessons     map[string]*school.Lesson
	grades      map[string]*record.Grade
	attendance  map[string]*record.Attendance
	homework    map[string]*record.Homework
	submissions map[string]*record.Submission
}

func NewDB() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		students:    make(map[string]*school.Student),
		teachers:    make(map[string]*school.Teacher),
		lessons:     make(map[string]*school.Lesson),
		grades:      make(map[string]*record.Grade),
		attendance:  make(map[string]*record.Attendance),
		homework:    make(map[string]*record.Homework),
		submissions: make(map[string]*record.Submission),
	}
}

func newPK() string {
	return uuid.New().String()
}
