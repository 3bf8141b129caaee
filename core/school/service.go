package school

import (
	"context"
	"errors"
	"time"

	"github.com/edusight/backend/core"
)

var (
	// errors
	ErrStudentNotFound = errors.New("student not found")
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrLessonNotFound  = errors.New("lesson not found")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		QueryStudentsByClass(ctx context.Context, className string) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error

		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...string) error

		CreateLesson(ctx context.Context, les Lesson) (Lesson, error)
		QueryAllLessons(ctx context.Context) ([]Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		UpdateLesson(ctx context.Context, les Lesson) (Lesson, error)
		DeleteLessonsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	return svc.repo.CreateStudent(ctx, Student{
		UserID:    ns.UserID,
		ClassName: ns.ClassName,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryStudents(ctx context.Context, className string) ([]Student, error) {
	if className = core.CleanString(className); className != "" {
		return svc.repo.QueryStudentsByClass(ctx, className)
	}
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	return svc.repo.UpdateStudent(ctx, Student{
		ID:        id,
		ClassName: us.ClassName,
		UpdatedAt: time.Now().UTC(),
	})
}

func (svc *Service) DeleteStudents(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

// Teachers

func (svc *Service) CreateTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTeacher(ctx, Teacher{
		UserID:    nt.UserID,
		Subjects:  nt.Subjects,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAllTeachers(ctx)
}

func (svc *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) UpdateTeacher(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	return svc.repo.UpdateTeacher(ctx, Teacher{
		ID:        id,
		Subjects:  ut.Subjects,
		UpdatedAt: time.Now().UTC(),
	})
}

func (svc *Service) DeleteTeachers(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTeachersByID(ctx, ids...)
}

// Lessons

func (svc *Service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	return svc.repo.CreateLesson(ctx, Lesson{
		Subject:   nl.Subject,
		Date:      nl.Date.UTC(),
		Topic:     nl.Topic,
		ClassName: nl.ClassName,
		TeacherID: nl.TeacherID,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) QueryLessons(ctx context.Context) ([]Lesson, error) {
	return svc.repo.QueryAllLessons(ctx)
}

func (svc *Service) GetLesson(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *Service) UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	return svc.repo.UpdateLesson(ctx, Lesson{
		ID:        id,
		Subject:   ul.Subject,
		Date:      ul.Date.UTC(),
		Topic:     ul.Topic,
		ClassName: ul.ClassName,
	})
}

func (svc *Service) DeleteLessons(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteLessonsByID(ctx, ids...)
}
