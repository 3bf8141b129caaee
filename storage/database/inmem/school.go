package inmemdb

import (
	"context"
	"sort"

	"github.com/edusight/backend/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

// Students

func (repo *schoolRepository) queryStudents() []school.Student {
	students := make([]school.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].CreatedAt.Before(students[j].CreatedAt) })
	return students
}

func (repo *schoolRepository) CreateStudent(ctx context.Context, std school.Student) (school.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std.ID = newPK()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *schoolRepository) QueryAllStudents(ctx context.Context) ([]school.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryStudents(), nil
}

func (repo *schoolRepository) QueryStudentsByClass(ctx context.Context, className string) ([]school.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var students []school.Student
	for _, std := range repo.queryStudents() {
		if std.ClassName == className {
			students = append(students, std)
		}
	}
	return students, nil
}

func (repo *schoolRepository) GetStudentByID(ctx context.Context, id string) (school.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) UpdateStudent(ctx context.Context, std school.Student) (school.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.students[std.ID]
	if !ok {
		return school.Student{}, school.ErrStudentNotFound
	}

	std.UserID = orig.UserID
	std.CreatedAt = orig.CreatedAt
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *schoolRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.students, id)
	}
	return nil
}

// Teachers

func (repo *schoolRepository) queryTeachers() []school.Teacher {
	teachers := make([]school.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		teachers = append(teachers, *t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].CreatedAt.Before(teachers[j].CreatedAt) })
	return teachers
}

func (repo *schoolRepository) CreateTeacher(ctx context.Context, tch school.Teacher) (school.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tch.ID = newPK()
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *schoolRepository) QueryAllTeachers(ctx context.Context) ([]school.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryTeachers(), nil
}

func (repo *schoolRepository) GetTeacherByID(ctx context.Context, id string) (school.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return school.Teacher{}, school.ErrTeacherNotFound
}

func (repo *schoolRepository) UpdateTeacher(ctx context.Context, tch school.Teacher) (school.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.teachers[tch.ID]
	if !ok {
		return school.Teacher{}, school.ErrTeacherNotFound
	}

	tch.UserID = orig.UserID
	tch.CreatedAt = orig.CreatedAt
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *schoolRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.teachers, id)
	}
	return nil
}

// Lessons

func (repo *schoolRepository) queryLessons() []school.Lesson {
	lessons := make([]school.Lesson, 0, len(repo.db.lessons))
	for _, l := range repo.db.lessons {
		lessons = append(lessons, *l)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Date.Before(lessons[j].Date) })
	return lessons
}

func (repo *schoolRepository) CreateLesson(ctx context.Context, les school.Lesson) (school.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	les.ID = newPK()
	repo.db.lessons[les.ID] = &les
	return les, nil
}

func (repo *schoolRepository) QueryAllLessons(ctx context.Context) ([]school.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryLessons(), nil
}

func (repo *schoolRepository) GetLessonByID(ctx context.Context, id string) (school.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if les, ok := repo.db.lessons[id]; ok {
		return *les, nil
	}
	return school.Lesson{}, school.ErrLessonNotFound
}

func (repo *schoolRepository) UpdateLesson(ctx context.Context, les school.Lesson) (school.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.lessons[les.ID]
	if !ok {
		return school.Lesson{}, school.ErrLessonNotFound
	}

	les.TeacherID = orig.TeacherID
	les.CreatedAt = orig.CreatedAt
	repo.db.lessons[les.ID] = &les
	return les, nil
}

func (repo *schoolRepository) DeleteLessonsByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.lessons, id)
	}
	return nil
}
