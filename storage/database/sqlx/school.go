package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/school"
)

type (
	studentRow struct {
		ID        string    `db:"id"`
		UserID    string    `db:"user_id"`
		ClassName string    `db:"class_name"`
		CreatedAt null.Time `db:"created_at"`
		UpdatedAt null.Time `db:"updated_at"`
	}

	teacherRow struct {
		ID        string         `db:"id"`
		UserID    string         `db:"user_id"`
		Subjects  pq.StringArray `db:"subjects"`
		CreatedAt null.Time      `db:"created_at"`
		UpdatedAt null.Time      `db:"updated_at"`
	}

	lessonRow struct {
		ID        string      `db:"id"`
		Subject   string      `db:"subject"`
		Date      time.Time   `db:"date"`
		Topic     string      `db:"topic"`
		ClassName string      `db:"class_name"`
		TeacherID string      `db:"teacher_id"`
		CreatedAt null.Time   `db:"created_at"`
	}
)

func (r studentRow) toStudent() school.Student {
	return school.Student{
		ID:        r.ID,
		UserID:    r.UserID,
		ClassName: r.ClassName,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

func (r teacherRow) toTeacher() school.Teacher {
	return school.Teacher{
		ID:        r.ID,
		UserID:    r.UserID,
		Subjects:  r.Subjects,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

func (r lessonRow) toLesson() school.Lesson {
	return school.Lesson{
		ID:        r.ID,
		Subject:   r.Subject,
		Date:      r.Date,
		Topic:     r.Topic,
		ClassName: r.ClassName,
		TeacherID: r.TeacherID,
		CreatedAt: r.CreatedAt.Time,
	}
}

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo schoolRepository) trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return core.NewDataAccessError(msg, err)
}

// Students

func (repo schoolRepository) CreateStudent(ctx context.Context, std school.Student) (school.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO student (id, user_id, class_name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		std.ID, std.UserID, std.ClassName, std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		return school.Student{}, core.NewDataAccessError("inserting student", err)
	}
	return std, nil
}

func (repo schoolRepository) QueryAllStudents(ctx context.Context) ([]school.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY created_at`); err != nil {
		return nil, core.NewDataAccessError("querying students", err)
	}
	students := make([]school.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toStudent())
	}
	return students, nil
}

func (repo schoolRepository) QueryStudentsByClass(ctx context.Context, className string) ([]school.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM student WHERE class_name = $1 ORDER BY created_at`, className); err != nil {
		return nil, core.NewDataAccessError("querying students by class", err)
	}
	students := make([]school.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toStudent())
	}
	return students, nil
}

func (repo schoolRepository) GetStudentByID(ctx context.Context, id string) (school.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return school.Student{}, repo.trapNoRowsErr(err, school.ErrStudentNotFound, "finding student by ID")
	}
	return row.toStudent(), nil
}

func (repo schoolRepository) UpdateStudent(ctx context.Context, std school.Student) (school.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE student SET class_name = $2, updated_at = $3 WHERE id = $1 RETURNING *`,
		std.ID, std.ClassName, std.UpdatedAt,
	)
	if err != nil {
		return school.Student{}, repo.trapNoRowsErr(err, school.ErrStudentNotFound, "updating student")
	}
	return row.toStudent(), nil
}

func (repo schoolRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	return repo.deleteByID(ctx, "student", ids)
}

// Teachers

func (repo schoolRepository) CreateTeacher(ctx context.Context, tch school.Teacher) (school.Teacher, error) {
	tch.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO teacher (id, user_id, subjects, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		tch.ID, tch.UserID, pq.StringArray(tch.Subjects), tch.CreatedAt, tch.UpdatedAt,
	)
	if err != nil {
		return school.Teacher{}, core.NewDataAccessError("inserting teacher", err)
	}
	return tch, nil
}

func (repo schoolRepository) QueryAllTeachers(ctx context.Context) ([]school.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM teacher ORDER BY created_at`); err != nil {
		return nil, core.NewDataAccessError("querying teachers", err)
	}
	teachers := make([]school.Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.toTeacher())
	}
	return teachers, nil
}

func (repo schoolRepository) GetTeacherByID(ctx context.Context, id string) (school.Teacher, error) {
	var row teacherRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM teacher WHERE id = $1`, id); err != nil {
		return school.Teacher{}, repo.trapNoRowsErr(err, school.ErrTeacherNotFound, "finding teacher by ID")
	}
	return row.toTeacher(), nil
}

func (repo schoolRepository) UpdateTeacher(ctx context.Context, tch school.Teacher) (school.Teacher, error) {
	var row teacherRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE teacher SET subjects = $2, updated_at = $3 WHERE id = $1 RETURNING *`,
		tch.ID, pq.StringArray(tch.Subjects), tch.UpdatedAt,
	)
	if err != nil {
		return school.Teacher{}, repo.trapNoRowsErr(err, school.ErrTeacherNotFound, "updating teacher")
	}
	return row.toTeacher(), nil
}

func (repo schoolRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	return repo.deleteByID(ctx, "teacher", ids)
}

// Lessons

func (repo schoolRepository) CreateLesson(ctx context.Context, les school.Lesson) (school.Lesson, error) {
	les.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO lesson (id, subject, date, topic, class_name, teacher_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		les.ID, les.Subject, les.Date, les.Topic, les.ClassName, les.TeacherID, les.CreatedAt,
	)
	if err != nil {
		return school.Lesson{}, core.NewDataAccessError("inserting lesson", err)
	}
	return les, nil
}

func (repo schoolRepository) QueryAllLessons(ctx context.Context) ([]school.Lesson, error) {
	var rows []lessonRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM lesson ORDER BY date`); err != nil {
		return nil, core.NewDataAccessError("querying lessons", err)
	}
	lessons := make([]school.Lesson, 0, len(rows))
	for _, r := range rows {
		lessons = append(lessons, r.toLesson())
	}
	return lessons, nil
}

func (repo schoolRepository) GetLessonByID(ctx context.Context, id string) (school.Lesson, error) {
	var row lessonRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM lesson WHERE id = $1`, id); err != nil {
		return school.Lesson{}, repo.trapNoRowsErr(err, school.ErrLessonNotFound, "finding lesson by ID")
	}
	return row.toLesson(), nil
}

func (repo schoolRepository) UpdateLesson(ctx context.Context, les school.Lesson) (school.Lesson, error) {
	var row lessonRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE lesson SET subject = $2, date = $3, topic = $4, class_name = $5 WHERE id = $1 RETURNING *`,
		les.ID, les.Subject, les.Date, les.Topic, les.ClassName,
	)
	if err != nil {
		return school.Lesson{}, repo.trapNoRowsErr(err, school.ErrLessonNotFound, "updating lesson")
	}
	return row.toLesson(), nil
}

func (repo schoolRepository) DeleteLessonsByID(ctx context.Context, ids ...string) error {
	return repo.deleteByID(ctx, "lesson", ids)
}

func (repo schoolRepository) deleteByID(ctx context.Context, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM `+table+` WHERE id IN (?)`, ids)
	if err != nil {
		return core.NewDataAccessError("deleting "+table, err)
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return core.NewDataAccessError("deleting "+table, err)
	}
	return nil
}
