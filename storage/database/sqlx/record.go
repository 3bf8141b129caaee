package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/record"
)

type (
	gradeRow struct {
		ID          string      `db:"id"`
		StudentID   string      `db:"student_id"`
		TeacherID   string      `db:"teacher_id"`
		Subject     string      `db:"subject"`
		Score       float64     `db:"score"`
		Date        time.Time   `db:"date"`
		LessonTopic null.String `db:"lesson_topic"`
		CreatedAt   null.Time   `db:"created_at"`
	}

	attendanceRow struct {
		ID        string    `db:"id"`
		StudentID string    `db:"student_id"`
		LessonID  string    `db:"lesson_id"`
		Present   bool      `db:"present"`
		Date      time.Time `db:"date"`
		CreatedAt null.Time `db:"created_at"`
	}

	homeworkRow struct {
		ID          string      `db:"id"`
		Title       string      `db:"title"`
		Description null.String `db:"description"`
		DueDate     time.Time   `db:"due_date"`
		LessonID    string      `db:"lesson_id"`
		TeacherID   string      `db:"teacher_id"`
		CreatedAt   null.Time   `db:"created_at"`
	}

	submissionRow struct {
		ID          string       `db:"id"`
		HomeworkID  string       `db:"homework_id"`
		StudentID   string       `db:"student_id"`
		SubmittedAt time.Time    `db:"submitted_at"`
		Content     null.String  `db:"content"`
		Grade       null.Float64 `db:"grade"`
		Feedback    null.String  `db:"feedback"`
		IsCompleted bool         `db:"is_completed"`
	}
)

func (r gradeRow) toGrade() record.Grade {
	return record.Grade{
		ID:          r.ID,
		StudentID:   r.StudentID,
		TeacherID:   r.TeacherID,
		Subject:     r.Subject,
		Score:       r.Score,
		Date:        r.Date,
		LessonTopic: r.LessonTopic.String,
		CreatedAt:   r.CreatedAt.Time,
	}
}

func (r attendanceRow) toAttendance() record.Attendance {
	return record.Attendance{
		ID:        r.ID,
		StudentID: r.StudentID,
		LessonID:  r.LessonID,
		Present:   r.Present,
		Date:      r.Date,
		CreatedAt: r.CreatedAt.Time,
	}
}

func (r homeworkRow) toHomework() record.Homework {
	return record.Homework{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.String,
		DueDate:     r.DueDate,
		LessonID:    r.LessonID,
		TeacherID:   r.TeacherID,
		CreatedAt:   r.CreatedAt.Time,
	}
}

func (r submissionRow) toSubmission() record.Submission {
	return record.Submission{
		ID:          r.ID,
		HomeworkID:  r.HomeworkID,
		StudentID:   r.StudentID,
		SubmittedAt: r.SubmittedAt,
		Content:     r.Content.String,
		Grade:       r.Grade.Ptr(),
		Feedback:    r.Feedback.String,
		IsCompleted: r.IsCompleted,
	}
}

type recordRepository struct {
	db *sqlx.DB
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *sqlx.DB) *recordRepository {
	return &recordRepository{db: db}
}

func (repo recordRepository) trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return core.NewDataAccessError(msg, err)
}

// Grades

func (repo recordRepository) CreateGrade(ctx context.Context, grd record.Grade) (record.Grade, error) {
	grd.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO grade (id, student_id, teacher_id, subject, score, date, lesson_topic, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		grd.ID, grd.StudentID, grd.TeacherID, grd.Subject, grd.Score, grd.Date,
		null.NewString(grd.LessonTopic, grd.LessonTopic != ""), grd.CreatedAt,
	)
	if err != nil {
		return record.Grade{}, core.NewDataAccessError("inserting grade", err)
	}
	return grd, nil
}

func (repo recordRepository) QueryGradesByStudent(ctx context.Context, studentID string, since time.Time) ([]record.Grade, error) {
	var rows []gradeRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM grade WHERE student_id = $1 AND date >= $2 ORDER BY date DESC`, studentID, since)
	if err != nil {
		return nil, core.NewDataAccessError("querying grades by student", err)
	}
	grades := make([]record.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.toGrade())
	}
	return grades, nil
}

func (repo recordRepository) QueryAllGrades(ctx context.Context) ([]record.Grade, error) {
	var rows []gradeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM grade ORDER BY date DESC`); err != nil {
		return nil, core.NewDataAccessError("querying grades", err)
	}
	grades := make([]record.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.toGrade())
	}
	return grades, nil
}

func (repo recordRepository) GetGradeByID(ctx context.Context, id string) (record.Grade, error) {
	var row gradeRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM grade WHERE id = $1`, id); err != nil {
		return record.Grade{}, repo.trapNoRowsErr(err, record.ErrGradeNotFound, "finding grade by ID")
	}
	return row.toGrade(), nil
}

func (repo recordRepository) UpdateGrade(ctx context.Context, grd record.Grade) (record.Grade, error) {
	var row gradeRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE grade SET subject = $2, score = $3, date = $4, lesson_topic = $5 WHERE id = $1 RETURNING *`,
		grd.ID, grd.Subject, grd.Score, grd.Date, null.NewString(grd.LessonTopic, grd.LessonTopic != ""),
	)
	if err != nil {
		return record.Grade{}, repo.trapNoRowsErr(err, record.ErrGradeNotFound, "updating grade")
	}
	return row.toGrade(), nil
}

func (repo recordRepository) DeleteGradesByID(ctx context.Context, ids ...string) error {
	return repo.deleteByID(ctx, "grade", ids)
}

// Attendance

func (repo recordRepository) CreateAttendance(ctx context.Context, att record.Attendance) (record.Attendance, error) {
	att.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO attendance (id, student_id, lesson_id, present, date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		att.ID, att.StudentID, att.LessonID, att.Present, att.Date, att.CreatedAt,
	)
	if err != nil {
		return record.Attendance{}, core.NewDataAccessError("inserting attendance", err)
	}
	return att, nil
}

func (repo recordRepository) QueryAttendanceByStudent(ctx context.Context, studentID string, since time.Time) ([]record.Attendance, error) {
	var rows []attendanceRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM attendance WHERE student_id = $1 AND date >= $2 ORDER BY date DESC`, studentID, since)
	if err != nil {
		return nil, core.NewDataAccessError("querying attendance by student", err)
	}
	records := make([]record.Attendance, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toAttendance())
	}
	return records, nil
}

func (repo recordRepository) DeleteAttendanceByID(ctx context.Context, ids ...string) error {
	return repo.deleteByID(ctx, "attendance", ids)
}

// Homework

func (repo recordRepository) CreateHomework(ctx context.Context, hw record.Homework) (record.Homework, error) {
	hw.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO homework (id, title, description, due_date, lesson_id, teacher_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		hw.ID, hw.Title, null.NewString(hw.Description, hw.Description != ""), hw.DueDate,
		hw.LessonID, hw.TeacherID, hw.CreatedAt,
	)
	if err != nil {
		return record.Homework{}, core.NewDataAccessError("inserting homework", err)
	}
	return hw, nil
}

func (repo recordRepository) QueryHomeworkDueBetween(ctx context.Context, from, to time.Time) ([]record.Homework, error) {
	var rows []homeworkRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM homework WHERE due_date >= $1 AND due_date <= $2 ORDER BY due_date`, from, to)
	if err != nil {
		return nil, core.NewDataAccessError("querying homework due between", err)
	}
	hws := make([]record.Homework, 0, len(rows))
	for _, r := range rows {
		hws = append(hws, r.toHomework())
	}
	return hws, nil
}

func (repo recordRepository) QueryAllHomework(ctx context.Context) ([]record.Homework, error) {
	var rows []homeworkRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM homework ORDER BY due_date`); err != nil {
		return nil, core.NewDataAccessError("querying homework", err)
	}
	hws := make([]record.Homework, 0, len(rows))
	for _, r := range rows {
		hws = append(hws, r.toHomework())
	}
	return hws, nil
}

func (repo recordRepository) GetHomeworkByID(ctx context.Context, id string) (record.Homework, error) {
	var row homeworkRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM homework WHERE id = $1`, id); err != nil {
		return record.Homework{}, repo.trapNoRowsErr(err, record.ErrHomeworkNotFound, "finding homework by ID")
	}
	return row.toHomework(), nil
}

func (repo recordRepository) UpdateHomework(ctx context.Context, hw record.Homework) (record.Homework, error) {
	var row homeworkRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE homework SET title = $2, description = $3, due_date = $4 WHERE id = $1 RETURNING *`,
		hw.ID, hw.Title, null.NewString(hw.Description, hw.Description != ""), hw.DueDate,
	)
	if err != nil {
		return record.Homework{}, repo.trapNoRowsErr(err, record.ErrHomeworkNotFound, "updating homework")
	}
	return row.toHomework(), nil
}

func (repo recordRepository) DeleteHomeworkByID(ctx context.Context, ids ...string) error {
	return repo.deleteByID(ctx, "homework", ids)
}

// Submissions

func (repo recordRepository) CreateSubmission(ctx context.Context, sub record.Submission) (record.Submission, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO submission (id, homework_id, student_id, submitted_at, content, grade, feedback, is_completed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sub.ID, sub.HomeworkID, sub.StudentID, sub.SubmittedAt,
		null.NewString(sub.Content, sub.Content != ""), null.Float64FromPtr(sub.Grade),
		null.NewString(sub.Feedback, sub.Feedback != ""), sub.IsCompleted,
	)
	if err != nil {
		return record.Submission{}, core.NewDataAccessError("inserting submission", err)
	}
	return sub, nil
}

func (repo recordRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string, homeworkIDs []string) ([]record.Submission, error) {
	if len(homeworkIDs) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(
		`SELECT * FROM submission WHERE student_id = ? AND homework_id IN (?) ORDER BY submitted_at`,
		studentID, homeworkIDs)
	if err != nil {
		return nil, core.NewDataAccessError("querying submissions by student", err)
	}

	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, core.NewDataAccessError("querying submissions by student", err)
	}
	subs := make([]record.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubmission())
	}
	return subs, nil
}

func (repo recordRepository) QuerySubmissionsByHomework(ctx context.Context, homeworkID string) ([]record.Submission, error) {
	var rows []submissionRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM submission WHERE homework_id = $1 ORDER BY submitted_at`, homeworkID)
	if err != nil {
		return nil, core.NewDataAccessError("querying submissions by homework", err)
	}
	subs := make([]record.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubmission())
	}
	return subs, nil
}

// QueryUngradedLessons counts the teacher's lessons older than the deadline
// with no grade recorded on the lesson day for the same subject.
func (repo recordRepository) QueryUngradedLessons(ctx context.Context, teacherID string, before time.Time) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM lesson l
		 WHERE l.teacher_id = $1 AND l.date < $2
		   AND NOT EXISTS (
		     SELECT 1 FROM grade g
		     WHERE g.teacher_id = l.teacher_id
		       AND g.subject = l.subject
		       AND g.date::date = l.date::date
		   )`,
		teacherID, before)
	if err != nil {
		return 0, core.NewDataAccessError("counting ungraded lessons", err)
	}
	return count, nil
}

func (repo recordRepository) deleteByID(ctx context.Context, table string, ids []string) error {
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
