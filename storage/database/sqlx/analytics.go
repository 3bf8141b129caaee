package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/analytics"
)

type analyticsRepository struct {
	db *sqlx.DB
}

var _ analytics.Repository = (*analyticsRepository)(nil) // interface compliance check

// NewAnalyticsRepository reads the aggregation inputs straight from the
// record tables, projected down to the shapes the computations need.
func NewAnalyticsRepository(db *sqlx.DB) *analyticsRepository {
	return &analyticsRepository{db: db}
}

func (repo analyticsRepository) FetchGradePoints(ctx context.Context, studentID string, since time.Time) ([]analytics.TimePoint, error) {
	var rows []struct {
		Subject string    `db:"subject"`
		Score   float64   `db:"score"`
		Date    time.Time `db:"date"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT subject, score, date FROM grade WHERE student_id = $1 AND date >= $2 ORDER BY date DESC`,
		studentID, since)
	if err != nil {
		return nil, core.NewDataAccessError("fetching grade points", err)
	}

	points := make([]analytics.TimePoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, analytics.TimePoint{
			EntityID:  studentID,
			Subject:   r.Subject,
			Value:     r.Score,
			Timestamp: r.Date,
		})
	}
	return points, nil
}

func (repo analyticsRepository) FetchAttendancePoints(ctx context.Context, studentID string, since time.Time) ([]analytics.TimePoint, error) {
	var rows []struct {
		Present bool      `db:"present"`
		Date    time.Time `db:"date"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT present, date FROM attendance WHERE student_id = $1 AND date >= $2 ORDER BY date DESC`,
		studentID, since)
	if err != nil {
		return nil, core.NewDataAccessError("fetching attendance points", err)
	}

	points := make([]analytics.TimePoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, analytics.TimePoint{
			EntityID:  studentID,
			Subject:   "attendance",
			Flag:      r.Present,
			Timestamp: r.Date,
		})
	}
	return points, nil
}

func (repo analyticsRepository) FetchAssignmentsDue(ctx context.Context, from, to time.Time) ([]analytics.Assignment, error) {
	var rows []struct {
		ID      string    `db:"id"`
		DueDate time.Time `db:"due_date"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, due_date FROM homework WHERE due_date >= $1 AND due_date <= $2`, from, to)
	if err != nil {
		return nil, core.NewDataAccessError("fetching assignments", err)
	}

	assignments := make([]analytics.Assignment, 0, len(rows))
	for _, r := range rows {
		assignments = append(assignments, analytics.Assignment{ID: r.ID, DueDate: r.DueDate})
	}
	return assignments, nil
}

func (repo analyticsRepository) FetchSubmissions(ctx context.Context, studentID string, assignmentIDs []string) ([]analytics.SubmissionMark, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(
		`SELECT homework_id, is_completed FROM submission WHERE student_id = ? AND homework_id IN (?)`,
		studentID, assignmentIDs)
	if err != nil {
		return nil, core.NewDataAccessError("fetching submissions", err)
	}

	var rows []struct {
		HomeworkID  string `db:"homework_id"`
		IsCompleted bool   `db:"is_completed"`
	}
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, core.NewDataAccessError("fetching submissions", err)
	}

	marks := make([]analytics.SubmissionMark, 0, len(rows))
	for _, r := range rows {
		marks = append(marks, analytics.SubmissionMark{AssignmentID: r.HomeworkID, Completed: r.IsCompleted})
	}
	return marks, nil
}

func (repo analyticsRepository) CountRecords(ctx context.Context) (analytics.Overview, error) {
	var row struct {
		Users       int `db:"users"`
		Students    int `db:"students"`
		Teachers    int `db:"teachers"`
		Lessons     int `db:"lessons"`
		Grades      int `db:"grades"`
		Attendance  int `db:"attendance"`
		Homework    int `db:"homework"`
		Submissions int `db:"submissions"`
	}
	err := repo.db.GetContext(ctx, &row,
		`SELECT
			(SELECT COUNT(*) FROM "user") AS users,
			(SELECT COUNT(*) FROM student) AS students,
			(SELECT COUNT(*) FROM teacher) AS teachers,
			(SELECT COUNT(*) FROM lesson) AS lessons,
			(SELECT COUNT(*) FROM grade) AS grades,
			(SELECT COUNT(*) FROM attendance) AS attendance,
			(SELECT COUNT(*) FROM homework) AS homework,
			(SELECT COUNT(*) FROM submission) AS submissions`)
	if err != nil {
		return analytics.Overview{}, core.NewDataAccessError("counting records", err)
	}

	return analytics.Overview{
		Users:       row.Users,
		Students:    row.Students,
		Teachers:    row.Teachers,
		Lessons:     row.Lessons,
		Grades:      row.Grades,
		Attendance:  row.Attendance,
		Homework:    row.Homework,
		Submissions: row.Submissions,
	}, nil
}

func (repo analyticsRepository) FetchClassRoster(ctx context.Context, className string) ([]analytics.ClassStudent, error) {
	var rows []struct {
		ID     string `db:"id"`
		UserID string `db:"user_id"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, user_id FROM student WHERE class_name = $1 ORDER BY created_at`, className)
	if err != nil {
		return nil, core.NewDataAccessError("fetching class roster", err)
	}

	roster := make([]analytics.ClassStudent, 0, len(rows))
	for _, r := range rows {
		roster = append(roster, analytics.ClassStudent{ID: r.ID, UserID: r.UserID})
	}
	return roster, nil
}

func (repo analyticsRepository) CountGradesSince(ctx context.Context, studentIDs []string, since time.Time) (int, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In(
		`SELECT COUNT(*) FROM grade WHERE date >= ? AND student_id IN (?)`, since, studentIDs)
	if err != nil {
		return 0, core.NewDataAccessError("counting recent grades", err)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(q), args...); err != nil {
		return 0, core.NewDataAccessError("counting recent grades", err)
	}
	return count, nil
}
