package record

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrGradeNotFound      = errors.New("grade not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrHomeworkNotFound   = errors.New("homework not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidWindow      = errors.New("window length must be positive")
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, grd Grade) (Grade, error)
		QueryGradesByStudent(ctx context.Context, studentID string, since time.Time) ([]Grade, error)
		QueryAllGrades(ctx context.Context) ([]Grade, error)
		GetGradeByID(ctx context.Context, id string) (Grade, error)
		UpdateGrade(ctx context.Context, grd Grade) (Grade, error)
		DeleteGradesByID(ctx context.Context, ids ...string) error

		CreateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		QueryAttendanceByStudent(ctx context.Context, studentID string, since time.Time) ([]Attendance, error)
		DeleteAttendanceByID(ctx context.Context, ids ...string) error

		CreateHomework(ctx context.Context, hw Homework) (Homework, error)
		QueryHomeworkDueBetween(ctx context.Context, from, to time.Time) ([]Homework, error)
		QueryAllHomework(ctx context.Context) ([]Homework, error)
		GetHomeworkByID(ctx context.Context, id string) (Homework, error)
		UpdateHomework(ctx context.Context, hw Homework) (Homework, error)
		DeleteHomeworkByID(ctx context.Context, ids ...string) error

		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissionsByStudent(ctx context.Context, studentID string, homeworkIDs []string) ([]Submission, error)
		QuerySubmissionsByHomework(ctx context.Context, homeworkID string) ([]Submission, error)

		// QueryUngradedLessons returns lessons taught by the teacher that ended
		// before the deadline and have no grade recorded yet.
		QueryUngradedLessons(ctx context.Context, teacherID string, before time.Time) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Grades

func (svc *Service) CreateGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	return svc.repo.CreateGrade(ctx, Grade{
		StudentID:   ng.StudentID,
		TeacherID:   ng.TeacherID,
		Subject:     ng.Subject,
		Score:       ng.Score,
		Date:        ng.Date.UTC(),
		LessonTopic: ng.LessonTopic,
		CreatedAt:   time.Now().UTC(),
	})
}

// GradesForStudent returns the student's grades over the trailing window of
// `days`. A non-positive window is rejected, never coerced.
func (svc *Service) GradesForStudent(ctx context.Context, studentID string, days int) ([]Grade, error) {
	if days <= 0 {
		return nil, ErrInvalidWindow
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return svc.repo.QueryGradesByStudent(ctx, studentID, since)
}

func (svc *Service) QueryGrades(ctx context.Context) ([]Grade, error) {
	return svc.repo.QueryAllGrades(ctx)
}

func (svc *Service) GetGrade(ctx context.Context, id string) (Grade, error) {
	return svc.repo.GetGradeByID(ctx, id)
}

func (svc *Service) UpdateGrade(ctx context.Context, id string, ug UpdateGrade) (Grade, error) {
	return svc.repo.UpdateGrade(ctx, Grade{
		ID:          id,
		Subject:     ug.Subject,
		Score:       *ug.Score,
		Date:        ug.Date.UTC(),
		LessonTopic: ug.LessonTopic,
	})
}

func (svc *Service) DeleteGrades(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteGradesByID(ctx, ids...)
}

// Attendance

func (svc *Service) MarkAttendance(ctx context.Context, na NewAttendance) (Attendance, error) {
	return svc.repo.CreateAttendance(ctx, Attendance{
		StudentID: na.StudentID,
		LessonID:  na.LessonID,
		Present:   *na.Present,
		Date:      na.Date.UTC(),
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) AttendanceForStudent(ctx context.Context, studentID string, days int) ([]Attendance, error) {
	if days <= 0 {
		return nil, ErrInvalidWindow
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return svc.repo.QueryAttendanceByStudent(ctx, studentID, since)
}

func (svc *Service) DeleteAttendance(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAttendanceByID(ctx, ids...)
}

// Homework

func (svc *Service) CreateHomework(ctx context.Context, nh NewHomework) (Homework, error) {
	return svc.repo.CreateHomework(ctx, Homework{
		Title:       nh.Title,
		Description: nh.Description,
		DueDate:     nh.DueDate.UTC(),
		LessonID:    nh.LessonID,
		TeacherID:   nh.TeacherID,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) QueryHomework(ctx context.Context) ([]Homework, error) {
	return svc.repo.QueryAllHomework(ctx)
}

func (svc *Service) GetHomework(ctx context.Context, id string) (Homework, error) {
	return svc.repo.GetHomeworkByID(ctx, id)
}

func (svc *Service) UpdateHomework(ctx context.Context, id string, uh UpdateHomework) (Homework, error) {
	return svc.repo.UpdateHomework(ctx, Homework{
		ID:          id,
		Title:       uh.Title,
		Description: uh.Description,
		DueDate:     uh.DueDate.UTC(),
	})
}

func (svc *Service) DeleteHomework(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteHomeworkByID(ctx, ids...)
}

// Submissions

func (svc *Service) SubmitHomework(ctx context.Context, ns NewSubmission) (Submission, error) {
	return svc.repo.CreateSubmission(ctx, Submission{
		HomeworkID:  ns.HomeworkID,
		StudentID:   ns.StudentID,
		SubmittedAt: time.Now().UTC(),
		Content:     ns.Content,
		Grade:       ns.Grade,
		Feedback:    ns.Feedback,
		IsCompleted: ns.IsCompleted,
	})
}

func (svc *Service) SubmissionsForHomework(ctx context.Context, homeworkID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByHomework(ctx, homeworkID)
}

// UngradedLessonCount reports how many of the teacher's lessons that ended
// before the deadline still have no grade recorded.
func (svc *Service) UngradedLessonCount(ctx context.Context, teacherID string, deadline time.Time) (int, error) {
	return svc.repo.QueryUngradedLessons(ctx, teacherID, deadline)
}
