package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/edusight/backend/core/analytics"
	"github.com/edusight/backend/core/school"
)

type analyticsRepository struct {
	db *DB
}

var _ analytics.Repository = (*analyticsRepository)(nil)

func NewAnalyticsRepository(db *DB) *analyticsRepository {
	return &analyticsRepository{db: db}
}

func (repo *analyticsRepository) FetchGradePoints(ctx context.Context, studentID string, since time.Time) ([]analytics.TimePoint, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var points []analytics.TimePoint
	for _, grd := range repo.db.grades {
		if grd.StudentID == studentID && !grd.Date.Before(since) {
			points = append(points, analytics.TimePoint{
				EntityID:  studentID,
				Subject:   grd.Subject,
				Value:     grd.Score,
				Timestamp: grd.Date,
			})
		}
	}
	return points, nil
}

func (repo *analyticsRepository) FetchAttendancePoints(ctx context.Context, studentID string, since time.Time) ([]analytics.TimePoint, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var points []analytics.TimePoint
	for _, att := range repo.db.attendance {
		if att.StudentID == studentID && !att.Date.Before(since) {
			points = append(points, analytics.TimePoint{
				EntityID:  studentID,
				Subject:   "attendance",
				Flag:      att.Present,
				Timestamp: att.Date,
			})
		}
	}
	return points, nil
}

func (repo *analyticsRepository) FetchAssignmentsDue(ctx context.Context, from, to time.Time) ([]analytics.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var assignments []analytics.Assignment
	for _, hw := range repo.db.homework {
		if !hw.DueDate.Before(from) && !hw.DueDate.After(to) {
			assignments = append(assignments, analytics.Assignment{ID: hw.ID, DueDate: hw.DueDate})
		}
	}
	return assignments, nil
}

func (repo *analyticsRepository) FetchSubmissions(ctx context.Context, studentID string, assignmentIDs []string) ([]analytics.SubmissionMark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = true
	}

	var marks []analytics.SubmissionMark
	for _, sub := range repo.db.submissions {
		if sub.StudentID == studentID && wanted[sub.HomeworkID] {
			marks = append(marks, analytics.SubmissionMark{AssignmentID: sub.HomeworkID, Completed: sub.IsCompleted})
		}
	}
	return marks, nil
}

func (repo *analyticsRepository) FetchClassRoster(ctx context.Context, className string) ([]analytics.ClassStudent, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var members []*school.Student
	for _, std := range repo.db.students {
		if std.ClassName == className {
			members = append(members, std)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].CreatedAt.Before(members[j].CreatedAt) })

	roster := make([]analytics.ClassStudent, 0, len(members))
	for _, std := range members {
		roster = append(roster, analytics.ClassStudent{ID: std.ID, UserID: std.UserID})
	}
	return roster, nil
}

func (repo *analyticsRepository) CountGradesSince(ctx context.Context, studentIDs []string, since time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}

	var count int
	for _, grd := range repo.db.grades {
		if wanted[grd.StudentID] && !grd.Date.Before(since) {
			count++
		}
	}
	return count, nil
}

func (repo *analyticsRepository) CountRecords(ctx context.Context) (analytics.Overview, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return analytics.Overview{
		Users:       len(repo.db.users),
		Students:    len(repo.db.students),
		Teachers:    len(repo.db.teachers),
		Lessons:     len(repo.db.lessons),
		Grades:      len(repo.db.grades),
		Attendance:  len(repo.db.attendance),
		Homework:    len(repo.db.homework),
		Submissions: len(repo.db.submissions),
	}, nil
}
