package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/edusight/backend/core/record"
)

type recordRepository struct {
	db *DB
}

var _ record.Repository = (*recordRepository)(nil)

func NewRecordRepository(db *DB) *recordRepository {
	return &recordRepository{db: db}
}

// Grades

func (repo *recordRepository) queryGrades() []record.Grade {
	grades := make([]record.Grade, 0, len(repo.db.grades))
	for _, g := range repo.db.grades {
		grades = append(grades, *g)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].Date.After(grades[j].Date) })
	return grades
}

func (repo *recordRepository) CreateGrade(ctx context.Context, grd record.Grade) (record.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	grd.ID = newPK()
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *recordRepository) QueryGradesByStudent(ctx context.Context, studentID string, since time.Time) ([]record.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var grades []record.Grade
	for _, grd := range repo.queryGrades() {
		if grd.StudentID == studentID && !grd.Date.Before(since) {
			grades = append(grades, grd)
		}
	}
	return grades, nil
}

func (repo *recordRepository) QueryAllGrades(ctx context.Context) ([]record.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryGrades(), nil
}

func (repo *recordRepository) GetGradeByID(ctx context.Context, id string) (record.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if grd, ok := repo.db.grades[id]; ok {
		return *grd, nil
	}
	return record.Grade{}, record.ErrGradeNotFound
}

func (repo *recordRepository) UpdateGrade(ctx context.Context, grd record.Grade) (record.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.grades[grd.ID]
	if !ok {
		return record.Grade{}, record.ErrGradeNotFound
	}

	grd.StudentID = orig.StudentID
	grd.TeacherID = orig.TeacherID
	grd.CreatedAt = orig.CreatedAt
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *recordRepository) DeleteGradesByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.grades, id)
	}
	return nil
}

// Attendance

func (repo *recordRepository) CreateAttendance(ctx context.Context, att record.Attendance) (record.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	att.ID = newPK()
	repo.db.attendance[att.ID] = &att
	return att, nil
}

func (repo *recordRepository) QueryAttendanceByStudent(ctx context.Context, studentID string, since time.Time) ([]record.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var records []record.Attendance
	for _, att := range repo.db.attendance {
		if att.StudentID == studentID && !att.Date.Before(since) {
			records = append(records, *att)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}

func (repo *recordRepository) DeleteAttendanceByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.attendance, id)
	}
	return nil
}

// Homework

func (repo *recordRepository) queryHomework() []record.Homework {
	hws := make([]record.Homework, 0, len(repo.db.homework))
	for _, h := range repo.db.homework {
		hws = append(hws, *h)
	}
	sort.Slice(hws, func(i, j int) bool { return hws[i].DueDate.Before(hws[j].DueDate) })
	return hws
}

func (repo *recordRepository) CreateHomework(ctx context.Context, hw record.Homework) (record.Homework, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	hw.ID = newPK()
	repo.db.homework[hw.ID] = &hw
	return hw, nil
}

func (repo *recordRepository) QueryHomeworkDueBetween(ctx context.Context, from, to time.Time) ([]record.Homework, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var hws []record.Homework
	for _, hw := range repo.queryHomework() {
		if !hw.DueDate.Before(from) && !hw.DueDate.After(to) {
			hws = append(hws, hw)
		}
	}
	return hws, nil
}

func (repo *recordRepository) QueryAllHomework(ctx context.Context) ([]record.Homework, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryHomework(), nil
}

func (repo *recordRepository) GetHomeworkByID(ctx context.Context, id string) (record.Homework, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if hw, ok := repo.db.homework[id]; ok {
		return *hw, nil
	}
	return record.Homework{}, record.ErrHomeworkNotFound
}

func (repo *recordRepository) UpdateHomework(ctx context.Context, hw record.Homework) (record.Homework, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.homework[hw.ID]
	if !ok {
		return record.Homework{}, record.ErrHomeworkNotFound
	}

	hw.LessonID = orig.LessonID
	hw.TeacherID = orig.TeacherID
	hw.CreatedAt = orig.CreatedAt
	repo.db.homework[hw.ID] = &hw
	return hw, nil
}

func (repo *recordRepository) DeleteHomeworkByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.homework, id)
	}
	return nil
}

// Submissions

func (repo *recordRepository) CreateSubmission(ctx context.Context, sub record.Submission) (record.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = newPK()
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *recordRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string, homeworkIDs []string) ([]record.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]bool, len(homeworkIDs))
	for _, id := range homeworkIDs {
		wanted[id] = true
	}

	var subs []record.Submission
	for _, sub := range repo.db.submissions {
		if sub.StudentID == studentID && wanted[sub.HomeworkID] {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo *recordRepository) QuerySubmissionsByHomework(ctx context.Context, homeworkID string) ([]record.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var subs []record.Submission
	for _, sub := range repo.db.submissions {
		if sub.HomeworkID == homeworkID {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo *recordRepository) QueryUngradedLessons(ctx context.Context, teacherID string, before time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, les := range repo.db.lessons {
		if les.TeacherID != teacherID || !les.Date.Before(before) {
			continue
		}

		var graded bool
		for _, grd := range repo.db.grades {
			if grd.TeacherID == les.TeacherID && grd.Subject == les.Subject && sameDay(grd.Date, les.Date) {
				graded = true
				break
			}
		}
		if !graded {
			count++
		}
	}
	return count, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
