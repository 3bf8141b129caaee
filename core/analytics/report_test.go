package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edusight/backend/core"
)

type fakeRepo struct {
	grades      []TimePoint
	attendance  []TimePoint
	assignments []Assignment
	submissions []SubmissionMark
	roster      []ClassStudent
	err         error
}

func (r *fakeRepo) FetchGradePoints(ctx context.Context, studentID string, since time.Time) ([]TimePoint, error) {
	return r.grades, r.err
}
func (r *fakeRepo) FetchAttendancePoints(ctx context.Context, studentID string, since time.Time) ([]TimePoint, error) {
	return r.attendance, r.err
}
func (r *fakeRepo) FetchAssignmentsDue(ctx context.Context, from, to time.Time) ([]Assignment, error) {
	return r.assignments, r.err
}
func (r *fakeRepo) FetchSubmissions(ctx context.Context, studentID string, ids []string) ([]SubmissionMark, error) {
	return r.submissions, r.err
}
func (r *fakeRepo) CountRecords(ctx context.Context) (Overview, error) {
	return Overview{Grades: len(r.grades), Attendance: len(r.attendance)}, r.err
}
func (r *fakeRepo) FetchClassRoster(ctx context.Context, className string) ([]ClassStudent, error) {
	return r.roster, r.err
}
func (r *fakeRepo) CountGradesSince(ctx context.Context, studentIDs []string, since time.Time) (int, error) {
	count := 0
	for _, p := range r.grades {
		if !p.Timestamp.Before(since) {
			count++
		}
	}
	return count, r.err
}

type fakeGen struct {
	text string
	err  error
}

func (g *fakeGen) Generate(ctx context.Context, prompt, systemContext string) (string, error) {
	return g.text, g.err
}

type fakeCache struct {
	store map[string]*Report
	gets  int
	sets  int
}

func (c *fakeCache) GetReport(ctx context.Context, key string) (*Report, error) {
	c.gets++
	return c.store[key], nil
}
func (c *fakeCache) SetReport(ctx context.Context, key string, rpt *Report, ttl time.Duration) error {
	c.sets++
	if c.store == nil {
		c.store = make(map[string]*Report)
	}
	c.store[key] = rpt
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func newTestService(repo Repository, gen core.TextGenerator, cache ReportCache) *Service {
	svc := NewService(repo, gen, cache, core.NewTestConfig(), nopLogger{})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestGradeSummary(t *testing.T) {
	repo := &fakeRepo{grades: append(
		gradePoints("Mathematics", 3.5, 4.0, 4.5, 5.0),
		gradePoints("Physics", 5.0, 5.0)...,
	)}
	svc := newTestService(repo, nil, nil)

	sum, err := svc.GradeSummary(context.Background(), "std1", 30)
	if err != nil {
		t.Fatalf("GradeSummary: %v", err)
	}
	if sum.TotalGrades != 6 {
		t.Errorf("total = %d, expected 6", sum.TotalGrades)
	}
	if len(sum.Subjects) != 2 {
		t.Fatalf("subjects = %d, expected 2", len(sum.Subjects))
	}
	// sorted by subject name
	if sum.Subjects[0].Subject != "Mathematics" || sum.Subjects[0].Trend != TrendImproving {
		t.Errorf("Mathematics = %+v, expected improving", sum.Subjects[0])
	}
	if sum.Subjects[1].Subject != "Physics" || sum.Subjects[1].Trend != TrendStable {
		t.Errorf("Physics = %+v, expected stable", sum.Subjects[1])
	}
	if sum.OverallAverage != 4.5 {
		t.Errorf("overall = %v, expected 4.5", sum.OverallAverage)
	}
}

func TestGradeSummaryInvalidWindow(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil, nil)
	if _, err := svc.GradeSummary(context.Background(), "std1", 0); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("err = %v, expected ErrInvalidWindow", err)
	}
}

func TestAttendanceSummary(t *testing.T) {
	repo := &fakeRepo{attendance: []TimePoint{
		{Flag: true}, {Flag: true}, {Flag: true}, {Flag: false},
	}}
	svc := newTestService(repo, nil, nil)

	sum, err := svc.AttendanceSummary(context.Background(), "std1", 30)
	if err != nil {
		t.Fatalf("AttendanceSummary: %v", err)
	}
	if sum.TotalLessons != 4 || sum.Attended != 3 || sum.Missed != 1 {
		t.Errorf("counts = %d/%d/%d, expected 4/3/1", sum.TotalLessons, sum.Attended, sum.Missed)
	}
	if sum.AttendanceRate != 75 {
		t.Errorf("rate = %v, expected 75", sum.AttendanceRate)
	}
}

func TestHomeworkSummary(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		assignments: []Assignment{
			{ID: "hw1", DueDate: now.AddDate(0, 0, -5)},
			{ID: "hw2", DueDate: now.AddDate(0, 0, -3)},
			{ID: "hw3", DueDate: now.AddDate(0, 0, 1)},
		},
		submissions: []SubmissionMark{
			{AssignmentID: "hw1", Completed: true},
		},
	}
	svc := newTestService(repo, nil, nil)

	sum, err := svc.HomeworkSummary(context.Background(), "std1", 30)
	if err != nil {
		t.Fatalf("HomeworkSummary: %v", err)
	}
	if sum.TotalAssigned != 3 || sum.Completed != 1 {
		t.Errorf("assigned/completed = %d/%d, expected 3/1", sum.TotalAssigned, sum.Completed)
	}
	if sum.Overdue != 1 {
		t.Errorf("overdue = %d, expected 1 (hw2)", sum.Overdue)
	}
	if sum.CompletionRate != 33.33 {
		t.Errorf("rate = %v, expected 33.33", sum.CompletionRate)
	}
}

func TestComprehensiveReport(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		grades:     gradePoints("Mathematics", 5.0, 4.5, 3.5, 3.0),
		attendance: []TimePoint{{Flag: true}, {Flag: false}, {Flag: false}},
		assignments: []Assignment{
			{ID: "hw1", DueDate: now.AddDate(0, 0, -2)},
		},
	}
	gen := &fakeGen{text: "Keep an eye on Mathematics."}
	svc := newTestService(repo, gen, nil)

	rpt, err := svc.ComprehensiveReport(context.Background(), "std1", 30)
	if err != nil {
		t.Fatalf("ComprehensiveReport: %v", err)
	}
	if rpt.AIInsights != "Keep an eye on Mathematics." {
		t.Errorf("insights = %q", rpt.AIInsights)
	}
	if len(rpt.Improvements) == 0 {
		t.Error("expected improvement areas for declining grades, low attendance and overdue homework")
	}
	if len(rpt.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
}

func TestComprehensiveReportInsightsDegrade(t *testing.T) {
	repo := &fakeRepo{grades: gradePoints("Mathematics", 4.0, 4.0)}
	gen := &fakeGen{err: errors.New("backend down")}
	svc := newTestService(repo, gen, nil)

	rpt, err := svc.ComprehensiveReport(context.Background(), "std1", 30)
	if err != nil {
		t.Fatalf("ComprehensiveReport: %v", err)
	}
	if rpt.AIInsights != InsightsUnavailable {
		t.Errorf("insights = %q, expected placeholder", rpt.AIInsights)
	}
}

func TestComprehensiveReportCache(t *testing.T) {
	repo := &fakeRepo{grades: gradePoints("Mathematics", 4.0, 4.0)}
	cache := &fakeCache{}
	svc := newTestService(repo, nil, cache)

	first, err := svc.ComprehensiveReport(context.Background(), "std1", 30)
	if err != nil {
		t.Fatalf("first report: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, expected 1", cache.sets)
	}

	repo.err = errors.New("db down")
	second, err := svc.ComprehensiveReport(context.Background(), "std1", 30)
	if err != nil {
		t.Fatalf("cached report: %v", err)
	}
	if second != first {
		t.Error("expected the cached report to be served")
	}
}

func TestClassOverview(t *testing.T) {
	repo := &fakeRepo{
		roster: []ClassStudent{
			{ID: "std1", UserID: "usr1"},
			{ID: "std2", UserID: "usr2"},
		},
		// Mar 1..3; only the Mar 3 grade falls inside the 7-day window
		grades: gradePoints("Mathematics", 4.0, 4.5, 5.0),
	}
	svc := newTestService(repo, nil, nil)

	ov, err := svc.ClassOverview(context.Background(), "5A", 7)
	if err != nil {
		t.Fatalf("ClassOverview: %v", err)
	}
	if ov.ClassName != "5A" || ov.StudentCount != 2 {
		t.Errorf("class/count = %s/%d, expected 5A/2", ov.ClassName, ov.StudentCount)
	}
	if ov.RecentGrades != 1 {
		t.Errorf("recent grades = %d, expected 1", ov.RecentGrades)
	}
	if len(ov.Students) != 2 || ov.Students[0].UserID != "usr1" {
		t.Errorf("students = %+v", ov.Students)
	}
}

func TestClassOverviewUnknownClass(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil, nil)
	if _, err := svc.ClassOverview(context.Background(), "9Z", 7); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("err = %v, expected ErrClassNotFound", err)
	}
}

func TestClassOverviewInvalidWindow(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil, nil)
	if _, err := svc.ClassOverview(context.Background(), "5A", 0); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("err = %v, expected ErrInvalidWindow", err)
	}
}

func TestComprehensiveReportRepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	svc := newTestService(repo, nil, nil)
	if _, err := svc.ComprehensiveReport(context.Background(), "std1", 30); err == nil {
		t.Error("expected error from data source")
	}
}
