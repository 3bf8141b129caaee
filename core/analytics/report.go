package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/edusight/backend/core"
)

// InsightsUnavailable is substituted for AI-generated prose when the text
// generation backend is down or not configured. Numeric results are still
// returned in full.
const InsightsUnavailable = "AI insights are temporarily unavailable."

type (
	// Repository abstracts the analytics data source. Implementations read
	// from the primary store; they never write.
	Repository interface {
		FetchGradePoints(ctx context.Context, studentID string, since time.Time) ([]TimePoint, error)
		FetchAttendancePoints(ctx context.Context, studentID string, since time.Time) ([]TimePoint, error)
		FetchAssignmentsDue(ctx context.Context, from, to time.Time) ([]Assignment, error)
		FetchSubmissions(ctx context.Context, studentID string, assignmentIDs []string) ([]SubmissionMark, error)
		CountRecords(ctx context.Context) (Overview, error)
		FetchClassRoster(ctx context.Context, className string) ([]ClassStudent, error)
		CountGradesSince(ctx context.Context, studentIDs []string, since time.Time) (int, error)
	}

	// ReportCache caches comprehensive reports. A miss is (nil, nil), not an
	// error. May be nil, in which case reports are always recomputed.
	ReportCache interface {
		GetReport(ctx context.Context, key string) (*Report, error)
		SetReport(ctx context.Context, key string, rpt *Report, ttl time.Duration) error
	}

	GradeSummary struct {
		StudentID      string        `json:"student_id"`
		WindowDays     int           `json:"window_days"`
		Subjects       []TrendResult `json:"subjects"`
		OverallAverage float64       `json:"overall_average"`
		TotalGrades    int           `json:"total_grades"`
		GeneratedAt    time.Time     `json:"generated_at"`
	}

	AttendanceSummary struct {
		StudentID      string    `json:"student_id"`
		WindowDays     int       `json:"window_days"`
		TotalLessons   int       `json:"total_lessons"`
		Attended       int       `json:"attended"`
		Missed         int       `json:"missed"`
		AttendanceRate float64   `json:"attendance_rate"`
		GeneratedAt    time.Time `json:"generated_at"`
	}

	HomeworkSummary struct {
		StudentID      string    `json:"student_id"`
		WindowDays     int       `json:"window_days"`
		TotalAssigned  int       `json:"total_assigned"`
		Completed      int       `json:"completed"`
		CompletionRate float64   `json:"completion_rate"`
		Overdue        int       `json:"overdue"`
		GeneratedAt    time.Time `json:"generated_at"`
	}

	// Report is the comprehensive per-student report combining the three
	// summaries with rule-derived highlights and generated prose.
	Report struct {
		StudentID       string            `json:"student_id"`
		WindowDays      int               `json:"window_days"`
		Grades          GradeSummary      `json:"grades"`
		Attendance      AttendanceSummary `json:"attendance"`
		Homework        HomeworkSummary   `json:"homework"`
		Strengths       []string          `json:"strengths"`
		Improvements    []string          `json:"improvements"`
		Recommendations []string          `json:"recommendations"`
		AIInsights      string            `json:"ai_insights"`
		GeneratedAt     time.Time         `json:"generated_at"`
	}

	Service struct {
		repo   Repository
		gen    core.TextGenerator
		cache  ReportCache
		conf   core.AnalyticsConfig
		ttl    time.Duration
		logger core.Logger
		now    func() time.Time
	}
)

func NewService(repo Repository, gen core.TextGenerator, cache ReportCache, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:   repo,
		gen:    gen,
		cache:  cache,
		conf:   conf.Analytics,
		ttl:    conf.Redis.ReportTTL,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GradeSummary computes per-subject grade trends for the student over the
// trailing window of `days`.
func (svc *Service) GradeSummary(ctx context.Context, studentID string, days int) (GradeSummary, error) {
	w := Window{EntityID: studentID, Days: days, Now: svc.now()}
	if err := w.Validate(); err != nil {
		return GradeSummary{}, err
	}
	since, now := w.Bounds()

	points, err := svc.repo.FetchGradePoints(ctx, studentID, since)
	if err != nil {
		return GradeSummary{}, errors.Wrap(err, "fetching grade points")
	}

	sum := GradeSummary{
		StudentID:   studentID,
		WindowDays:  days,
		TotalGrades: len(points),
		GeneratedAt: now,
	}

	var total float64
	for _, subject := range subjectsOf(points) {
		sum.Subjects = append(sum.Subjects, ComputeTrend(points, subject, svc.conf.TrendThreshold))
	}
	for _, p := range points {
		total += p.Value
	}
	if len(points) > 0 {
		sum.OverallAverage = core.Round2(total / float64(len(points)))
	}
	return sum, nil
}

func (svc *Service) AttendanceSummary(ctx context.Context, studentID string, days int) (AttendanceSummary, error) {
	w := Window{EntityID: studentID, Days: days, Now: svc.now()}
	if err := w.Validate(); err != nil {
		return AttendanceSummary{}, err
	}
	since, now := w.Bounds()

	points, err := svc.repo.FetchAttendancePoints(ctx, studentID, since)
	if err != nil {
		return AttendanceSummary{}, errors.Wrap(err, "fetching attendance points")
	}

	rate := ComputeRate(points, func(p TimePoint) bool { return p.Flag })
	return AttendanceSummary{
		StudentID:      studentID,
		WindowDays:     days,
		TotalLessons:   rate.Total,
		Attended:       rate.Matched,
		Missed:         rate.Unmatched,
		AttendanceRate: rate.RatePercent,
		GeneratedAt:    now,
	}, nil
}

func (svc *Service) HomeworkSummary(ctx context.Context, studentID string, days int) (HomeworkSummary, error) {
	w := Window{EntityID: studentID, Days: days, Now: svc.now()}
	if err := w.Validate(); err != nil {
		return HomeworkSummary{}, err
	}
	since, now := w.Bounds()

	assignments, err := svc.repo.FetchAssignmentsDue(ctx, since, now)
	if err != nil {
		return HomeworkSummary{}, errors.Wrap(err, "fetching assignments")
	}

	ids := make([]string, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
	}
	subs, err := svc.repo.FetchSubmissions(ctx, studentID, ids)
	if err != nil {
		return HomeworkSummary{}, errors.Wrap(err, "fetching submissions")
	}

	completed := make(map[string]bool, len(subs))
	for _, s := range subs {
		if s.Completed {
			completed[s.AssignmentID] = true
		}
	}

	sum := HomeworkSummary{
		StudentID:     studentID,
		WindowDays:    days,
		TotalAssigned: len(assignments),
		Overdue:       CountOverdue(assignments, subs, now),
		GeneratedAt:   now,
	}
	for _, a := range assignments {
		if completed[a.ID] {
			sum.Completed++
		}
	}
	if sum.TotalAssigned > 0 {
		sum.CompletionRate = core.Round2(float64(sum.Completed) / float64(sum.TotalAssigned) * 100)
	}
	return sum, nil
}

// ComprehensiveReport combines the three summaries, derives strengths,
// improvement areas and recommendations, and asks the text generator for
// prose insights. Cached per (student, window); generation failures degrade
// to a placeholder instead of failing the report.
func (svc *Service) ComprehensiveReport(ctx context.Context, studentID string, days int) (*Report, error) {
	if err := (Window{EntityID: studentID, Days: days}).Validate(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("report:%s:%d", studentID, days)
	if svc.cache != nil {
		if rpt, err := svc.cache.GetReport(ctx, key); err != nil {
			svc.logger.Warn("report cache read failed", "key", key, "error", err)
		} else if rpt != nil {
			return rpt, nil
		}
	}

	grades, err := svc.GradeSummary(ctx, studentID, days)
	if err != nil {
		return nil, err
	}
	attendance, err := svc.AttendanceSummary(ctx, studentID, days)
	if err != nil {
		return nil, err
	}
	homework, err := svc.HomeworkSummary(ctx, studentID, days)
	if err != nil {
		return nil, err
	}

	rpt := &Report{
		StudentID:   studentID,
		WindowDays:  days,
		Grades:      grades,
		Attendance:  attendance,
		Homework:    homework,
		GeneratedAt: svc.now(),
	}
	svc.deriveHighlights(rpt)
	rpt.AIInsights = svc.generateInsights(ctx, rpt)

	if svc.cache != nil {
		if err := svc.cache.SetReport(ctx, key, rpt, svc.ttl); err != nil {
			svc.logger.Warn("report cache write failed", "key", key, "error", err)
		}
	}
	return rpt, nil
}

func (svc *Service) deriveHighlights(rpt *Report) {
	for _, s := range rpt.Grades.Subjects {
		switch {
		case s.Average >= 4.5:
			rpt.Strengths = append(rpt.Strengths, fmt.Sprintf("Excellent results in %s (average %.2f)", s.Subject, s.Average))
		case s.Trend == TrendImproving:
			rpt.Strengths = append(rpt.Strengths, fmt.Sprintf("Improving trend in %s", s.Subject))
		case s.Trend == TrendDeclining:
			rpt.Improvements = append(rpt.Improvements, fmt.Sprintf("Declining trend in %s", s.Subject))
			rpt.Recommendations = append(rpt.Recommendations, fmt.Sprintf("Schedule extra practice in %s", s.Subject))
		}
	}

	if rpt.Attendance.TotalLessons > 0 {
		if rpt.Attendance.AttendanceRate >= 95 {
			rpt.Strengths = append(rpt.Strengths, "Consistent attendance")
		} else if rpt.Attendance.AttendanceRate < 90 {
			rpt.Improvements = append(rpt.Improvements, fmt.Sprintf("Attendance at %.2f%%", rpt.Attendance.AttendanceRate))
			rpt.Recommendations = append(rpt.Recommendations, "Discuss missed lessons with the class teacher")
		}
	}

	if rpt.Homework.Overdue > 0 {
		rpt.Improvements = append(rpt.Improvements, fmt.Sprintf("%d overdue homework assignments", rpt.Homework.Overdue))
		rpt.Recommendations = append(rpt.Recommendations, "Catch up on overdue homework")
	} else if rpt.Homework.TotalAssigned > 0 && rpt.Homework.CompletionRate == 100 {
		rpt.Strengths = append(rpt.Strengths, "All homework completed on time")
	}
}

func (svc *Service) generateInsights(ctx context.Context, rpt *Report) string {
	if svc.gen == nil {
		return InsightsUnavailable
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize this student's progress over the last %d days for their parents.\n", rpt.WindowDays)
	fmt.Fprintf(&b, "Overall grade average: %.2f over %d grades.\n", rpt.Grades.OverallAverage, rpt.Grades.TotalGrades)
	for _, s := range rpt.Grades.Subjects {
		fmt.Fprintf(&b, "- %s: average %.2f, trend %s\n", s.Subject, s.Average, s.Trend)
	}
	fmt.Fprintf(&b, "Attendance: %.2f%% (%d of %d lessons).\n",
		rpt.Attendance.AttendanceRate, rpt.Attendance.Attended, rpt.Attendance.TotalLessons)
	fmt.Fprintf(&b, "Homework: %d of %d completed, %d overdue.\n",
		rpt.Homework.Completed, rpt.Homework.TotalAssigned, rpt.Homework.Overdue)

	text, err := svc.gen.Generate(ctx, b.String(),
		"You are a school progress assistant. Be concise, factual and encouraging. Answer in 3-4 sentences.")
	if err != nil {
		svc.logger.Warn("insights generation failed", "student_id", rpt.StudentID, "error", err)
		return InsightsUnavailable
	}
	return strings.TrimSpace(text)
}

// subjectsOf returns the distinct subjects in first-seen order, then sorted
// for stable output.
func subjectsOf(points []TimePoint) []string {
	seen := make(map[string]bool, len(points))
	var subjects []string
	for _, p := range points {
		if !seen[p.Subject] {
			seen[p.Subject] = true
			subjects = append(subjects, p.Subject)
		}
	}
	sort.Strings(subjects)
	return subjects
}
