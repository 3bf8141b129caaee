package analytics

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/record"
	"github.com/edusight/backend/core/school"
	"github.com/edusight/backend/core/user"
)

// Job names as registered with the scheduler.
const (
	JobGradingTimeliness = "grading-timeliness"
	JobWeeklyReports     = "weekly-reports"
	JobDailyAlerts       = "daily-alerts"
)

// Alert kinds carried in daily alert notifications.
const (
	AlertLowAttendance   = "low_attendance"
	AlertDecliningGrades = "declining_grades"
	AlertMissingHomework = "missing_homework"
)

// Jobs holds the periodic analytics work: grading reminders for teachers,
// weekly progress reports and daily alerts for students. Each job iterates
// its entities independently; a failure for one entity is logged and the
// rest still get processed.
type Jobs struct {
	reports   *Service
	users     *user.Service
	schools   *school.Service
	records   *record.Service
	messenger core.Messenger
	mailer    core.EmailService
	conf      core.AnalyticsConfig
	from      mail.Address
	appName   string
	logger    core.Logger
	now       func() time.Time
}

func NewJobs(
	reports *Service,
	users *user.Service,
	schools *school.Service,
	records *record.Service,
	messenger core.Messenger,
	mailer core.EmailService,
	conf *core.Config,
	logger core.Logger,
) *Jobs {
	return &Jobs{
		reports:   reports,
		users:     users,
		schools:   schools,
		records:   records,
		messenger: messenger,
		mailer:    mailer,
		conf:      conf.Analytics,
		from:      conf.DefaultFromEmail,
		appName:   conf.AppName,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CheckGradingTimeliness nudges every teacher whose lessons older than the
// grading deadline still have no grades recorded.
func (j *Jobs) CheckGradingTimeliness(ctx context.Context) error {
	teachers, err := j.schools.QueryTeachers(ctx)
	if err != nil {
		return err
	}

	deadline := j.now().AddDate(0, 0, -j.conf.GradingDeadlineDays)
	for _, tch := range teachers {
		if err := ctx.Err(); err != nil {
			return err
		}

		count, err := j.records.UngradedLessonCount(ctx, tch.ID, deadline)
		if err != nil {
			j.logger.Error("ungraded lesson count failed", "teacher_id", tch.ID, "error", err)
			continue
		}
		if count == 0 {
			continue
		}

		text := fmt.Sprintf(
			"You have %d lessons older than %d days without grades. Please record the grades.",
			count, j.conf.GradingDeadlineDays)
		if err := j.messenger.Send(ctx, []string{tch.UserID}, "Grading reminder", text); err != nil {
			j.logger.Error("grading reminder not delivered", "teacher_id", tch.ID, "error", err)
		}
	}
	return nil
}

// SendWeeklyReports builds a comprehensive report per student and delivers
// it through the messaging platform, with an email copy when the student's
// user has an address on file.
func (j *Jobs) SendWeeklyReports(ctx context.Context) error {
	students, err := j.schools.QueryStudents(ctx, "")
	if err != nil {
		return err
	}

	for _, std := range students {
		if err := ctx.Err(); err != nil {
			return err
		}

		rpt, err := j.reports.ComprehensiveReport(ctx, std.ID, j.conf.ReportWindowDays)
		if err != nil {
			j.logger.Error("weekly report failed", "student_id", std.ID, "error", err)
			continue
		}

		text := formatReport(rpt)
		if err := j.messenger.Send(ctx, []string{std.UserID}, "Weekly progress report", text); err != nil {
			j.logger.Error("weekly report not delivered", "student_id", std.ID, "error", err)
		}
		j.emailReportCopy(ctx, std, text)
	}
	return nil
}

// weeklyReportEmail is the data fed to the weekly-report email templates.
type weeklyReportEmail struct {
	Name    string
	Body    string
	AppName string
}

func (j *Jobs) emailReportCopy(ctx context.Context, std school.Student, text string) {
	if j.mailer == nil {
		return
	}

	usr, err := j.users.GetByID(ctx, std.UserID)
	if err != nil {
		j.logger.Error("report email recipient lookup failed", "student_id", std.ID, "error", err)
		return
	}
	if usr.Email == "" {
		return
	}

	j.mailer.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Weekly progress report",
		TemplateName: "weekly-report",
		TemplateData: weeklyReportEmail{Name: usr.Name, Body: text, AppName: j.appName},
	})
}

// SendDailyAlerts scans every student over the alert window and notifies
// about low attendance, declining grade trends and missing homework. A
// student with nothing to flag gets no message.
func (j *Jobs) SendDailyAlerts(ctx context.Context) error {
	students, err := j.schools.QueryStudents(ctx, "")
	if err != nil {
		return err
	}

	for _, std := range students {
		if err := ctx.Err(); err != nil {
			return err
		}

		alerts, err := j.collectAlerts(ctx, std.ID)
		if err != nil {
			j.logger.Error("alert scan failed", "student_id", std.ID, "error", err)
			continue
		}
		if len(alerts) == 0 {
			continue
		}

		if err := j.messenger.Send(ctx, []string{std.UserID}, "Progress alert", strings.Join(alerts, "\n")); err != nil {
			j.logger.Error("alert not delivered", "student_id", std.ID, "error", err)
		}
	}
	return nil
}

func (j *Jobs) collectAlerts(ctx context.Context, studentID string) ([]string, error) {
	days := j.conf.AlertWindowDays

	var alerts []string

	att, err := j.reports.AttendanceSummary(ctx, studentID, days)
	if err != nil {
		return nil, err
	}
	if att.TotalLessons > 0 && att.AttendanceRate < j.conf.LowAttendancePct {
		alerts = append(alerts, fmt.Sprintf("[%s] Attendance is %.2f%% over the last %d days.",
			AlertLowAttendance, att.AttendanceRate, days))
	}

	grades, err := j.reports.GradeSummary(ctx, studentID, days)
	if err != nil {
		return nil, err
	}
	for _, s := range grades.Subjects {
		if s.Trend == TrendDeclining {
			alerts = append(alerts, fmt.Sprintf("[%s] Grades in %s are declining (average %.2f).",
				AlertDecliningGrades, s.Subject, s.Average))
		}
	}

	hw, err := j.reports.HomeworkSummary(ctx, studentID, days)
	if err != nil {
		return nil, err
	}
	if hw.Overdue >= j.conf.OverdueAlertCount {
		alerts = append(alerts, fmt.Sprintf("[%s] %d homework assignments are overdue.",
			AlertMissingHomework, hw.Overdue))
	}

	return alerts, nil
}

func formatReport(rpt *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Progress over the last %d days\n\n", rpt.WindowDays)
	fmt.Fprintf(&b, "Grades: average %.2f over %d grades.\n", rpt.Grades.OverallAverage, rpt.Grades.TotalGrades)
	for _, s := range rpt.Grades.Subjects {
		fmt.Fprintf(&b, "  %s: %.2f (%s)\n", s.Subject, s.Average, s.Trend)
	}
	fmt.Fprintf(&b, "Attendance: %.2f%% (%d of %d lessons).\n",
		rpt.Attendance.AttendanceRate, rpt.Attendance.Attended, rpt.Attendance.TotalLessons)
	fmt.Fprintf(&b, "Homework: %d of %d completed, %d overdue.\n",
		rpt.Homework.Completed, rpt.Homework.TotalAssigned, rpt.Homework.Overdue)

	if len(rpt.Strengths) > 0 {
		b.WriteString("\nStrengths:\n")
		for _, s := range rpt.Strengths {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if len(rpt.Improvements) > 0 {
		b.WriteString("\nAreas to improve:\n")
		for _, s := range rpt.Improvements {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if len(rpt.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, s := range rpt.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if rpt.AIInsights != "" {
		fmt.Fprintf(&b, "\n%s\n", rpt.AIInsights)
	}
	return b.String()
}
