package analytics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/analytics"
	"github.com/edusight/backend/core/record"
	"github.com/edusight/backend/core/school"
	"github.com/edusight/backend/core/user"
	emailsvc "github.com/edusight/backend/services/email"
	msgsvc "github.com/edusight/backend/services/messaging"
	llmsvc "github.com/edusight/backend/services/textgen"
	inmemdb "github.com/edusight/backend/storage/database/inmem"
)

type jobsLogger struct{}

func (jobsLogger) Debug(msg string, args ...interface{}) {}
func (jobsLogger) Info(msg string, args ...interface{})  {}
func (jobsLogger) Warn(msg string, args ...interface{})  {}
func (jobsLogger) Error(msg string, args ...interface{}) {}
func (jobsLogger) Fatal(msg string, args ...interface{}) {}

type jobsEnv struct {
	jobs      *analytics.Jobs
	messenger interface {
		core.Messenger
		Sent() []msgsvc.SentMessage
	}
	users   *user.Service
	schools *school.Service
	records *record.Service
}

func newJobsEnv(t *testing.T) *jobsEnv {
	t.Helper()

	conf := core.NewTestConfig()
	core.ParseEmailTemplates(conf)
	logger := jobsLogger{}
	db := inmemdb.NewDB()

	users := user.NewService(inmemdb.NewUserRepository(db))
	schools := school.NewService(inmemdb.NewSchoolRepository(db))
	records := record.NewService(inmemdb.NewRecordRepository(db))
	textGen := llmsvc.NewStaticService("Keep up the good work.")
	reports := analytics.NewService(inmemdb.NewAnalyticsRepository(db), textGen, nil, conf, logger)

	messenger := msgsvc.NewConsoleServiceMock()
	mailer := emailsvc.NewConsoleServiceMock(conf)

	return &jobsEnv{
		jobs:      analytics.NewJobs(reports, users, schools, records, messenger, mailer, conf, logger),
		messenger: messenger,
		users:     users,
		schools:   schools,
		records:   records,
	}
}

func (e *jobsEnv) addTeacher(t *testing.T, name, email string) school.Teacher {
	t.Helper()
	ctx := context.Background()
	usr, err := e.users.Create(ctx, user.NewUser{Name: name, Email: email, Role: user.RoleTeacher})
	require.NoError(t, err)
	tch, err := e.schools.CreateTeacher(ctx, school.NewTeacher{UserID: usr.ID, Subjects: []string{"Mathematics"}})
	require.NoError(t, err)
	return tch
}

func (e *jobsEnv) addStudent(t *testing.T, name, email string) school.Student {
	t.Helper()
	ctx := context.Background()
	usr, err := e.users.Create(ctx, user.NewUser{Name: name, Email: email, Role: user.RoleStudent})
	require.NoError(t, err)
	std, err := e.schools.CreateStudent(ctx, school.NewStudent{UserID: usr.ID, ClassName: "5A"})
	require.NoError(t, err)
	return std
}

func (e *jobsEnv) addLesson(t *testing.T, teacherID string, date time.Time) school.Lesson {
	t.Helper()
	les, err := e.schools.CreateLesson(context.Background(), school.NewLesson{
		Subject:   "Mathematics",
		Date:      date,
		Topic:     "Topic",
		ClassName: "5A",
		TeacherID: teacherID,
	})
	require.NoError(t, err)
	return les
}

func (e *jobsEnv) addGrade(t *testing.T, studentID, teacherID string, score float64, date time.Time) {
	t.Helper()
	_, err := e.records.CreateGrade(context.Background(), record.NewGrade{
		StudentID: studentID,
		TeacherID: teacherID,
		Subject:   "Mathematics",
		Score:     score,
		Date:      date,
	})
	require.NoError(t, err)
}

func (e *jobsEnv) markAttendance(t *testing.T, studentID, lessonID string, present bool, date time.Time) {
	t.Helper()
	_, err := e.records.MarkAttendance(context.Background(), record.NewAttendance{
		StudentID: studentID,
		LessonID:  lessonID,
		Present:   &present,
		Date:      date,
	})
	require.NoError(t, err)
}

func (e *jobsEnv) addHomework(t *testing.T, teacherID, lessonID string, due time.Time) record.Homework {
	t.Helper()
	hw, err := e.records.CreateHomework(context.Background(), record.NewHomework{
		Title:     "Worksheet",
		DueDate:   due,
		LessonID:  lessonID,
		TeacherID: teacherID,
	})
	require.NoError(t, err)
	return hw
}

func TestCheckGradingTimeliness(t *testing.T) {
	env := newJobsEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	behind := env.addTeacher(t, "Jane", "jane@school.test")
	onTime := env.addTeacher(t, "John", "john@school.test")
	std := env.addStudent(t, "Sam", "sam@school.test")

	// two old ungraded lessons for Jane
	env.addLesson(t, behind.ID, now.AddDate(0, 0, -5))
	env.addLesson(t, behind.ID, now.AddDate(0, 0, -6))

	// John's old lesson has a grade recorded the same day
	lessonDate := now.AddDate(0, 0, -5)
	env.addLesson(t, onTime.ID, lessonDate)
	env.addGrade(t, std.ID, onTime.ID, 4.0, lessonDate)

	require.NoError(t, env.jobs.CheckGradingTimeliness(ctx))

	sent := env.messenger.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{behind.UserID}, sent[0].RecipientIDs)
	assert.Equal(t, "Grading reminder", sent[0].Title)
	assert.Contains(t, sent[0].Text, "2 lessons")
}

func TestCheckGradingTimelinessRecentLessonsIgnored(t *testing.T) {
	env := newJobsEnv(t)
	tch := env.addTeacher(t, "Jane", "jane@school.test")

	// within the grading deadline, no reminder yet
	env.addLesson(t, tch.ID, time.Now().UTC().AddDate(0, 0, -1))

	require.NoError(t, env.jobs.CheckGradingTimeliness(context.Background()))
	assert.Empty(t, env.messenger.Sent())
}

func TestSendWeeklyReports(t *testing.T) {
	env := newJobsEnv(t)
	now := time.Now().UTC()

	tch := env.addTeacher(t, "Jane", "jane@school.test")
	std := env.addStudent(t, "Sam", "sam@school.test")
	env.addGrade(t, std.ID, tch.ID, 4.0, now.AddDate(0, 0, -7))
	env.addGrade(t, std.ID, tch.ID, 5.0, now.AddDate(0, 0, -2))

	emailsBefore := len(emailsvc.SentMessages)
	require.NoError(t, env.jobs.SendWeeklyReports(context.Background()))

	sent := env.messenger.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{std.UserID}, sent[0].RecipientIDs)
	assert.Equal(t, "Weekly progress report", sent[0].Title)
	assert.Contains(t, sent[0].Text, "Mathematics")
	assert.Contains(t, sent[0].Text, "Grades: average 4.50 over 2 grades.")
	assert.Contains(t, sent[0].Text, "Keep up the good work.")

	require.Len(t, emailsvc.SentMessages, emailsBefore+1)
	msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	assert.Equal(t, "Weekly progress report", msg.Subject)
	assert.Equal(t, "sam@school.test", msg.To[0].Address)

	// body rendered through the weekly-report email templates
	assert.Contains(t, msg.TextContent, "Hello Sam,")
	assert.Contains(t, msg.TextContent, "Grades: average 4.50 over 2 grades.")
	assert.Contains(t, msg.HTMLContent, "<p>Hello Sam,</p>")
	assert.Contains(t, msg.HTMLContent, "Keep up the good work.")
}

func TestSendDailyAlerts(t *testing.T) {
	env := newJobsEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	tch := env.addTeacher(t, "Jane", "jane@school.test")
	flagged := env.addStudent(t, "Sam", "sam@school.test")
	fine := env.addStudent(t, "Alex", "alex@school.test")

	// 50% attendance for Sam, full attendance for Alex
	for i := 0; i < 2; i++ {
		date := now.AddDate(0, 0, -i-1)
		les := env.addLesson(t, tch.ID, date)
		env.markAttendance(t, flagged.ID, les.ID, i == 0, date)
		env.markAttendance(t, fine.ID, les.ID, true, date)
	}

	// declining grades for Sam
	for i, score := range []float64{5.0, 5.0, 3.0, 3.0} {
		env.addGrade(t, flagged.ID, tch.ID, score, now.AddDate(0, 0, -8+i*2))
	}

	// three overdue homework assignments for Sam, all completed by Alex
	les := env.addLesson(t, tch.ID, now.AddDate(0, 0, -10))
	for i := 0; i < 3; i++ {
		hw := env.addHomework(t, tch.ID, les.ID, now.AddDate(0, 0, -i-2))
		_, err := env.records.SubmitHomework(ctx, record.NewSubmission{
			HomeworkID:  hw.ID,
			StudentID:   fine.ID,
			IsCompleted: true,
		})
		require.NoError(t, err)
	}

	require.NoError(t, env.jobs.SendDailyAlerts(ctx))

	sent := env.messenger.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{flagged.UserID}, sent[0].RecipientIDs)
	assert.Equal(t, "Progress alert", sent[0].Title)

	lines := strings.Split(sent[0].Text, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], analytics.AlertLowAttendance)
	assert.Contains(t, lines[1], analytics.AlertDecliningGrades)
	assert.Contains(t, lines[2], analytics.AlertMissingHomework)
}

func TestSendDailyAlertsNothingToFlag(t *testing.T) {
	env := newJobsEnv(t)
	now := time.Now().UTC()

	tch := env.addTeacher(t, "Jane", "jane@school.test")
	std := env.addStudent(t, "Sam", "sam@school.test")
	les := env.addLesson(t, tch.ID, now.AddDate(0, 0, -1))
	env.markAttendance(t, std.ID, les.ID, true, now.AddDate(0, 0, -1))
	env.addGrade(t, std.ID, tch.ID, 4.0, now.AddDate(0, 0, -1))

	require.NoError(t, env.jobs.SendDailyAlerts(context.Background()))
	assert.Empty(t, env.messenger.Sent())
}
