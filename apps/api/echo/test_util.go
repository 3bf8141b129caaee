package echoapi

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/analytics"
	"github.com/edusight/backend/core/record"
	"github.com/edusight/backend/core/school"
	"github.com/edusight/backend/core/user"
	inmemdb "github.com/edusight/backend/storage/database/inmem"
)

var validatorInit sync.Once

type testDeps struct {
	server    Server
	users     *user.Service
	schools   *school.Service
	records   *record.Service
	analytics *analytics.Service
	db        *inmemdb.DB
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func setup(t *testing.T) *testDeps {
	t.Helper()

	validatorInit.Do(func() {
		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ := uni.GetTranslator("en")
		core.InitValidators(validator.New(), translator)
	})

	conf := core.NewTestConfig()
	logger := nopLogger{}
	db := inmemdb.NewDB()

	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	schoolSvc := school.NewService(inmemdb.NewSchoolRepository(db))
	recordSvc := record.NewService(inmemdb.NewRecordRepository(db))
	analyticsSvc := analytics.NewService(inmemdb.NewAnalyticsRepository(db), nil, nil, conf, logger)

	srv := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      usrSvc,
		SchoolSvc:    schoolSvc,
		RecordSvc:    recordSvc,
		AnalyticsSvc: analyticsSvc,
	})

	return &testDeps{
		server:    srv,
		users:     usrSvc,
		schools:   schoolSvc,
		records:   recordSvc,
		analytics: analyticsSvc,
		db:        db,
	}
}

func (d *testDeps) request(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	d.server.ServeHTTP(rec, req)
	return rec
}

func (d *testDeps) createUser(t *testing.T, name, email, role string) user.User {
	t.Helper()
	usr, err := d.users.Create(context.Background(), user.NewUser{Name: name, Email: email, Role: role})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (d *testDeps) createStudent(t *testing.T, name, email, className string) school.Student {
	t.Helper()
	usr := d.createUser(t, name, email, user.RoleStudent)
	std, err := d.schools.CreateStudent(context.Background(), school.NewStudent{UserID: usr.ID, ClassName: className})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func (d *testDeps) createTeacher(t *testing.T, name, email string, subjects []string) school.Teacher {
	t.Helper()
	usr := d.createUser(t, name, email, user.RoleTeacher)
	tch, err := d.schools.CreateTeacher(context.Background(), school.NewTeacher{UserID: usr.ID, Subjects: subjects})
	if err != nil {
		t.Fatalf("createTeacher() failed: %v", err)
	}
	return tch
}

func (d *testDeps) createGrade(t *testing.T, studentID, teacherID, subject string, score float64, date time.Time) record.Grade {
	t.Helper()
	grd, err := d.records.CreateGrade(context.Background(), record.NewGrade{
		StudentID: studentID,
		TeacherID: teacherID,
		Subject:   subject,
		Score:     score,
		Date:      date,
	})
	if err != nil {
		t.Fatalf("createGrade() failed: %v", err)
	}
	return grd
}

func (d *testDeps) markAttendance(t *testing.T, studentID, lessonID string, present bool, date time.Time) {
	t.Helper()
	_, err := d.records.MarkAttendance(context.Background(), record.NewAttendance{
		StudentID: studentID,
		LessonID:  lessonID,
		Present:   &present,
		Date:      date,
	})
	if err != nil {
		t.Fatalf("markAttendance() failed: %v", err)
	}
}
