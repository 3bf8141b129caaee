package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/backend/core/record"
	"github.com/edusight/backend/core/school"
)

func (d *testDeps) createLesson(t *testing.T, teacherID, subject string, date time.Time) school.Lesson {
	t.Helper()
	les, err := d.schools.CreateLesson(context.Background(), school.NewLesson{
		Subject:   subject,
		Date:      date,
		Topic:     "Topic",
		ClassName: "5A",
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("createLesson() failed: %v", err)
	}
	return les
}

func (d *testDeps) createHomework(t *testing.T, teacherID, lessonID string, due time.Time) record.Homework {
	t.Helper()
	hw, err := d.records.CreateHomework(context.Background(), record.NewHomework{
		Title:     "Worksheet",
		DueDate:   due,
		LessonID:  lessonID,
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("createHomework() failed: %v", err)
	}
	return hw
}

func TestGradeCreate(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")
	tch := deps.createTeacher(t, "Jane", "jane@school.test", []string{"Mathematics"})

	rec := deps.request(http.MethodPost, "/v1/grades",
		[]byte(fmt.Sprintf(
			`{"student_id": %q, "teacher_id": %q, "subject": "Mathematics", "score": 4.5, "date": "2026-03-09T09:00:00Z"}`,
			std.ID, tch.ID)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var grd record.Grade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grd))
	assert.NotEmpty(t, grd.ID)
	assert.Equal(t, 4.5, grd.Score)
	assert.Equal(t, "Mathematics", grd.Subject)
}

func TestGradeCreateValidation(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")
	tch := deps.createTeacher(t, "Jane", "jane@school.test", []string{"Mathematics"})

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{}`},
		{"score too low", fmt.Sprintf(`{"student_id": %q, "teacher_id": %q, "subject": "Mathematics", "score": 0.5, "date": "2026-03-09T09:00:00Z"}`, std.ID, tch.ID)},
		{"score too high", fmt.Sprintf(`{"student_id": %q, "teacher_id": %q, "subject": "Mathematics", "score": 5.5, "date": "2026-03-09T09:00:00Z"}`, std.ID, tch.ID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := deps.request(http.MethodPost, "/v1/grades", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestGradeUpdate(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")
	tch := deps.createTeacher(t, "Jane", "jane@school.test", []string{"Mathematics"})
	grd := deps.createGrade(t, std.ID, tch.ID, "Mathematics", 3.0, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := deps.request(http.MethodPut, "/v1/grades/"+grd.ID, []byte(`{"score": 4.0}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got record.Grade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 4.0, got.Score)
	// untouched fields keep their values
	assert.Equal(t, "Mathematics", got.Subject)
	assert.Equal(t, std.ID, got.StudentID)
}

func TestGradeDestroy(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")
	tch := deps.createTeacher(t, "Jane", "jane@school.test", []string{"Mathematics"})
	grd := deps.createGrade(t, std.ID, tch.ID, "Mathematics", 3.0, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := deps.request(http.MethodDelete, "/v1/grades/"+grd.ID)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = deps.request(http.MethodGet, "/v1/grades/"+grd.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGradesByStudent(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")
	tch := deps.createTeacher(t, "Jane", "jane@school.test", []string{"Mathematics"})

	now := time.Now().UTC()
	deps.createGrade(t, std.ID, tch.ID, "Mathematics", 4.0, now.AddDate(0, 0, -2))
	deps.createGrade(t, std.ID, tch.ID, "Mathematics", 3.0, now.AddDate(0, 0, -60))

	rec := deps.request(http.MethodGet, "/v1/students/"+std.ID+"/grades")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var grades []record.Grade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grades))
	require.Len(t, grades, 1)
	assert.Equal(t, 4.0, grades[0].Score)

	rec = deps.request(http.MethodGet, "/v1/students/"+std.ID+"/grades?days=90")
	require.Equal(t, http.StatusOK, rec.Code)
	grades = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grades))
	assert.Len(t, grades, 2)
}

func TestGradesByStudentBadWindow(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")

	rec := deps.request(http.MethodGet, "/v1/students/"+std.ID+"/grades?days=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = deps.request(http.MethodGet, "/v1/students/"+std.ID+"/grades?days=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestAttendanceCreateAndList(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")
	tch := deps.createTeacher(t, "Jane", "jane@school.test", []string{"Mathematics"})
	les := deps.createLesson(t, tch.ID, "Mathematics", time.Now().UTC().AddDate(0, 0, -1))

	rec := deps.request(http.MethodPost, "/v1/attendance",
		[]byte(fmt.Sprintf(
			`{"student_id": %q, "lesson_id": %q, "present": false, "date": %q}`,
			std.ID, les.ID, time.Now().UTC().AddDate(0, 0, -1).Format(time.RFC3339))))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var att record.Attendance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &att))
	assert.False(t, att.Present)

	rec = deps.request(http.MethodGet, "/v1/students/"+std.ID+"/attendance")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []record.Attendance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	rec = deps.request(http.MethodDelete, "/v1/attendance/"+att.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAttendanceCreateRequiresPresent(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")

	rec := deps.request(http.MethodPost, "/v1/attendance",
		[]byte(fmt.Sprintf(`{"student_id": %q, "lesson_id": "les1", "date": "2026-03-09T09:00:00Z"}`, std.ID)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestHomeworkCRUD(t *testing.T) {
	deps := setup(t)
	tch := deps.createTeacher(t, "Jane", "jane@school.test", []string{"Mathematics"})
	les := deps.createLesson(t, tch.ID, "Mathematics", time.Now().UTC())

	rec := deps.request(http.MethodPost, "/v1/homework",
		[]byte(fmt.Sprintf(
			`{"title": "Worksheet", "due_date": "2026-03-16T00:00:00Z", "lesson_id": %q, "teacher_id": %q}`,
			les.ID, tch.ID)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var hw record.Homework
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hw))
	assert.Equal(t, "Worksheet", hw.Title)

	rec = deps.request(http.MethodPut, "/v1/homework/"+hw.ID, []byte(`{"title": "Worksheet v2"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hw))
	assert.Equal(t, "Worksheet v2", hw.Title)

	rec = deps.request(http.MethodGet, "/v1/homework")
	require.Equal(t, http.StatusOK, rec.Code)
	var hws []record.Homework
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hws))
	assert.Len(t, hws, 1)

	rec = deps.request(http.MethodDelete, "/v1/homework/"+hw.ID)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = deps.request(http.MethodGet, "/v1/homework/"+hw.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmissionCreateAndList(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")
	tch := deps.createTeacher(t, "Jane", "jane@school.test", []string{"Mathematics"})
	les := deps.createLesson(t, tch.ID, "Mathematics", time.Now().UTC())
	hw := deps.createHomework(t, tch.ID, les.ID, time.Now().UTC().AddDate(0, 0, 7))

	rec := deps.request(http.MethodPost, "/v1/homework/"+hw.ID+"/submissions",
		[]byte(fmt.Sprintf(`{"student_id": %q, "content": "done", "is_completed": true}`, std.ID)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sub record.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Equal(t, hw.ID, sub.HomeworkID)
	assert.True(t, sub.IsCompleted)

	rec = deps.request(http.MethodGet, "/v1/homework/"+hw.ID+"/submissions")
	require.Equal(t, http.StatusOK, rec.Code)
	var subs []record.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
	assert.Len(t, subs, 1)
}

func TestSubmissionUnknownHomework(t *testing.T) {
	deps := setup(t)
	std := deps.createStudent(t, "Sam", "sam@school.test", "5A")

	rec := deps.request(http.MethodPost, "/v1/homework/nope/submissions",
		[]byte(fmt.Sprintf(`{"student_id": %q, "is_completed": true}`, std.ID)))
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = deps.request(http.MethodGet, "/v1/homework/nope/submissions")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
