package record

import (
	"time"

	"github.com/edusight/backend/core"
)

type Grade struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	TeacherID   string    `json:"teacher_id"`
	Subject     string    `json:"subject"`
	Score       float64   `json:"score"` // e.g. 1.0 - 5.0
	Date        time.Time `json:"date"`
	LessonTopic string    `json:"lesson_topic,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Attendance struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	LessonID  string    `json:"lesson_id"`
	Present   bool      `json:"present"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type Homework struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"due_date"`
	LessonID    string    `json:"lesson_id"`
	TeacherID   string    `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Submission struct {
	ID          string    `json:"id"`
	HomeworkID  string    `json:"homework_id"`
	StudentID   string    `json:"student_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Content     string    `json:"content,omitempty"`
	Grade       *float64  `json:"grade,omitempty"`
	Feedback    string    `json:"feedback,omitempty"`
	IsCompleted bool      `json:"is_completed"`
}

type NewGrade struct {
	StudentID   string    `json:"student_id" validate:"required"`
	TeacherID   string    `json:"teacher_id" validate:"required"`
	Subject     string    `json:"subject" validate:"required"`
	Score       float64   `json:"score" validate:"required,gte=1,lte=5"`
	Date        time.Time `json:"date" validate:"required"`
	LessonTopic string    `json:"lesson_topic"`
}

func (ng *NewGrade) Validate() error {
	ng.Subject = core.CleanString(ng.Subject)
	ng.LessonTopic = core.CleanString(ng.LessonTopic)
	return core.Validate.Struct(ng)
}

type UpdateGrade struct {
	Subject     string    `json:"subject"`
	Score       *float64  `json:"score" validate:"omitempty,gte=1,lte=5"`
	Date        time.Time `json:"date"`
	LessonTopic string    `json:"lesson_topic"`
}

func (ug *UpdateGrade) Validate(orig Grade) error {
	if s := core.CleanString(ug.Subject); s != "" {
		ug.Subject = s
	} else {
		ug.Subject = orig.Subject
	}
	if ug.Score == nil {
		ug.Score = &orig.Score
	}
	if ug.Date.IsZero() {
		ug.Date = orig.Date
	}
	if t := core.CleanString(ug.LessonTopic); t != "" {
		ug.LessonTopic = t
	} else {
		ug.LessonTopic = orig.LessonTopic
	}
	return core.Validate.Struct(ug)
}

type NewAttendance struct {
	StudentID string    `json:"student_id" validate:"required"`
	LessonID  string    `json:"lesson_id" validate:"required"`
	Present   *bool     `json:"present" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
}

func (na *NewAttendance) Validate() error {
	return core.Validate.Struct(na)
}

type NewHomework struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	LessonID    string    `json:"lesson_id" validate:"required"`
	TeacherID   string    `json:"teacher_id" validate:"required"`
}

func (nh *NewHomework) Validate() error {
	nh.Title = core.CleanString(nh.Title)
	nh.Description = core.CleanString(nh.Description)
	return core.Validate.Struct(nh)
}

type UpdateHomework struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

func (uh *UpdateHomework) Validate(orig Homework) error {
	if t := core.CleanString(uh.Title); t != "" {
		uh.Title = t
	} else {
		uh.Title = orig.Title
	}
	if d := core.CleanString(uh.Description); d != "" {
		uh.Description = d
	} else {
		uh.Description = orig.Description
	}
	if uh.DueDate.IsZero() {
		uh.DueDate = orig.DueDate
	}
	return core.Validate.Struct(uh)
}

type NewSubmission struct {
	HomeworkID  string   `json:"homework_id" validate:"required"`
	StudentID   string   `json:"student_id" validate:"required"`
	Content     string   `json:"content"`
	Grade       *float64 `json:"grade" validate:"omitempty,gte=1,lte=5"`
	Feedback    string   `json:"feedback"`
	IsCompleted bool     `json:"is_completed"`
}

func (ns *NewSubmission) Validate() error {
	ns.Content = core.CleanString(ns.Content)
	ns.Feedback = core.CleanString(ns.Feedback)
	return core.Validate.Struct(ns)
}
