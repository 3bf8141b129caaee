package school

import (
	"time"

	"github.com/edusight/backend/core"
)

type Student struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ClassName string    `json:"class_name"` // e.g. "5A"
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Teacher struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Subjects  []string  `json:"subjects"` // e.g. ["Mathematics", "Physics"]
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Lesson struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Date      time.Time `json:"date"`
	Topic     string    `json:"topic"`
	ClassName string    `json:"class_name"`
	TeacherID string    `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudent contains information needed to enroll a student.
type NewStudent struct {
	UserID    string `json:"user_id" validate:"required"`
	ClassName string `json:"class_name" validate:"required"`
}

func (ns *NewStudent) Validate() error {
	ns.ClassName = core.CleanString(ns.ClassName)
	return core.Validate.Struct(ns)
}

type UpdateStudent struct {
	ClassName string `json:"class_name"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	cls := core.CleanString(us.ClassName)
	if cls != "" {
		us.ClassName = cls
	} else {
		us.ClassName = orig.ClassName
	}
	return core.Validate.Struct(us)
}

type NewTeacher struct {
	UserID   string   `json:"user_id" validate:"required"`
	Subjects []string `json:"subjects" validate:"required,min=1,dive,required"`
}

func (nt *NewTeacher) Validate() error {
	for i, s := range nt.Subjects {
		nt.Subjects[i] = core.CleanString(s)
	}
	return core.Validate.Struct(nt)
}

type UpdateTeacher struct {
	Subjects []string `json:"subjects" validate:"omitempty,min=1,dive,required"`
}

func (ut *UpdateTeacher) Validate(orig Teacher) error {
	if ut.Subjects == nil {
		ut.Subjects = orig.Subjects
	}
	for i, s := range ut.Subjects {
		ut.Subjects[i] = core.CleanString(s)
	}
	return core.Validate.Struct(ut)
}

type NewLesson struct {
	Subject   string    `json:"subject" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Topic     string    `json:"topic" validate:"required"`
	ClassName string    `json:"class_name" validate:"required"`
	TeacherID string    `json:"teacher_id" validate:"required"`
}

func (nl *NewLesson) Validate() error {
	nl.Subject = core.CleanString(nl.Subject)
	nl.Topic = core.CleanString(nl.Topic)
	nl.ClassName = core.CleanString(nl.ClassName)
	return core.Validate.Struct(nl)
}

type UpdateLesson struct {
	Subject   string    `json:"subject"`
	Date      time.Time `json:"date"`
	Topic     string    `json:"topic"`
	ClassName string    `json:"class_name"`
}

func (ul *UpdateLesson) Validate(orig Lesson) error {
	if s := core.CleanString(ul.Subject); s != "" {
		ul.Subject = s
	} else {
		ul.Subject = orig.Subject
	}
	if t := core.CleanString(ul.Topic); t != "" {
		ul.Topic = t
	} else {
		ul.Topic = orig.Topic
	}
	if c := core.CleanString(ul.ClassName); c != "" {
		ul.ClassName = c
	} else {
		ul.ClassName = orig.ClassName
	}
	if ul.Date.IsZero() {
		ul.Date = orig.Date
	}
	return core.Validate.Struct(ul)
}
