package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusight/backend/core/school"
)

type schoolApi struct {
	svc *school.Service
}

func registerSchoolAPI(g *echo.Group, svc *school.Service) {
	api := schoolApi{svc: svc}

	sg := g.Group("/students")
	sg.POST("", api.studentCreate)
	sg.GET("", api.studentQuery)
	sg.GET("/:id", api.studentRetrieve)
	sg.PUT("/:id", api.studentUpdate)
	sg.DELETE("/:id", api.studentDestroy)

	tg := g.Group("/teachers")
	tg.POST("", api.teacherCreate)
	tg.GET("", api.teacherQuery)
	tg.GET("/:id", api.teacherRetrieve)
	tg.PUT("/:id", api.teacherUpdate)
	tg.DELETE("/:id", api.teacherDestroy)

	lg := g.Group("/lessons")
	lg.POST("", api.lessonCreate)
	lg.GET("", api.lessonQuery)
	lg.GET("/:id", api.lessonRetrieve)
	lg.PUT("/:id", api.lessonUpdate)
	lg.DELETE("/:id", api.lessonDestroy)
}

// Students

func (api *schoolApi) studentCreate(ctx echo.Context) error {
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	std, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *schoolApi) studentQuery(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context(), ctx.QueryParam("class_name"))
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *schoolApi) studentRetrieve(ctx echo.Context) error {
	std, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *schoolApi) studentUpdate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.GetStudent(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	std, err := api.svc.UpdateStudent(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *schoolApi) studentDestroy(ctx echo.Context) error {
	if err := api.svc.DeleteStudents(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Teachers

func (api *schoolApi) teacherCreate(ctx echo.Context) error {
	var data school.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tch, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *schoolApi) teacherQuery(ctx echo.Context) error {
	teachers, err := api.svc.QueryTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *schoolApi) teacherRetrieve(ctx echo.Context) error {
	tch, err := api.svc.GetTeacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *schoolApi) teacherUpdate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.GetTeacher(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	tch, err := api.svc.UpdateTeacher(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *schoolApi) teacherDestroy(ctx echo.Context) error {
	if err := api.svc.DeleteTeachers(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Lessons

func (api *schoolApi) lessonCreate(ctx echo.Context) error {
	var data school.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	les, err := api.svc.CreateLesson(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, les)
}

func (api *schoolApi) lessonQuery(ctx echo.Context) error {
	lessons, err := api.svc.QueryLessons(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *schoolApi) lessonRetrieve(ctx echo.Context) error {
	les, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, les)
}

func (api *schoolApi) lessonUpdate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.GetLesson(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.UpdateLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	les, err := api.svc.UpdateLesson(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, les)
}

func (api *schoolApi) lessonDestroy(ctx echo.Context) error {
	if err := api.svc.DeleteLessons(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}
