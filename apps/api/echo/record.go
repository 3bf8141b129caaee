package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusight/backend/core/record"
)

// defaultWindowDays is used when a list endpoint gets no `days` param.
const defaultWindowDays = 30

type recordApi struct {
	svc *record.Service
}

func registerRecordAPI(g *echo.Group, svc *record.Service) {
	api := recordApi{svc: svc}

	gg := g.Group("/grades")
	gg.POST("", api.gradeCreate)
	gg.GET("", api.gradeQuery)
	gg.GET("/:id", api.gradeRetrieve)
	gg.PUT("/:id", api.gradeUpdate)
	gg.DELETE("/:id", api.gradeDestroy)

	ag := g.Group("/attendance")
	ag.POST("", api.attendanceCreate)
	ag.DELETE("/:id", api.attendanceDestroy)

	hg := g.Group("/homework")
	hg.POST("", api.homeworkCreate)
	hg.GET("", api.homeworkQuery)
	hg.GET("/:id", api.homeworkRetrieve)
	hg.PUT("/:id", api.homeworkUpdate)
	hg.DELETE("/:id", api.homeworkDestroy)
	hg.GET("/:id/submissions", api.submissionQuery)
	hg.POST("/:id/submissions", api.submissionCreate)

	// per-student record listings
	sg := g.Group("/students/:id")
	sg.GET("/grades", api.gradesByStudent)
	sg.GET("/attendance", api.attendanceByStudent)
}

func windowDays(ctx echo.Context) (int, error) {
	raw := ctx.QueryParam("days")
	if raw == "" {
		return defaultWindowDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "days must be an integer")
	}
	return days, nil
}

// Grades

func (api *recordApi) gradeCreate(ctx echo.Context) error {
	var data record.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	grd, err := api.svc.CreateGrade(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, grd)
}

func (api *recordApi) gradeQuery(ctx echo.Context) error {
	grades, err := api.svc.QueryGrades(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *recordApi) gradeRetrieve(ctx echo.Context) error {
	grd, err := api.svc.GetGrade(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *recordApi) gradeUpdate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.GetGrade(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data record.UpdateGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	grd, err := api.svc.UpdateGrade(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *recordApi) gradeDestroy(ctx echo.Context) error {
	if err := api.svc.DeleteGrades(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *recordApi) gradesByStudent(ctx echo.Context) error {
	days, err := windowDays(ctx)
	if err != nil {
		return err
	}

	grades, err := api.svc.GradesForStudent(ctx.Request().Context(), ctx.Param("id"), days)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grades)
}

// Attendance

func (api *recordApi) attendanceCreate(ctx echo.Context) error {
	var data record.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	att, err := api.svc.MarkAttendance(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *recordApi) attendanceByStudent(ctx echo.Context) error {
	days, err := windowDays(ctx)
	if err != nil {
		return err
	}

	records, err := api.svc.AttendanceForStudent(ctx.Request().Context(), ctx.Param("id"), days)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *recordApi) attendanceDestroy(ctx echo.Context) error {
	if err := api.svc.DeleteAttendance(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Homework

func (api *recordApi) homeworkCreate(ctx echo.Context) error {
	var data record.NewHomework
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHomework")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	hw, err := api.svc.CreateHomework(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating homework")
	}
	return ctx.JSON(http.StatusCreated, hw)
}

func (api *recordApi) homeworkQuery(ctx echo.Context) error {
	hws, err := api.svc.QueryHomework(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying homework")
	}
	return ctx.JSON(http.StatusOK, hws)
}

func (api *recordApi) homeworkRetrieve(ctx echo.Context) error {
	hw, err := api.svc.GetHomework(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, hw)
}

func (api *recordApi) homeworkUpdate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.GetHomework(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data record.UpdateHomework
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateHomework")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	hw, err := api.svc.UpdateHomework(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating homework")
	}
	return ctx.JSON(http.StatusOK, hw)
}

func (api *recordApi) homeworkDestroy(ctx echo.Context) error {
	if err := api.svc.DeleteHomework(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting homework")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Submissions

func (api *recordApi) submissionCreate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	// 404 if the homework does not exist
	hw, err := api.svc.GetHomework(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data record.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	data.HomeworkID = hw.ID
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.SubmitHomework(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "submitting homework")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *recordApi) submissionQuery(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	hw, err := api.svc.GetHomework(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	subs, err := api.svc.SubmissionsForHomework(reqCtx, hw.ID)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}
