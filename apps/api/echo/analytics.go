package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusight/backend/core/analytics"
)

type analyticsApi struct {
	svc *analytics.Service
}

func registerAnalyticsAPI(g *echo.Group, svc *analytics.Service) {
	api := analyticsApi{svc: svc}

	g.GET("/analytics/overview", api.overview)
	g.GET("/analytics/class/:class_name/overview", api.classOverview)

	ag := g.Group("/analytics/students/:id")
	ag.GET("/grades", api.gradeSummary)
	ag.GET("/attendance", api.attendanceSummary)
	ag.GET("/homework", api.homeworkSummary)
	ag.GET("/report", api.report)
}

func (api *analyticsApi) overview(ctx echo.Context) error {
	ov, err := api.svc.Overview(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *analyticsApi) classOverview(ctx echo.Context) error {
	days, err := windowDays(ctx)
	if err != nil {
		return err
	}

	ov, err := api.svc.ClassOverview(ctx.Request().Context(), ctx.Param("class_name"), days)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *analyticsApi) gradeSummary(ctx echo.Context) error {
	days, err := windowDays(ctx)
	if err != nil {
		return err
	}

	sum, err := api.svc.GradeSummary(ctx.Request().Context(), ctx.Param("id"), days)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *analyticsApi) attendanceSummary(ctx echo.Context) error {
	days, err := windowDays(ctx)
	if err != nil {
		return err
	}

	sum, err := api.svc.AttendanceSummary(ctx.Request().Context(), ctx.Param("id"), days)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *analyticsApi) homeworkSummary(ctx echo.Context) error {
	days, err := windowDays(ctx)
	if err != nil {
		return err
	}

	sum, err := api.svc.HomeworkSummary(ctx.Request().Context(), ctx.Param("id"), days)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *analyticsApi) report(ctx echo.Context) error {
	days, err := windowDays(ctx)
	if err != nil {
		return err
	}

	rpt, err := api.svc.ComprehensiveReport(ctx.Request().Context(), ctx.Param("id"), days)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rpt)
}
