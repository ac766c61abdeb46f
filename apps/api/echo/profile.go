package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core/student"
)

type (
	profileResponse struct {
		Message string          `json:"mensaje"`
		Student student.Student `json:"estudiante"`
	}

	profileApi struct {
		deps *Deps
	}
)

func registerProfileAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *Deps) {
	api := profileApi{deps: deps}

	pg := g.Group("/perfil", authed)
	pg.GET("", api.retrieve)
	pg.PUT("", api.update)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	std, err := api.deps.StudentSvc.GetProfile(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *profileApi) update(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	std, err := api.deps.StudentSvc.UpdateProfile(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, profileResponse{Message: "Perfil actualizado", Student: std})
}
