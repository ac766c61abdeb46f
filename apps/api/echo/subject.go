package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type subjectApi struct {
	deps *Deps
}

func registerSubjectAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *Deps) {
	api := subjectApi{deps: deps}
	g.GET("/materias", api.list, authed)
}

func (api *subjectApi) list(ctx echo.Context) error {
	subjects, err := api.deps.SubjectSvc.ListWithPending(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}
