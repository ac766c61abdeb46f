package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type healthApi struct {
	deps *Deps
}

func registerHealthAPI(g *echo.Group, deps *Deps) {
	api := healthApi{deps: deps}
	g.GET("/health", api.health)
	g.GET("/test-db", api.testDB)
}

func (api *healthApi) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"mensaje":   "🚀 Servidor funcionando correctamente",
		"timestamp": api.deps.Now().UTC().Format(time.RFC3339Nano),
	})
}

// testDB reports the database status; failures are answered here, not by the error handler.
func (api *healthApi) testDB(ctx echo.Context) error {
	status, err := api.deps.DBChecker.CheckDB(ctx.Request().Context())
	if err != nil {
		if api.deps.Logger != nil {
			api.deps.Logger.Error("database check failed", err)
		}
		return ctx.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "❌ Error conectando a la base de datos",
			"details": err.Error(),
		})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"database": "✅ Conectado a la base de datos",
		"time":     status.Time,
		"version":  status.Version,
	})
}
