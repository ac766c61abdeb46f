package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core/task"
)

type (
	messageResponse struct {
		Message string `json:"mensaje"`
	}

	taskResponse struct {
		Message string    `json:"mensaje"`
		Task    task.Task `json:"tarea"`
	}

	taskApi struct {
		deps *Deps
	}
)

func registerTaskAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *Deps) {
	api := taskApi{deps: deps}

	tg := g.Group("/tareas", authed)
	tg.GET("", api.list)
	tg.POST("", api.create)
	tg.PUT("/:id", api.setCompletion)
	tg.DELETE("/:id", api.destroy)

	g.GET("/estadisticas", api.statistics, authed)
}

// pathID parses the ":id" path param; anything but a positive int is reported as `notFound`.
func pathID(ctx echo.Context, notFound error) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

func (api *taskApi) list(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	rows, err := api.deps.TaskSvc.ListForStudent(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "listing tasks")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *taskApi) create(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}

	var data task.NewTask
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	tsk, err := api.deps.TaskSvc.Create(ctx.Request().Context(), studentID, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, taskResponse{Message: "Tarea creada exitosamente", Task: tsk})
}

func (api *taskApi) setCompletion(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	taskID, err := pathID(ctx, task.ErrNotFound)
	if err != nil {
		return err
	}

	var data task.UpdateCompletion
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err = api.deps.TaskSvc.SetCompletion(ctx.Request().Context(), studentID, taskID, *data.Completed); err != nil {
		return errors.Wrap(err, "setting task completion")
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "Tarea actualizada"})
}

func (api *taskApi) destroy(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	taskID, err := pathID(ctx, task.ErrNotFound)
	if err != nil {
		return err
	}

	if err = api.deps.TaskSvc.Deactivate(ctx.Request().Context(), studentID, taskID); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "Tarea eliminada"})
}

func (api *taskApi) statistics(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	stats, err := api.deps.TaskSvc.Statistics(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "computing statistics")
	}
	return ctx.JSON(http.StatusOK, stats)
}
