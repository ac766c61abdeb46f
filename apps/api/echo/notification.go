package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core/notification"
)

type notificationApi struct {
	deps *Deps
}

func registerNotificationAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *Deps) {
	api := notificationApi{deps: deps}

	ng := g.Group("/notificaciones", authed)
	ng.GET("", api.list)
	ng.PUT("/:id/leer", api.markRead)
	ng.DELETE("/:id", api.destroy)
}

func (api *notificationApi) list(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	notifs, err := api.deps.NotificationSvc.List(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "listing notifications")
	}
	return ctx.JSON(http.StatusOK, notifs)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx, notification.ErrNotFound)
	if err != nil {
		return err
	}
	if err = api.deps.NotificationSvc.MarkRead(ctx.Request().Context(), studentID, id); err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "Notificación marcada como leída"})
}

func (api *notificationApi) destroy(ctx echo.Context) error {
	studentID, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx, notification.ErrNotFound)
	if err != nil {
		return err
	}
	if err = api.deps.NotificationSvc.Delete(ctx.Request().Context(), studentID, id); err != nil {
		return errors.Wrap(err, "deleting notification")
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: "Notificación eliminada"})
}
