package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/notification"
)

const notificationColumns = `id, estudiante_id, titulo, mensaje, tipo, leida, fecha_creacion`

type notificationRepository struct {
	baseRepository
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *notificationRepository {
	return &notificationRepository{baseRepository{exec: exec}}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	var created notification.Notification
	err := sqlx.GetContext(ctx, repo.getExec(exec), &created,
		`INSERT INTO notificaciones (estudiante_id, titulo, mensaje, tipo, leida, fecha_creacion)
		 VALUES ($1, $2, $3, $4, FALSE, $5)
		 RETURNING `+notificationColumns,
		n.StudentID, n.Title, n.Message, n.Kind, n.CreatedAt)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return created, nil
}

func (repo notificationRepository) ListForStudent(ctx context.Context, studentID string, limit int, exec ...core.DBExecutor) ([]notification.Notification, error) {
	notifs := make([]notification.Notification, 0)
	err := sqlx.SelectContext(ctx, repo.getExec(exec), &notifs,
		`SELECT `+notificationColumns+`
		 FROM notificaciones
		 WHERE estudiante_id = $1
		 ORDER BY fecha_creacion DESC, id DESC
		 LIMIT $2`, studentID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	return notifs, nil
}

func (repo notificationRepository) MarkRead(ctx context.Context, studentID string, id int, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE notificaciones SET leida = TRUE WHERE id = $1 AND estudiante_id = $2`, id, studentID)
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return checkAffected(res, notification.ErrNotFound, "marking notification read")
}

func (repo notificationRepository) Delete(ctx context.Context, studentID string, id int, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx,
		`DELETE FROM notificaciones WHERE id = $1 AND estudiante_id = $2`, id, studentID)
	if err != nil {
		return errors.Wrap(err, "deleting notification")
	}
	return checkAffected(res, notification.ErrNotFound, "deleting notification")
}
