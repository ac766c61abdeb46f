package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/task"
)

const taskColumns = `id, titulo, descripcion, materia_id, prioridad, fecha_vencimiento, activa, fecha_creacion`

type taskRepository struct {
	baseRepository
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(exec core.DBExecutor) *taskRepository {
	return &taskRepository{baseRepository{exec: exec}}
}

func (repo taskRepository) CreateTask(ctx context.Context, t task.Task, exec ...core.DBExecutor) (task.Task, error) {
	var created task.Task
	err := sqlx.GetContext(ctx, repo.getExec(exec), &created,
		`INSERT INTO tareas (titulo, descripcion, materia_id, prioridad, fecha_vencimiento, activa, fecha_creacion)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+taskColumns,
		t.Title, t.Description, t.SubjectID, t.Priority, t.DueDate, t.IsActive, t.CreatedAt)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return created, nil
}

func (repo taskRepository) AssignToEnrolled(ctx context.Context, taskID, subjectID int, exec ...core.DBExecutor) ([]string, error) {
	ids := make([]string, 0)
	err := sqlx.SelectContext(ctx, repo.getExec(exec), &ids,
		`INSERT INTO tareas_estudiantes (estudiante_id, tarea_id, completada)
		 SELECT em.estudiante_id, $1::integer, FALSE
		 FROM estudiantes_materias em
		 WHERE em.materia_id = $2
		 ON CONFLICT DO NOTHING
		 RETURNING estudiante_id`, taskID, subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "assigning task")
	}
	return ids, nil
}

func (repo taskRepository) GetActiveTask(ctx context.Context, id int, exec ...core.DBExecutor) (task.Task, error) {
	var t task.Task
	err := sqlx.GetContext(ctx, repo.getExec(exec), &t,
		`SELECT `+taskColumns+` FROM tareas WHERE id = $1 AND activa = TRUE`, id)
	if err != nil {
		return task.Task{}, trapNoRowsErr(err, task.ErrNotFound, "finding task")
	}
	return t, nil
}

func (repo taskRepository) ListForStudent(ctx context.Context, studentID string, today core.Date, exec ...core.DBExecutor) ([]task.StudentTask, error) {
	rows := make([]task.StudentTask, 0)
	err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows,
		`SELECT t.id, t.titulo, t.descripcion, t.fecha_vencimiento, t.prioridad, t.materia_id,
		        m.nombre AS clase, m.icono,
		        te.completada, te.fecha_completada,
		        (t.fecha_vencimiento < $2::date) AS vencida
		 FROM tareas_estudiantes te
		 JOIN tareas t ON te.tarea_id = t.id
		 JOIN materias m ON t.materia_id = m.id
		 WHERE te.estudiante_id = $1 AND t.activa = TRUE
		 ORDER BY t.fecha_vencimiento ASC, t.id ASC`, studentID, today)
	if err != nil {
		return nil, errors.Wrap(err, "listing student tasks")
	}
	return rows, nil
}

func (repo taskRepository) SetCompletion(ctx context.Context, studentID string, taskID int, completed bool, at time.Time, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE tareas_estudiantes te
		 SET completada = $1,
		     fecha_completada = CASE WHEN $1 THEN COALESCE(te.fecha_completada, $2) ELSE NULL END
		 FROM tareas t
		 WHERE te.tarea_id = t.id AND t.activa = TRUE AND te.tarea_id = $3 AND te.estudiante_id = $4`,
		completed, at, taskID, studentID)
	if err != nil {
		return errors.Wrap(err, "setting task completion")
	}
	return checkAffected(res, task.ErrNotFound, "setting task completion")
}

func (repo taskRepository) Deactivate(ctx context.Context, taskID int, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `UPDATE tareas SET activa = FALSE WHERE id = $1 AND activa = TRUE`, taskID)
	if err != nil {
		return errors.Wrap(err, "deactivating task")
	}
	return checkAffected(res, task.ErrNotFound, "deactivating task")
}
