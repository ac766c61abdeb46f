package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/subject"
)

type subjectRepository struct {
	baseRepository
}

var (
	_ subject.Repository = (*subjectRepository)(nil) // interface compliance check
)

func NewSubjectRepository(exec core.DBExecutor) *subjectRepository {
	return &subjectRepository{baseRepository{exec: exec}}
}

func (repo subjectRepository) ListActiveWithPending(ctx context.Context, today core.Date, exec ...core.DBExecutor) ([]subject.WithPending, error) {
	subjects := make([]subject.WithPending, 0)
	err := sqlx.SelectContext(ctx, repo.getExec(exec), &subjects,
		`SELECT m.id, m.nombre, m.codigo, m.descripcion, m.creditos, m.profesor, m.icono, m.activa,
		        COUNT(t.id) AS tareas_pendientes
		 FROM materias m
		 LEFT JOIN tareas t ON t.materia_id = m.id AND t.activa = TRUE AND t.fecha_vencimiento >= $1
		 WHERE m.activa = TRUE
		 GROUP BY m.id
		 ORDER BY m.nombre`, today)
	if err != nil {
		return nil, errors.Wrap(err, "listing subjects")
	}
	return subjects, nil
}

func (repo subjectRepository) IsEnrolled(ctx context.Context, studentID string, subjectID int, exec ...core.DBExecutor) (bool, error) {
	var enrolled bool
	err := sqlx.GetContext(ctx, repo.getExec(exec), &enrolled,
		`SELECT EXISTS (SELECT 1 FROM estudiantes_materias WHERE estudiante_id = $1 AND materia_id = $2)`,
		studentID, subjectID)
	if err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return enrolled, nil
}

func (repo subjectRepository) EnrollInAllActive(ctx context.Context, studentID string, exec ...core.DBExecutor) (int, error) {
	res, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO estudiantes_materias (estudiante_id, materia_id)
		 SELECT $1::uuid, id FROM materias WHERE activa = TRUE
		 ON CONFLICT DO NOTHING`, studentID)
	if err != nil {
		return 0, errors.Wrap(err, "enrolling student")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "enrolling student")
}

func (repo subjectRepository) StudentsEnrolledIn(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]string, error) {
	ids := make([]string, 0)
	err := sqlx.SelectContext(ctx, repo.getExec(exec), &ids,
		`SELECT estudiante_id FROM estudiantes_materias WHERE materia_id = $1 ORDER BY estudiante_id`, subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "listing enrolled students")
	}
	return ids, nil
}

func (repo subjectRepository) CreateSubject(ctx context.Context, s subject.Subject, exec ...core.DBExecutor) (subject.Subject, error) {
	var created subject.Subject
	err := sqlx.GetContext(ctx, repo.getExec(exec), &created,
		`INSERT INTO materias (nombre, codigo, descripcion, creditos, profesor, icono, activa)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, nombre, codigo, descripcion, creditos, profesor, icono, activa`,
		s.Name, s.Code, s.Description, s.Credits, s.Instructor, s.Icon, s.IsActive)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return created, nil
}

func (repo subjectRepository) EnrollAllStudents(ctx context.Context, subjectID int, exec ...core.DBExecutor) (int, error) {
	res, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO estudiantes_materias (estudiante_id, materia_id)
		 SELECT id, $1::integer FROM estudiantes WHERE activo = TRUE
		 ON CONFLICT DO NOTHING`, subjectID)
	if err != nil {
		return 0, errors.Wrap(err, "enrolling students")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "enrolling students")
}
