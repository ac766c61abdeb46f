package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/student"
)

const (
	studentColumns = `id, nombre, email, telefono, carrera, semestre, password_hash, activo, ultimo_acceso, fecha_registro`

	emailUniqueConstraint = "estudiantes_email_key"
)

type studentRepository struct {
	baseRepository
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{baseRepository{exec: exec}}
}

func (repo studentRepository) EmailExists(ctx context.Context, email string, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, repo.getExec(exec), &exists,
		`SELECT EXISTS (SELECT 1 FROM estudiantes WHERE email = $1)`, email)
	if err != nil {
		return false, errors.Wrap(err, "checking email")
	}
	return exists, nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	var created student.Student
	err := sqlx.GetContext(ctx, repo.getExec(exec), &created,
		`INSERT INTO estudiantes (id, nombre, email, telefono, carrera, semestre, password_hash, activo, fecha_registro)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+studentColumns,
		s.ID, s.Name, s.Email, s.Phone, s.Program, s.Semester, s.PasswordHash, s.IsActive, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, emailUniqueConstraint) {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return created, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var s student.Student
	err := sqlx.GetContext(ctx, repo.getExec(exec), &s,
		`SELECT `+studentColumns+` FROM estudiantes WHERE id = $1`, id)
	if err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student by ID")
	}
	return s, nil
}

func (repo studentRepository) GetActiveStudentByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (student.Student, error) {
	var s student.Student
	err := sqlx.GetContext(ctx, repo.getExec(exec), &s,
		`SELECT `+studentColumns+` FROM estudiantes WHERE email = $1 AND activo = TRUE`, email)
	if err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student by email")
	}
	return s, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, id string, us student.UpdateStudent, exec ...core.DBExecutor) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var s student.Student
	err := sqlx.GetContext(ctx, repo.getExec(exec), &s,
		`UPDATE estudiantes SET nombre = $1, telefono = $2, carrera = $3, semestre = $4
		 WHERE id = $5
		 RETURNING `+studentColumns,
		us.Name, us.Phone, us.Program, us.Semester, id)
	if err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "updating student")
	}
	return s, nil
}

func (repo studentRepository) SetLastAccess(ctx context.Context, id string, at time.Time, exec ...core.DBExecutor) (student.Student, error) {
	var s student.Student
	err := sqlx.GetContext(ctx, repo.getExec(exec), &s,
		`UPDATE estudiantes SET ultimo_acceso = GREATEST(COALESCE(ultimo_acceso, $1), $1)
		 WHERE id = $2
		 RETURNING `+studentColumns,
		at, id)
	if err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "setting last access")
	}
	return s, nil
}

func (repo studentRepository) SetPasswordHash(ctx context.Context, id string, hash []byte, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `UPDATE estudiantes SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return errors.Wrap(err, "setting password hash")
	}
	return checkAffected(res, student.ErrNotFound, "setting password hash")
}
