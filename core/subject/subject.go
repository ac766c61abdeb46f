package subject

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
)

var ErrNotFound = errors.New("materia no encontrada")

const defaultIcon = "📚"

type Subject struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"nombre" db:"nombre"`
	Code        string `json:"codigo" db:"codigo"`
	Description string `json:"descripcion" db:"descripcion"`
	Credits     int    `json:"creditos" db:"creditos"`
	Instructor  string `json:"profesor" db:"profesor"`
	Icon        string `json:"icono" db:"icono"`
	IsActive    bool   `json:"activa" db:"activa"`
}

// WithPending is a subject plus the count of its active tasks not yet due.
// The count is per subject, not per student.
type WithPending struct {
	Subject
	PendingTasks int `json:"tareas_pendientes" db:"tareas_pendientes"`
}

type NewSubject struct {
	Name        string `validate:"required,notblank,max=120"`
	Code        string `validate:"max=20"`
	Description string
	Credits     int    `validate:"gte=0"`
	Instructor  string `validate:"max=120"`
	Icon        string `validate:"max=16"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code)
	ns.Instructor = core.CleanString(ns.Instructor)
	ns.Icon = core.CleanString(ns.Icon)
	if ns.Icon == "" {
		ns.Icon = defaultIcon
	}
	return validate.Struct(ns)
}

type (
	// Repository is the enrollment ledger plus the subject catalog.
	Repository interface {
		// ListActiveWithPending returns active subjects ordered by name; pending counts
		// active tasks due on or after `today`.
		ListActiveWithPending(ctx context.Context, today core.Date, exec ...core.DBExecutor) ([]WithPending, error)
		IsEnrolled(ctx context.Context, studentID string, subjectID int, exec ...core.DBExecutor) (bool, error)
		EnrollInAllActive(ctx context.Context, studentID string, exec ...core.DBExecutor) (int, error)
		StudentsEnrolledIn(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]string, error)
		CreateSubject(ctx context.Context, s Subject, exec ...core.DBExecutor) (Subject, error)
		// EnrollAllStudents enrolls every active student in the subject; returns how many rows were added.
		EnrollAllStudents(ctx context.Context, subjectID int, exec ...core.DBExecutor) (int, error)
	}

	ServiceInterface interface {
		ListWithPending(ctx context.Context) ([]WithPending, error)
		Create(ctx context.Context, ns NewSubject, enrollAll bool) (Subject, int, error)
	}

	Service struct {
		repo  Repository
		tx    core.TxRunner
		today func() core.Date
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository, tx core.TxRunner, today func() core.Date) *Service {
	return &Service{repo: repo, tx: tx, today: today}
}

func (svc *Service) ListWithPending(ctx context.Context) ([]WithPending, error) {
	subjects, err := svc.repo.ListActiveWithPending(ctx, svc.today())
	if err != nil {
		return nil, errors.Wrap(err, "listing subjects")
	}
	return subjects, nil
}

// Create adds an active subject; with enrollAll every active student is enrolled in it
// in the same transaction.
func (svc *Service) Create(ctx context.Context, ns NewSubject, enrollAll bool) (Subject, int, error) {
	var (
		subj     Subject
		enrolled int
	)
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		var err error
		subj, err = svc.repo.CreateSubject(ctx, Subject{
			Name:        ns.Name,
			Code:        ns.Code,
			Description: ns.Description,
			Credits:     ns.Credits,
			Instructor:  ns.Instructor,
			Icon:        ns.Icon,
			IsActive:    true,
		}, exec)
		if err != nil || !enrollAll {
			return err
		}
		enrolled, err = svc.repo.EnrollAllStudents(ctx, subj.ID, exec)
		return err
	})
	if err != nil {
		return Subject{}, 0, errors.Wrap(err, "creating subject")
	}
	return subj, enrolled, nil
}
