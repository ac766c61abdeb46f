package task

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
)

var (
	// errors
	ErrNotFound    = errors.New("tarea no encontrada")
	ErrNotEnrolled = errors.New("no estás inscrito en esta materia")
)

const (
	newTaskTitle   = "Nueva tarea"
	newTaskMessage = "Se agregó \"%s\" con vencimiento el %s"
	newTaskKind    = "tarea"
)

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task, exec ...core.DBExecutor) (Task, error)
		// AssignToEnrolled adds a pending row for every student currently enrolled in the
		// task's subject and returns their IDs.
		AssignToEnrolled(ctx context.Context, taskID, subjectID int, exec ...core.DBExecutor) ([]string, error)
		// GetActiveTask fails ErrNotFound for unknown or deactivated tasks.
		GetActiveTask(ctx context.Context, id int, exec ...core.DBExecutor) (Task, error)
		// ListForStudent returns the student's rows for active tasks, ordered by due date;
		// Overdue is DueDate before `today`.
		ListForStudent(ctx context.Context, studentID string, today core.Date, exec ...core.DBExecutor) ([]StudentTask, error)
		// SetCompletion updates only the student's row of an active task (ErrNotFound otherwise).
		// Completing keeps an existing completion time; un-completing clears it.
		SetCompletion(ctx context.Context, studentID string, taskID int, completed bool, at time.Time, exec ...core.DBExecutor) error
		Deactivate(ctx context.Context, taskID int, exec ...core.DBExecutor) error
	}

	Enrollment interface {
		IsEnrolled(ctx context.Context, studentID string, subjectID int, exec ...core.DBExecutor) (bool, error)
	}

	Notifier interface {
		Notify(ctx context.Context, studentID, title, message, kind string) error
	}

	ServiceInterface interface {
		ListForStudent(ctx context.Context, studentID string) ([]StudentTask, error)
		Create(ctx context.Context, studentID string, nt NewTask) (Task, error)
		SetCompletion(ctx context.Context, studentID string, taskID int, completed bool) error
		Deactivate(ctx context.Context, studentID string, taskID int) error
		Statistics(ctx context.Context, studentID string) (Stats, error)
	}

	Deps struct {
		Repo       Repository
		Enrollment Enrollment
		Tx         core.TxRunner
		Notifier   Notifier
		Logger     core.Logger
		Now        func() time.Time
		Today      func() core.Date
	}

	Service struct {
		Deps
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Today == nil {
		now := deps.Now
		deps.Today = func() core.Date { return core.DateOf(now()) }
	}
	return &Service{Deps: deps}
}

func (svc *Service) ListForStudent(ctx context.Context, studentID string) ([]StudentTask, error) {
	rows, err := svc.Repo.ListForStudent(ctx, studentID, svc.Today())
	if err != nil {
		return nil, errors.Wrap(err, "listing student tasks")
	}
	return rows, nil
}

func (svc *Service) Create(ctx context.Context, studentID string, nt NewTask) (Task, error) {
	enrolled, err := svc.Enrollment.IsEnrolled(ctx, studentID, nt.SubjectID)
	if err != nil {
		return Task{}, errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return Task{}, core.NewValidationError(ErrNotEnrolled)
	}
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}

	var (
		tsk      Task
		assignee []string
	)
	err = svc.Tx.WithTx(ctx, func(exec core.DBExecutor) error {
		var txErr error
		tsk, txErr = svc.Repo.CreateTask(ctx, Task{
			Title:       nt.Title,
			Description: nt.Description,
			SubjectID:   nt.SubjectID,
			Priority:    nt.Priority,
			DueDate:     nt.DueDate,
			IsActive:    true,
			CreatedAt:   svc.Now().UTC(),
		}, exec)
		if txErr != nil {
			return errors.Wrap(txErr, "inserting task")
		}
		assignee, txErr = svc.Repo.AssignToEnrolled(ctx, tsk.ID, tsk.SubjectID, exec)
		return errors.Wrap(txErr, "assigning task")
	})
	if err != nil {
		return Task{}, errors.Wrap(err, "creating task")
	}

	svc.notifyClassmates(ctx, studentID, tsk, assignee)
	return tsk, nil
}

// notifyClassmates is best-effort: failures are logged, never returned.
func (svc *Service) notifyClassmates(ctx context.Context, authorID string, tsk Task, assignee []string) {
	if svc.Notifier == nil {
		return
	}
	msg := fmt.Sprintf(newTaskMessage, tsk.Title, tsk.DueDate)
	for _, id := range assignee {
		if id == authorID {
			continue
		}
		if err := svc.Notifier.Notify(ctx, id, newTaskTitle, msg, newTaskKind); err != nil && svc.Logger != nil {
			svc.Logger.Error("task.notifyClassmates", err, core.Person{ID: id})
		}
	}
}

func (svc *Service) SetCompletion(ctx context.Context, studentID string, taskID int, completed bool) error {
	return svc.Repo.SetCompletion(ctx, studentID, taskID, completed, svc.Now().UTC())
}

// Deactivate soft-deletes a task for everyone. The caller must be enrolled in its subject.
func (svc *Service) Deactivate(ctx context.Context, studentID string, taskID int) error {
	tsk, err := svc.Repo.GetActiveTask(ctx, taskID)
	if err != nil {
		return err
	}
	enrolled, err := svc.Enrollment.IsEnrolled(ctx, studentID, tsk.SubjectID)
	if err != nil {
		return errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return ErrNotFound
	}
	return svc.Repo.Deactivate(ctx, taskID)
}

func (svc *Service) Statistics(ctx context.Context, studentID string) (Stats, error) {
	rows, err := svc.ListForStudent(ctx, studentID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(rows), nil
}
