package task

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/agendaestudiantil/backend/core"
)

// Priorities
const (
	PriorityLow    = "baja"
	PriorityMedium = "media"
	PriorityHigh   = "alta"
)

var errDueDateRequired = errors.New(core.RequiredText)

type Task struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"titulo" db:"titulo"`
	Description string    `json:"descripcion" db:"descripcion"`
	SubjectID   int       `json:"materia_id" db:"materia_id"`
	Priority    string    `json:"prioridad" db:"prioridad"`
	DueDate     core.Date `json:"fecha_vencimiento" db:"fecha_vencimiento"`
	IsActive    bool      `json:"activa" db:"activa"`
	CreatedAt   time.Time `json:"fecha_creacion" db:"fecha_creacion"`
}

// StudentTask is one row of a student's task list: the shared task seen through the
// student's own assignment.
type StudentTask struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"titulo" db:"titulo"`
	Description string    `json:"descripcion" db:"descripcion"`
	DueDate     core.Date `json:"fecha_vencimiento" db:"fecha_vencimiento"`
	Priority    string    `json:"prioridad" db:"prioridad"`
	SubjectID   int       `json:"materia_id" db:"materia_id"`
	SubjectName string    `json:"clase" db:"clase"`
	SubjectIcon string    `json:"icono" db:"icono"`
	Completed   bool      `json:"completada" db:"completada"`
	CompletedAt null.Time `json:"fecha_completada" db:"fecha_completada"`
	Overdue     bool      `json:"vencida" db:"vencida"`
}

type NewTask struct {
	Title       string    `json:"titulo" validate:"required,notblank,max=200"`
	Description string    `json:"descripcion"`
	SubjectID   int       `json:"materia_id" validate:"required,gt=0"`
	Priority    string    `json:"prioridad" validate:"omitempty,oneof=baja media alta"`
	DueDate     core.Date `json:"fecha_vencimiento"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	nt.Priority = core.CleanString(nt.Priority, true /* lower */)
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}
	if err := validate.Struct(nt); err != nil {
		return err
	}
	if nt.DueDate.IsZero() {
		return core.NewFieldValidationError("fecha_vencimiento", errDueDateRequired)
	}
	return nil
}

type UpdateCompletion struct {
	Completed *bool `json:"completada" validate:"required"`
}

func (uc *UpdateCompletion) Validate(validate *validator.Validate) error {
	return validate.Struct(uc)
}
