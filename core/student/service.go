package student

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/agendaestudiantil/backend/core"
)

var (
	// errors
	ErrNotFound           = errors.New("estudiante no encontrado")
	ErrEmailExists        = errors.New("el email ya está registrado")
	ErrInvalidCredentials = errors.New("credenciales incorrectas")

	errPasswordTooShort = errors.New("la contraseña debe tener al menos 6 caracteres")
)

const (
	minPasswordLen = 6

	welcomeTitle   = "¡Bienvenido!"
	welcomeMessage = "Tu cuenta fue creada. Ya estás inscrito en %d materias."
)

type (
	Repository interface {
		EmailExists(ctx context.Context, email string, exec ...core.DBExecutor) (bool, error)
		// CreateStudent inserts the student; a taken email yields ErrEmailExists.
		CreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Student, error)
		GetActiveStudentByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (Student, error)
		UpdateStudent(ctx context.Context, id string, us UpdateStudent, exec ...core.DBExecutor) (Student, error)
		// SetLastAccess never moves ultimo_acceso backwards.
		SetLastAccess(ctx context.Context, id string, at time.Time, exec ...core.DBExecutor) (Student, error)
		SetPasswordHash(ctx context.Context, id string, hash []byte, exec ...core.DBExecutor) error
	}

	// Enroller enrolls a new student in every active subject; returns how many.
	Enroller interface {
		EnrollInAllActive(ctx context.Context, studentID string, exec ...core.DBExecutor) (int, error)
	}

	// Notifier delivers an in-app notification.
	Notifier interface {
		Notify(ctx context.Context, studentID, title, message, kind string) error
	}

	ServiceInterface interface {
		Register(ctx context.Context, ns NewStudent) (Student, error)
		Authenticate(ctx context.Context, email, password string) (Student, error)
		GetProfile(ctx context.Context, id string) (Student, error)
		UpdateProfile(ctx context.Context, id string, us UpdateStudent) (Student, error)
		ResetPassword(ctx context.Context, email, password string) error
	}

	Deps struct {
		Repo     Repository
		Enroller Enroller
		Tx       core.TxRunner
		Hasher   HashProvider
		Notifier Notifier
		Mailer   core.EmailService
		Logger   core.Logger
		Now      func() time.Time
	}

	Service struct {
		Deps
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(deps Deps) *Service {
	if deps.Hasher == nil {
		deps.Hasher = NewBcryptHasher()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{Deps: deps}
}

func (svc *Service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()

	exists, err := svc.Repo.EmailExists(ctx, ns.Email)
	if err != nil {
		return Student{}, errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return Student{}, core.NewValidationError(ErrEmailExists)
	}

	hash, err := svc.Hasher.Hash(ns.Password)
	if err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}

	std := Student{
		ID:           uuid.New().String(),
		Name:         ns.Name,
		Email:        ns.Email,
		Phone:        ns.Phone,
		Program:      ns.Program,
		Semester:     ns.Semester,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    svc.Now().UTC(),
	}

	var enrolled int
	err = svc.Tx.WithTx(ctx, func(exec core.DBExecutor) error {
		var txErr error
		if std, txErr = svc.Repo.CreateStudent(ctx, std, exec); txErr != nil {
			return txErr
		}
		enrolled, txErr = svc.Enroller.EnrollInAllActive(ctx, std.ID, exec)
		return errors.Wrap(txErr, "enrolling student")
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return Student{}, core.NewValidationError(ErrEmailExists)
		}
		return Student{}, errors.Wrap(err, "registering student")
	}

	svc.welcome(ctx, std, enrolled)
	return std, nil
}

// welcome is best-effort: failures are logged, never returned.
func (svc *Service) welcome(ctx context.Context, std Student, enrolled int) {
	if svc.Notifier != nil {
		msg := fmt.Sprintf(welcomeMessage, enrolled)
		if err := svc.Notifier.Notify(ctx, std.ID, welcomeTitle, msg, "info"); err != nil && svc.Logger != nil {
			svc.Logger.Error("student.welcome: notifying", err, std.Person())
		}
	}
	if svc.Mailer != nil {
		svc.Mailer.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: std.Name, Address: std.Email}},
			Subject:      "Bienvenido a tu agenda estudiantil",
			TemplateName: "welcome",
			TemplateData: map[string]interface{}{
				"Name":         std.Name,
				"Email":        std.Email,
				"SubjectCount": enrolled,
			},
		})
	}
}

func (svc *Service) Authenticate(ctx context.Context, email, password string) (Student, error) {
	email = core.CleanString(email)
	if email == "" || password == "" {
		return Student{}, ErrInvalidCredentials
	}
	std, err := svc.Repo.GetActiveStudentByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Student{}, ErrInvalidCredentials
		}
		return Student{}, errors.Wrap(err, "finding student by email")
	}
	if !svc.Hasher.Compare(std.PasswordHash, password) {
		return Student{}, ErrInvalidCredentials
	}

	updated, err := svc.Repo.SetLastAccess(ctx, std.ID, svc.Now().UTC())
	if err != nil {
		return Student{}, errors.Wrap(err, "setting last access")
	}
	return updated, nil
}

func (svc *Service) GetProfile(ctx context.Context, id string) (Student, error) {
	return svc.Repo.GetStudentByID(ctx, id)
}

func (svc *Service) UpdateProfile(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.Repo.UpdateStudent(ctx, id, us)
	if err != nil {
		return Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

func (svc *Service) ResetPassword(ctx context.Context, email, password string) error {
	if len(password) < minPasswordLen {
		return core.NewFieldValidationError("password", errPasswordTooShort)
	}
	std, err := svc.Repo.GetActiveStudentByEmail(ctx, core.CleanString(email))
	if err != nil {
		return err
	}
	hash, err := svc.Hasher.Hash(password)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.Repo.SetPasswordHash(ctx, std.ID, hash)
}

// Touch returns s with LastAccess moved to `at` unless it is already later.
func Touch(s Student, at time.Time) Student {
	if s.LastAccess.Valid && s.LastAccess.Time.After(at) {
		return s
	}
	s.LastAccess = null.TimeFrom(at)
	return s
}
