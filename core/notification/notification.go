package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
)

var ErrNotFound = errors.New("notificación no encontrada")

const (
	// ListLimit caps how many notifications a listing returns.
	ListLimit = 20

	recentWindow = time.Hour

	KindInfo = "info"
)

type Notification struct {
	ID        int       `json:"id" db:"id"`
	StudentID string    `json:"-" db:"estudiante_id"`
	Title     string    `json:"titulo" db:"titulo"`
	Message   string    `json:"mensaje" db:"mensaje"`
	Kind      string    `json:"tipo" db:"tipo"`
	Read      bool      `json:"leida" db:"leida"`
	CreatedAt time.Time `json:"fecha_creacion" db:"fecha_creacion"`
	Recent    bool      `json:"reciente" db:"-"`
}

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
		// ListForStudent returns newest first, at most `limit` rows.
		ListForStudent(ctx context.Context, studentID string, limit int, exec ...core.DBExecutor) ([]Notification, error)
		// MarkRead and Delete only touch the student's own rows; ErrNotFound otherwise.
		MarkRead(ctx context.Context, studentID string, id int, exec ...core.DBExecutor) error
		Delete(ctx context.Context, studentID string, id int, exec ...core.DBExecutor) error
	}

	ServiceInterface interface {
		List(ctx context.Context, studentID string) ([]Notification, error)
		MarkRead(ctx context.Context, studentID string, id int) error
		Delete(ctx context.Context, studentID string, id int) error
		Create(ctx context.Context, studentID, title, message, kind string) (Notification, error)
		Notify(ctx context.Context, studentID, title, message, kind string) error
	}

	Service struct {
		repo Repository
		now  func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

func (svc *Service) List(ctx context.Context, studentID string) ([]Notification, error) {
	notifs, err := svc.repo.ListForStudent(ctx, studentID, ListLimit)
	if err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	now := svc.now()
	for i := range notifs {
		notifs[i].Recent = now.Sub(notifs[i].CreatedAt) < recentWindow
	}
	return notifs, nil
}

func (svc *Service) MarkRead(ctx context.Context, studentID string, id int) error {
	return svc.repo.MarkRead(ctx, studentID, id)
}

func (svc *Service) Delete(ctx context.Context, studentID string, id int) error {
	return svc.repo.Delete(ctx, studentID, id)
}

// Create stores an unread notification; an empty kind defaults to "info".
func (svc *Service) Create(ctx context.Context, studentID, title, message, kind string) (Notification, error) {
	if kind == "" {
		kind = KindInfo
	}
	n, err := svc.repo.CreateNotification(ctx, Notification{
		StudentID: studentID,
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: svc.now().UTC(),
	})
	if err != nil {
		return Notification{}, errors.Wrap(err, "creating notification")
	}
	return n, nil
}

// Notify is Create for callers that only care about failure.
func (svc *Service) Notify(ctx context.Context, studentID, title, message, kind string) error {
	_, err := svc.Create(ctx, studentID, title, message, kind)
	return err
}
