package dummydb

import (
	"context"
	"sort"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, n notification.Notification, _ ...core.DBExecutor) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n.ID = repo.db.nextID("notificaciones")
	n.Read = false
	repo.db.notifications[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) ListForStudent(_ context.Context, studentID string, limit int, _ ...core.DBExecutor) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notifs := make([]notification.Notification, 0)
	for _, n := range repo.db.notifications {
		if n.StudentID == studentID {
			notifs = append(notifs, *n)
		}
	}
	sort.Slice(notifs, func(i, j int) bool {
		if notifs[i].CreatedAt.Equal(notifs[j].CreatedAt) {
			return notifs[i].ID > notifs[j].ID
		}
		return notifs[i].CreatedAt.After(notifs[j].CreatedAt)
	})
	if limit > 0 && len(notifs) > limit {
		notifs = notifs[:limit]
	}
	return notifs, nil
}

func (repo *notificationRepository) own(studentID string, id int) (*notification.Notification, error) {
	n, ok := repo.db.notifications[id]
	if !ok || n.StudentID != studentID {
		return nil, notification.ErrNotFound
	}
	return n, nil
}

func (repo *notificationRepository) MarkRead(_ context.Context, studentID string, id int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	n, err := repo.own(studentID, id)
	if err != nil {
		return err
	}
	n.Read = true
	return nil
}

func (repo *notificationRepository) Delete(_ context.Context, studentID string, id int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, err := repo.own(studentID, id); err != nil {
		return err
	}
	delete(repo.db.notifications, id)
	return nil
}
