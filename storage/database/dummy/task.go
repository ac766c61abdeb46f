package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/task"
)

type taskRepository struct {
	db *DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) *taskRepository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(_ context.Context, t task.Task, _ ...core.DBExecutor) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = repo.db.nextID("tareas")
	repo.db.tasks[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) AssignToEnrolled(_ context.Context, taskID, subjectID int, _ ...core.DBExecutor) ([]string, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ids := make([]string, 0)
	for key := range repo.db.enrollments {
		if key.subjectID != subjectID {
			continue
		}
		aKey := assignmentKey{key.studentID, taskID}
		if _, ok := repo.db.assignments[aKey]; ok {
			continue
		}
		repo.db.assignments[aKey] = &assignment{}
		ids = append(ids, key.studentID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *taskRepository) GetActiveTask(_ context.Context, id int, _ ...core.DBExecutor) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.tasks[id]; ok && t.IsActive {
		return *t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) ListForStudent(_ context.Context, studentID string, today core.Date, _ ...core.DBExecutor) ([]task.StudentTask, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]task.StudentTask, 0)
	for key, a := range repo.db.assignments {
		if key.studentID != studentID {
			continue
		}
		t, ok := repo.db.tasks[key.taskID]
		if !ok || !t.IsActive {
			continue
		}
		row := task.StudentTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			Priority:    t.Priority,
			SubjectID:   t.SubjectID,
			Completed:   a.completed,
			CompletedAt: null.NewTime(a.completedAt, !a.completedAt.IsZero()),
			Overdue:     t.DueDate.Before(today),
		}
		if s, ok := repo.db.subjects[t.SubjectID]; ok {
			row.SubjectName = s.Name
			row.SubjectIcon = s.Icon
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DueDate == rows[j].DueDate {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].DueDate.Before(rows[j].DueDate)
	})
	return rows, nil
}

func (repo *taskRepository) SetCompletion(_ context.Context, studentID string, taskID int, completed bool, at time.Time, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	a, ok := repo.db.assignments[assignmentKey{studentID, taskID}]
	if !ok {
		return task.ErrNotFound
	}
	if t, ok := repo.db.tasks[taskID]; !ok || !t.IsActive {
		return task.ErrNotFound
	}
	switch {
	case !completed:
		a.completedAt = time.Time{}
	case a.completedAt.IsZero():
		a.completedAt = at
	}
	a.completed = completed
	return nil
}

func (repo *taskRepository) Deactivate(_ context.Context, taskID int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.tasks[taskID]
	if !ok || !t.IsActive {
		return task.ErrNotFound
	}
	t.IsActive = false
	return nil
}
