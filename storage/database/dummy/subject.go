package dummydb

import (
	"context"
	"sort"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) ListActiveWithPending(_ context.Context, today core.Date, _ ...core.DBExecutor) ([]subject.WithPending, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	pending := make(map[int]int)
	for _, t := range repo.db.tasks {
		if t.IsActive && !t.DueDate.Before(today) {
			pending[t.SubjectID]++
		}
	}

	subjects := make([]subject.WithPending, 0, len(repo.db.subjects))
	for _, s := range repo.db.subjects {
		if s.IsActive {
			subjects = append(subjects, subject.WithPending{Subject: *s, PendingTasks: pending[s.ID]})
		}
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Name == subjects[j].Name {
			return subjects[i].ID < subjects[j].ID
		}
		return subjects[i].Name < subjects[j].Name
	})
	return subjects, nil
}

func (repo *subjectRepository) IsEnrolled(_ context.Context, studentID string, subjectID int, _ ...core.DBExecutor) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.enrollments[enrollmentKey{studentID, subjectID}]
	return ok, nil
}

func (repo *subjectRepository) EnrollInAllActive(_ context.Context, studentID string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var added int
	for _, s := range repo.db.subjects {
		if !s.IsActive {
			continue
		}
		key := enrollmentKey{studentID, s.ID}
		if _, ok := repo.db.enrollments[key]; !ok {
			repo.db.enrollments[key] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (repo *subjectRepository) StudentsEnrolledIn(_ context.Context, subjectID int, _ ...core.DBExecutor) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]string, 0)
	for key := range repo.db.enrollments {
		if key.subjectID == subjectID {
			ids = append(ids, key.studentID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *subjectRepository) CreateSubject(_ context.Context, s subject.Subject, _ ...core.DBExecutor) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = repo.db.nextID("materias")
	repo.db.subjects[s.ID] = &s
	return s, nil
}

func (repo *subjectRepository) EnrollAllStudents(_ context.Context, subjectID int, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var added int
	for id, s := range repo.db.students {
		if !s.IsActive {
			continue
		}
		key := enrollmentKey{id, subjectID}
		if _, ok := repo.db.enrollments[key]; !ok {
			repo.db.enrollments[key] = struct{}{}
			added++
		}
	}
	return added, nil
}
