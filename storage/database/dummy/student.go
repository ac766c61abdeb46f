package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) findByEmail(email string) *student.Student {
	for _, s := range repo.db.students {
		if s.Email == email {
			return s
		}
	}
	return nil
}

func (repo *studentRepository) EmailExists(_ context.Context, email string, _ ...core.DBExecutor) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.findByEmail(email) != nil, nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.findByEmail(s.Email) != nil {
		return student.Student{}, student.ErrEmailExists
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetActiveStudentByEmail(_ context.Context, email string, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s := repo.findByEmail(email); s != nil && s.IsActive {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, id string, us student.UpdateStudent, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s.Name = us.Name
	s.Phone = us.Phone
	s.Program = us.Program
	s.Semester = us.Semester
	return *s, nil
}

func (repo *studentRepository) SetLastAccess(_ context.Context, id string, at time.Time, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	*s = student.Touch(*s, at)
	return *s, nil
}

func (repo *studentRepository) SetPasswordHash(_ context.Context, id string, hash []byte, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.students[id]
	if !ok {
		return student.ErrNotFound
	}
	s.PasswordHash = hash
	return nil
}

// DeactivateStudent flags a student as inactive (login is then refused).
func (db *DB) DeactivateStudent(id string) {
	db.Lock()
	defer db.Unlock()

	if s, ok := db.students[id]; ok {
		s.IsActive = false
	}
}
