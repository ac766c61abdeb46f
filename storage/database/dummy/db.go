package dummydb

import (
	"context"
	"sync"
	"time"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/notification"
	"github.com/agendaestudiantil/backend/core/student"
	"github.com/agendaestudiantil/backend/core/subject"
	"github.com/agendaestudiantil/backend/core/task"
)

type (
	// DB is an in-memory stand-in for the postgres schema. One lock guards every table
	// so that joins see a consistent snapshot.
	DB struct {
		sync.RWMutex

		students      map[string]*student.Student
		subjects      map[int]*subject.Subject
		enrollments   map[enrollmentKey]struct{}
		tasks         map[int]*task.Task
		assignments   map[assignmentKey]*assignment
		notifications map[int]*notification.Notification

		seq map[string]int
	}

	enrollmentKey struct {
		studentID string
		subjectID int
	}

	assignmentKey struct {
		studentID string
		taskID    int
	}

	assignment struct {
		completed   bool
		completedAt time.Time
	}
)

var (
	_ core.TxRunner  = (*DB)(nil) // interface compliance check
	_ core.DBChecker = (*DB)(nil)
)

func Open() (*DB, error) {
	db := &DB{
		students:      make(map[string]*student.Student),
		subjects:      make(map[int]*subject.Subject),
		enrollments:   make(map[enrollmentKey]struct{}),
		tasks:         make(map[int]*task.Task),
		assignments:   make(map[assignmentKey]*assignment),
		notifications: make(map[int]*notification.Notification),
		seq:           make(map[string]int),
	}
	return db, nil
}

// nextID emulates a SERIAL column. Callers hold the write lock.
func (db *DB) nextID(table string) int {
	db.seq[table]++
	return db.seq[table]
}

// WithTx runs fn and restores the tables it saw on entry when fn fails or panics.
// Sequences are not restored, like SERIAL columns after a rollback.
// There is no isolation: concurrent writers may be undone too.
func (db *DB) WithTx(_ context.Context, fn func(exec core.DBExecutor) error) (err error) {
	snap := db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			db.restore(snap)
			panic(p)
		}
		if err != nil {
			db.restore(snap)
		}
	}()
	return fn(nil)
}

type tables struct {
	students      map[string]*student.Student
	subjects      map[int]*subject.Subject
	enrollments   map[enrollmentKey]struct{}
	tasks         map[int]*task.Task
	assignments   map[assignmentKey]*assignment
	notifications map[int]*notification.Notification
}

func (db *DB) snapshot() tables {
	db.RLock()
	defer db.RUnlock()

	t := tables{
		students:      make(map[string]*student.Student, len(db.students)),
		subjects:      make(map[int]*subject.Subject, len(db.subjects)),
		enrollments:   make(map[enrollmentKey]struct{}, len(db.enrollments)),
		tasks:         make(map[int]*task.Task, len(db.tasks)),
		assignments:   make(map[assignmentKey]*assignment, len(db.assignments)),
		notifications: make(map[int]*notification.Notification, len(db.notifications)),
	}
	for k, v := range db.students {
		row := *v
		t.students[k] = &row
	}
	for k, v := range db.subjects {
		row := *v
		t.subjects[k] = &row
	}
	for k := range db.enrollments {
		t.enrollments[k] = struct{}{}
	}
	for k, v := range db.tasks {
		row := *v
		t.tasks[k] = &row
	}
	for k, v := range db.assignments {
		row := *v
		t.assignments[k] = &row
	}
	for k, v := range db.notifications {
		row := *v
		t.notifications[k] = &row
	}
	return t
}

func (db *DB) restore(t tables) {
	db.Lock()
	defer db.Unlock()

	db.students = t.students
	db.subjects = t.subjects
	db.enrollments = t.enrollments
	db.tasks = t.tasks
	db.assignments = t.assignments
	db.notifications = t.notifications
}

func (db *DB) CheckDB(context.Context) (core.DBStatus, error) {
	return core.DBStatus{Time: time.Now(), Version: "dummydb (in-memory)"}, nil
}
