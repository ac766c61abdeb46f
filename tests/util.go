package testutil

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/auth"
	"github.com/agendaestudiantil/backend/core/notification"
	"github.com/agendaestudiantil/backend/core/student"
	"github.com/agendaestudiantil/backend/core/subject"
	"github.com/agendaestudiantil/backend/core/task"
	emailsvc "github.com/agendaestudiantil/backend/services/email"
	logsvc "github.com/agendaestudiantil/backend/services/logger"
	dummydb "github.com/agendaestudiantil/backend/storage/database/dummy"
)

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Env is the whole app stack over the in-memory store.
type Env struct {
	Conf       *core.Config
	Clock      *Clock
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Signer     auth.Signer
	Mailer     *emailsvc.ConsoleServiceMock

	DB               *dummydb.DB
	StudentRepo      student.Repository
	SubjectRepo      subject.Repository
	TaskRepo         task.Repository
	NotificationRepo notification.Repository

	StudentSvc      *student.Service
	SubjectSvc      *subject.Service
	TaskSvc         *task.Service
	NotificationSvc *notification.Service
}

// DefaultNow is the frozen test "now": a Monday morning, UTC.
var DefaultNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func NewEnv(t testing.TB) *Env {
	conf := core.NewTestConfig()
	clock := NewClock(DefaultNow)
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", log.LstdFlags), conf)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	env := &Env{
		Conf:       conf,
		Clock:      clock,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Signer:     auth.NewSigner(conf).WithClock(clock.Now),
		Mailer:     emailsvc.NewConsoleServiceMock(conf, logger),

		DB:               db,
		StudentRepo:      dummydb.NewStudentRepository(db),
		SubjectRepo:      dummydb.NewSubjectRepository(db),
		TaskRepo:         dummydb.NewTaskRepository(db),
		NotificationRepo: dummydb.NewNotificationRepository(db),
	}
	today := func() core.Date { return conf.Today(clock.Now()) }

	env.NotificationSvc = notification.NewService(env.NotificationRepo, clock.Now)
	env.SubjectSvc = subject.NewService(env.SubjectRepo, db, today)
	env.StudentSvc = student.NewService(student.Deps{
		Repo:     env.StudentRepo,
		Enroller: env.SubjectRepo,
		Tx:       db,
		Hasher:   student.FakeHasher{},
		Notifier: env.NotificationSvc,
		Mailer:   env.Mailer,
		Logger:   logger,
		Now:      clock.Now,
	})
	env.TaskSvc = task.NewService(task.Deps{
		Repo:       env.TaskRepo,
		Enrollment: env.SubjectRepo,
		Tx:         db,
		Notifier:   env.NotificationSvc,
		Logger:     logger,
		Now:        clock.Now,
		Today:      today,
	})
	return env
}

func (env *Env) Today() core.Date {
	return env.Conf.Today(env.Clock.Now())
}

func CreateSubject(t testing.TB, env *Env, name, icon string) subject.Subject {
	ns := subject.NewSubject{Name: name, Icon: icon}
	if err := ns.Validate(env.Validate); err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	subj, _, err := env.SubjectSvc.Create(context.Background(), ns, false)
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return subj
}

func RegisterStudent(t testing.TB, env *Env, name, email, pwd string) student.Student {
	std, err := env.StudentSvc.Register(context.Background(), student.NewStudent{
		Name:     name,
		Email:    email,
		Password: pwd,
		Semester: 3,
	})
	if err != nil {
		t.Fatalf("RegisterStudent() failed: %v", err)
	}
	return std
}

func CreateTask(t testing.TB, env *Env, studentID string, subjectID int, title string, due core.Date, priority ...string) task.Task {
	nt := task.NewTask{Title: title, SubjectID: subjectID, DueDate: due}
	if len(priority) > 0 {
		nt.Priority = priority[0]
	}
	if err := nt.Validate(env.Validate); err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	tsk, err := env.TaskSvc.Create(context.Background(), studentID, nt)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return tsk
}

func Token(t testing.TB, env *Env, std student.Student) string {
	token, err := env.Signer.Issue(std.ID, std.Email)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}
