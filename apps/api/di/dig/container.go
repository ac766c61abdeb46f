package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/agendaestudiantil/backend/apps/api/echo"
	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/auth"
	"github.com/agendaestudiantil/backend/core/notification"
	"github.com/agendaestudiantil/backend/core/student"
	"github.com/agendaestudiantil/backend/core/subject"
	"github.com/agendaestudiantil/backend/core/task"
	emailsvc "github.com/agendaestudiantil/backend/services/email"
	logsvc "github.com/agendaestudiantil/backend/services/logger"
	"github.com/agendaestudiantil/backend/storage/database"
	sqlxrepos "github.com/agendaestudiantil/backend/storage/database/sqlx"
)

const setupTimeout = 30 * time.Second

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	repositories struct {
		dig.Out
		Students      student.Repository
		Subjects      subject.Repository
		Tasks         task.Repository
		Notifications notification.Repository
	}

	studentServiceParams struct {
		dig.In
		Repo          student.Repository
		Subjects      subject.Repository
		Tx            core.TxRunner
		Notifications *notification.Service
		Mailer        core.EmailService
		Logger        core.Logger
	}

	taskServiceParams struct {
		dig.In
		Conf          *core.Config
		Repo          task.Repository
		Subjects      subject.Repository
		Tx            core.TxRunner
		Notifications *notification.Service
		Logger        core.Logger
	}

	serverParams struct {
		dig.In
		Conf            *core.Config
		Logger          core.Logger
		Validate        *validator.Validate
		Translator      ut.Translator
		Signer          auth.Signer
		DBChecker       core.DBChecker
		StudentSvc      *student.Service
		SubjectSvc      *subject.Service
		TaskSvc         *task.Service
		NotificationSvc *notification.Service
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
	setUp := func() (*sqlx.DB, error) {
		ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
		defer cancel()

		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newTxRunner(db core.DB) (core.TxRunner, core.DBChecker) {
	runner := database.NewTxRunner(db)
	return runner, runner
}

func newRepositories(db *sqlx.DB) repositories {
	return repositories{
		Students:      sqlxrepos.NewStudentRepository(db),
		Subjects:      sqlxrepos.NewSubjectRepository(db),
		Tasks:         sqlxrepos.NewTaskRepository(db),
		Notifications: sqlxrepos.NewNotificationRepository(db),
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newSigner(conf *core.Config) auth.Signer {
	return auth.NewSigner(conf)
}

func newNotificationService(repo notification.Repository) *notification.Service {
	return notification.NewService(repo, time.Now)
}

func newSubjectService(conf *core.Config, repo subject.Repository, tx core.TxRunner) *subject.Service {
	return subject.NewService(repo, tx, func() core.Date { return conf.Today(time.Now()) })
}

func newStudentService(p studentServiceParams) *student.Service {
	return student.NewService(student.Deps{
		Repo:     p.Repo,
		Enroller: p.Subjects,
		Tx:       p.Tx,
		Notifier: p.Notifications,
		Mailer:   p.Mailer,
		Logger:   p.Logger,
	})
}

func newTaskService(p taskServiceParams) *task.Service {
	return task.NewService(task.Deps{
		Repo:       p.Repo,
		Enrollment: p.Subjects,
		Tx:         p.Tx,
		Notifier:   p.Notifications,
		Logger:     p.Logger,
		Today:      func() core.Date { return p.Conf.Today(time.Now()) },
	})
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf.Server.Address(), nil, &echoapi.Deps{
		Conf:            p.Conf,
		Logger:          p.Logger,
		Validate:        p.Validate,
		Translator:      p.Translator,
		Signer:          p.Signer,
		DBChecker:       p.DBChecker,
		StudentSvc:      p.StudentSvc,
		SubjectSvc:      p.SubjectSvc,
		TaskSvc:         p.TaskSvc,
		NotificationSvc: p.NotificationSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newTxRunner))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newSigner))
	must(c.Provide(newNotificationService))
	must(c.Provide(newSubjectService))
	must(c.Provide(newStudentService))
	must(c.Provide(newTaskService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
