package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/student"
	"github.com/agendaestudiantil/backend/core/subject"
	logsvc "github.com/agendaestudiantil/backend/services/logger"
	"github.com/agendaestudiantil/backend/storage/database"
	sqlxrepos "github.com/agendaestudiantil/backend/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	rbLogger := logsvc.NewRollbarLogger(stdLogger, conf)
	rbLogger.Enable(false) // operator tool: errors are printed, not reported
	logger = rbLogger

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(context.Background(), db))

	tx := database.NewTxRunner(db)
	subjectRepo := sqlxrepos.NewSubjectRepository(db)

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	// start CLI
	cli := commandLine{
		db:       db,
		validate: validate,
		studentSvc: student.NewService(student.Deps{
			Repo:     sqlxrepos.NewStudentRepository(db),
			Enroller: subjectRepo,
			Tx:       tx,
			Logger:   logger,
		}),
		subjectSvc: subject.NewService(subjectRepo, tx, func() core.Date { return conf.Today(time.Now()) }),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin: "+err.Error(), err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
