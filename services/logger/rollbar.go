package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/agendaestudiantil/backend/core"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger reports to rollbar (when enabled) and always echoes to `std`.
func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(!conf.Debug && !conf.TestMode && conf.RollbarToken != "")
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close flushes queued rollbar items.
func (l RollbarLogger) Close() {
	rollbar.Close()
}

// splitPerson pulls the first identifiable core.Person out of args.
func splitPerson(args []interface{}) (core.Person, []interface{}) {
	var person core.Person
	rest := make([]interface{}, 0, len(args))
	for _, arg := range args {
		p, ok := arg.(core.Person)
		if !ok {
			rest = append(rest, arg)
			continue
		}
		if person == (core.Person{}) && (p.ID != "" || p.Email != "") {
			person = p
		}
	}
	return person, rest
}

// prepare sets the rollbar person for this item and returns msg followed by the other args.
// Rollbar requires a person id; the email stands in for recipients without an account id.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	person, rest := splitPerson(args)
	if person == (core.Person{}) {
		rollbar.ClearPerson()
	} else {
		id := person.ID
		if id == "" {
			id = person.Email
		}
		rollbar.SetPerson(id, person.Name, person.Email)
	}
	return append([]interface{}{msg}, rest...)
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("[%s] %s", level, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print("DEBUG", msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print("INFO", msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print("WARN", msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print("ERROR", msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print("FATAL", msg, args)
	rollbar.Close()
	l.std.Fatal(msg)
}
