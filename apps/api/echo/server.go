package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/auth"
	"github.com/agendaestudiantil/backend/core/notification"
	"github.com/agendaestudiantil/backend/core/student"
	"github.com/agendaestudiantil/backend/core/subject"
	"github.com/agendaestudiantil/backend/core/task"
)

type (
	Deps struct {
		Conf            *core.Config
		Logger          core.Logger
		Validate        *validator.Validate
		Translator      ut.Translator
		Signer          auth.Signer
		DBChecker       core.DBChecker
		StudentSvc      student.ServiceInterface
		SubjectSvc      subject.ServiceInterface
		TaskSvc         task.ServiceInterface
		NotificationSvc notification.ServiceInterface
		Now             func() time.Time
	}

	Server struct {
		app      *echo.Echo
		deps     *Deps
		address  string
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

// NewServer builds the API. `shutdown` may be nil; it receives OS signals once Start is called.
func NewServer(address string, shutdown chan os.Signal, deps *Deps) *Server {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{
		app:      echo.New(),
		deps:     deps,
		address:  address,
		errors:   make(chan error, 1),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())

	api := s.app.Group("/api")
	authed := authMiddleware(s.deps.Signer)

	registerHealthAPI(api, s.deps)
	registerAuthAPI(api, s.deps)
	registerProfileAPI(api, authed, s.deps)
	registerSubjectAPI(api, authed, s.deps)
	registerTaskAPI(api, authed, s.deps)
	registerNotificationAPI(api, authed, s.deps)
}

// Start listens until Shutdown/Close; any other failure is sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
