package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/auth"
	"github.com/agendaestudiantil/backend/core/notification"
	"github.com/agendaestudiantil/backend/core/student"
	"github.com/agendaestudiantil/backend/core/subject"
	"github.com/agendaestudiantil/backend/core/task"
)

var (
	errMissingToken = echo.NewHTTPError(http.StatusUnauthorized, "Acceso denegado. Token requerido.")
	errInvalidToken = echo.NewHTTPError(http.StatusUnauthorized, "Token inválido")

	// domainErrCodes maps domain sentinel errors to their HTTP status.
	domainErrCodes = map[error]int{
		student.ErrInvalidCredentials: http.StatusUnauthorized,
		auth.ErrInvalidToken:          http.StatusUnauthorized,
		student.ErrNotFound:           http.StatusNotFound,
		subject.ErrNotFound:           http.StatusNotFound,
		task.ErrNotFound:              http.StatusNotFound,
		notification.ErrNotFound:      http.StatusNotFound,
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if flds := origErr.FieldMap(); flds != nil {
				message = flds
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if c, ok := domainErrCodes[cause]; ok {
				code = c
				message = cause.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			if logger != nil {
				logger.Error(msg, errors.Wrap(err, msg), contextPerson(ctx))
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
