package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/auth"
	"github.com/agendaestudiantil/backend/core/student"
)

const (
	contextClaimsKey = "claims"
	bearerPrefix     = "Bearer "
)

type (
	authResponse struct {
		Message string          `json:"mensaje"`
		Token   string          `json:"token"`
		Student student.Student `json:"estudiante"`
	}

	authApi struct {
		deps *Deps
	}
)

func registerAuthAPI(g *echo.Group, deps *Deps) {
	api := authApi{deps: deps}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
}

// authMiddleware requires "Authorization: Bearer <token>" and stores the verified claims.
func authMiddleware(signer auth.Signer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return errMissingToken
			}
			claims, err := signer.Verify(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
			if err != nil {
				return errInvalidToken
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(auth.Claims); ok {
		return claims, nil
	}
	return auth.Claims{}, errMissingToken
}

func contextStudentID(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	return claims.StudentID, nil
}

func contextPerson(ctx echo.Context) core.Person {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Person{}
	}
	return core.Person{ID: claims.StudentID, Email: claims.Email}
}

// Handlers

func (api *authApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	std, err := api.deps.StudentSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	token, err := api.deps.Signer.Issue(std.ID, std.Email)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	return ctx.JSON(http.StatusCreated, authResponse{
		Message: "Usuario registrado exitosamente",
		Token:   token,
		Student: std,
	})
}

func (api *authApi) login(ctx echo.Context) error {
	var data student.Credentials
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	data.Clean()

	std, err := api.deps.StudentSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.deps.Signer.Issue(std.ID, std.Email)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	return ctx.JSON(http.StatusOK, authResponse{
		Message: "Login exitoso",
		Token:   token,
		Student: std,
	})
}
