package tests

import (
	"net/http"
	"testing"

	"github.com/agendaestudiantil/backend/core/student"
	"github.com/agendaestudiantil/backend/tests"
)

func Test_profileApi(t *testing.T) {
	app, env := setup(t)

	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	token := testutil.Token(t, env, ana)

	// unknown student behind a valid token
	ghost, err := env.Signer.Issue("5f0c6a36-1c55-4a1a-9d4e-2f1b8f1f4a10", "ghost@example.com")
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	updated := ana
	updated.Name = "Ana María"
	updated.Phone = "555-1234"
	updated.Program = "Matemáticas"
	updated.Semester = 4

	runHTTPTests(t, app, []httpTest{
		{
			name:     "retrieve",
			path:     "/api/perfil",
			token:    token,
			wantData: marchallObj(t, ana),
		},
		{
			name:     "retrieve unknown student",
			path:     "/api/perfil",
			token:    ghost,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
		{
			name:       "update with blank name",
			method:     http.MethodPut,
			path:       "/api/perfil",
			token:      token,
			body:       []byte(`{"nombre":"  ","semestre":-1}`),
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"nombre", "semestre"},
		},
		{
			name:   "update",
			method: http.MethodPut,
			path:   "/api/perfil",
			token:  token,
			body:   []byte(`{"nombre":" Ana María ","telefono":"555-1234","carrera":"Matemáticas","semestre":4,"email":"other@example.com"}`),
			wantData: marchallObj(t, map[string]interface{}{
				"mensaje":    "Perfil actualizado",
				"estudiante": updated,
			}),
		},
		{
			name:     "retrieve after update",
			path:     "/api/perfil",
			token:    token,
			wantData: marchallObj(t, updated),
		},
	})
}
