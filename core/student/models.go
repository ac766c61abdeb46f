package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/agendaestudiantil/backend/core"
)

type Student struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"nombre" db:"nombre"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"telefono" db:"telefono"`
	Program      string    `json:"carrera" db:"carrera"`
	Semester     int       `json:"semestre" db:"semestre"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"-" db:"activo"`
	LastAccess   null.Time `json:"ultimo_acceso" db:"ultimo_acceso"` // UTC
	CreatedAt    time.Time `json:"fecha_registro" db:"fecha_registro"`
}

func (s Student) Person() core.Person {
	return core.Person{ID: s.ID, Name: s.Name, Email: s.Email}
}

type NewStudent struct {
	Name     string `json:"nombre" validate:"required,notblank,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"telefono" validate:"max=40"`
	Program  string `json:"carrera" validate:"max=120"`
	Semester int    `json:"semestre" validate:"gte=0,lte=20"`
}

func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Program = core.CleanString(ns.Program)
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Clean()
	return validate.Struct(ns)
}

type UpdateStudent struct {
	Name     string `json:"nombre" validate:"required,notblank,max=120"`
	Phone    string `json:"telefono" validate:"max=40"`
	Program  string `json:"carrera" validate:"max=120"`
	Semester int    `json:"semestre" validate:"gte=0,lte=20"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Phone = core.CleanString(us.Phone)
	us.Program = core.CleanString(us.Program)
	return validate.Struct(us)
}

// Credentials is the login payload. The email is matched exactly (after trimming);
// blank fields are rejected by Authenticate like any other bad pair.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Credentials) Clean() {
	c.Email = core.CleanString(c.Email)
}
