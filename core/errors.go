package core

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewFieldValidationError reports `err` against a single request field.
func NewFieldValidationError(field string, err error) error {
	return &ValidationError{err, []FieldError{{Field: field, Error: err.Error()}}}
}

// FieldMap is the {field: message} body sent to clients; nil without field errors.
func (err ValidationError) FieldMap() map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		m[f.Field] = f.Error
	}
	return m
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// Unwrap exposes the domain error (e.g. student.ErrEmailExists) to errors.Is.
func (err ValidationError) Unwrap() error { return err.Err }
