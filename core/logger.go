package core

// Logger is implemented by any logging service.
// expected args: error, map[string]interface{}, or any value identifying the acting person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the acting user in log reports.
type Person struct {
	ID    string
	Name  string
	Email string
}
