package core

// Logger is any service that can log messages at the usual levels.
// args may carry an error, extra context values or a user.User to attach
// to the report.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
