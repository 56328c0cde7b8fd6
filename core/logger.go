package core

// Logger logs to stdout and reports to an error tracker.
// args may carry errors, extras (map[string]interface{}) and the request context.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
