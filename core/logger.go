package core

// Logger is the app-wide logging contract. Implementations may attach
// extra context from args (the rollbar service attaches the logged-in
// identity when one is passed).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
