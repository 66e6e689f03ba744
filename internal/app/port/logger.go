package port

// Logger is the structured logger handed to engines, aggregators and providers.
// Args are alternating key/value pairs.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a Logger that adds args to every entry.
	With(args ...any) Logger
}
