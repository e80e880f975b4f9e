package nats

// Logger is the subset of the service logger the bus reports through.
type Logger interface {
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}

const (
	StreamName    = "EVENTS"
	streamSubject = "events.>"
)

func subjectFor(eventType string) string {
	return "events." + eventType
}
