package services

// Recorder receives domain counters. The metrics package provides the
// Prometheus-backed implementation.
type Recorder interface {
	UserCreated()
	ExerciseLogged()
	EventPublished(channel string)
	EventFailed(channel string)
	LogExported()
}

type noopRecorder struct{}

func (noopRecorder) UserCreated() {}
func (noopRecorder) ExerciseLogged() {}
func (noopRecorder) EventPublished(string) {}
func (noopRecorder) EventFailed(string) {}
func (noopRecorder) LogExported() {}
