package metrics

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

// IncLoginSucceeded does nothing.
func (*NoopRecorder) IncLoginSucceeded() {}

// IncLoginFailed does nothing.
func (*NoopRecorder) IncLoginFailed() {}

// IncLoginLockout does nothing.
func (*NoopRecorder) IncLoginLockout() {}

// IncTokenRefreshed does nothing.
func (*NoopRecorder) IncTokenRefreshed() {}

// IncMessageStored does nothing.
func (*NoopRecorder) IncMessageStored(string) {}

// IncUserRegistered does nothing.
func (*NoopRecorder) IncUserRegistered() {}
