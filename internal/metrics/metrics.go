// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncLoginSucceeded()
	IncLoginFailed()
	IncLoginLockout()
	IncTokenRefreshed()

	// Messaging metrics
	IncMessageStored(kind string) // kind: "text" or "record"
	IncUserRegistered()
}
