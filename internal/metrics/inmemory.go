package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginsSucceeded      uint64
	LoginsFailed         uint64
	LoginLockouts        uint64
	TokensRefreshed      uint64
	TextMessagesStored   uint64
	RecordMessagesStored uint64
	UsersRegistered      uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	loginsSucceeded      uint64
	loginsFailed         uint64
	loginLockouts        uint64
	tokensRefreshed      uint64
	textMessagesStored   uint64
	recordMessagesStored uint64
	usersRegistered      uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		LoginsSucceeded:      atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:         atomic.LoadUint64(&m.loginsFailed),
		LoginLockouts:        atomic.LoadUint64(&m.loginLockouts),
		TokensRefreshed:      atomic.LoadUint64(&m.tokensRefreshed),
		TextMessagesStored:   atomic.LoadUint64(&m.textMessagesStored),
		RecordMessagesStored: atomic.LoadUint64(&m.recordMessagesStored),
		UsersRegistered:      atomic.LoadUint64(&m.usersRegistered),
	}
}

// IncLoginSucceeded increments the successful-login counter.
func (m *InMemoryRecorder) IncLoginSucceeded() {
	atomic.AddUint64(&m.loginsSucceeded, 1)
}

// IncLoginFailed increments the failed-login counter.
func (m *InMemoryRecorder) IncLoginFailed() {
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncLoginLockout increments the lockout counter.
func (m *InMemoryRecorder) IncLoginLockout() {
	atomic.AddUint64(&m.loginLockouts, 1)
}

// IncTokenRefreshed increments the refresh counter.
func (m *InMemoryRecorder) IncTokenRefreshed() {
	atomic.AddUint64(&m.tokensRefreshed, 1)
}

// IncMessageStored increments the stored-message counter for the kind.
func (m *InMemoryRecorder) IncMessageStored(kind string) {
	if kind == "record" {
		atomic.AddUint64(&m.recordMessagesStored, 1)
		return
	}
	atomic.AddUint64(&m.textMessagesStored, 1)
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}
