package metrics

import (
	"sync"
	"testing"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	rec := NewInMemory()

	rec.IncLoginSucceeded()
	rec.IncLoginFailed()
	rec.IncLoginFailed()
	rec.IncLoginLockout()
	rec.IncTokenRefreshed()
	rec.IncMessageStored("text")
	rec.IncMessageStored("record")
	rec.IncMessageStored("record")
	rec.IncUserRegistered()

	snap := rec.Snapshot()
	if snap.LoginsSucceeded != 1 {
		t.Errorf("LoginsSucceeded = %d, want 1", snap.LoginsSucceeded)
	}
	if snap.LoginsFailed != 2 {
		t.Errorf("LoginsFailed = %d, want 2", snap.LoginsFailed)
	}
	if snap.LoginLockouts != 1 {
		t.Errorf("LoginLockouts = %d, want 1", snap.LoginLockouts)
	}
	if snap.TokensRefreshed != 1 {
		t.Errorf("TokensRefreshed = %d, want 1", snap.TokensRefreshed)
	}
	if snap.TextMessagesStored != 1 {
		t.Errorf("TextMessagesStored = %d, want 1", snap.TextMessagesStored)
	}
	if snap.RecordMessagesStored != 2 {
		t.Errorf("RecordMessagesStored = %d, want 2", snap.RecordMessagesStored)
	}
	if snap.UsersRegistered != 1 {
		t.Errorf("UsersRegistered = %d, want 1", snap.UsersRegistered)
	}
}

func TestInMemoryRecorder_ConcurrentSafe(t *testing.T) {
	t.Parallel()

	rec := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rec.IncLoginFailed()
			}
		}()
	}
	wg.Wait()

	if got := rec.Snapshot().LoginsFailed; got != 1000 {
		t.Errorf("LoginsFailed = %d, want 1000", got)
	}
}
