package model

import "testing"

func TestBody_Text(t *testing.T) {
	t.Parallel()

	body := TextBody("hello")

	if body.Kind() != BodyText {
		t.Errorf("expected BodyText kind, got %d", body.Kind())
	}

	text, ok := body.Text()
	if !ok || text != "hello" {
		t.Errorf("expected text %q, got %q (ok=%v)", "hello", text, ok)
	}

	if _, ok := body.Recording(); ok {
		t.Error("text body should not report a recording")
	}

	if body.IsZero() {
		t.Error("text body should not be zero")
	}
}

func TestBody_Recording(t *testing.T) {
	t.Parallel()

	body := RecordingBody("rec/abc123.ogg")

	if body.Kind() != BodyRecording {
		t.Errorf("expected BodyRecording kind, got %d", body.Kind())
	}

	ref, ok := body.Recording()
	if !ok || ref != "rec/abc123.ogg" {
		t.Errorf("expected recording %q, got %q (ok=%v)", "rec/abc123.ogg", ref, ok)
	}

	if _, ok := body.Text(); ok {
		t.Error("recording body should not report text")
	}
}

func TestBody_Zero(t *testing.T) {
	t.Parallel()

	var body Body

	if !body.IsZero() {
		t.Error("zero body should report IsZero")
	}
	if _, ok := body.Text(); ok {
		t.Error("zero body should not report text")
	}
	if _, ok := body.Recording(); ok {
		t.Error("zero body should not report a recording")
	}
}

func TestUser_Profiles(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$...",
	}

	own := user.OwnProfile()
	if own.Email != user.Email {
		t.Errorf("own profile should carry email, got %q", own.Email)
	}

	public := user.PublicProfile()
	if public.Email != "" {
		t.Errorf("public profile must not carry email, got %q", public.Email)
	}
	if public.Username != "alice" {
		t.Errorf("public profile username mismatch: %q", public.Username)
	}
}
