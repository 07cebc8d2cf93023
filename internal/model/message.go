package model

import "time"

// BodyKind discriminates the two message payload variants.
type BodyKind int

const (
	// BodyText is a written message.
	BodyText BodyKind = iota + 1
	// BodyRecording is a reference to a recorded audio clip.
	BodyRecording
)

// Body is the payload of a Message: either written text or a recording
// reference, never both. The zero value is invalid and rejected at the
// storage layer.
type Body struct {
	kind  BodyKind
	value string
}

// TextBody builds a text payload.
func TextBody(text string) Body {
	return Body{kind: BodyText, value: text}
}

// RecordingBody builds a recording payload from an opaque reference.
func RecordingBody(ref string) Body {
	return Body{kind: BodyRecording, value: ref}
}

// Kind returns the payload variant, or 0 for the zero value.
func (b Body) Kind() BodyKind {
	return b.kind
}

// Text returns the written text and whether this is a text payload.
func (b Body) Text() (string, bool) {
	if b.kind != BodyText {
		return "", false
	}
	return b.value, true
}

// Recording returns the recording reference and whether this is a
// recording payload.
func (b Body) Recording() (string, bool) {
	if b.kind != BodyRecording {
		return "", false
	}
	return b.value, true
}

// IsZero reports whether no payload has been set.
func (b Body) IsZero() bool {
	return b.kind == 0
}

// Message is an anonymous message stored against its recipient.
// Messages are immutable once created; there is no update or delete.
type Message struct {
	ID        string
	UserID    string // recipient
	Body      Body
	CreatedAt time.Time
}
