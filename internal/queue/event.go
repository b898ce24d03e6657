// Package queue defines message payloads exchanged over the message broker.
package queue

// SecurityEvent is published when the token service detects something
// worth an operator's attention: a replayed refresh token and the
// family revocation that answered it, or an explicit mass revocation.
// It contains enough information for downstream consumers to alert or
// correlate without querying the primary database.
type SecurityEvent struct {
	Kind       string `json:"kind"` // e.g. "token.reuse_detected"
	UserID     uint64 `json:"user_id"`
	RemoteIP   string `json:"remote_ip,omitempty"`
	DetectedAt string `json:"detected_at"` // RFC 3339 UTC
}

// Event kinds carried by SecurityEvent.
const (
	KindTokenReuse = "token.reuse_detected"
)
