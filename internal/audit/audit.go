package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Action is the closed set of auditable actions. New actions are added
// here, never created ad hoc from strings, so sinks can rely on the
// vocabulary being stable.
type Action string

const (
	ActionLoginSuccess    Action = "LOGIN_SUCCESS"
	ActionLoginFailed     Action = "LOGIN_FAILED"
	ActionLogout          Action = "LOGOUT"
	ActionSessionsRevoked Action = "USER_SESSIONS_REVOKED"
	ActionRoleChanged     Action = "USER_ROLE_CHANGED"
	ActionUserApproved    Action = "USER_APPROVED"
	ActionUserDeleted     Action = "USER_DELETED"
	ActionListingCreated  Action = "LISTING_CREATED"
	ActionListingUpdated  Action = "LISTING_UPDATED"
	ActionListingDeleted  Action = "LISTING_DELETED"
	ActionAccessDenied    Action = "ACCESS_DENIED"
	ActionRateLimited     Action = "RATE_LIMIT_TRIGGERED"
)

// Entry is a single append-only audit record. Actor fields identify who
// acted, entity fields what was acted on. Details carries small
// action-specific context; keep values short and non-sensitive.
type Entry struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id,omitempty"`
	ActorEmail string            `json:"actor_email,omitempty"`
	Action     Action            `json:"action"`
	EntityType string            `json:"entity_type,omitempty"`
	EntityID   string            `json:"entity_id,omitempty"`
	EntityName string            `json:"entity_name,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	IP         string            `json:"ip_address,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Sink receives dispatched entries. Emit has no error return: a sink that
// fails internally must swallow or log the failure itself. Emit may be
// called from the dispatcher goroutine only, so implementations do not need
// to be safe for concurrent use unless shared across dispatchers.
type Sink interface {
	Emit(ctx context.Context, entry Entry)
}

// NoOpSink discards all entries.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Entry) {}

// ChannelSink forwards entries to a channel, dropping when the channel is
// full. Useful for tests and for bridging into an existing pipeline.
type ChannelSink struct {
	ch chan<- Entry
}

func NewChannelSink(ch chan<- Entry) *ChannelSink {
	return &ChannelSink{ch: ch}
}

func (s *ChannelSink) Emit(_ context.Context, entry Entry) {
	select {
	case s.ch <- entry:
	default:
	}
}

// JSONWriterSink writes one JSON object per line. Writes are serialized
// with a mutex so the sink can be shared.
type JSONWriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{w: w}
}

func (s *JSONWriterSink) Emit(_ context.Context, entry Entry) {
	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(b)
}
