package authgate

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	internalaudit "github.com/MrEthical07/authgate/internal/audit"
)

// Audit actions, re-exported so callers never import internal packages.
const (
	ActionLoginSuccess    = internalaudit.ActionLoginSuccess
	ActionLoginFailed     = internalaudit.ActionLoginFailed
	ActionLogout          = internalaudit.ActionLogout
	ActionSessionsRevoked = internalaudit.ActionSessionsRevoked
	ActionRoleChanged     = internalaudit.ActionRoleChanged
	ActionUserApproved    = internalaudit.ActionUserApproved
	ActionUserDeleted     = internalaudit.ActionUserDeleted
	ActionListingCreated  = internalaudit.ActionListingCreated
	ActionListingUpdated  = internalaudit.ActionListingUpdated
	ActionListingDeleted  = internalaudit.ActionListingDeleted
	ActionAccessDenied    = internalaudit.ActionAccessDenied
	ActionRateLimited     = internalaudit.ActionRateLimited
)

// Ready-made sinks.
func NewNoOpAuditSink() AuditSink { return internalaudit.NoOpSink{} }

func NewChannelAuditSink(ch chan<- AuditEntry) AuditSink {
	return internalaudit.NewChannelSink(ch)
}

func NewJSONWriterAuditSink(w io.Writer) AuditSink {
	return internalaudit.NewJSONWriterSink(w)
}

// Audit records a security event, fire-and-forget: the entry is queued to
// the async dispatcher and the call returns immediately. A full queue or a
// failing sink never fails the operation being audited. ID and CreatedAt
// are filled in when absent; actor and IP fall back to context values.
func (e *Engine) Audit(ctx context.Context, entry AuditEntry) {
	if e == nil || e.audit == nil {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.IP == "" {
		entry.IP = clientIPFromContext(ctx)
	}
	if entry.ActorID == "" {
		if actor, ok := actorFromContext(ctx); ok {
			entry.ActorID = actor.ID
			entry.ActorEmail = actor.Email
		}
	}

	e.metricInc(MetricAuditEmitted)
	e.audit.Emit(ctx, entry)
}

// emitAudit is the internal emission path for events the engine generates
// itself. metadataBuilder runs only when auditing is enabled.
func (e *Engine) emitAudit(
	ctx context.Context,
	action AuditAction,
	entityType, entityID, entityName string,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var details map[string]string
	if metadataBuilder != nil {
		details = metadataBuilder()
	}

	e.Audit(ctx, AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
	})
}

func (e *Engine) auditAccessDenied(ctx context.Context, identity Identity, wanted Role, reason string) {
	if e == nil || e.audit == nil {
		return
	}
	e.Audit(ctx, AuditEntry{
		ActorID:    identity.ID,
		ActorEmail: identity.Email,
		Action:     ActionAccessDenied,
		Details: map[string]string{
			"required_role": string(wanted),
			"actual_role":   string(identity.Role),
			"reason":        reason,
		},
	})
}
