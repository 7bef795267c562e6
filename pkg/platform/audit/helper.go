package audit

import (
	"context"
	"log/slog"

	"broker/internal/platform/privacy"
	"broker/pkg/requestcontext"
)

// Emitter is the interface for audit event emission.
// Satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger writes audit events to the structured log and, when an emitter is
// configured, to the audit trail. A nil *Logger is a no-op so services can
// hold one unconditionally.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger. Either argument may be nil.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{
		textLogger: textLogger,
		emitter:    emitter,
	}
}

// Log stamps event with the action, request ID and request time, then logs
// and emits it. Emission failures are logged and never returned: the business
// operation has already happened.
func (l *Logger) Log(ctx context.Context, action AuditEvent, event Event) {
	if l == nil {
		return
	}
	event.Action = string(action)
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}

	l.logToText(ctx, action, event)
	l.emitToAudit(ctx, event)
}

func (l *Logger) logToText(ctx context.Context, action AuditEvent, event Event) {
	if l.textLogger == nil {
		return
	}
	args := []any{
		"event", event.Action,
		"log_type", "audit",
		"category", string(action.Category()),
		"accreditation_id", event.AccreditationID,
		"requestor", privacy.MaskIdentifier(event.Requestor),
	}
	if event.Subject != "" {
		args = append(args, "subject", privacy.MaskIdentifier(event.Subject))
	}
	if event.Decision != "" {
		args = append(args, "decision", event.Decision)
	}
	if len(event.EvidenceCodes) > 0 {
		args = append(args, "evidence_codes", event.EvidenceCodes)
	}
	if event.RequestID != "" {
		args = append(args, "request_id", event.RequestID)
	}
	l.textLogger.InfoContext(ctx, event.Action, args...)
}

func (l *Logger) emitToAudit(ctx context.Context, event Event) {
	if l.emitter == nil {
		return
	}
	if err := l.emitter.Emit(ctx, event); err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", event.Action,
			"accreditation_id", event.AccreditationID,
		)
	}
}
