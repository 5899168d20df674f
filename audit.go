package goAuthFlow

import (
	"context"
	"time"

	internalaudit "github.com/MrEthical07/goAuthFlow/internal/audit"
	"github.com/rs/zerolog"
)

// Audit event types emitted by the controllers.
const (
	AuditEventRegister           = "register"
	AuditEventLogin              = "login"
	AuditEventVerifyEmail        = "verify_email"
	AuditEventResendVerification = "resend_verification"
	AuditEventForgotPassword     = "forgot_password"
	AuditEventResetPassword      = "reset_password"
	AuditEventLogout             = "logout"
	AuditEventNavigate           = "navigate"
)

type (
	// AuditEvent is one finished auth action.
	AuditEvent = internalaudit.Event
	// AuditSink receives audit events from the dispatcher goroutine.
	AuditSink = internalaudit.Sink
	// NoOpSink drops every event.
	NoOpSink = internalaudit.NoOpSink
	// ChannelSink buffers events in a channel.
	ChannelSink = internalaudit.ChannelSink
	// JSONLinesSink writes one JSON object per line.
	JSONLinesSink = internalaudit.JSONLinesSink
	// MultiSink fans events out to several sinks.
	MultiSink = internalaudit.MultiSink
	// SinkFunc adapts a function to AuditSink.
	SinkFunc = internalaudit.SinkFunc
	// LogSink writes events through zerolog.
	LogSink = internalaudit.LogSink
)

var (
	NewChannelSink   = internalaudit.NewChannelSink
	NewJSONLinesSink = internalaudit.NewJSONLinesSink
	NewLogSink       = internalaudit.NewLogSink
)

func newAuditDispatcher(cfg AuditConfig, sink AuditSink, logger zerolog.Logger) *internalaudit.Dispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
		Logger:     logger,
	}, sink)
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, email string, err error, metadata func() map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Screen:    string(screenFromContext(ctx)),
		Email:     email,
		RequestID: RequestIDFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = DisplayMessage(err)
	}
	if metadata != nil {
		event.Metadata = metadata()
	}
	e.audit.Emit(ctx, event)
}
