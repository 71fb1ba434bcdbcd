// Package notification provides delivery channels for customer notifications.
package notification

import (
	"context"

	"go.uber.org/zap"
)

// Message is a rendered notification ready for delivery
type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Sender delivers rendered notification messages over a channel (email, etc.)
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes notifications to the application log instead of delivering
// them. It is the default channel for development and test environments.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("notification dispatched",
		zap.String("to", msg.To),
		zap.String("from", msg.From),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)),
	)
	s.logger.Debug("notification body",
		zap.String("to", msg.To),
		zap.String("body", msg.Body),
	)
	return nil
}

// Ensure LogSender implements Sender
var _ Sender = (*LogSender)(nil)
