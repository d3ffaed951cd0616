// Package messaging provides the delivery-provider hand-off for outbound
// messages. Real delivery is external; the default sender only logs.
package messaging

import (
	"context"
	"log/slog"

	"github.com/corvohq/pulse/pkg/protocol"
)

// LogSender records the hand-off in the process log. It stands in for the
// external email/SMS/WhatsApp providers.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "messaging")}
}

func (s *LogSender) Send(_ context.Context, msg protocol.Message) error {
	s.logger.Info("Message handed off to provider",
		"channel", msg.Channel,
		"to", msg.To,
		"subject", msg.Subject,
	)

	return nil
}
