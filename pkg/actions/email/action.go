// Package email implements the send_email action.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/protocol"
)

// Action formats an email and hands it to the delivery provider. The
// recipient falls back to data.contact.email, then data.customer.email, when
// not configured.
type Action struct {
	to      string
	subject string
	body    string
	sender  protocol.Sender
}

func (a *Action) Execute(ctx context.Context, trigger models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	to := a.to
	if to == "" {
		to = trigger.RecipientEmail()
	}

	if to == "" {
		return nil, errors.New("No recipient email address")
	}

	msg := protocol.Message{
		Channel: protocol.ChannelEmail,
		To:      to,
		Subject: a.subject,
		Body:    a.body,
	}

	if err := a.sender.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("email hand-off failed: %w", err)
	}

	logger.Info("Email handed off", "to", to, "subject", a.subject)

	return map[string]any{"channel": string(protocol.ChannelEmail), "to": to}, nil
}
