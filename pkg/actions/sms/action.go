// Package sms implements the send_sms action.
package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/protocol"
)

// Action formats an SMS and hands it to the delivery provider. The recipient
// falls back to data.contact.phone, then data.customer.phone.
type Action struct {
	to     string
	body   string
	sender protocol.Sender
}

func (a *Action) Execute(ctx context.Context, trigger models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	to := a.to
	if to == "" {
		to = trigger.RecipientPhone()
	}

	if to == "" {
		return nil, errors.New("No recipient phone number")
	}

	msg := protocol.Message{
		Channel: protocol.ChannelSMS,
		To:      to,
		Body:    a.body,
	}

	if err := a.sender.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("sms hand-off failed: %w", err)
	}

	logger.Info("SMS handed off", "to", to)

	return map[string]any{"channel": string(protocol.ChannelSMS), "to": to}, nil
}
