// Package whatsapp implements the send_whatsapp action. Recipient resolution
// is identical to SMS.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/protocol"
)

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
		Channel: protocol.ChannelWhatsApp,
		To:      to,
		Body:    a.body,
	}

	if err := a.sender.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("whatsapp hand-off failed: %w", err)
	}

	logger.Info("WhatsApp message handed off", "to", to)

	return map[string]any{"channel": string(protocol.ChannelWhatsApp), "to": to}, nil
}
