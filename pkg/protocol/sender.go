package protocol

import "context"

// Channel identifies a message delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Message is a formatted hand-off to a delivery provider.
type Message struct {
	Channel Channel `json:"channel"`
	To      string  `json:"to"`
	Subject string  `json:"subject,omitempty"`
	Body    string  `json:"body"`
}

// Sender hands a message to an external delivery provider. Provider
// integration lives outside the engine.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
