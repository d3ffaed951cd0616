package whatsapp

import (
	"github.com/corvohq/pulse/pkg/protocol"
)

type Factory struct {
	sender protocol.Sender
}

func NewFactory(sender protocol.Sender) *Factory {
	return &Factory{sender: sender}
}

func (*Factory) ID() string {
	return "send_whatsapp"
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	to, _ := config["to"].(string)
	body, _ := config["body"].(string)

	return &Action{to: to, body: body, sender: f.sender}, nil
}

func (*Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to":   map[string]any{"type": "string"},
			"body": map[string]any{"type": "string"},
		},
	}
}
