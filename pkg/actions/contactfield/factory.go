package contactfield

import (
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/protocol"
)

type Factory struct {
	contacts persistence.ContactRepository
}

func NewFactory(contacts persistence.ContactRepository) *Factory {
	return &Factory{contacts: contacts}
}

func (*Factory) ID() string {
	return "update_contact"
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	field, _ := config["field"].(string)

	return &Action{
		field:    field,
		value:    config["value"],
		contacts: f.contacts,
	}, nil
}

func (*Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{"type": "string"},
			"value": map[string]any{
				"description": "New value for the field; any JSON scalar.",
			},
		},
		"required": []string{"field"},
	}
}
