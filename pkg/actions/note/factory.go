package note

import (
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/protocol"
)

type Factory struct {
	activities persistence.ActivityRepository
}

func NewFactory(activities persistence.ActivityRepository) *Factory {
	return &Factory{activities: activities}
}

func (*Factory) ID() string {
	return "add_note"
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	body, _ := config["body"].(string)
	userID, _ := config["userId"].(string)

	return &Action{
		body:       body,
		userID:     userID,
		activities: f.activities,
	}, nil
}

func (*Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"body": map[string]any{"type": "string"},
			"userId": map[string]any{
				"type":        "string",
				"description": "Acting user when the trigger context carries none.",
			},
		},
		"required": []string{"body"},
	}
}
