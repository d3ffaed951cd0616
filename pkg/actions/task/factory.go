package task

import (
	"strconv"

	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/protocol"
)

type Factory struct {
	tasks persistence.TaskRepository
}

func NewFactory(tasks persistence.TaskRepository) *Factory {
	return &Factory{tasks: tasks}
}

func (*Factory) ID() string {
	return "create_task"
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	title, _ := config["title"].(string)
	assignTo, _ := config["assignTo"].(string)

	return &Action{
		title:     title,
		assignTo:  assignTo,
		dueInDays: dueInDays(config["dueInDays"]),
		tasks:     f.tasks,
	}, nil
}

// dueInDays accepts JSON numbers and numeric strings; anything else falls
// back to the default of 7 days.
func dueInDays(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultDueInDays
}

func (*Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    map[string]any{"type": "string"},
			"assignTo": map[string]any{"type": "string"},
			"dueInDays": map[string]any{
				"type":        "number",
				"default":     defaultDueInDays,
				"description": "Days from now until the task is due.",
			},
		},
		"required": []string{"title"},
	}
}
