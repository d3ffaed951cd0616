package webhook

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/corvohq/pulse/pkg/protocol"
)

const defaultTimeout = 30 * time.Second

type Factory struct {
	client *http.Client
}

// NewFactory creates the webhook action factory. A nil client gets a default
// with a 30s timeout.
func NewFactory(client *http.Client) *Factory {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &Factory{client: client}
}

func (*Factory) ID() string {
	return "webhook"
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	url, _ := config["url"].(string)
	if url == "" {
		return nil, errors.New("No webhook URL")
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	action := &Action{
		url:    url,
		method: strings.ToUpper(method),
		client: f.client,
	}

	// body may be a JSON object or a pre-encoded JSON string.
	switch body := config["body"].(type) {
	case map[string]any:
		action.body = body
	case string:
		action.rawBody = body
	}

	return action, nil
}

func (*Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{"type": "string"},
			"method": map[string]any{
				"type":    "string",
				"default": http.MethodPost,
				"enum":    []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			},
			"body": map[string]any{
				"description": "JSON object or pre-encoded JSON string, merged with {_context: data}.",
			},
		},
		"required": []string{"url"},
	}
}
