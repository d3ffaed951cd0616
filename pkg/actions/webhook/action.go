// Package webhook implements the webhook action: one outbound HTTP call to a
// user-configured URL.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/corvohq/pulse/pkg/models"
)

type Action struct {
	url     string
	method  string
	body    map[string]any
	rawBody string
	client  *http.Client
}

func (a *Action) Execute(ctx context.Context, trigger models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	payload := make(map[string]any, len(a.body)+1)

	if a.rawBody != "" {
		if err := json.Unmarshal([]byte(a.rawBody), &payload); err != nil {
			return nil, fmt.Errorf("webhook body is not valid JSON: %w", err)
		}
	}

	for k, v := range a.body {
		payload[k] = v
	}

	payload["_context"] = trigger.Data

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, a.method, a.url, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	logger.Info("Webhook delivered", "url", a.url, "status", resp.StatusCode)

	result := map[string]any{"status": resp.StatusCode}

	var parsed any
	if err := json.Unmarshal(responseBody, &parsed); err == nil {
		result["body"] = parsed
	}

	return result, nil
}
