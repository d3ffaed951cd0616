package whatsapp

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/protocol"
)

type captureSender struct {
	messages []protocol.Message
}

func (s *captureSender) Send(_ context.Context, msg protocol.Message) error {
	s.messages = append(s.messages, msg)

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestExecute_PrefersCustomerPhoneOnlyWhenContactMissing(t *testing.T) {
	sender := &captureSender{}
	factory := NewFactory(sender)

	action, err := factory.Create(map[string]any{"body": "hello"})
	require.NoError(t, err)

	trigger := models.TriggerContext{
		TenantID: "t1",
		Data: map[string]any{
			"customer": map[string]any{"phone": "+440000"},
		},
	}

	output, err := action.Execute(context.Background(), trigger, testLogger())
	require.NoError(t, err)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, protocol.ChannelWhatsApp, sender.messages[0].Channel)
	assert.Equal(t, "+440000", output["to"])
	assert.Equal(t, "whatsapp", output["channel"])
}

func TestExecute_NoRecipientPhone(t *testing.T) {
	factory := NewFactory(&captureSender{})

	action, err := factory.Create(map[string]any{})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.TriggerContext{TenantID: "t1"}, testLogger())
	require.Error(t, err)
	assert.Equal(t, "No recipient phone number", err.Error())
}
