// Package cmd provides common initialization for the command-line binaries.
package cmd

import (
	"log/slog"
	"net/http"

	"github.com/corvohq/pulse/pkg/actions/contactfield"
	"github.com/corvohq/pulse/pkg/actions/email"
	"github.com/corvohq/pulse/pkg/actions/note"
	"github.com/corvohq/pulse/pkg/actions/sms"
	"github.com/corvohq/pulse/pkg/actions/task"
	"github.com/corvohq/pulse/pkg/actions/webhook"
	"github.com/corvohq/pulse/pkg/actions/whatsapp"
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/protocol"
	"github.com/corvohq/pulse/pkg/registry"
)

// NewRegistry builds the action registry with every native step type
// registered.
func NewRegistry(logger *slog.Logger, p persistence.Persistence, sender protocol.Sender, httpClient *http.Client) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterAction(email.NewFactory(sender))
	reg.RegisterAction(sms.NewFactory(sender))
	reg.RegisterAction(whatsapp.NewFactory(sender))
	reg.RegisterAction(task.NewFactory(p.Tasks()))
	reg.RegisterAction(contactfield.NewFactory(p.Contacts()))
	reg.RegisterAction(note.NewFactory(p.Activities()))
	reg.RegisterAction(webhook.NewFactory(httpClient))

	return reg
}
