package workflow

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence/file"
	"github.com/corvohq/pulse/pkg/protocol"
	"github.com/corvohq/pulse/pkg/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestPersistence(t *testing.T) *file.Persistence {
	t.Helper()

	return file.NewPersistence(t.TempDir())
}

// recorder tracks which steps actually executed, across goroutines.
type recorder struct {
	mu   sync.Mutex
	runs []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs = append(r.runs, name)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.runs))
	copy(out, r.runs)

	return out
}

type testAction struct {
	exec func(ctx context.Context, trigger models.TriggerContext) (map[string]any, error)
}

func (a testAction) Execute(ctx context.Context, trigger models.TriggerContext, _ *slog.Logger) (map[string]any, error) {
	return a.exec(ctx, trigger)
}

type testFactory struct {
	id     string
	create func(config map[string]any) (protocol.Action, error)
}

func (f testFactory) ID() string { return f.id }

func (f testFactory) Create(config map[string]any) (protocol.Action, error) {
	return f.create(config)
}

func (testFactory) Schema() map[string]any { return nil }

// okFactory records each execution under the step's configured "mark".
func okFactory(id string, rec *recorder) testFactory {
	return testFactory{
		id: id,
		create: func(config map[string]any) (protocol.Action, error) {
			mark, _ := config["mark"].(string)

			return testAction{exec: func(context.Context, models.TriggerContext) (map[string]any, error) {
				rec.add(mark)

				return map[string]any{"mark": mark}, nil
			}}, nil
		},
	}
}

func testRegistry(factories ...protocol.ActionFactory) *registry.Registry {
	reg := registry.NewRegistry(testLogger())
	for _, factory := range factories {
		reg.RegisterAction(factory)
	}

	return reg
}
