// Package file provides file-based persistence for local development and tests.
// Records are stored as JSON documents under <root>/<collection>/<tenant>/.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Persistence implements persistence.Persistence on the local file system.
type Persistence struct {
	root string
	mu   sync.RWMutex

	workflowRepo  *WorkflowRepository
	executionRepo *ExecutionRepository
	taskRepo      *TaskRepository
	contactRepo   *ContactRepository
	activityRepo  *ActivityRepository
}

// NewPersistence creates a file persistence rooted at the given directory.
// A "file://" prefix is stripped, matching database-url parsing.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	p := &Persistence{root: cleanRoot}
	p.workflowRepo = &WorkflowRepository{store: p}
	p.executionRepo = &ExecutionRepository{store: p}
	p.taskRepo = &TaskRepository{store: p}
	p.contactRepo = &ContactRepository{store: p}
	p.activityRepo = &ActivityRepository{store: p}

	return p
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// write stores one record as <root>/<collection>/<tenant>/<id>.json.
func (p *Persistence) write(collection, tenantID, id string, record any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	dir := filepath.Join(p.root, collection, tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", collection, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", collection, err)
	}

	if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s record: %w", collection, err)
	}

	return nil
}

// read loads one record; returns os.ErrNotExist when absent.
func (p *Persistence) read(collection, tenantID, id string, record any) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(p.root, collection, tenantID, id+".json"))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, record); err != nil {
		return fmt.Errorf("failed to unmarshal %s record: %w", collection, err)
	}

	return nil
}

// ids lists the record IDs stored for one tenant in a collection.
func (p *Persistence) ids(collection, tenantID string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dir := filepath.Join(p.root, collection, tenantID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", collection, err)
	}

	ids := make([]string, 0, len(files))
	for _, f := range files {
		ids = append(ids, strings.TrimSuffix(f, ".json"))
	}

	return ids, nil
}

// tenants lists the tenant directories present in a collection.
func (p *Persistence) tenants(collection string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(p.root, collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list %s tenants: %w", collection, err)
	}

	tenants := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			tenants = append(tenants, e.Name())
		}
	}

	return tenants, nil
}

func (p *Persistence) remove(collection, tenantID, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return os.Remove(filepath.Join(p.root, collection, tenantID, id+".json"))
}
