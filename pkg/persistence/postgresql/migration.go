package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				tenant_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				description TEXT,
				trigger_type VARCHAR(50) NOT NULL CHECK (trigger_type IN ('event', 'schedule', 'manual')),
				trigger_event VARCHAR(255),
				trigger_schedule VARCHAR(255),
				is_active BOOLEAN NOT NULL DEFAULT FALSE,
				steps JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflows_tenant ON workflows(tenant_id);
			CREATE INDEX idx_workflows_trigger ON workflows(tenant_id, trigger_type, trigger_event) WHERE is_active AND deleted_at IS NULL;
			CREATE INDEX idx_workflows_deleted_at ON workflows(deleted_at);

			CREATE TABLE workflow_executions (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL,
				tenant_id VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('running', 'completed', 'failed')),
				trigger_data JSONB,
				result JSONB,
				error TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_executions_workflow ON workflow_executions(tenant_id, workflow_id);
			CREATE INDEX idx_executions_status ON workflow_executions(status);
		`,
		2: `
			CREATE TABLE tasks (
				id UUID PRIMARY KEY,
				tenant_id VARCHAR(255) NOT NULL,
				title TEXT NOT NULL,
				assigned_to VARCHAR(255),
				contact_id VARCHAR(255),
				status VARCHAR(50) NOT NULL,
				due_at TIMESTAMP WITH TIME ZONE NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_tasks_tenant ON tasks(tenant_id);

			CREATE TABLE contacts (
				id VARCHAR(255) NOT NULL,
				tenant_id VARCHAR(255) NOT NULL,
				name VARCHAR(255),
				email VARCHAR(255),
				phone VARCHAR(100),
				fields JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				PRIMARY KEY (tenant_id, id)
			);

			CREATE TABLE activities (
				id UUID PRIMARY KEY,
				tenant_id VARCHAR(255) NOT NULL,
				kind VARCHAR(50) NOT NULL,
				body TEXT NOT NULL,
				contact_id VARCHAR(255),
				deal_id VARCHAR(255),
				user_id VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_activities_contact ON activities(tenant_id, contact_id);
		`,
	}
}
