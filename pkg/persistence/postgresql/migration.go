package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE agents (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				role VARCHAR(50) NOT NULL UNIQUE,
				status VARCHAR(50) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
				config JSONB NOT NULL DEFAULT '{}',
				last_run TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE content_items (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				content_body TEXT NOT NULL,
				content_type VARCHAR(50) NOT NULL,
				author VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'pending_approval', 'approved', 'published', 'rejected')),
				seo_data JSONB NOT NULL DEFAULT '{}',
				engagement_metrics JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				published_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_content_items_status ON content_items(status);
			CREATE INDEX idx_content_items_created_at ON content_items(created_at);

			CREATE TABLE content_approval_workflow (
				id UUID PRIMARY KEY,
				content_item_id UUID NOT NULL REFERENCES content_items(id),
				status VARCHAR(50) NOT NULL CHECK (status IN ('pending_approval', 'approved', 'rejected')),
				approved_by VARCHAR(255),
				approved_at TIMESTAMP WITH TIME ZONE,
				review_notes TEXT,
				rejection_reason TEXT,
				actual_completion TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			-- At most one open workflow record per content item.
			CREATE UNIQUE INDEX idx_approval_workflow_open
				ON content_approval_workflow(content_item_id)
				WHERE status = 'pending_approval';

			CREATE TABLE agent_task_queue (
				id UUID PRIMARY KEY,
				agent_id UUID NOT NULL,
				task_type VARCHAR(100) NOT NULL,
				task_payload JSONB,
				status VARCHAR(50) NOT NULL CHECK (status IN ('pending', 'completed', 'failed')),
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_agent_task_queue_status ON agent_task_queue(status);

			CREATE TABLE agent_activities (
				id UUID PRIMARY KEY,
				agent_id UUID NOT NULL,
				activity_type VARCHAR(100) NOT NULL,
				description TEXT,
				metadata JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE TABLE ai_generation_logs (
				id UUID PRIMARY KEY,
				user_id VARCHAR(255),
				content_type VARCHAR(50) NOT NULL,
				prompt TEXT NOT NULL,
				style VARCHAR(100),
				parameters JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE TABLE awin_programs (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				niche VARCHAR(255),
				commission_rate VARCHAR(50),
				priority_score INT DEFAULT 0,
				relevance VARCHAR(50),
				application_status VARCHAR(50) NOT NULL DEFAULT 'not_applied',
				applied_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
		2: `
			-- Seed the two agent roles the pipeline depends on.
			INSERT INTO agents (id, name, role, status, config)
			VALUES
				(gen_random_uuid(), 'Content Creation Agent', 'content_creation', 'active',
				 '{"target_niches": ["Renewable Energy", "Zero Waste Living", "Sustainable Fashion"], "articles_per_day": 3, "target_score_threshold": 80}'),
				(gen_random_uuid(), 'SEO Optimization Agent', 'seo_optimization', 'active',
				 '{"target_score_threshold": 80}')
			ON CONFLICT (role) DO NOTHING;
		`,
	}
}
