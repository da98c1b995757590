// Package postgresql provides the PostgreSQL storage implementation for the
// content pipeline.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/persistence/sqlbase"
)

// Store implements persistence.Store on top of PostgreSQL.
type Store struct {
	db           *sql.DB
	logger       *slog.Logger
	agentRepo    *AgentRepository
	contentRepo  *ContentRepository
	approvalRepo *ApprovalRepository
	taskRepo     *TaskRepository
	programRepo  *ProgramRepository
	auditRepo    *AuditRepository
}

// NewStore connects to PostgreSQL, runs pending migrations and returns the store.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*Store, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{
		db:           database,
		logger:       logger,
		agentRepo:    NewAgentRepository(database, logger),
		contentRepo:  NewContentRepository(database, logger),
		approvalRepo: NewApprovalRepository(database, logger),
		taskRepo:     NewTaskRepository(database, logger),
		programRepo:  NewProgramRepository(database, logger),
		auditRepo:    NewAuditRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close(_ context.Context) error {
	if s.db != nil {
		err := s.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (s *Store) HealthCheck(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (s *Store) Agents() persistence.AgentRepository {
	return s.agentRepo
}

func (s *Store) Content() persistence.ContentRepository {
	return s.contentRepo
}

func (s *Store) Approvals() persistence.ApprovalRepository {
	return s.approvalRepo
}

func (s *Store) Tasks() persistence.TaskRepository {
	return s.taskRepo
}

func (s *Store) Programs() persistence.ProgramRepository {
	return s.programRepo
}

func (s *Store) Audit() persistence.AuditRepository {
	return s.auditRepo
}
