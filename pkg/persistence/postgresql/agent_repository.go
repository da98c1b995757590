package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// AgentRepository handles agent registry database operations.
type AgentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAgentRepository creates a new agent repository.
func NewAgentRepository(db *sql.DB, logger *slog.Logger) *AgentRepository {
	return &AgentRepository{db: db, logger: logger}
}

const agentColumns = `
	id
  , name
  , role
  , status
  , config
  , last_run
  , created_at
  , updated_at
`

func (r *AgentRepository) GetByRole(ctx context.Context, role models.AgentRole) (*models.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE role = $1`

	row := r.db.QueryRowContext(ctx, query, string(role))

	agent, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoreError("GetByRole", "agents", string(role), persistence.ErrAgentNotFound)
		}

		return nil, fmt.Errorf("failed to scan agent: %w", err)
	}

	return agent, nil
}

func (r *AgentRepository) List(ctx context.Context) ([]*models.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	agents := make([]*models.Agent, 0)

	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}

		agents = append(agents, agent)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}

	return agents, nil
}

func (r *AgentRepository) TouchLastRun(ctx context.Context, role models.AgentRole, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE agents SET last_run = $1, updated_at = $1 WHERE role = $2`,
		at.UTC(), string(role))
	if err != nil {
		return persistence.NewStoreError("TouchLastRun", "agents", string(role), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewStoreError("TouchLastRun", "agents", string(role), persistence.ErrAgentNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*models.Agent, error) {
	var (
		agent      models.Agent
		configJSON []byte
		lastRun    sql.NullTime
	)

	err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Role,
		&agent.Status,
		&configJSON,
		&lastRun,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(configJSON) > 0 {
		err = json.Unmarshal(configJSON, &agent.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal agent config: %w", err)
		}
	}

	if lastRun.Valid {
		t := lastRun.Time
		agent.LastRun = &t
	}

	return &agent, nil
}
