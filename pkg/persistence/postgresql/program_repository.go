package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// ProgramRepository handles affiliate program catalog database operations.
type ProgramRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewProgramRepository creates a new program repository.
func NewProgramRepository(db *sql.DB, logger *slog.Logger) *ProgramRepository {
	return &ProgramRepository{db: db, logger: logger}
}

const programColumns = `
	id
  , name
  , niche
  , commission_rate
  , priority_score
  , relevance
  , application_status
  , applied_at
  , created_at
`

func (r *ProgramRepository) GetByID(ctx context.Context, id string) (*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM awin_programs WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	program, err := scanProgram(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoreError("GetByID", "awin_programs", id, persistence.ErrProgramNotFound)
		}

		return nil, fmt.Errorf("failed to scan program: %w", err)
	}

	return program, nil
}

func (r *ProgramRepository) List(ctx context.Context) ([]*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM awin_programs ORDER BY priority_score DESC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query programs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	programs := make([]*models.Program, 0)

	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}

		programs = append(programs, program)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating programs: %w", err)
	}

	return programs, nil
}

func (r *ProgramRepository) SetStatus(ctx context.Context, id string, status models.ProgramStatus, appliedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE awin_programs SET application_status = $1, applied_at = COALESCE($2, applied_at) WHERE id = $3`,
		string(status), appliedAt, id)
	if err != nil {
		return persistence.NewStoreError("SetStatus", "awin_programs", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewStoreError("SetStatus", "awin_programs", id, persistence.ErrProgramNotFound)
	}

	return nil
}

func scanProgram(row rowScanner) (*models.Program, error) {
	var (
		program    models.Program
		niche      sql.NullString
		commission sql.NullString
		relevance  sql.NullString
		rawStatus  string
		appliedAt  sql.NullTime
	)

	err := row.Scan(
		&program.ID,
		&program.Name,
		&niche,
		&commission,
		&program.PriorityScore,
		&relevance,
		&rawStatus,
		&appliedAt,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	program.Niche = niche.String
	program.CommissionRate = commission.String
	program.Relevance = relevance.String
	program.Status = models.SimplifyProgramStatus(rawStatus)

	if appliedAt.Valid {
		t := appliedAt.Time
		program.AppliedAt = &t
	}

	return &program, nil
}
