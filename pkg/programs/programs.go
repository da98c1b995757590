// Package programs serves the affiliate program catalog. Rows come from an
// external affiliate network; the service exposes them under the simplified
// application-status taxonomy and records apply/reject decisions.
package programs

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

type Service struct {
	store  persistence.Store
	logger *slog.Logger
}

func NewService(store persistence.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With("module", "programs"),
	}
}

// List returns all catalog rows.
func (s *Service) List(ctx context.Context) ([]*models.Program, error) {
	return s.store.Programs().List(ctx)
}

// Apply marks a program as applied-to, moving it to pending and stamping
// applied_at.
func (s *Service) Apply(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.store.Programs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	err = s.store.Programs().SetStatus(ctx, id, models.ProgramStatusPending, &now)
	if err != nil {
		return nil, err
	}

	program.Status = models.ProgramStatusPending
	program.AppliedAt = &now

	s.logger.InfoContext(ctx, "applied to program", "program_id", id, "name", program.Name)

	return program, nil
}

// Reject marks a program as not suitable.
func (s *Service) Reject(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.store.Programs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.store.Programs().SetStatus(ctx, id, models.ProgramStatusRejected, nil)
	if err != nil {
		return nil, err
	}

	program.Status = models.ProgramStatusRejected

	s.logger.InfoContext(ctx, "rejected program", "program_id", id, "name", program.Name)

	return program, nil
}
