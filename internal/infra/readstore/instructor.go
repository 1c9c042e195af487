package readstore

import (
	"context"

	"drivebook/internal/infra/db"
	"drivebook/internal/infra/repository"
	"drivebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type InstructorReadStore struct {
	repo *repository.InstructorRepository
}

func NewInstructorReadStore(dbtx db.DBTX) *InstructorReadStore {
	return &InstructorReadStore{repo: repository.NewInstructorRepository(dbtx)}
}

func (s *InstructorReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.InstructorView, error) {
	snap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &queries.InstructorView{
		ID:          snap.ID,
		SchoolID:    snap.SchoolID,
		DisplayName: snap.DisplayName,
		RuleSet:     snap.RuleSet,
	}, nil
}
