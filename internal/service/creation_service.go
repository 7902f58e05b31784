package service

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ErrCreationNotFound covers both a missing creation and one owned by another
// user.
var ErrCreationNotFound = errors.New("creation not found")

// CreationService exposes a user's generation history and the published
// community feed.
type CreationService interface {
	ListCreations(ctx context.Context, userID string) ([]model.Creation, error)
	ListPublished(ctx context.Context) ([]model.Creation, error)
	SetPublish(ctx context.Context, creationID, userID string, publish bool) (*model.Creation, error)
}

type creationService struct {
	creations repository.CreationRepository
	logger    zerolog.Logger
}

func NewCreationService(creations repository.CreationRepository, logger zerolog.Logger) CreationService {
	return &creationService{
		creations: creations,
		logger:    logger.With().Str("service", "CreationService").Logger(),
	}
}

func (s *creationService) ListCreations(ctx context.Context, userID string) ([]model.Creation, error) {
	creations, err := s.creations.ListCreationsByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list creations")
		return nil, fmt.Errorf("listing creations: %w", err)
	}
	return creations, nil
}

func (s *creationService) ListPublished(ctx context.Context) ([]model.Creation, error) {
	creations, err := s.creations.ListPublishedCreations(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list published creations")
		return nil, fmt.Errorf("listing published creations: %w", err)
	}
	return creations, nil
}

func (s *creationService) SetPublish(ctx context.Context, creationID, userID string, publish bool) (*model.Creation, error) {
	creation, err := s.creations.SetPublish(ctx, creationID, userID, publish)
	if err != nil {
		if errors.Is(err, repository.ErrCreationNotFound) {
			return nil, ErrCreationNotFound
		}
		s.logger.Error().Err(err).Str("creation_id", creationID).Msg("Failed to update publish flag")
		return nil, fmt.Errorf("updating publish flag: %w", err)
	}
	return creation, nil
}
