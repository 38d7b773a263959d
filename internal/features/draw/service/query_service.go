package service

import (
	"context"
	"time"

	apperrors "prize-draw-engine/internal/common/errors"
	"prize-draw-engine/internal/common/validation"
	"prize-draw-engine/internal/features/draw/classifier"
	"prize-draw-engine/internal/features/draw/models"
	"prize-draw-engine/internal/features/draw/repository"
)

type queryService struct {
	draws   repository.DrawRepository
	pool    repository.PoolRepository
	winners repository.WinnerRepository
	now     func() time.Time
}

func NewQueryService(draws repository.DrawRepository, pool repository.PoolRepository, winners repository.WinnerRepository) QueryService {
	return &queryService{
		draws:   draws,
		pool:    pool,
		winners: winners,
		now:     time.Now,
	}
}

// ListDraws классифицирует все связанные розыгрыши; пустая фаза возвращает все
func (s *queryService) ListDraws(ctx context.Context, phase string) ([]models.DrawStatus, error) {
	want, filter, err := models.ParsePhase(phase)
	if err != nil {
		return nil, apperrors.NewValidationError("phase", err.Error())
	}

	snapshots, err := s.draws.ListDraws(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list draws", err)
	}

	now := s.now()
	result := make([]models.DrawStatus, 0, len(snapshots))
	for _, snap := range snapshots {
		status := classifier.Status(snap, now)
		if filter && status.Phase != want {
			continue
		}
		result = append(result, status)
	}
	return result, nil
}

func (s *queryService) GetDraw(ctx context.Context, key models.DrawKey) (*models.DrawStatus, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	snap, err := s.draws.GetDraw(ctx, key)
	if err != nil {
		return nil, drawError(err, "get draw", key.ProductID, key.CampaignID)
	}
	status := classifier.Status(*snap, s.now())
	return &status, nil
}

// ListPool возвращает все билеты розыгрыша, включая победителя
func (s *queryService) ListPool(ctx context.Context, key models.DrawKey) ([]models.PoolEntry, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	pool, err := s.pool.ListPool(ctx, key)
	if err != nil {
		return nil, drawError(err, "list pool", key.ProductID, key.CampaignID)
	}
	return pool, nil
}

func (s *queryService) ListWinnerHistory(ctx context.Context, key models.DrawKey) ([]models.WinnerEvent, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	// История пустая и для неизвестного розыгрыша, поэтому сначала проверяем конфиг
	if _, err := s.draws.GetDraw(ctx, key); err != nil {
		return nil, drawError(err, "get draw", key.ProductID, key.CampaignID)
	}
	events, err := s.winners.ListWinnerEvents(ctx, key)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list winner events", err)
	}
	return events, nil
}

func validateKey(key models.DrawKey) error {
	if err := validation.ValidateID("product_id", key.ProductID); err != nil {
		return apperrors.NewValidationError("product_id", err.Error())
	}
	if err := validation.ValidateID("campaign_id", key.CampaignID); err != nil {
		return apperrors.NewValidationError("campaign_id", err.Error())
	}
	return nil
}
