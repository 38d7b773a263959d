package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	apperrors "prize-draw-engine/internal/common/errors"
	"prize-draw-engine/internal/common/metrics"
	"prize-draw-engine/internal/common/validation"
	"prize-draw-engine/internal/features/draw/models"
	"prize-draw-engine/internal/features/draw/repository"
)

type selectorService struct {
	repo repository.WinnerRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewSelectorService(repo repository.WinnerRepository, log zerolog.Logger) SelectorService {
	return &selectorService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *selectorService) MarkWinner(ctx context.Context, ticketID int64, isWinner bool) (*models.Ticket, bool, error) {
	if err := validation.ValidateID("ticket_id", ticketID); err != nil {
		return nil, false, apperrors.NewValidationError("ticket_id", err.Error())
	}

	var (
		ticket  *models.Ticket
		changed bool
		err     error
	)
	if isWinner {
		ticket, changed, err = s.repo.SetWinner(ctx, ticketID, s.now())
	} else {
		ticket, changed, err = s.repo.ClearWinner(ctx, ticketID)
	}

	if err != nil {
		result, appErr := s.translate(ticketID, err)
		metrics.RecordWinnerMark(isWinner, result)
		return nil, false, appErr
	}

	result := markResultNoop
	if changed {
		result = markResultChanged
		s.log.Info().
			Int64("ticket_id", ticket.ID).
			Str("draw", ticket.Key().String()).
			Bool("is_winner", ticket.IsWinner).
			Msg("winner flag changed")
	}
	metrics.RecordWinnerMark(isWinner, result)
	return ticket, changed, nil
}

func (s *selectorService) translate(ticketID int64, err error) (string, error) {
	var conflict *repository.WinnerConflictError
	switch {
	case errors.As(err, &conflict):
		appErr := apperrors.NewWinnerAlreadySetError(conflict.Key.ProductID, conflict.Key.CampaignID).
			WithDetail("ticket_id", ticketID)
		if conflict.WinnerTicketID != 0 {
			appErr = appErr.WithDetail("winner_ticket_id", conflict.WinnerTicketID)
		}
		return markResultConflict, appErr
	case errors.Is(err, repository.ErrWinnerAlreadySet):
		return markResultConflict, apperrors.New(apperrors.ErrCodeWinnerAlreadySet, "Someone already picked a winner for this draw").
			WithDetail("ticket_id", ticketID)
	case errors.Is(err, repository.ErrTicketNotFound):
		return markResultNotFound, apperrors.NewTicketNotFoundError(ticketID)
	case errors.Is(err, repository.ErrDrawNotFound):
		return markResultNotFound, apperrors.New(apperrors.ErrCodeInvalidDraw, "Ticket belongs to a product without a configured draw").
			WithDetail("ticket_id", ticketID)
	default:
		s.log.Error().Err(err).Int64("ticket_id", ticketID).Msg("failed to mark winner")
		return markResultError, apperrors.NewDatabaseError("mark winner", err)
	}
}
