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

type ledgerService struct {
	repo    repository.LedgerRepository
	retries int
	delay   time.Duration
	log     zerolog.Logger
}

// NewLedgerService создает сервис выдачи билетов. retries < 1 и delay < 0 заменяются значениями по умолчанию.
func NewLedgerService(repo repository.LedgerRepository, retries int, delay time.Duration, log zerolog.Logger) LedgerService {
	if retries < 1 {
		retries = DefaultAllocationRetries
	}
	if delay < 0 {
		delay = DefaultRetryDelay
	}
	return &ledgerService{repo: repo, retries: retries, delay: delay, log: log}
}

func (s *ledgerService) IssueTickets(ctx context.Context, key models.DrawKey, input *models.TicketIssue) ([]models.Ticket, error) {
	if input == nil {
		return nil, apperrors.NewBadRequestError("ticket issue body is required")
	}
	if err := validateIssue(key, input); err != nil {
		return nil, err
	}

	params := repository.IssueParams{
		ProductID:  key.ProductID,
		CampaignID: key.CampaignID,
		CustomerID: input.CustomerID,
		OrderID:    input.OrderID,
		Quantity:   input.Quantity,
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		tickets, err := s.repo.IssueTickets(ctx, params)
		if err == nil {
			metrics.RecordTicketsIssued(len(tickets))
			s.log.Debug().
				Str("draw", key.String()).
				Int64("customer_id", input.CustomerID).
				Int("quantity", len(tickets)).
				Int("attempt", attempt).
				Msg("tickets issued")
			return tickets, nil
		}

		if !errors.Is(err, repository.ErrAllocationConflict) {
			return nil, drawError(err, "issue tickets", key.ProductID, key.CampaignID)
		}
		lastErr = err

		if attempt == s.retries {
			break
		}
		metrics.RecordAllocationRetry()
		s.log.Warn().Err(err).Str("draw", key.String()).Int("attempt", attempt).Msg("ticket allocation conflict, retrying batch")

		timer := time.NewTimer(s.delay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeTransactionFailed, "Ticket issuance cancelled")
		case <-timer.C:
		}
	}

	s.log.Error().Err(lastErr).Str("draw", key.String()).Int("attempts", s.retries).Msg("ticket allocation retries exhausted")
	return nil, apperrors.NewAllocationConflictError(s.retries, lastErr)
}

func validateIssue(key models.DrawKey, input *models.TicketIssue) error {
	if err := validation.ValidateID("product_id", key.ProductID); err != nil {
		return apperrors.NewValidationError("product_id", err.Error())
	}
	if err := validation.ValidateID("campaign_id", key.CampaignID); err != nil {
		return apperrors.NewValidationError("campaign_id", err.Error())
	}
	if err := validation.ValidateID("customer_id", input.CustomerID); err != nil {
		return apperrors.NewValidationError("customer_id", err.Error())
	}
	if input.OrderID != nil {
		if err := validation.ValidateID("order_id", *input.OrderID); err != nil {
			return apperrors.NewValidationError("order_id", err.Error())
		}
	}
	if err := validation.ValidateQuantity(input.Quantity); err != nil {
		return apperrors.NewValidationError("quantity", err.Error())
	}
	return nil
}
