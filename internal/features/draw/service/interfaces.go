package service

import (
	"context"

	"prize-draw-engine/internal/features/draw/models"
)

// LedgerService issues numbered tickets for a draw
type LedgerService interface {
	IssueTickets(ctx context.Context, key models.DrawKey, input *models.TicketIssue) ([]models.Ticket, error)
}

// SelectorService flips the winner flag of a ticket
type SelectorService interface {
	// MarkWinner returns the resulting ticket and whether its state changed.
	MarkWinner(ctx context.Context, ticketID int64, isWinner bool) (*models.Ticket, bool, error)
}

// QueryService serves every read-only view over draws
type QueryService interface {
	ListDraws(ctx context.Context, phase string) ([]models.DrawStatus, error)
	GetDraw(ctx context.Context, key models.DrawKey) (*models.DrawStatus, error)
	ListPool(ctx context.Context, key models.DrawKey) ([]models.PoolEntry, error)
	ListWinnerHistory(ctx context.Context, key models.DrawKey) ([]models.WinnerEvent, error)
}
