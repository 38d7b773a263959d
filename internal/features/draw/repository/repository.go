package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prize-draw-engine/internal/features/draw/models"
)

var (
	ErrDrawNotFound       = errors.New("draw not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrWinnerAlreadySet   = errors.New("another ticket is already the winner of this draw")
	ErrAllocationConflict = errors.New("ticket number allocation conflict")
)

// WinnerConflictError is returned when a draw already has a different winner.
// WinnerTicketID is zero when the conflict came from the unique index.
type WinnerConflictError struct {
	Key            models.DrawKey
	WinnerTicketID int64
}

func (e *WinnerConflictError) Error() string {
	if e.WinnerTicketID == 0 {
		return fmt.Sprintf("draw %s: %v", e.Key, ErrWinnerAlreadySet)
	}
	return fmt.Sprintf("draw %s: ticket %d already won: %v", e.Key, e.WinnerTicketID, ErrWinnerAlreadySet)
}

func (e *WinnerConflictError) Unwrap() error {
	return ErrWinnerAlreadySet
}

// IssueParams describes one ledger batch.
type IssueParams struct {
	ProductID  int64
	CampaignID int64
	CustomerID int64
	OrderID    *int64
	Quantity   int
}

// LedgerRepository is the only writer of ticket rows.
type LedgerRepository interface {
	// IssueTickets reserves Quantity sequence values and inserts the tickets in
	// one transaction. Returns ErrDrawNotFound or ErrAllocationConflict.
	IssueTickets(ctx context.Context, params IssueParams) ([]models.Ticket, error)
}

// WinnerRepository is the only writer of is_winner/won_at.
type WinnerRepository interface {
	// SetWinner returns the ticket and whether anything changed.
	SetWinner(ctx context.Context, ticketID int64, wonAt time.Time) (*models.Ticket, bool, error)
	ClearWinner(ctx context.Context, ticketID int64) (*models.Ticket, bool, error)
	ListWinnerEvents(ctx context.Context, key models.DrawKey) ([]models.WinnerEvent, error)
}

// DrawRepository reads draw configuration joined with ledger aggregates.
type DrawRepository interface {
	ListDraws(ctx context.Context) ([]models.DrawSnapshot, error)
	GetDraw(ctx context.Context, key models.DrawKey) (*models.DrawSnapshot, error)
}

// PoolRepository lists every ticket of a draw.
type PoolRepository interface {
	ListPool(ctx context.Context, key models.DrawKey) ([]models.PoolEntry, error)
}
