package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"prize-draw-engine/internal/features/draw/models"
	"prize-draw-engine/internal/features/draw/repository"
)

type postgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &postgresLedgerRepository{db: db}
}

const (
	qDrawExists = `SELECT EXISTS (SELECT 1 FROM draw_configs WHERE product_id = $1 AND campaign_id = $2)`

	// Upsert takes the row lock on the per-draw counter and holds it until commit,
	// so concurrent batches for one draw get disjoint consecutive ranges.
	qReserveSequence = `
		INSERT INTO draw_sequences (product_id, campaign_id, last_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, campaign_id) DO UPDATE SET
			last_value = draw_sequences.last_value + EXCLUDED.last_value
		RETURNING last_value`

	// clock_timestamp, not now(): created_at must follow allocation order, not transaction start.
	qInsertTicket = `
		INSERT INTO tickets (ticket_number, sequence, product_id, campaign_id, customer_id, order_id, created_at, is_winner)
		VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp(), false)
		RETURNING id, created_at`
)

// IssueTickets выдает пачку билетов целиком или не выдает ничего
func (r *postgresLedgerRepository) IssueTickets(ctx context.Context, p repository.IssueParams) ([]models.Ticket, error) {
	if p.Quantity < 1 {
		return nil, fmt.Errorf("invalid ticket quantity %d", p.Quantity)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, qDrawExists, p.ProductID, p.CampaignID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check draw config: %w", err)
	}
	if !exists {
		return nil, repository.ErrDrawNotFound
	}

	var last int64
	if err := tx.QueryRowContext(ctx, qReserveSequence, p.ProductID, p.CampaignID, p.Quantity).Scan(&last); err != nil {
		return nil, wrapAllocationErr("failed to reserve ticket numbers", err)
	}
	first := last - int64(p.Quantity) + 1

	orderID := nullInt64(p.OrderID)
	tickets := make([]models.Ticket, 0, p.Quantity)
	for i := 0; i < p.Quantity; i++ {
		seq := first + int64(i)
		t := models.Ticket{
			TicketNumber: models.FormatTicketNumber(p.CampaignID, p.ProductID, seq),
			Sequence:     seq,
			ProductID:    p.ProductID,
			CampaignID:   p.CampaignID,
			CustomerID:   p.CustomerID,
			OrderID:      p.OrderID,
		}
		err := tx.QueryRowContext(ctx, qInsertTicket,
			t.TicketNumber, t.Sequence, t.ProductID, t.CampaignID, t.CustomerID, orderID,
		).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return nil, wrapAllocationErr("failed to insert ticket", err)
		}
		tickets = append(tickets, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapAllocationErr("failed to commit tickets", err)
	}
	return tickets, nil
}

func wrapAllocationErr(msg string, err error) error {
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %v", msg, repository.ErrAllocationConflict, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
