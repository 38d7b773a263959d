package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prize-draw-engine/internal/features/draw/models"
	"prize-draw-engine/internal/features/draw/repository"
)

type postgresWinnerRepository struct {
	db *sql.DB
}

func NewPostgresWinnerRepository(db *sql.DB) repository.WinnerRepository {
	return &postgresWinnerRepository{db: db}
}

const (
	qLockTicket = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1 FOR UPDATE`

	// Every marker of one draw queues on this row, which makes check-then-set atomic.
	qLockDraw = `SELECT product_id FROM draw_configs WHERE product_id = $1 AND campaign_id = $2 FOR UPDATE`

	qOtherWinner = `
		SELECT id FROM tickets
		WHERE product_id = $1 AND campaign_id = $2 AND is_winner AND id <> $3
		LIMIT 1`

	qSetWinner   = `UPDATE tickets SET is_winner = true, won_at = $2 WHERE id = $1`
	qClearWinner = `UPDATE tickets SET is_winner = false, won_at = NULL WHERE id = $1`

	qInsertWinnerEvent = `
		INSERT INTO winner_events (ticket_id, product_id, campaign_id, action, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	qListWinnerEvents = `
		SELECT id, ticket_id, product_id, campaign_id, action, created_at
		FROM winner_events
		WHERE product_id = $1 AND campaign_id = $2
		ORDER BY created_at DESC, id DESC`
)

// SetWinner помечает билет победителем, если в розыгрыше еще нет другого
func (r *postgresWinnerRepository) SetWinner(ctx context.Context, ticketID int64, wonAt time.Time) (*models.Ticket, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := lockTicketAndDraw(ctx, tx, ticketID)
	if err != nil {
		return nil, false, err
	}

	if t.IsWinner {
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("failed to commit: %w", err)
		}
		return t, false, nil
	}

	var otherID int64
	err = tx.QueryRowContext(ctx, qOtherWinner, t.ProductID, t.CampaignID, t.ID).Scan(&otherID)
	switch {
	case err == nil:
		return nil, false, &repository.WinnerConflictError{Key: t.Key(), WinnerTicketID: otherID}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, fmt.Errorf("failed to check current winner: %w", err)
	}

	if _, err := tx.ExecContext(ctx, qSetWinner, t.ID, wonAt); err != nil {
		if pqCode(err) == pgUniqueViolation {
			return nil, false, &repository.WinnerConflictError{Key: t.Key()}
		}
		return nil, false, fmt.Errorf("failed to set winner: %w", err)
	}
	if _, err := tx.ExecContext(ctx, qInsertWinnerEvent, t.ID, t.ProductID, t.CampaignID, models.WinnerActionSelected, wonAt); err != nil {
		return nil, false, fmt.Errorf("failed to record winner event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit winner: %w", err)
	}

	t.IsWinner = true
	t.WonAt = &wonAt
	return t, true, nil
}

// ClearWinner снимает флаг только с указанного билета
func (r *postgresWinnerRepository) ClearWinner(ctx context.Context, ticketID int64) (*models.Ticket, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := lockTicketAndDraw(ctx, tx, ticketID)
	if err != nil {
		return nil, false, err
	}

	if !t.IsWinner {
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("failed to commit: %w", err)
		}
		return t, false, nil
	}

	if _, err := tx.ExecContext(ctx, qClearWinner, t.ID); err != nil {
		return nil, false, fmt.Errorf("failed to clear winner: %w", err)
	}
	if _, err := tx.ExecContext(ctx, qInsertWinnerEvent, t.ID, t.ProductID, t.CampaignID, models.WinnerActionCleared, time.Now().UTC()); err != nil {
		return nil, false, fmt.Errorf("failed to record winner event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit winner: %w", err)
	}

	t.IsWinner = false
	t.WonAt = nil
	return t, true, nil
}

// ListWinnerEvents возвращает журнал выбора победителей, новые сверху
func (r *postgresWinnerRepository) ListWinnerEvents(ctx context.Context, key models.DrawKey) ([]models.WinnerEvent, error) {
	rows, err := r.db.QueryContext(ctx, qListWinnerEvents, key.ProductID, key.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list winner events: %w", err)
	}
	defer rows.Close()

	events := make([]models.WinnerEvent, 0)
	for rows.Next() {
		var e models.WinnerEvent
		if err := rows.Scan(&e.ID, &e.TicketID, &e.ProductID, &e.CampaignID, &e.Action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan winner event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func lockTicketAndDraw(ctx context.Context, tx *sql.Tx, ticketID int64) (*models.Ticket, error) {
	t, err := scanTicket(tx.QueryRowContext(ctx, qLockTicket, ticketID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to lock ticket: %w", err)
	}

	var productID int64
	if err := tx.QueryRowContext(ctx, qLockDraw, t.ProductID, t.CampaignID).Scan(&productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrDrawNotFound
		}
		return nil, fmt.Errorf("failed to lock draw: %w", err)
	}
	return t, nil
}
