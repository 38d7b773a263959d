package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"prize-draw-engine/internal/features/draw/models"
	"prize-draw-engine/internal/features/draw/repository"
)

type postgresDrawRepository struct {
	db *sql.DB
}

func NewPostgresDrawRepository(db *sql.DB) repository.DrawRepository {
	return &postgresDrawRepository{db: db}
}

// Inert configs (campaign_id IS NULL) drop out through the inner join on campaigns.
const qDrawSnapshots = `
	SELECT dc.product_id, dc.campaign_id, dc.tickets_required, dc.countdown_start_tickets,
		dc.draw_date, dc.prize_end_date, dc.extra,
		COALESCE(p.name, ''), c.title, c.status,
		COUNT(t.id), COALESCE(BOOL_OR(t.is_winner), false),
		MAX(t.id) FILTER (WHERE t.is_winner)
	FROM draw_configs dc
	JOIN campaigns c ON c.id = dc.campaign_id
	LEFT JOIN products p ON p.id = dc.product_id
	LEFT JOIN tickets t ON t.product_id = dc.product_id AND t.campaign_id = dc.campaign_id`

const qDrawGroupBy = `
	GROUP BY dc.product_id, c.id, p.id`

// ListDraws возвращает все связанные с кампаниями розыгрыши со счетчиками
func (r *postgresDrawRepository) ListDraws(ctx context.Context) ([]models.DrawSnapshot, error) {
	q := qDrawSnapshots + qDrawGroupBy + `
	ORDER BY dc.product_id, c.id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}
	defer rows.Close()

	draws := make([]models.DrawSnapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		draws = append(draws, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draws: %w", err)
	}
	return draws, nil
}

// GetDraw возвращает один розыгрыш
func (r *postgresDrawRepository) GetDraw(ctx context.Context, key models.DrawKey) (*models.DrawSnapshot, error) {
	q := qDrawSnapshots + `
	WHERE dc.product_id = $1 AND dc.campaign_id = $2` + qDrawGroupBy

	s, err := scanSnapshot(r.db.QueryRowContext(ctx, q, key.ProductID, key.CampaignID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrDrawNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSnapshot(row rowScanner) (*models.DrawSnapshot, error) {
	var (
		s            models.DrawSnapshot
		campaignID   int64
		drawDate     sql.NullTime
		prizeEndDate sql.NullTime
		extra        []byte
		winnerID     sql.NullInt64
	)
	err := row.Scan(
		&s.Config.ProductID, &campaignID, &s.Config.TicketsRequired, &s.Config.CountdownStartTickets,
		&drawDate, &prizeEndDate, &extra,
		&s.ProductName, &s.CampaignTitle, &s.CampaignState,
		&s.TicketCount, &s.HasWinner, &winnerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan draw: %w", err)
	}

	s.Config.CampaignID = &campaignID
	if drawDate.Valid {
		v := drawDate.Time
		s.Config.DrawDate = &v
	}
	if prizeEndDate.Valid {
		v := prizeEndDate.Time
		s.Config.PrizeEndDate = &v
	}
	if winnerID.Valid {
		v := winnerID.Int64
		s.WinnerTicket = &v
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &s.Config.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode draw extra fields: %w", err)
		}
	}
	return &s, nil
}
