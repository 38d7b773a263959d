package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"prize-draw-engine/internal/features/draw/models"
	"prize-draw-engine/internal/features/draw/repository"
)

type postgresPoolRepository struct {
	db *sql.DB
}

func NewPostgresPoolRepository(db *sql.DB) repository.PoolRepository {
	return &postgresPoolRepository{db: db}
}

const qPool = `
	SELECT t.id, t.ticket_number, t.sequence, t.product_id, t.campaign_id, t.customer_id,
		t.order_id, t.created_at, t.is_winner, t.won_at,
		COALESCE(cu.name, ''), COALESCE(cu.email, ''), COALESCE(cu.phone, '')
	FROM tickets t
	LEFT JOIN customers cu ON cu.id = t.customer_id
	WHERE t.product_id = $1 AND t.campaign_id = $2
	ORDER BY t.created_at ASC, t.sequence ASC`

// ListPool возвращает все билеты розыгрыша без пагинации
func (r *postgresPoolRepository) ListPool(ctx context.Context, key models.DrawKey) ([]models.PoolEntry, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, qDrawExists, key.ProductID, key.CampaignID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check draw config: %w", err)
	}
	if !exists {
		return nil, repository.ErrDrawNotFound
	}

	rows, err := r.db.QueryContext(ctx, qPool, key.ProductID, key.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pool: %w", err)
	}
	defer rows.Close()

	pool := make([]models.PoolEntry, 0)
	for rows.Next() {
		var e models.PoolEntry
		t, err := scanTicket(rows, &e.CustomerName, &e.CustomerEmail, &e.CustomerPhone)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool entry: %w", err)
		}
		e.Ticket = *t
		pool = append(pool, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pool: %w", err)
	}
	return pool, nil
}
