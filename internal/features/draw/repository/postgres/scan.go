package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"prize-draw-engine/internal/features/draw/models"
)

const ticketColumns = `id, ticket_number, sequence, product_id, campaign_id, customer_id, order_id, created_at, is_winner, won_at`

// Postgres SQLSTATE codes we react to
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner, extra ...any) (*models.Ticket, error) {
	var (
		t       models.Ticket
		orderID sql.NullInt64
		wonAt   sql.NullTime
	)
	dest := append([]any{
		&t.ID, &t.TicketNumber, &t.Sequence, &t.ProductID, &t.CampaignID,
		&t.CustomerID, &orderID, &t.CreatedAt, &t.IsWinner, &wonAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if orderID.Valid {
		v := orderID.Int64
		t.OrderID = &v
	}
	if wonAt.Valid {
		v := wonAt.Time
		t.WonAt = &v
	}
	return &t, nil
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// isTransient reports errors that a retry of the whole transaction may cure.
func isTransient(err error) bool {
	switch pqCode(err) {
	case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	return false
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
