package models

import (
	"fmt"
	"time"
)

// Ticket is one numbered entry into a draw. Rows are never deleted.
type Ticket struct {
	ID           int64      `json:"id"`
	TicketNumber string     `json:"ticket_number"`
	Sequence     int64      `json:"sequence"`
	ProductID    int64      `json:"product_id"`
	CampaignID   int64      `json:"campaign_id"`
	CustomerID   int64      `json:"customer_id"`
	OrderID      *int64     `json:"order_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	IsWinner     bool       `json:"is_winner"`
	WonAt        *time.Time `json:"won_at,omitempty"`
}

func (t Ticket) Key() DrawKey {
	return DrawKey{ProductID: t.ProductID, CampaignID: t.CampaignID}
}

// FormatTicketNumber renders <campaign>-<product>-<sequence>.
func FormatTicketNumber(campaignID, productID, sequence int64) string {
	return fmt.Sprintf("%d-%d-%06d", campaignID, productID, sequence)
}

// TicketIssue is the request body of the checkout collaborator. Range checks
// live in the ledger service so they surface as validation errors.
type TicketIssue struct {
	CustomerID int64  `json:"customer_id"`
	OrderID    *int64 `json:"order_id,omitempty"`
	Quantity   int    `json:"quantity"`
}

type WinnerMark struct {
	// Pointer so that an explicit false is distinguishable from a missing field.
	IsWinner *bool `json:"is_winner" binding:"required"`
}

type WinnerAction string

const (
	WinnerActionSelected WinnerAction = "selected"
	WinnerActionCleared  WinnerAction = "cleared"
)

// WinnerEvent is one row of the append-only winner audit log.
type WinnerEvent struct {
	ID         int64        `json:"id"`
	TicketID   int64        `json:"ticket_id"`
	ProductID  int64        `json:"product_id"`
	CampaignID int64        `json:"campaign_id"`
	Action     WinnerAction `json:"action"`
	CreatedAt  time.Time    `json:"created_at"`
}

// PoolEntry is a ticket joined with the customer display fields.
type PoolEntry struct {
	Ticket
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}
