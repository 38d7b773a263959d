package models

import (
	"fmt"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusInactive CampaignStatus = "inactive"
	CampaignStatusClosed   CampaignStatus = "closed"
)

// Campaign is the prize a customer can win. Owned by admin CRUD; read-only here.
type Campaign struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      CampaignStatus `json:"status"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
}

// DrawKey identifies one draw: a product linked to a campaign.
type DrawKey struct {
	ProductID  int64 `json:"product_id"`
	CampaignID int64 `json:"campaign_id"`
}

func (k DrawKey) String() string {
	return fmt.Sprintf("%d/%d", k.ProductID, k.CampaignID)
}

// DrawConfig is the per-product link to a campaign. A config without a
// campaign is inert and never listed as a draw.
type DrawConfig struct {
	ProductID             int64      `json:"product_id"`
	CampaignID            *int64     `json:"campaign_id,omitempty"`
	TicketsRequired       int        `json:"tickets_required"`
	CountdownStartTickets int        `json:"countdown_start_tickets"`
	DrawDate              *time.Time `json:"draw_date,omitempty"`
	PrizeEndDate          *time.Time `json:"prize_end_date,omitempty"`
	// Extra holds display-only custom fields. Nothing in the engine reads it.
	Extra map[string]any `json:"extra,omitempty"`
}

// Linked reports whether the config points at a campaign.
func (c DrawConfig) Linked() bool {
	return c.CampaignID != nil && *c.CampaignID > 0
}

// Key returns the draw key; ok is false for inert configs.
func (c DrawConfig) Key() (DrawKey, bool) {
	if !c.Linked() {
		return DrawKey{}, false
	}
	return DrawKey{ProductID: c.ProductID, CampaignID: *c.CampaignID}, true
}

// DrawSnapshot is everything the classifier needs about one draw, read in one query.
type DrawSnapshot struct {
	Config        DrawConfig
	ProductName   string
	CampaignTitle string
	CampaignState CampaignStatus
	TicketCount   int
	HasWinner     bool
	WinnerTicket  *int64
}

// DrawStatus is the API view of a classified draw.
type DrawStatus struct {
	ProductID             int64          `json:"product_id"`
	CampaignID            int64          `json:"campaign_id"`
	ProductName           string         `json:"product_name,omitempty"`
	CampaignTitle         string         `json:"campaign_title,omitempty"`
	CampaignStatus        CampaignStatus `json:"campaign_status,omitempty"`
	Phase                 Phase          `json:"phase"`
	TicketsRequired       int            `json:"tickets_required"`
	TicketsSold           int            `json:"tickets_sold"`
	TicketsRemaining      int            `json:"tickets_remaining"`
	CountdownStartTickets int            `json:"countdown_start_tickets"`
	ShowCountdown         bool           `json:"show_countdown"`
	SoldOut               bool           `json:"sold_out"`
	SalesEnded            bool           `json:"sales_ended"`
	DrawDateReached       bool           `json:"draw_date_reached"`
	DrawDate              *time.Time     `json:"draw_date,omitempty"`
	PrizeEndDate          *time.Time     `json:"prize_end_date,omitempty"`
	WinnerTicketID        *int64         `json:"winner_ticket_id,omitempty"`
	Extra                 map[string]any `json:"extra,omitempty"`
}
