// Package classifier derives the lifecycle phase of a draw from ledger counts,
// configured thresholds and deadlines. Every consumer that needs a phase calls
// Classify; nothing stores its result.
package classifier

import (
	"time"

	"prize-draw-engine/internal/features/draw/models"
)

// Result carries the phase plus the individual signals behind it, for display.
type Result struct {
	Phase            models.Phase
	TicketsRemaining int
	SoldOut          bool
	SalesEnded       bool
	DrawDateReached  bool
	// ShowCountdown is display-only and never affects Phase.
	ShowCountdown bool
}

// Classify applies the precedence resolved > ready for draw > accepting.
func Classify(cfg models.DrawConfig, ticketCount int, hasWinner bool, now time.Time) models.Phase {
	return Evaluate(cfg, ticketCount, hasWinner, now).Phase
}

// Evaluate is Classify with the triggers exposed.
func Evaluate(cfg models.DrawConfig, ticketCount int, hasWinner bool, now time.Time) Result {
	res := Result{
		TicketsRemaining: Remaining(cfg.TicketsRequired, ticketCount),
		// A draw without capacity never sells out by count.
		SoldOut:         cfg.TicketsRequired > 0 && ticketCount >= cfg.TicketsRequired,
		SalesEnded:      reached(cfg.PrizeEndDate, now),
		DrawDateReached: reached(cfg.DrawDate, now),
		ShowCountdown:   cfg.CountdownStartTickets > 0 && ticketCount >= cfg.CountdownStartTickets,
	}

	switch {
	case hasWinner:
		res.Phase = models.PhaseResolved
	case res.SoldOut || res.SalesEnded || res.DrawDateReached:
		res.Phase = models.PhaseReadyForDraw
	default:
		res.Phase = models.PhaseAccepting
	}
	return res
}

// Remaining floors required-count at zero; overselling is reported, not rejected.
func Remaining(required, count int) int {
	if r := required - count; r > 0 {
		return r
	}
	return 0
}

// Status projects a snapshot into the API view.
func Status(s models.DrawSnapshot, now time.Time) models.DrawStatus {
	res := Evaluate(s.Config, s.TicketCount, s.HasWinner, now)

	var campaignID int64
	if s.Config.CampaignID != nil {
		campaignID = *s.Config.CampaignID
	}

	return models.DrawStatus{
		ProductID:             s.Config.ProductID,
		CampaignID:            campaignID,
		ProductName:           s.ProductName,
		CampaignTitle:         s.CampaignTitle,
		CampaignStatus:        s.CampaignState,
		Phase:                 res.Phase,
		TicketsRequired:       s.Config.TicketsRequired,
		TicketsSold:           s.TicketCount,
		TicketsRemaining:      res.TicketsRemaining,
		CountdownStartTickets: s.Config.CountdownStartTickets,
		ShowCountdown:         res.ShowCountdown,
		SoldOut:               res.SoldOut,
		SalesEnded:            res.SalesEnded,
		DrawDateReached:       res.DrawDateReached,
		DrawDate:              s.Config.DrawDate,
		PrizeEndDate:          s.Config.PrizeEndDate,
		WinnerTicketID:        s.WinnerTicket,
		Extra:                 s.Config.Extra,
	}
}

func reached(deadline *time.Time, now time.Time) bool {
	return deadline != nil && !now.Before(*deadline)
}
