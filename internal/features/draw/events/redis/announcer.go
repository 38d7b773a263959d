package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"prize-draw-engine/internal/features/draw/models"
)

// Типы событий в стриме; их читает внешний сервис уведомлений
const (
	EventWinnerSelected = "winner_selected"
	EventWinnerCleared  = "winner_cleared"
	EventTicketsIssued  = "tickets_issued"
)

// StreamWriter is the part of *redis.Client the announcer needs.
type StreamWriter interface {
	XAdd(ctx context.Context, a *goredis.XAddArgs) *goredis.StringCmd
}

type Announcer struct {
	rdb    StreamWriter
	stream string
	maxLen int64
	log    zerolog.Logger
	now    func() time.Time
}

func NewAnnouncer(rdb StreamWriter, stream string, maxLen int64, log zerolog.Logger) *Announcer {
	return &Announcer{
		rdb:    rdb,
		stream: stream,
		maxLen: maxLen,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WinnerChanged публикует выбор или снятие победителя
func (a *Announcer) WinnerChanged(ctx context.Context, t *models.Ticket) error {
	eventType := EventWinnerCleared
	if t.IsWinner {
		eventType = EventWinnerSelected
	}

	values := map[string]interface{}{
		"ticket_id":     strconv.FormatInt(t.ID, 10),
		"ticket_number": t.TicketNumber,
		"customer_id":   strconv.FormatInt(t.CustomerID, 10),
	}
	if t.WonAt != nil {
		values["won_at"] = t.WonAt.UTC().Format(time.RFC3339)
	}
	return a.publish(ctx, eventType, t.Key(), values)
}

// TicketsIssued публикует итог одной выдачи билетов
func (a *Announcer) TicketsIssued(ctx context.Context, key models.DrawKey, tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	first, last := tickets[0], tickets[len(tickets)-1]
	values := map[string]interface{}{
		"customer_id":  strconv.FormatInt(first.CustomerID, 10),
		"quantity":     strconv.Itoa(len(tickets)),
		"first_ticket": first.TicketNumber,
		"last_ticket":  last.TicketNumber,
	}
	if first.OrderID != nil {
		values["order_id"] = strconv.FormatInt(*first.OrderID, 10)
	}
	return a.publish(ctx, EventTicketsIssued, key, values)
}

func (a *Announcer) publish(ctx context.Context, eventType string, key models.DrawKey, values map[string]interface{}) error {
	eventID := uuid.NewString()
	values["event_id"] = eventID
	values["type"] = eventType
	values["product_id"] = strconv.FormatInt(key.ProductID, 10)
	values["campaign_id"] = strconv.FormatInt(key.CampaignID, 10)
	values["occurred_at"] = a.now().Format(time.RFC3339)

	args := &goredis.XAddArgs{
		Stream: a.stream,
		Values: values,
	}
	if a.maxLen > 0 {
		args.MaxLen = a.maxLen
		args.Approx = true
	}

	id, err := a.rdb.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	a.log.Debug().
		Str("type", eventType).
		Str("event_id", eventID).
		Str("stream_id", id).
		Str("draw", key.String()).
		Msg("draw event published")
	return nil
}
