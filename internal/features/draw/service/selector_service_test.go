package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prize-draw-engine/internal/common/errors"
	"prize-draw-engine/internal/features/draw/models"
)

func newSelectorFixture(t *testing.T, tickets int) (*memStore, *selectorService, []models.Ticket) {
	t.Helper()
	store := newMemStore()
	key := store.addDraw(models.DrawConfig{ProductID: 10, CampaignID: int64Ptr(3), TicketsRequired: 100})
	issued, err := store.IssueTickets(context.Background(), issueParams(key, tickets))
	require.NoError(t, err)

	svc := NewSelectorService(store, zerolog.Nop()).(*selectorService)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return store, svc, issued
}

func TestMarkWinnerSetsFlagAndTimestamp(t *testing.T) {
	_, svc, tickets := newSelectorFixture(t, 3)

	ticket, changed, err := svc.MarkWinner(context.Background(), tickets[1].ID, true)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, ticket.IsWinner)
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), *ticket.WonAt)
}

func TestMarkWinnerIsIdempotent(t *testing.T) {
	store, svc, tickets := newSelectorFixture(t, 3)

	first, _, err := svc.MarkWinner(context.Background(), tickets[0].ID, true)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	second, changed, err := svc.MarkWinner(context.Background(), tickets[0].ID, true)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, *first.WonAt, *second.WonAt)
	assert.Len(t, store.events, 1)
}

func TestMarkWinnerRejectsSecondWinner(t *testing.T) {
	_, svc, tickets := newSelectorFixture(t, 3)

	_, _, err := svc.MarkWinner(context.Background(), tickets[0].ID, true)
	require.NoError(t, err)

	_, _, err = svc.MarkWinner(context.Background(), tickets[1].ID, true)
	require.True(t, apperrors.HasCode(err, apperrors.ErrCodeWinnerAlreadySet))

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, tickets[0].ID, appErr.Details["winner_ticket_id"])
}

func TestMarkWinnerClearOnlyTouchesTarget(t *testing.T) {
	store, svc, tickets := newSelectorFixture(t, 3)

	_, _, err := svc.MarkWinner(context.Background(), tickets[0].ID, true)
	require.NoError(t, err)

	_, changed, err := svc.MarkWinner(context.Background(), tickets[1].ID, false)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, store.tickets[0].IsWinner)

	cleared, changed, err := svc.MarkWinner(context.Background(), tickets[0].ID, false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, cleared.WonAt)

	_, _, err = svc.MarkWinner(context.Background(), tickets[2].ID, true)
	assert.NoError(t, err)
}

func TestMarkWinnerErrors(t *testing.T) {
	store, svc, tickets := newSelectorFixture(t, 1)

	_, _, err := svc.MarkWinner(context.Background(), 0, true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	_, _, err = svc.MarkWinner(context.Background(), 9999, true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTicketNotFound))

	// Конфиг продукта отвязан от кампании после выдачи билетов
	store.mu.Lock()
	delete(store.configs, tickets[0].Key())
	store.mu.Unlock()

	_, _, err = svc.MarkWinner(context.Background(), tickets[0].ID, true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidDraw))
}

func TestConcurrentMarkWinnerHasSingleWinner(t *testing.T) {
	store, svc, tickets := newSelectorFixture(t, 20)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for _, tk := range tickets {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, _, err := svc.MarkWinner(context.Background(), id, true)
			switch {
			case err == nil:
				succeeded.Add(1)
			case apperrors.HasCode(err, apperrors.ErrCodeWinnerAlreadySet):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(tk.ID)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(len(tickets)-1), conflicts.Load())

	winners := 0
	for _, tk := range store.tickets {
		if tk.IsWinner {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
