package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prize-draw-engine/internal/common/errors"
	"prize-draw-engine/internal/common/middleware"
	"prize-draw-engine/internal/features/draw/models"
)

type stubLedger struct {
	gotKey   models.DrawKey
	gotInput *models.TicketIssue
	tickets  []models.Ticket
	err      error
}

func (s *stubLedger) IssueTickets(ctx context.Context, key models.DrawKey, input *models.TicketIssue) ([]models.Ticket, error) {
	s.gotKey, s.gotInput = key, input
	return s.tickets, s.err
}

type stubSelector struct {
	gotID     int64
	gotWinner bool
	ticket    *models.Ticket
	changed   bool
	err       error
}

func (s *stubSelector) MarkWinner(ctx context.Context, ticketID int64, isWinner bool) (*models.Ticket, bool, error) {
	s.gotID, s.gotWinner = ticketID, isWinner
	return s.ticket, s.changed, s.err
}

type stubQuery struct {
	gotPhase string
	draws    []models.DrawStatus
	pool     []models.PoolEntry
	history  []models.WinnerEvent
	err      error
}

func (s *stubQuery) ListDraws(ctx context.Context, phase string) ([]models.DrawStatus, error) {
	s.gotPhase = phase
	return s.draws, s.err
}

func (s *stubQuery) GetDraw(ctx context.Context, key models.DrawKey) (*models.DrawStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.DrawStatus{ProductID: key.ProductID, CampaignID: key.CampaignID, Phase: models.PhaseAccepting}, nil
}

func (s *stubQuery) ListPool(ctx context.Context, key models.DrawKey) ([]models.PoolEntry, error) {
	return s.pool, s.err
}

func (s *stubQuery) ListWinnerHistory(ctx context.Context, key models.DrawKey) ([]models.WinnerEvent, error) {
	return s.history, s.err
}

type recordingEvents struct {
	winners []*models.Ticket
	issued  int
	err     error
}

func (r *recordingEvents) WinnerChanged(ctx context.Context, t *models.Ticket) error {
	r.winners = append(r.winners, t)
	return r.err
}

func (r *recordingEvents) TicketsIssued(ctx context.Context, key models.DrawKey, tickets []models.Ticket) error {
	r.issued++
	return r.err
}

type fixture struct {
	router   *gin.Engine
	ledger   *stubLedger
	selector *stubSelector
	query    *stubQuery
	events   *recordingEvents
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		ledger:   &stubLedger{},
		selector: &stubSelector{},
		query:    &stubQuery{},
		events:   &recordingEvents{},
	}
	log := zerolog.Nop()
	f.router = gin.New()
	f.router.Use(middleware.RequestID(), middleware.ErrorHandler(log))
	NewDrawHandler(f.ledger, f.selector, f.query, f.events, log).RegisterRoutes(f.router.Group("/api/v1"))
	return f
}

func (f *fixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorCode {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestListDrawsPassesPhase(t *testing.T) {
	f := newFixture()
	f.query.draws = []models.DrawStatus{{ProductID: 1, CampaignID: 2, Phase: models.PhaseReadyForDraw}}

	w := f.do(http.MethodGet, "/api/v1/draws?phase=ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", f.query.gotPhase)

	var draws []models.DrawStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draws))
	require.Len(t, draws, 1)
	assert.Equal(t, models.PhaseReadyForDraw, draws[0].Phase)
}

func TestListDrawsUnknownPhase(t *testing.T) {
	f := newFixture()
	f.query.err = apperrors.NewValidationError("phase", models.ErrUnknownPhase.Error())

	w := f.do(http.MethodGet, "/api/v1/draws?phase=later", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeValidation, errorCode(t, w))
}

func TestGetDrawRejectsBadPath(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/draws/abc/2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/draws/1/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDrawNotConfigured(t *testing.T) {
	f := newFixture()
	f.query.err = apperrors.NewInvalidDrawError(1, 2)

	w := f.do(http.MethodGet, "/api/v1/draws/1/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidDraw, errorCode(t, w))
}

func TestListPoolAndHistory(t *testing.T) {
	f := newFixture()
	f.query.pool = []models.PoolEntry{{Ticket: models.Ticket{ID: 1, TicketNumber: "2-1-000001"}, CustomerName: "Ann"}}
	f.query.history = []models.WinnerEvent{{ID: 1, TicketID: 1, Action: models.WinnerActionSelected}}

	w := f.do(http.MethodGet, "/api/v1/draws/1/2/pool", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customer_name":"Ann"`)

	w = f.do(http.MethodGet, "/api/v1/draws/1/2/winner-history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"selected"`)
}

func TestIssueTickets(t *testing.T) {
	f := newFixture()
	f.ledger.tickets = []models.Ticket{{ID: 1, TicketNumber: "2-1-000001"}, {ID: 2, TicketNumber: "2-1-000002"}}

	w := f.do(http.MethodPost, "/api/v1/draws/1/2/tickets", map[string]interface{}{"customer_id": 5, "order_id": 9, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.DrawKey{ProductID: 1, CampaignID: 2}, f.ledger.gotKey)
	assert.Equal(t, int64(9), *f.ledger.gotInput.OrderID)
	assert.Equal(t, 1, f.events.issued)
}

func TestIssueTicketsErrors(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/draws/1/2/tickets", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeBadRequest, errorCode(t, w))

	f.ledger.err = apperrors.NewAllocationConflictError(3, errors.New("duplicate key"))
	w = f.do(http.MethodPost, "/api/v1/draws/1/2/tickets", map[string]interface{}{"customer_id": 5, "quantity": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.ErrCodeAllocationConflict, errorCode(t, w))
	assert.Zero(t, f.events.issued)
}

func TestMarkWinnerPublishesOnChange(t *testing.T) {
	f := newFixture()
	wonAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	f.selector.ticket = &models.Ticket{ID: 7, IsWinner: true, WonAt: &wonAt}
	f.selector.changed = true

	w := f.do(http.MethodPost, "/api/v1/tickets/7/winner", map[string]bool{"is_winner": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), f.selector.gotID)
	assert.True(t, f.selector.gotWinner)
	require.Len(t, f.events.winners, 1)

	// повтор: состояние не изменилось, события нет
	f.selector.changed = false
	w = f.do(http.MethodPost, "/api/v1/tickets/7/winner", map[string]bool{"is_winner": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, f.events.winners, 1)
}

func TestMarkWinnerSucceedsWhenPublishFails(t *testing.T) {
	f := newFixture()
	f.selector.ticket = &models.Ticket{ID: 7}
	f.selector.changed = true
	f.events.err = errors.New("redis down")

	w := f.do(http.MethodPost, "/api/v1/tickets/7/winner", map[string]bool{"is_winner": false})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.selector.gotWinner)
}

func TestMarkWinnerRequiresFlag(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/tickets/7/winner", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/v1/tickets/x/winner", map[string]bool{"is_winner": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkWinnerConflict(t *testing.T) {
	f := newFixture()
	f.selector.err = apperrors.NewWinnerAlreadySetError(1, 2)

	w := f.do(http.MethodPost, "/api/v1/tickets/8/winner", map[string]bool{"is_winner": true})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.ErrCodeWinnerAlreadySet, errorCode(t, w))
	assert.Empty(t, f.events.winners)
}
