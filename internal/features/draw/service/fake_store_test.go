package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"prize-draw-engine/internal/features/draw/models"
	"prize-draw-engine/internal/features/draw/repository"
)

// memStore is an in-memory stand-in for the postgres repositories. One mutex
// plays the role of the row locks.
type memStore struct {
	mu        sync.Mutex
	configs   map[models.DrawKey]models.DrawConfig
	sequences map[models.DrawKey]int64
	tickets   []models.Ticket
	events    []models.WinnerEvent
	nextID    int64
	created   time.Time
}

func newMemStore() *memStore {
	return &memStore{
		configs:   make(map[models.DrawKey]models.DrawConfig),
		sequences: make(map[models.DrawKey]int64),
		created:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addDraw(cfg models.DrawConfig) models.DrawKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _ := cfg.Key()
	m.configs[key] = cfg
	return key
}

func (m *memStore) IssueTickets(ctx context.Context, p repository.IssueParams) ([]models.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := models.DrawKey{ProductID: p.ProductID, CampaignID: p.CampaignID}
	if _, ok := m.configs[key]; !ok {
		return nil, repository.ErrDrawNotFound
	}

	first := m.sequences[key] + 1
	m.sequences[key] += int64(p.Quantity)

	out := make([]models.Ticket, 0, p.Quantity)
	for seq := first; seq < first+int64(p.Quantity); seq++ {
		m.nextID++
		m.created = m.created.Add(time.Millisecond)
		t := models.Ticket{
			ID:           m.nextID,
			TicketNumber: models.FormatTicketNumber(p.CampaignID, p.ProductID, seq),
			Sequence:     seq,
			ProductID:    p.ProductID,
			CampaignID:   p.CampaignID,
			CustomerID:   p.CustomerID,
			OrderID:      p.OrderID,
			CreatedAt:    m.created,
		}
		m.tickets = append(m.tickets, t)
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) find(ticketID int64) (int, error) {
	for i := range m.tickets {
		if m.tickets[i].ID == ticketID {
			if _, ok := m.configs[m.tickets[i].Key()]; !ok {
				return -1, repository.ErrDrawNotFound
			}
			return i, nil
		}
	}
	return -1, repository.ErrTicketNotFound
}

func (m *memStore) SetWinner(ctx context.Context, ticketID int64, wonAt time.Time) (*models.Ticket, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.find(ticketID)
	if err != nil {
		return nil, false, err
	}
	t := m.tickets[i]
	if t.IsWinner {
		return &t, false, nil
	}
	for _, other := range m.tickets {
		if other.Key() == t.Key() && other.IsWinner {
			return nil, false, &repository.WinnerConflictError{Key: t.Key(), WinnerTicketID: other.ID}
		}
	}

	m.tickets[i].IsWinner = true
	m.tickets[i].WonAt = &wonAt
	m.appendEvent(m.tickets[i], models.WinnerActionSelected, wonAt)
	t = m.tickets[i]
	return &t, true, nil
}

func (m *memStore) ClearWinner(ctx context.Context, ticketID int64) (*models.Ticket, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.find(ticketID)
	if err != nil {
		return nil, false, err
	}
	if !m.tickets[i].IsWinner {
		t := m.tickets[i]
		return &t, false, nil
	}
	m.tickets[i].IsWinner = false
	m.tickets[i].WonAt = nil
	m.appendEvent(m.tickets[i], models.WinnerActionCleared, time.Now().UTC())
	t := m.tickets[i]
	return &t, true, nil
}

func (m *memStore) appendEvent(t models.Ticket, action models.WinnerAction, at time.Time) {
	m.events = append(m.events, models.WinnerEvent{
		ID:         int64(len(m.events) + 1),
		TicketID:   t.ID,
		ProductID:  t.ProductID,
		CampaignID: t.CampaignID,
		Action:     action,
		CreatedAt:  at,
	})
}

func (m *memStore) ListWinnerEvents(ctx context.Context, key models.DrawKey) ([]models.WinnerEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.WinnerEvent, 0)
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if e.ProductID == key.ProductID && e.CampaignID == key.CampaignID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) snapshot(key models.DrawKey) models.DrawSnapshot {
	s := models.DrawSnapshot{Config: m.configs[key], CampaignState: models.CampaignStatusActive}
	for _, t := range m.tickets {
		if t.Key() != key {
			continue
		}
		s.TicketCount++
		if t.IsWinner {
			id := t.ID
			s.HasWinner = true
			s.WinnerTicket = &id
		}
	}
	return s
}

func (m *memStore) ListDraws(ctx context.Context) ([]models.DrawSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]models.DrawKey, 0, len(m.configs))
	for k := range m.configs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductID != keys[j].ProductID {
			return keys[i].ProductID < keys[j].ProductID
		}
		return keys[i].CampaignID < keys[j].CampaignID
	})

	out := make([]models.DrawSnapshot, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.snapshot(k))
	}
	return out, nil
}

func (m *memStore) GetDraw(ctx context.Context, key models.DrawKey) (*models.DrawSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.configs[key]; !ok {
		return nil, repository.ErrDrawNotFound
	}
	s := m.snapshot(key)
	return &s, nil
}

func (m *memStore) ListPool(ctx context.Context, key models.DrawKey) ([]models.PoolEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.configs[key]; !ok {
		return nil, repository.ErrDrawNotFound
	}
	out := make([]models.PoolEntry, 0)
	for _, t := range m.tickets {
		if t.Key() == key {
			out = append(out, models.PoolEntry{Ticket: t})
		}
	}
	return out, nil
}

// flakyLedger fails the first n calls with an allocation conflict.
type flakyLedger struct {
	repository.LedgerRepository
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (f *flakyLedger) IssueTickets(ctx context.Context, p repository.IssueParams) ([]models.Ticket, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.conflicts
	f.mu.Unlock()

	if fail {
		return nil, repository.ErrAllocationConflict
	}
	return f.LedgerRepository.IssueTickets(ctx, p)
}

func int64Ptr(v int64) *int64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }
