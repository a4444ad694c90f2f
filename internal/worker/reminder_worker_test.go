package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/repository"
)

type stubTicketRepo struct {
	mu      sync.Mutex
	tickets []domain.Ticket
	listErr error
}

func (s *stubTicketRepo) Create(context.Context, *domain.Ticket) error { return nil }
func (s *stubTicketRepo) Update(context.Context, *domain.Ticket) error { return nil }
func (s *stubTicketRepo) Delete(context.Context, domain.TicketKind, string) error {
	return nil
}
func (s *stubTicketRepo) GetByID(context.Context, domain.TicketKind, string) (*domain.Ticket, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Ticket
	for _, ticket := range s.tickets {
		if ticket.Kind != filter.Kind {
			continue
		}
		match := len(filter.Statuses) == 0
		for _, status := range filter.Statuses {
			if ticket.Status == status {
				match = true
			}
		}
		if match {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (s *stubTicketRepo) set(tickets ...domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = tickets
}

type stubPusher struct {
	mu    sync.Mutex
	sends map[string][]any
}

func newStubPusher() *stubPusher { return &stubPusher{sends: make(map[string][]any)} }

func (p *stubPusher) SendToUser(userID string, payload any) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sends[userID] = append(p.sends[userID], payload)
	return 1
}

func (p *stubPusher) count(userID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sends[userID])
}

func assignedTicket(id string, priority domain.TicketPriority, heldFor time.Duration) domain.Ticket {
	at := time.Now().UTC().Add(-heldFor)
	assignee := "noc-1"
	return domain.Ticket{
		ID:           id,
		TicketNumber: "#20260901" + id,
		Kind:         domain.TicketKindSMS,
		Priority:     priority,
		Status:       domain.StatusAssigned,
		AssignedTo:   &assignee,
		AssignedAt:   &at,
	}
}

func TestSweepRemindsPastThreshold(t *testing.T) {
	repo := &stubTicketRepo{}
	repo.set(
		assignedTicket("t-late", domain.PriorityUrgent, 45*time.Minute),
		assignedTicket("t-fresh", domain.PriorityUrgent, 10*time.Minute),
		assignedTicket("t-low", domain.PriorityLow, 3*time.Hour),
	)
	pusher := newStubPusher()
	worker := NewReminderWorker(repo, pusher, time.Minute, zap.NewNop())

	worker.Sweep(context.Background())
	assert.Equal(t, 1, pusher.count("noc-1"), "only the urgent ticket past 30 minutes reminds")
	_, ok := worker.reminded["t-late"]
	assert.True(t, ok)
	_, ok = worker.reminded["t-fresh"]
	assert.False(t, ok)
}

func TestSweepRemindsOncePerAssignment(t *testing.T) {
	repo := &stubTicketRepo{}
	ticket := assignedTicket("t-1", domain.PriorityUrgent, time.Hour)
	repo.set(ticket)
	pusher := newStubPusher()
	worker := NewReminderWorker(repo, pusher, time.Minute, zap.NewNop())

	worker.Sweep(context.Background())
	worker.Sweep(context.Background())
	assert.Equal(t, 1, pusher.count("noc-1"), "repeat sweeps stay silent")

	// Reassignment moves the stamp and re-arms the reminder.
	moved := time.Now().UTC().Add(-2 * time.Hour)
	other := "noc-2"
	ticket.AssignedTo = &other
	ticket.AssignedAt = &moved
	repo.set(ticket)

	worker.Sweep(context.Background())
	assert.Equal(t, 1, pusher.count("noc-2"))
}

func TestSweepPrunesDepartedTickets(t *testing.T) {
	repo := &stubTicketRepo{}
	repo.set(assignedTicket("t-1", domain.PriorityUrgent, time.Hour))
	worker := NewReminderWorker(repo, newStubPusher(), time.Minute, zap.NewNop())

	worker.Sweep(context.Background())
	require.Len(t, worker.reminded, 1)

	// Ticket resolved: it leaves the Assigned set and its entry goes too.
	repo.set()
	worker.Sweep(context.Background())
	assert.Empty(t, worker.reminded)
}

func TestSweepKeepsEntriesOnListFailure(t *testing.T) {
	repo := &stubTicketRepo{}
	repo.set(assignedTicket("t-1", domain.PriorityUrgent, time.Hour))
	worker := NewReminderWorker(repo, newStubPusher(), time.Minute, zap.NewNop())

	worker.Sweep(context.Background())
	require.Len(t, worker.reminded, 1)

	// A failed listing must not be mistaken for an empty Assigned set.
	repo.mu.Lock()
	repo.listErr = errors.New("db down")
	repo.mu.Unlock()
	worker.Sweep(context.Background())
	assert.Len(t, worker.reminded, 1)
}
