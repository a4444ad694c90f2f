package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	"github.com/wiitel/telecom-ticketing/internal/service"
)

// assignedTooLongThresholds maps priority to how long a ticket may stay
// Assigned before the assignee is reminded.
var assignedTooLongThresholds = map[domain.TicketPriority]time.Duration{
	domain.PriorityUrgent: 30 * time.Minute,
	domain.PriorityHigh:   time.Hour,
	domain.PriorityMedium: 2 * time.Hour,
	domain.PriorityLow:    4 * time.Hour,
}

// ReminderWorker periodically sweeps Assigned tickets and pushes a reminder
// to assignees sitting on a ticket past its priority threshold. One reminder
// is sent per assignment; reassignment resets the stamp and re-arms it.
type ReminderWorker struct {
	tickets  repository.TicketRepository
	pusher   service.Pusher
	interval time.Duration
	logger   *zap.Logger

	reminded map[string]time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewReminderWorker builds the worker.
func NewReminderWorker(tickets repository.TicketRepository, pusher service.Pusher, interval time.Duration, logger *zap.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderWorker{
		tickets:  tickets,
		pusher:   pusher,
		interval: interval,
		logger:   logger,
		reminded: make(map[string]time.Time),
	}
}

// Start launches the sweep loop.
func (w *ReminderWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Sweep(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for the current sweep to finish.
func (w *ReminderWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// Sweep runs one pass over both pipelines. Dedup entries for tickets no
// longer in the Assigned set are dropped so the map stays bounded by the
// number of currently assigned tickets.
func (w *ReminderWorker) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	seen := make(map[string]struct{})
	partial := false
	for _, kind := range []domain.TicketKind{domain.TicketKindSMS, domain.TicketKindVoice} {
		tickets, err := w.tickets.List(ctx, repository.TicketFilter{
			Kind:     kind,
			Statuses: []domain.TicketStatus{domain.StatusAssigned},
		})
		if err != nil {
			w.logger.Warn("reminder sweep failed", zap.String("kind", string(kind)), zap.Error(err))
			partial = true
			continue
		}
		for i := range tickets {
			seen[tickets[i].ID] = struct{}{}
			w.check(&tickets[i], now)
		}
	}
	if partial {
		return
	}
	for id := range w.reminded {
		if _, ok := seen[id]; !ok {
			delete(w.reminded, id)
		}
	}
}

func (w *ReminderWorker) check(ticket *domain.Ticket, now time.Time) {
	if ticket.AssignedTo == nil || ticket.AssignedAt == nil {
		return
	}
	threshold, ok := assignedTooLongThresholds[ticket.Priority]
	if !ok {
		threshold = assignedTooLongThresholds[domain.PriorityLow]
	}
	held := now.Sub(*ticket.AssignedAt)
	if held < threshold {
		return
	}
	// Already reminded for this assignment; the stamp only moves when the
	// assignee changes.
	if last, ok := w.reminded[ticket.ID]; ok && last.Equal(*ticket.AssignedAt) {
		return
	}
	w.reminded[ticket.ID] = *ticket.AssignedAt

	w.logger.Info("ticket assigned too long",
		zap.String("ticket_id", ticket.ID),
		zap.String("ticket_number", ticket.TicketNumber),
		zap.String("assignee", *ticket.AssignedTo),
		zap.Duration("held", held))
	if w.pusher != nil {
		w.pusher.SendToUser(*ticket.AssignedTo, map[string]any{
			"type": "reminder",
			"data": map[string]any{
				"ticket_id":     ticket.ID,
				"ticket_number": ticket.TicketNumber,
				"message":       fmt.Sprintf("Ticket %s has been assigned to you for %s", ticket.TicketNumber, held.Round(time.Minute)),
			},
		})
	}
}
