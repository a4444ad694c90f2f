package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wiitel/telecom-ticketing/internal/audit"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/events"
	"github.com/wiitel/telecom-ticketing/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
	updates int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.tickets[ticket.ID] = *ticket
	f.updates++
	return nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, _ domain.TicketKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, kind domain.TicketKind, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok || ticket.Kind != kind {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.Kind != filter.Kind {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if len(filter.EnterpriseIDs) > 0 && !containsString(filter.EnterpriseIDs, ticket.EnterpriseID) {
			continue
		}
		out = append(out, ticket)
	}
	return out, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

type fakeEnterpriseRepo struct {
	enterprises map[string]domain.Enterprise
}

func newFakeEnterpriseRepo(enterprises ...domain.Enterprise) *fakeEnterpriseRepo {
	repo := &fakeEnterpriseRepo{enterprises: make(map[string]domain.Enterprise)}
	for _, ent := range enterprises {
		repo.enterprises[ent.ID] = ent
	}
	return repo
}

func (f *fakeEnterpriseRepo) Create(_ context.Context, ent *domain.Enterprise) error {
	f.enterprises[ent.ID] = *ent
	return nil
}

func (f *fakeEnterpriseRepo) Update(_ context.Context, ent *domain.Enterprise) error {
	if _, ok := f.enterprises[ent.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.enterprises[ent.ID] = *ent
	return nil
}

func (f *fakeEnterpriseRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.enterprises[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.enterprises, id)
	return nil
}

func (f *fakeEnterpriseRepo) GetByID(_ context.Context, id string) (*domain.Enterprise, error) {
	ent, ok := f.enterprises[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ent
	return &copied, nil
}

func (f *fakeEnterpriseRepo) List(_ context.Context, filter repository.EnterpriseFilter) ([]domain.Enterprise, error) {
	var out []domain.Enterprise
	for _, ent := range f.enterprises {
		if filter.AssignedAMID != nil {
			if ent.AssignedAMID == nil || *ent.AssignedAMID != *filter.AssignedAMID {
				continue
			}
		}
		if filter.Type != nil && ent.Type != *filter.Type {
			continue
		}
		out = append(out, ent)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == identifier || user.Email == identifier || user.Phone == identifier {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepo) ListByDepartment(_ context.Context, departmentID string) ([]domain.User, error) {
	var out []domain.User
	for _, user := range f.users {
		if user.DepartmentID != nil && *user.DepartmentID == departmentID {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) TouchLastActive(_ context.Context, id string, at time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastActive = &at
	f.users[id] = user
	return nil
}

type fakeDepartmentRepo struct {
	departments map[string]domain.Department
}

func newFakeDepartmentRepo(departments ...domain.Department) *fakeDepartmentRepo {
	repo := &fakeDepartmentRepo{departments: make(map[string]domain.Department)}
	for _, dept := range departments {
		repo.departments[dept.ID] = dept
	}
	return repo
}

func (f *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	f.departments[dept.ID] = *dept
	return nil
}

func (f *fakeDepartmentRepo) Upsert(_ context.Context, dept *domain.Department) error {
	if _, ok := f.departments[dept.ID]; !ok {
		f.departments[dept.ID] = *dept
	}
	return nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := f.departments[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.departments[dept.ID] = *dept
	return nil
}

func (f *fakeDepartmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.departments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.departments, id)
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := dept
	return &copied, nil
}

func (f *fakeDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, dept := range f.departments {
		out = append(out, dept)
	}
	return out, nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []domain.Notification
	failFor map[string]error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{failFor: make(map[string]error)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[n.RecipientID]; ok {
		return err
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) ListForRecipient(_ context.Context, recipientID string, audiences []domain.NotificationAudience, limit int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.created {
		if n.RecipientID != recipientID {
			continue
		}
		for _, audience := range audiences {
			if n.Audience == audience {
				out = append(out, n)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) ListUnreadPeerNotices(_ context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.created {
		if n.RecipientID == recipientID && n.Audience == domain.AudienceAssignee && !n.Read {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.created {
		if f.created[i].ID == id && f.created[i].RecipientID == recipientID {
			f.created[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotificationRepo) byRecipient() map[string][]domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]domain.Notification)
	for _, n := range f.created {
		out[n.RecipientID] = append(out[n.RecipientID], n)
	}
	return out
}

// fakeDispatcher records published events without running handlers, so
// service tests stay deterministic.
type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (f *fakeDispatcher) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event{}, f.events...)
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (f *fakeRecorder) Record(_ context.Context, entry audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRecorder) recorded() []audit.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]audit.Entry{}, f.entries...)
}

type fakePusher struct {
	mu    sync.Mutex
	sends map[string][]any
}

func newFakePusher() *fakePusher {
	return &fakePusher{sends: make(map[string][]any)}
}

func (f *fakePusher) SendToUser(userID string, payload any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends[userID] = append(f.sends[userID], payload)
	return 1
}
