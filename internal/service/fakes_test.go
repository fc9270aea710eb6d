package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/events"
	"github.com/infinitetechnologys/crm/internal/repository"
)

var (
	_ repository.StaffRepository       = (*fakeStaffRepo)(nil)
	_ repository.ClientRepository      = (*fakeClientRepo)(nil)
	_ repository.InteractionRepository = (*fakeInteractionRepo)(nil)
	_ repository.PropertyRepository    = (*fakePropertyRepo)(nil)
	_ repository.ShowingRepository     = (*fakeShowingRepo)(nil)
	_ repository.DealRepository        = (*fakeDealRepo)(nil)
	_ repository.TaskRepository        = (*fakeTaskRepo)(nil)
	_ repository.ActivityRepository    = (*fakeActivityRepo)(nil)
)

// fakeTx satisfies persistence.TxManager without a database; the callback
// runs on the caller's context.
type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// spyDispatcher records published events.
type spyDispatcher struct {
	published []events.Event
}

func (d *spyDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *spyDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func staffSession(id int64, role domain.Role) *auth.Session {
	return &auth.Session{
		Account: &domain.StaffAccount{
			ID:             id,
			Username:       fmt.Sprintf("user%d", id),
			Role:           role,
			FirstName:      "Test",
			LastName:       fmt.Sprintf("User%d", id),
			CommissionRate: 3.0,
			Active:         true,
		},
		IP: "127.0.0.1",
	}
}

type fakeStaffRepo struct {
	accounts map[int64]*domain.StaffAccount
	nextID   int64
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{accounts: map[int64]*domain.StaffAccount{}, nextID: 1}
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffAccount) error {
	staff.ID = r.nextID
	r.nextID++
	staff.CreatedAt = time.Now()
	clone := *staff
	r.accounts[staff.ID] = &clone
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffAccount) error {
	if _, ok := r.accounts[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *staff
	r.accounts[staff.ID] = &clone
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id int64) (*domain.StaffAccount, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *account
	return &clone, nil
}

func (r *fakeStaffRepo) GetByUsername(_ context.Context, username string) (*domain.StaffAccount, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			clone := *account
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffAccount, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffAccount, error) {
	var result []domain.StaffAccount
	for _, account := range r.accounts {
		if filter.ExcludeID != nil && account.ID == *filter.ExcludeID {
			continue
		}
		if filter.Role != nil && account.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && account.Active != *filter.Active {
			continue
		}
		result = append(result, *account)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeStaffRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}

func (r *fakeStaffRepo) AdminExists(_ context.Context) (bool, error) {
	for _, account := range r.accounts {
		if account.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

type fakeClientRepo struct {
	clients map[int64]*domain.Client
	nextID  int64
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[int64]*domain.Client{}, nextID: 1}
}

func (r *fakeClientRepo) Create(_ context.Context, client *domain.Client) error {
	client.ID = r.nextID
	r.nextID++
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	clone := *client
	r.clients[client.ID] = &clone
	return nil
}

func (r *fakeClientRepo) Update(_ context.Context, client *domain.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *client
	r.clients[client.ID] = &clone
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *client
	return &clone, nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.clients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) List(_ context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	var result []domain.Client
	for _, client := range r.clients {
		if filter.AgentID != nil && client.AgentID != *filter.AgentID {
			continue
		}
		if filter.Status != nil && client.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && client.Type != *filter.Type {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(*filter.Search)
			haystack := strings.ToLower(client.FirstName + " " + client.LastName + " " + client.Email + " " + client.Phone)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		result = append(result, *client)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeClientRepo) CountByAgent(_ context.Context, agentID int64) (int64, error) {
	var count int64
	for _, client := range r.clients {
		if client.AgentID == agentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeClientRepo) ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.Client, error) {
	result, _ := r.List(ctx, repository.ClientFilter{AgentID: &agentID})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type fakeInteractionRepo struct {
	byClient map[int64][]domain.Interaction
	nextID   int64
}

func newFakeInteractionRepo() *fakeInteractionRepo {
	return &fakeInteractionRepo{byClient: map[int64][]domain.Interaction{}, nextID: 1}
}

func (r *fakeInteractionRepo) Create(_ context.Context, interaction *domain.Interaction) error {
	interaction.ID = r.nextID
	r.nextID++
	interaction.CreatedAt = time.Now()
	r.byClient[interaction.ClientID] = append(r.byClient[interaction.ClientID], *interaction)
	return nil
}

func (r *fakeInteractionRepo) ListByClient(_ context.Context, clientID int64) ([]domain.Interaction, error) {
	return r.byClient[clientID], nil
}

type fakePropertyRepo struct {
	properties map[int64]*domain.Property
	nextID     int64
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: map[int64]*domain.Property{}, nextID: 1}
}

func (r *fakePropertyRepo) Create(_ context.Context, property *domain.Property) error {
	property.ID = r.nextID
	r.nextID++
	property.CreatedAt = time.Now()
	property.UpdatedAt = property.CreatedAt
	clone := *property
	r.properties[property.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) Update(_ context.Context, property *domain.Property) error {
	if _, ok := r.properties[property.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *property
	r.properties[property.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) GetByID(_ context.Context, id int64) (*domain.Property, error) {
	property, ok := r.properties[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *property
	return &clone, nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.properties[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.properties, id)
	return nil
}

func (r *fakePropertyRepo) List(_ context.Context, filter repository.PropertyFilter) ([]domain.Property, error) {
	var result []domain.Property
	for _, property := range r.properties {
		if filter.AgentID != nil && property.AgentID != *filter.AgentID {
			continue
		}
		if filter.Status != nil && property.Status != *filter.Status {
			continue
		}
		if filter.ListingType != nil && property.ListingType != *filter.ListingType {
			continue
		}
		result = append(result, *property)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakePropertyRepo) CountByAgent(_ context.Context, agentID int64) (int64, error) {
	var count int64
	for _, property := range r.properties {
		if property.AgentID == agentID {
			count++
		}
	}
	return count, nil
}

func (r *fakePropertyRepo) ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.Property, error) {
	result, _ := r.List(ctx, repository.PropertyFilter{AgentID: &agentID})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type fakeShowingRepo struct {
	showings map[int64]*domain.Showing
	nextID   int64
}

func newFakeShowingRepo() *fakeShowingRepo {
	return &fakeShowingRepo{showings: map[int64]*domain.Showing{}, nextID: 1}
}

func (r *fakeShowingRepo) Create(_ context.Context, showing *domain.Showing) error {
	showing.ID = r.nextID
	r.nextID++
	showing.CreatedAt = time.Now()
	clone := *showing
	r.showings[showing.ID] = &clone
	return nil
}

func (r *fakeShowingRepo) Update(_ context.Context, showing *domain.Showing) error {
	if _, ok := r.showings[showing.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *showing
	r.showings[showing.ID] = &clone
	return nil
}

func (r *fakeShowingRepo) GetByID(_ context.Context, id int64) (*domain.Showing, error) {
	showing, ok := r.showings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *showing
	return &clone, nil
}

func (r *fakeShowingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.showings[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.showings, id)
	return nil
}

func (r *fakeShowingRepo) ListByProperty(_ context.Context, propertyID int64) ([]domain.Showing, error) {
	var result []domain.Showing
	for _, showing := range r.showings {
		if showing.PropertyID == propertyID {
			result = append(result, *showing)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeShowingRepo) ListUpcomingByAgent(context.Context, int64, time.Time, int) ([]domain.Showing, error) {
	return nil, nil
}

type fakeDealRepo struct {
	deals   map[int64]*domain.Deal
	clients *fakeClientRepo
	nextID  int64
}

func newFakeDealRepo(clients *fakeClientRepo) *fakeDealRepo {
	return &fakeDealRepo{deals: map[int64]*domain.Deal{}, clients: clients, nextID: 1}
}

func (r *fakeDealRepo) Create(_ context.Context, deal *domain.Deal) error {
	deal.ID = r.nextID
	r.nextID++
	deal.CreatedAt = time.Now()
	deal.UpdatedAt = deal.CreatedAt
	clone := *deal
	r.deals[deal.ID] = &clone
	return nil
}

func (r *fakeDealRepo) Update(_ context.Context, deal *domain.Deal) error {
	if _, ok := r.deals[deal.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *deal
	r.deals[deal.ID] = &clone
	return nil
}

func (r *fakeDealRepo) GetByID(_ context.Context, id int64) (*domain.Deal, error) {
	deal, ok := r.deals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *deal
	return &clone, nil
}

func (r *fakeDealRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.deals[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.deals, id)
	return nil
}

func (r *fakeDealRepo) agentOf(deal *domain.Deal) int64 {
	client, ok := r.clients.clients[deal.ClientID]
	if !ok {
		return 0
	}
	return client.AgentID
}

func (r *fakeDealRepo) List(_ context.Context, filter repository.DealFilter) ([]domain.Deal, error) {
	var result []domain.Deal
	for _, deal := range r.deals {
		if filter.AgentID != nil && r.agentOf(deal) != *filter.AgentID {
			continue
		}
		if filter.Status != nil && deal.Status != *filter.Status {
			continue
		}
		result = append(result, *deal)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeDealRepo) ListByClient(_ context.Context, clientID int64) ([]domain.Deal, error) {
	var result []domain.Deal
	for _, deal := range r.deals {
		if deal.ClientID == clientID {
			result = append(result, *deal)
		}
	}
	return result, nil
}

func (r *fakeDealRepo) ListByProperty(_ context.Context, propertyID int64) ([]domain.Deal, error) {
	var result []domain.Deal
	for _, deal := range r.deals {
		if deal.PropertyID == propertyID {
			result = append(result, *deal)
		}
	}
	return result, nil
}

func (r *fakeDealRepo) CountActiveByAgent(_ context.Context, agentID int64) (int64, error) {
	var count int64
	for _, deal := range r.deals {
		if r.agentOf(deal) != agentID {
			continue
		}
		for _, status := range domain.ActiveDealStatuses {
			if deal.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeDealRepo) ListClosedByAgent(_ context.Context, agentID int64) ([]domain.Deal, error) {
	var result []domain.Deal
	for _, deal := range r.deals {
		if r.agentOf(deal) == agentID && deal.Status == domain.DealStatusClosed {
			result = append(result, *deal)
		}
	}
	return result, nil
}

type fakeTaskRepo struct {
	tasks  map[int64]*domain.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*domain.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	task.ID = r.nextID
	r.nextID++
	task.CreatedAt = time.Now()
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *task
	return &clone, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var result []domain.Task
	for _, task := range r.tasks {
		if filter.UserID != nil && task.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		result = append(result, *task)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeTaskRepo) ListUpcomingByUser(_ context.Context, userID int64, limit int) ([]domain.Task, error) {
	var result []domain.Task
	for _, task := range r.tasks {
		if task.UserID == userID && task.Status != domain.TaskStatusCompleted {
			result = append(result, *task)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type fakeActivityRepo struct {
	records []domain.Activity
	nextID  int64
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{nextID: 1}
}

func (r *fakeActivityRepo) Create(_ context.Context, activity *domain.Activity) error {
	activity.ID = r.nextID
	r.nextID++
	activity.CreatedAt = time.Now()
	r.records = append(r.records, *activity)
	return nil
}

func (r *fakeActivityRepo) List(_ context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	var result []domain.Activity
	for _, record := range r.records {
		if filter.UserID != nil && record.UserID != *filter.UserID {
			continue
		}
		if filter.Action != nil && record.Action != *filter.Action {
			continue
		}
		if filter.EntityType != nil && record.EntityType != *filter.EntityType {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

func (r *fakeActivityRepo) ListForUser(_ context.Context, userID int64, _ int) ([]domain.Activity, error) {
	var result []domain.Activity
	for _, record := range r.records {
		if record.UserID == userID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *fakeActivityRepo) CountOnDate(_ context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var count int64
	for _, record := range r.records {
		if !record.CreatedAt.Before(start) && record.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (r *fakeActivityRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var count int64
	for _, record := range r.records {
		if !record.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeActivityRepo) CountForUser(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, record := range r.records {
		if record.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeActivityRepo) CountForUserOnDate(_ context.Context, userID int64, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var count int64
	for _, record := range r.records {
		if record.UserID == userID && !record.CreatedAt.Before(start) && record.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (r *fakeActivityRepo) CountForUserSince(_ context.Context, userID int64, since time.Time) (int64, error) {
	var count int64
	for _, record := range r.records {
		if record.UserID == userID && !record.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeActivityRepo) TopActiveUsers(_ context.Context, since time.Time, limit int) ([]repository.UserActivityCount, error) {
	counts := map[int64]int64{}
	for _, record := range r.records {
		if !record.CreatedAt.Before(since) {
			counts[record.UserID]++
		}
	}
	var result []repository.UserActivityCount
	for userID, count := range counts {
		result = append(result, repository.UserActivityCount{UserID: userID, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].UserID < result[j].UserID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
