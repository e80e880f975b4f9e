package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"legalaid-intake-be/internal/dto"
	"legalaid-intake-be/internal/mapper"
	"legalaid-intake-be/internal/pkg/logger"
	"legalaid-intake-be/internal/repository/specification"
	"legalaid-intake-be/internal/repository/unitofwork"
	"legalaid-intake-be/pkg/dashboard"
	"legalaid-intake-be/pkg/events"
	pktNats "legalaid-intake-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IDashboardService interface {
	// Start subscribes to case events. It returns once the subscription is
	// registered; events are handled until the subscriber is closed.
	Start(ctx context.Context) error
	GetCases(ctx context.Context, userId uuid.UUID) (*dto.DashboardResponse, error)
	HandleEvent(ctx context.Context, event events.Event) error
}

// EventSubscriber is the consuming side of the bus. *nats.Subscriber
// implements it.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// Delivery pushes a message to every live connection of a user.
// *websocket.Hub implements it.
type Delivery interface {
	Push(userID uuid.UUID, msgType string, data interface{})
}

// dashboardCacheTTL bounds how long GetCases may serve a state that another
// instance has since changed. Events always fold into the stored rows.
const dashboardCacheTTL = 30 * time.Second

type dashboardService struct {
	subscriber EventSubscriber
	subject    string
	durable    string
	uowFactory unitofwork.RepositoryFactory
	delivery   Delivery
	cache      *cache.Cache
	mapper     *mapper.DashboardCaseMapper
	logger     logger.ILogger

	// mu serialises read-modify-write of a user's cached state.
	mu sync.Mutex
}

func NewDashboardService(
	subscriber EventSubscriber,
	subject, durable string,
	uowFactory unitofwork.RepositoryFactory,
	delivery Delivery,
	log logger.ILogger,
) IDashboardService {
	return &dashboardService{
		subscriber: subscriber,
		subject:    subject,
		durable:    durable,
		uowFactory: uowFactory,
		delivery:   delivery,
		cache:      cache.New(dashboardCacheTTL, time.Minute),
		mapper:     mapper.NewDashboardCaseMapper(),
		logger:     log,
	}
}

func (s *dashboardService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Warn("DashboardService", "No event subscriber configured, dashboard will not update live", nil)
		return nil
	}
	return s.subscriber.Subscribe(ctx, s.subject, s.durable, s.HandleEvent)
}

func (s *dashboardService) GetCases(ctx context.Context, userId uuid.UUID) (*dto.DashboardResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateFor(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{Cases: state.Cases}, nil
}

// HandleEvent folds one bus event into the owner's dashboard. Stale and
// duplicate events are acknowledged without side effects.
func (s *dashboardService) HandleEvent(ctx context.Context, event events.Event) error {
	kind, ok := dashboard.ParseEventKind(event.EventType())
	if !ok {
		return nil
	}
	data := event.Payload()
	userId, err := uuid.Parse(stringField(data, "user_id"))
	if err != nil {
		s.logger.Warn("DashboardService", "Case event without owner", map[string]interface{}{"type": event.EventType()})
		return nil
	}
	incoming := dashboard.Case{
		ID:           stringField(data, "case_id"),
		Title:        stringField(data, "title"),
		DocumentType: stringField(data, "document_type"),
		Status:       stringField(data, "status"),
		UpdatedAt:    timeField(data, "updated_at", event.Timestamp()),
	}
	if incoming.ID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// instances share one durable consumer, so another instance may have
	// written rows this cache has not seen
	current, err := s.loadState(ctx, userId)
	if err != nil {
		return err
	}
	prev, known := current.Find(incoming.ID)
	if known {
		incoming = mergeCase(prev, incoming)
	}

	next := dashboard.ApplyRemoteEvent(current, dashboard.Event{Kind: kind, Case: incoming})
	stored, _ := next.Find(incoming.ID)
	if known && !stored.UpdatedAt.After(prev.UpdatedAt) {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DashboardCaseRepository().Upsert(ctx, s.mapper.FromCase(userId, stored)); err != nil {
		return fmt.Errorf("store case %s: %w", stored.ID, err)
	}
	s.cache.Set(userId.String(), next, cache.DefaultExpiration)

	if s.delivery != nil {
		s.delivery.Push(userId, dto.PushDashboardState, dto.DashboardResponse{Cases: next.Cases})
	}
	s.logger.Info("DashboardService", "Dashboard updated", map[string]interface{}{
		"user_id": userId,
		"case_id": stored.ID,
		"kind":    string(kind),
	})
	return nil
}

// stateFor must be called with s.mu held.
func (s *dashboardService) stateFor(ctx context.Context, userId uuid.UUID) (dashboard.State, error) {
	if cached, found := s.cache.Get(userId.String()); found {
		return cached.(dashboard.State), nil
	}
	return s.loadState(ctx, userId)
}

// loadState reads the user's rows and refreshes the cache. Must be called
// with s.mu held.
func (s *dashboardService) loadState(ctx context.Context, userId uuid.UUID) (dashboard.State, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.DashboardCaseRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return dashboard.State{}, fmt.Errorf("load dashboard: %w", err)
	}
	state := s.mapper.ToState(rows)
	s.cache.Set(userId.String(), state, cache.DefaultExpiration)
	return state, nil
}

// mergeCase fills fields an update left out from the known case.
func mergeCase(prev, next dashboard.Case) dashboard.Case {
	if next.Title == "" {
		next.Title = prev.Title
	}
	if next.DocumentType == "" {
		next.DocumentType = prev.DocumentType
	}
	if next.Status == "" {
		next.Status = prev.Status
	}
	return next
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func timeField(data map[string]interface{}, key string, fallback time.Time) time.Time {
	raw := stringField(data, key)
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fallback
	}
	return t
}
