package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"comanda/internal/models"
	"comanda/internal/repositories"
)

// EventLogService records the eventos audit trail. Recording is strictly
// best-effort: a failed insert is logged and swallowed so that the operation
// it describes still succeeds.
type EventLogService interface {
	Record(ctx context.Context, tableID int, action string, detail map[string]any)
	ListByTable(ctx context.Context, tableID, limit int) ([]*models.Event, error)
}

type eventLogService struct {
	eventRepo repositories.EventLogRepository
}

func NewEventLogService(eventRepo repositories.EventLogRepository) EventLogService {
	return &eventLogService{eventRepo: eventRepo}
}

func (s *eventLogService) Record(ctx context.Context, tableID int, action string, detail map[string]any) {
	event := &models.Event{
		ID:      uuid.New(),
		TableID: tableID,
		Action:  action,
		Detail:  detail,
	}
	if err := s.eventRepo.Insert(ctx, event); err != nil {
		log.Printf("failed to record event %s for table %d: %v", action, tableID, err)
	}
}

func (s *eventLogService) ListByTable(ctx context.Context, tableID, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.eventRepo.ListByTable(ctx, tableID, limit)
}
