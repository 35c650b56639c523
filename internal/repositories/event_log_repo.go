package repositories

import (
	"context"
	"encoding/json"
	"time"

	"comanda/internal/models"
)

type EventLogRepository interface {
	Insert(ctx context.Context, event *models.Event) error
	ListByTable(ctx context.Context, tableID, limit int) ([]*models.Event, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type eventLogRepo struct {
	db Database
}

func NewEventLogRepo(db Database) EventLogRepository {
	return &eventLogRepo{db: db}
}

func (r *eventLogRepo) Insert(ctx context.Context, event *models.Event) error {
	var detail []byte
	if event.Detail != nil {
		var err error
		if detail, err = json.Marshal(event.Detail); err != nil {
			return err
		}
	}
	query := `
		INSERT INTO eventos (id, table_id, action, detail, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, event.ID, event.TableID, event.Action, detail)
	return err
}

func (r *eventLogRepo) ListByTable(ctx context.Context, tableID, limit int) ([]*models.Event, error) {
	query := `
		SELECT id, table_id, action, detail, created_at
		FROM eventos
		WHERE table_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		var detail []byte
		if err := rows.Scan(&event.ID, &event.TableID, &event.Action, &detail, &event.CreatedAt); err != nil {
			return nil, err
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &event.Detail); err != nil {
				return nil, err
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *eventLogRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM eventos WHERE created_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
