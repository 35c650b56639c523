package repositories

import (
	"context"
	"encoding/json"

	"comanda/internal/models"
)

// TableRepository owns the mesas collection. Each mesa row is a small
// document: the order lives in a single jsonb column and is always rewritten
// whole, so every update is atomic at the document level. A version column
// carries the compare-and-swap token for the read-merge-write operations.
type TableRepository interface {
	List(ctx context.Context) ([]*models.Table, error)
	GetByID(ctx context.Context, id int) (*models.Table, error)
	// SetOccupied writes the raw occupancy flag (true = free). Returns false
	// when no such table exists.
	SetOccupied(ctx context.Context, id int, occupied bool) (bool, error)
	// GetOrderDocument reads the order document and its CAS version. The
	// order is nil when the table has never had one.
	GetOrderDocument(ctx context.Context, id int) (*models.Order, int64, error)
	// CompareAndSwapOrder writes the order document only if the version is
	// still the one read. Returns false on a lost race.
	CompareAndSwapOrder(ctx context.Context, id int, version int64, order *models.Order) (bool, error)
	// Settle clears the order to the paid document and frees the table in a
	// single update. Returns false when no such table exists.
	Settle(ctx context.Context, id int) (bool, error)
}

type tableRepo struct {
	db Database
}

func NewTableRepo(db Database) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) List(ctx context.Context) ([]*models.Table, error) {
	query := `
		SELECT id, occupied, order_doc
		FROM mesas
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		table := &models.Table{}
		var doc []byte
		if err := rows.Scan(&table.ID, &table.Occupied, &doc); err != nil {
			return nil, err
		}
		if table.Order, err = decodeOrder(doc); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *tableRepo) GetByID(ctx context.Context, id int) (*models.Table, error) {
	table := &models.Table{}
	var doc []byte
	query := `
		SELECT id, occupied, order_doc
		FROM mesas
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&table.ID, &table.Occupied, &doc)
	if err != nil {
		return nil, err
	}
	if table.Order, err = decodeOrder(doc); err != nil {
		return nil, err
	}
	return table, nil
}

func (r *tableRepo) SetOccupied(ctx context.Context, id int, occupied bool) (bool, error) {
	query := `UPDATE mesas SET occupied = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, occupied, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *tableRepo) GetOrderDocument(ctx context.Context, id int) (*models.Order, int64, error) {
	var doc []byte
	var version int64
	query := `
		SELECT order_doc, version
		FROM mesas
		WHERE id = $1
	`
	if err := r.db.QueryRow(ctx, query, id).Scan(&doc, &version); err != nil {
		return nil, 0, err
	}
	order, err := decodeOrder(doc)
	if err != nil {
		return nil, 0, err
	}
	return order, version, nil
}

func (r *tableRepo) CompareAndSwapOrder(ctx context.Context, id int, version int64, order *models.Order) (bool, error) {
	doc, err := json.Marshal(order)
	if err != nil {
		return false, err
	}
	query := `
		UPDATE mesas
		SET order_doc = $1, version = version + 1
		WHERE id = $2 AND version = $3
	`
	tag, err := r.db.Exec(ctx, query, doc, id, version)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *tableRepo) Settle(ctx context.Context, id int) (bool, error) {
	doc, err := json.Marshal(models.SettledOrder())
	if err != nil {
		return false, err
	}
	// Unconditional single-document update: clearing the tab and freeing the
	// table never depends on a prior read.
	query := `
		UPDATE mesas
		SET order_doc = $1, occupied = true, version = version + 1
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, doc, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func decodeOrder(doc []byte) (*models.Order, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	order := &models.Order{}
	if err := json.Unmarshal(doc, order); err != nil {
		return nil, err
	}
	return order, nil
}
