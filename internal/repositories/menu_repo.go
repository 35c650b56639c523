package repositories

import (
	"context"

	"comanda/internal/models"
)

type MenuRepository interface {
	List(ctx context.Context) ([]*models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
}

type menuRepo struct {
	db Database
}

func NewMenuRepo(db Database) MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) List(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT id, name, category, price, image
		FROM carta
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Category, &product.Price, &product.Image); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *menuRepo) ListByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	// Exact, case-sensitive match; an unknown category is an empty result.
	query := `
		SELECT id, name, category, price, image
		FROM carta
		WHERE category = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Category, &product.Price, &product.Image); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *menuRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, name, category, price, image
		FROM carta
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Category, &product.Price, &product.Image)
	if err != nil {
		return nil, err
	}
	return product, nil
}
