package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"comanda/internal/caching"
	"comanda/internal/models"
	"comanda/internal/repositories"
)

const cartaCacheTTL = 10 * time.Minute

type MenuService interface {
	List(ctx context.Context) ([]*models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	// ImageURL resolves a product's image reference to a presigned object
	// store URL valid for expiry.
	ImageURL(ctx context.Context, productID int, expiry time.Duration) (string, error)
}

type menuService struct {
	menuRepo     repositories.MenuRepository
	cacheService caching.CacheService
	minioService MinioService
	imageBucket  string
}

func NewMenuService(menuRepo repositories.MenuRepository, cacheService caching.CacheService, minioService MinioService, imageBucket string) MenuService {
	return &menuService{
		menuRepo:     menuRepo,
		cacheService: cacheService,
		minioService: minioService,
		imageBucket:  imageBucket,
	}
}

func (s *menuService) List(ctx context.Context) ([]*models.Product, error) {
	if cached, err := s.cacheService.GetCarta(ctx); cached != nil {
		return cached, nil
	} else if err != nil {
		// Cache failures must never fail a read; fall through to the store.
		log.Printf("carta cache read failed: %v", err)
	}

	products, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetCarta(ctx, products, cartaCacheTTL); cacheErr != nil {
		log.Printf("carta cache write failed: %v", cacheErr)
	}

	return products, nil
}

func (s *menuService) ListByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	if cached, err := s.cacheService.GetCartaByCategory(ctx, category); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("carta cache read failed for category %q: %v", category, err)
	}

	products, err := s.menuRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetCartaByCategory(ctx, category, products, cartaCacheTTL); cacheErr != nil {
		log.Printf("carta cache write failed for category %q: %v", category, cacheErr)
	}

	return products, nil
}

func (s *menuService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *menuService) ImageURL(ctx context.Context, productID int, expiry time.Duration) (string, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	if product.Image == "" {
		return "", ErrImageNotFound
	}
	// Image references are stored as paths like "/images/sushi_moriawase.jpg";
	// the leading slash is not part of the object name.
	objectName := strings.TrimPrefix(product.Image, "/")
	return s.minioService.GetPresignedURL(ctx, s.imageBucket, objectName, expiry)
}
