package services

import (
	"context"
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comanda/internal/models"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetCarta(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockCacheService) SetCarta(ctx context.Context, products []*models.Product, ttl time.Duration) error {
	args := m.Called(ctx, products, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetCartaByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockCacheService) SetCartaByCategory(ctx context.Context, category string, products []*models.Product, ttl time.Duration) error {
	args := m.Called(ctx, category, products, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateCarta(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *MockMinioService) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func newMenuServiceForTest() (MenuService, *MockMenuRepository, *MockCacheService, *MockMinioService) {
	menuRepo := new(MockMenuRepository)
	cache := new(MockCacheService)
	minioSvc := new(MockMinioService)
	return NewMenuService(menuRepo, cache, minioSvc, "carta"), menuRepo, cache, minioSvc
}

func carta() []*models.Product {
	return []*models.Product{
		{ID: 1, Name: "Sushi Moriawase", Category: "Sushi", Price: 12.5, Image: "/images/sushi_moriawase.jpg"},
		{ID: 4, Name: "Gyozas", Category: "Entrantes", Price: 6.5, Image: "/images/gyozas.jpg"},
	}
}

func TestMenuList_CacheHit(t *testing.T) {
	svc, menuRepo, cache, _ := newMenuServiceForTest()
	cache.On("GetCarta", mock.Anything).Return(carta(), nil)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	menuRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestMenuList_CacheMissFallsThroughAndPrimes(t *testing.T) {
	svc, menuRepo, cache, _ := newMenuServiceForTest()
	cache.On("GetCarta", mock.Anything).Return(nil, nil)
	menuRepo.On("List", mock.Anything).Return(carta(), nil)
	cache.On("SetCarta", mock.Anything, carta(), cartaCacheTTL).Return(nil)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	cache.AssertExpectations(t)
}

func TestMenuList_CacheErrorsNeverFailTheRead(t *testing.T) {
	svc, menuRepo, cache, _ := newMenuServiceForTest()
	cache.On("GetCarta", mock.Anything).Return(nil, errors.New("redis down"))
	menuRepo.On("List", mock.Anything).Return(carta(), nil)
	cache.On("SetCarta", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestMenuList_StoreFailureSurfaces(t *testing.T) {
	svc, menuRepo, cache, _ := newMenuServiceForTest()
	cache.On("GetCarta", mock.Anything).Return(nil, nil)
	storeErr := errors.New("connection refused")
	menuRepo.On("List", mock.Anything).Return(nil, storeErr)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

func TestMenuListByCategory(t *testing.T) {
	svc, menuRepo, cache, _ := newMenuServiceForTest()
	entrantes := carta()[1:]
	cache.On("GetCartaByCategory", mock.Anything, "Entrantes").Return(nil, nil)
	menuRepo.On("ListByCategory", mock.Anything, "Entrantes").Return(entrantes, nil)
	cache.On("SetCartaByCategory", mock.Anything, "Entrantes", entrantes, cartaCacheTTL).Return(nil)

	products, err := svc.ListByCategory(context.Background(), "Entrantes")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Gyozas", products[0].Name)
}

func TestMenuGetProduct_NotFound(t *testing.T) {
	svc, menuRepo, _, _ := newMenuServiceForTest()
	menuRepo.On("GetByID", mock.Anything, 99).Return(nil, pgx.ErrNoRows)

	_, err := svc.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMenuImageURL(t *testing.T) {
	svc, menuRepo, _, minioSvc := newMenuServiceForTest()
	menuRepo.On("GetByID", mock.Anything, 1).Return(carta()[0], nil)
	minioSvc.On("GetPresignedURL", mock.Anything, "carta", "images/sushi_moriawase.jpg", 15*time.Minute).
		Return("https://minio.local/carta/images/sushi_moriawase.jpg?sig=abc", nil)

	url, err := svc.ImageURL(context.Background(), 1, 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "sushi_moriawase")
	minioSvc.AssertExpectations(t)
}

func TestMenuImageURL_NoImage(t *testing.T) {
	svc, menuRepo, _, _ := newMenuServiceForTest()
	menuRepo.On("GetByID", mock.Anything, 7).Return(&models.Product{ID: 7, Name: "Agua"}, nil)

	_, err := svc.ImageURL(context.Background(), 7, 15*time.Minute)
	assert.ErrorIs(t, err, ErrImageNotFound)
}
