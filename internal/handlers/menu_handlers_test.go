package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comanda/internal/models"
	"comanda/internal/services"
)

type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) List(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockMenuService) ListByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockMenuService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockMenuService) ImageURL(ctx context.Context, productID int, expiry time.Duration) (string, error) {
	args := m.Called(ctx, productID, expiry)
	return args.String(0), args.Error(1)
}

func newMenuRequest() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetCarta(t *testing.T) {
	svc := new(MockMenuService)
	svc.On("List", mock.Anything).Return([]*models.Product{
		{ID: 1, Name: "Sushi Moriawase", Category: "Sushi", Price: 12.5},
	}, nil)
	h := NewMenuHandlers(svc)

	c, rec := newMenuRequest()
	c.SetPath("/api/carta")

	require.NoError(t, h.GetCarta(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sushi Moriawase")
}

func TestGetCarta_StoreFailureIs500(t *testing.T) {
	svc := new(MockMenuService)
	svc.On("List", mock.Anything).Return(nil, errors.New("connection refused"))
	h := NewMenuHandlers(svc)

	c, rec := newMenuRequest()
	c.SetPath("/api/carta")

	require.NoError(t, h.GetCarta(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Error al obtener la carta"}`, rec.Body.String())
}

func TestGetCartaByCategory_EmptyIsAnArrayNotAnError(t *testing.T) {
	svc := new(MockMenuService)
	svc.On("ListByCategory", mock.Anything, "Desconocida").Return([]*models.Product(nil), nil)
	h := NewMenuHandlers(svc)

	c, rec := newMenuRequest()
	c.SetPath("/api/carta/:category")
	c.SetParamNames("category")
	c.SetParamValues("Desconocida")

	require.NoError(t, h.GetCartaByCategory(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetCartaByCategory(t *testing.T) {
	svc := new(MockMenuService)
	svc.On("ListByCategory", mock.Anything, "Sushi").Return([]*models.Product{
		{ID: 1, Name: "Sushi Moriawase", Category: "Sushi", Price: 12.5},
		{ID: 2, Name: "Sushi de Atún", Category: "Sushi", Price: 11.2},
	}, nil)
	h := NewMenuHandlers(svc)

	c, rec := newMenuRequest()
	c.SetPath("/api/carta/:category")
	c.SetParamNames("category")
	c.SetParamValues("Sushi")

	require.NoError(t, h.GetCartaByCategory(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sushi de Atún")
}

func TestGetProductImage(t *testing.T) {
	svc := new(MockMenuService)
	svc.On("ImageURL", mock.Anything, 1, 15*time.Minute).
		Return("https://minio.local/carta/images/sushi_moriawase.jpg?sig=abc", nil)
	h := NewMenuHandlers(svc)

	c, rec := newMenuRequest()
	c.SetPath("/api/imagenes/:productId")
	c.SetParamNames("productId")
	c.SetParamValues("1")

	require.NoError(t, h.GetProductImage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sushi_moriawase")
}

func TestGetProductImage_ProductNotFound(t *testing.T) {
	svc := new(MockMenuService)
	svc.On("ImageURL", mock.Anything, 99, 15*time.Minute).Return("", services.ErrProductNotFound)
	h := NewMenuHandlers(svc)

	c, rec := newMenuRequest()
	c.SetPath("/api/imagenes/:productId")
	c.SetParamNames("productId")
	c.SetParamValues("99")

	require.NoError(t, h.GetProductImage(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Producto no encontrado"}`, rec.Body.String())
}
