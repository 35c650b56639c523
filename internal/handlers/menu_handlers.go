package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"comanda/internal/common"
	"comanda/internal/models"
	"comanda/internal/services"
)

const imageURLExpiry = 15 * time.Minute

// MenuHandlers handles the read-only carta endpoints.
type MenuHandlers struct {
	menuService services.MenuService
}

func NewMenuHandlers(menuService services.MenuService) *MenuHandlers {
	return &MenuHandlers{menuService: menuService}
}

// GetCarta handles GET /api/carta.
func (h *MenuHandlers) GetCarta(c echo.Context) error {
	products, err := h.menuService.List(c.Request().Context())
	if err != nil {
		log.Printf("Error al obtener la carta: %v", err)
		return common.SendError(c, http.StatusInternalServerError, "Error al obtener la carta")
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// GetCartaByCategory handles GET /api/carta/:category. An unknown category
// is an empty array, not an error.
func (h *MenuHandlers) GetCartaByCategory(c echo.Context) error {
	category := c.Param("category")
	products, err := h.menuService.ListByCategory(c.Request().Context(), category)
	if err != nil {
		log.Printf("Error al obtener los productos de la categoría %q: %v", category, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al obtener los productos de la categoría seleccionada.")
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// GetProductImage handles GET /api/imagenes/:productId, answering a
// presigned URL for the product's image object.
func (h *MenuHandlers) GetProductImage(c echo.Context) error {
	productID, ok := common.ParseID(c.Param("productId"))
	if !ok {
		return common.SendError(c, http.StatusNotFound, "Producto no encontrado")
	}

	url, err := h.menuService.ImageURL(c.Request().Context(), productID, imageURLExpiry)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return common.SendError(c, http.StatusNotFound, "Producto no encontrado")
		case errors.Is(err, services.ErrImageNotFound):
			return common.SendError(c, http.StatusNotFound, "El producto no tiene imagen")
		default:
			log.Printf("Error al obtener la imagen del producto %d: %v", productID, err)
			return common.SendError(c, http.StatusInternalServerError, "Error al obtener la imagen del producto")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
