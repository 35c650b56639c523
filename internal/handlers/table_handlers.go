package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"comanda/internal/common"
	"comanda/internal/models"
	"comanda/internal/services"
)

// TableHandlers handles the mesas endpoints: occupancy, the embedded order
// and settlement. Path ids parse as integers; non-numeric input behaves as
// "no such table", never as a parse error.
type TableHandlers struct {
	tableService services.TableService
	eventService services.EventLogService
}

func NewTableHandlers(tableService services.TableService, eventService services.EventLogService) *TableHandlers {
	return &TableHandlers{
		tableService: tableService,
		eventService: eventService,
	}
}

// GetMesas handles GET /api/mesas.
func (h *TableHandlers) GetMesas(c echo.Context) error {
	tables, err := h.tableService.ListTables(c.Request().Context())
	if err != nil {
		log.Printf("Error al obtener los datos de las mesas: %v", err)
		return common.SendError(c, http.StatusInternalServerError, "Error al obtener los datos de las mesas")
	}
	if tables == nil {
		tables = []*models.Table{}
	}
	return c.JSON(http.StatusOK, tables)
}

// GetMesa handles GET /api/mesas/:id. A missing table answers {} with 200;
// clients probe table ids and expect an empty object, not a 404.
func (h *TableHandlers) GetMesa(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{})
	}

	table, err := h.tableService.GetTable(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			return c.JSON(http.StatusOK, map[string]any{})
		}
		log.Printf("Error al obtener los datos de la mesa %d: %v", id, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al obtener los datos de la mesa")
	}
	return c.JSON(http.StatusOK, table)
}

// GetPedido handles GET /api/mesas/:id/pedido, the normalized order view.
func (h *TableHandlers) GetPedido(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return h.pedidoNotFound(c, 0)
	}

	view, err := h.tableService.GetOrder(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			return h.pedidoNotFound(c, id)
		}
		log.Printf("Error al obtener el pedido de la mesa %d: %v", id, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al obtener el pedido de la mesa")
	}
	return c.JSON(http.StatusOK, view)
}

// Ocupar handles PUT /api/mesas/:id/ocupar. Idempotent.
func (h *TableHandlers) Ocupar(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
	}

	if err := h.tableService.Occupy(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
		}
		log.Printf("Error al ocupar la mesa %d: %v", id, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al ocupar la mesa")
	}
	return common.SendSuccess(c, "Se ha ocupado la mesa correctamente")
}

// Liberar handles PUT /api/mesas/:id/liberar. Idempotent.
func (h *TableHandlers) Liberar(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
	}

	if err := h.tableService.Free(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
		}
		log.Printf("Error al liberar la mesa %d: %v", id, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al liberar la mesa")
	}
	return common.SendSuccess(c, "Se ha liberado la mesa correctamente")
}

// AddProducto handles POST /api/mesas/:id/pedido.
func (h *TableHandlers) AddProducto(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
	}

	var req struct {
		ProductID *int `json:"productId"`
		Quantity  *int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "Formato de petición inválido")
	}
	if req.ProductID == nil || req.Quantity == nil {
		return common.SendError(c, http.StatusBadRequest, "productId y quantity son obligatorios")
	}
	if *req.Quantity <= 0 {
		return common.SendError(c, http.StatusBadRequest, "La cantidad debe ser un entero positivo")
	}

	quantity, err := h.tableService.AddItem(c.Request().Context(), id, *req.ProductID, *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTableNotFound):
			return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
		case errors.Is(err, services.ErrProductNotFound):
			return common.SendError(c, http.StatusNotFound, "Producto no encontrado")
		case errors.Is(err, services.ErrInvalidQuantity):
			return common.SendError(c, http.StatusBadRequest, "La cantidad debe ser un entero positivo")
		default:
			log.Printf("Error al añadir el producto al pedido de la mesa %d: %v", id, err)
			return common.SendError(c, http.StatusInternalServerError, "Error al añadir el producto al pedido de la mesa")
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  "Producto añadido al pedido",
		"state":    models.StatusAwaiting,
		"quantity": quantity,
	})
}

// UpdateCantidad handles PUT /api/mesas/:id/pedido/:productId. The quantity
// replaces the line's quantity; it does not accumulate.
func (h *TableHandlers) UpdateCantidad(c echo.Context) error {
	id, okTable := common.ParseID(c.Param("id"))
	productID, okProduct := common.ParseID(c.Param("productId"))
	if !okTable || !okProduct {
		return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
	}

	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "Formato de petición inválido")
	}
	if req.Quantity == nil || *req.Quantity <= 0 {
		return common.SendError(c, http.StatusBadRequest, "La cantidad debe ser un entero positivo")
	}

	if err := h.tableService.SetItemQuantity(c.Request().Context(), id, productID, *req.Quantity); err != nil {
		switch {
		case errors.Is(err, services.ErrTableNotFound):
			return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
		case errors.Is(err, services.ErrLineNotFound):
			return common.SendError(c, http.StatusNotFound, "Producto no encontrado en el pedido")
		case errors.Is(err, services.ErrInvalidQuantity):
			return common.SendError(c, http.StatusBadRequest, "La cantidad debe ser un entero positivo")
		default:
			log.Printf("Error al modificar la cantidad del producto %d en el pedido de la mesa %d: %v", productID, id, err)
			return common.SendError(c, http.StatusInternalServerError, "Error al modificar la cantidad del producto de la mesa")
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": "Cantidad actualizada",
		"state":   models.StatusAwaiting,
	})
}

// Servir handles PUT /api/mesas/:id/servir.
func (h *TableHandlers) Servir(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
	}

	if err := h.tableService.MarkServed(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
		}
		log.Printf("Error al servir el pedido de la mesa %d: %v", id, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al servir el pedido")
	}
	return common.SendSuccess(c, "Pedido marcado como servido")
}

// DeleteProducto handles DELETE /api/mesas/:id/pedido/:productId. Removing a
// line that does not exist still succeeds.
func (h *TableHandlers) DeleteProducto(c echo.Context) error {
	id, okTable := common.ParseID(c.Param("id"))
	productID, okProduct := common.ParseID(c.Param("productId"))
	if !okTable || !okProduct {
		return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
	}

	if err := h.tableService.RemoveItem(c.Request().Context(), id, productID); err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
		}
		log.Printf("Error al eliminar el producto %d del pedido de la mesa %d: %v", productID, id, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al eliminar el producto del pedido de la mesa")
	}
	return common.SendSuccess(c, "Producto eliminado con éxito")
}

// Pagar handles DELETE /api/mesas/:id/pedido: the bill is settled, the order
// cleared and the table freed.
func (h *TableHandlers) Pagar(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
	}

	if err := h.tableService.Settle(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
		}
		log.Printf("Error al pagar el pedido de la mesa %d: %v", id, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al pagar")
	}
	return common.SendSuccess(c, "Pedido pagado y eliminado con éxito")
}

// GetEventos handles GET /api/mesas/:id/eventos, the table's audit trail.
func (h *TableHandlers) GetEventos(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return common.SendError(c, http.StatusNotFound, "Mesa no encontrada")
	}

	events, err := h.eventService.ListByTable(c.Request().Context(), id, 50)
	if err != nil {
		log.Printf("Error al obtener los eventos de la mesa %d: %v", id, err)
		return common.SendError(c, http.StatusInternalServerError, "Error al obtener los eventos de la mesa")
	}
	if events == nil {
		events = []*models.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

func (h *TableHandlers) pedidoNotFound(c echo.Context, id int) error {
	return c.JSON(http.StatusNotFound, map[string]any{
		"error":   "Mesa no encontrada",
		"tableId": id,
	})
}
