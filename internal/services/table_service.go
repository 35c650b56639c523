package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"comanda/internal/models"
	"comanda/internal/repositories"
)

// casAttempts bounds the retry loop of the read-merge-write operations. Two
// writers for the same table rarely collide more than once; past this the
// contention is surfaced as a store failure.
const casAttempts = 3

// TableService owns the table-order state machine. Every operation is atomic
// at the level of one mesa document; the multi-step ones (add, set quantity,
// remove) run a compare-and-swap loop on the document version so concurrent
// writers can never duplicate a line.
type TableService interface {
	ListTables(ctx context.Context) ([]*models.Table, error)
	GetTable(ctx context.Context, id int) (*models.Table, error)
	GetOrder(ctx context.Context, tableID int) (*models.OrderView, error)
	Occupy(ctx context.Context, id int) error
	Free(ctx context.Context, id int) error
	// AddItem merges quantity into an existing line or appends a snapshot of
	// the product, leaving the order "en espera". Returns the line quantity
	// after the merge.
	AddItem(ctx context.Context, tableID, productID, quantity int) (int, error)
	// SetItemQuantity replaces the quantity of an existing line.
	SetItemQuantity(ctx context.Context, tableID, productID, quantity int) error
	RemoveItem(ctx context.Context, tableID, productID int) error
	MarkServed(ctx context.Context, tableID int) error
	// Settle clears the order, marks it "pagado" and frees the table.
	Settle(ctx context.Context, tableID int) error
}

type tableService struct {
	tableRepo repositories.TableRepository
	menuRepo  repositories.MenuRepository
	events    EventLogService
}

func NewTableService(tableRepo repositories.TableRepository, menuRepo repositories.MenuRepository, events EventLogService) TableService {
	return &tableService{
		tableRepo: tableRepo,
		menuRepo:  menuRepo,
		events:    events,
	}
}

func (s *tableService) ListTables(ctx context.Context) ([]*models.Table, error) {
	return s.tableRepo.List(ctx)
}

func (s *tableService) GetTable(ctx context.Context, id int) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return table, nil
}

func (s *tableService) GetOrder(ctx context.Context, tableID int) (*models.OrderView, error) {
	order, _, err := s.tableRepo.GetOrderDocument(ctx, tableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return models.NewOrderView(tableID, order), nil
}

func (s *tableService) Occupy(ctx context.Context, id int) error {
	// Occupied=false means taken; see the polarity note on models.Table.
	matched, err := s.tableRepo.SetOccupied(ctx, id, false)
	if err != nil {
		return err
	}
	if !matched {
		return ErrTableNotFound
	}
	s.events.Record(ctx, id, "ocupar", nil)
	return nil
}

func (s *tableService) Free(ctx context.Context, id int) error {
	matched, err := s.tableRepo.SetOccupied(ctx, id, true)
	if err != nil {
		return err
	}
	if !matched {
		return ErrTableNotFound
	}
	s.events.Record(ctx, id, "liberar", nil)
	return nil
}

func (s *tableService) AddItem(ctx context.Context, tableID, productID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}

	// Table existence first, then the menu lookup, so a bad table id never
	// reports a missing product.
	order, version, err := s.getOrderDocument(ctx, tableID)
	if err != nil {
		return 0, err
	}

	product, err := s.menuRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		if attempt > 0 {
			if order, version, err = s.getOrderDocument(ctx, tableID); err != nil {
				return 0, err
			}
		}
		if order == nil {
			order = models.NewOrder()
		}
		newQuantity := order.AddProduct(product, quantity)

		swapped, err := s.tableRepo.CompareAndSwapOrder(ctx, tableID, version, order)
		if err != nil {
			return 0, err
		}
		if swapped {
			s.events.Record(ctx, tableID, "pedido:añadir", map[string]any{
				"productId": productID,
				"quantity":  quantity,
			})
			return newQuantity, nil
		}
	}
	return 0, fmt.Errorf("pedido update for table %d lost %d version races", tableID, casAttempts)
}

func (s *tableService) SetItemQuantity(ctx context.Context, tableID, productID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		order, version, err := s.getOrderDocument(ctx, tableID)
		if err != nil {
			return err
		}
		if order == nil || !order.SetQuantity(productID, quantity) {
			return ErrLineNotFound
		}

		swapped, err := s.tableRepo.CompareAndSwapOrder(ctx, tableID, version, order)
		if err != nil {
			return err
		}
		if swapped {
			s.events.Record(ctx, tableID, "pedido:cantidad", map[string]any{
				"productId": productID,
				"quantity":  quantity,
			})
			return nil
		}
	}
	return fmt.Errorf("pedido update for table %d lost %d version races", tableID, casAttempts)
}

func (s *tableService) RemoveItem(ctx context.Context, tableID, productID int) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		order, version, err := s.getOrderDocument(ctx, tableID)
		if err != nil {
			return err
		}
		// Removing from a table that never ordered, or a line that is not
		// there, succeeds without writing anything.
		if order == nil || !order.RemoveProduct(productID) {
			return nil
		}

		swapped, err := s.tableRepo.CompareAndSwapOrder(ctx, tableID, version, order)
		if err != nil {
			return err
		}
		if swapped {
			s.events.Record(ctx, tableID, "pedido:eliminar", map[string]any{
				"productId": productID,
			})
			return nil
		}
	}
	return fmt.Errorf("pedido update for table %d lost %d version races", tableID, casAttempts)
}

func (s *tableService) MarkServed(ctx context.Context, tableID int) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		order, version, err := s.getOrderDocument(ctx, tableID)
		if err != nil {
			return err
		}
		// No order document means nothing has been ordered yet; there is no
		// status to flip and the call succeeds as a no-op.
		if order == nil {
			return nil
		}
		order.MarkServed()

		swapped, err := s.tableRepo.CompareAndSwapOrder(ctx, tableID, version, order)
		if err != nil {
			return err
		}
		if swapped {
			s.events.Record(ctx, tableID, "servir", nil)
			return nil
		}
	}
	return fmt.Errorf("pedido update for table %d lost %d version races", tableID, casAttempts)
}

func (s *tableService) Settle(ctx context.Context, tableID int) error {
	matched, err := s.tableRepo.Settle(ctx, tableID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrTableNotFound
	}
	s.events.Record(ctx, tableID, "pagar", nil)
	return nil
}

func (s *tableService) getOrderDocument(ctx context.Context, tableID int) (*models.Order, int64, error) {
	order, version, err := s.tableRepo.GetOrderDocument(ctx, tableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrTableNotFound
		}
		return nil, 0, err
	}
	return order, version, nil
}
