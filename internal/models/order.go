package models

// OrderStatus is the lifecycle state of a table's order. The stored values
// are the literal Spanish strings of the persisted documents; keeping them
// behind a closed type stops a typo from silently inventing a new state.
type OrderStatus string

const (
	// StatusEmpty is never persisted. It is the read-side answer for a table
	// that has no order document yet.
	StatusEmpty    OrderStatus = "empty"
	StatusAwaiting OrderStatus = "en espera"
	StatusServed   OrderStatus = "servido"
	StatusPaid     OrderStatus = "pagado"
)

// OrderLine is a denormalized snapshot of a product at the time it was added
// to the order, plus its quantity. At most one line exists per product id.
type OrderLine struct {
	ProductID int     `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Order is the active tab embedded in a table document. Products keep
// insertion order, which is also display order.
type Order struct {
	State    OrderStatus `json:"state"`
	Products []OrderLine `json:"products"`
}

// NewOrder returns an empty order awaiting its first product.
func NewOrder() *Order {
	return &Order{
		State:    StatusAwaiting,
		Products: []OrderLine{},
	}
}

// AddProduct merges the requested quantity into an existing line for the
// product, or appends a new snapshot line. Either way the order goes (back)
// to "en espera". Returns the line quantity after the merge.
func (o *Order) AddProduct(p *Product, quantity int) int {
	o.State = StatusAwaiting
	for i := range o.Products {
		if o.Products[i].ProductID == p.ID {
			o.Products[i].Quantity += quantity
			return o.Products[i].Quantity
		}
	}
	o.Products = append(o.Products, OrderLine{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  quantity,
	})
	return quantity
}

// SetQuantity replaces (not accumulates) the quantity of the line for
// productID and sets the order back to "en espera". Returns false when no
// such line exists; the order is left untouched in that case.
func (o *Order) SetQuantity(productID, quantity int) bool {
	for i := range o.Products {
		if o.Products[i].ProductID == productID {
			o.Products[i].Quantity = quantity
			o.State = StatusAwaiting
			return true
		}
	}
	return false
}

// RemoveProduct drops the line for productID. Removing a line that is not
// there is not an error. Status is deliberately left alone.
func (o *Order) RemoveProduct(productID int) bool {
	for i := range o.Products {
		if o.Products[i].ProductID == productID {
			o.Products = append(o.Products[:i], o.Products[i+1:]...)
			return true
		}
	}
	return false
}

// MarkServed flips the order to "servido". There is no prior-status guard;
// serving an order that was never awaiting is allowed.
func (o *Order) MarkServed() {
	o.State = StatusServed
}

// Settle clears the tab: no products, state "pagado". The next AddProduct on
// the same shell starts a fresh cycle.
func (o *Order) Settle() {
	o.Products = []OrderLine{}
	o.State = StatusPaid
}

// SettledOrder is the document written by the pay-and-clear operation.
func SettledOrder() *Order {
	return &Order{
		State:    StatusPaid,
		Products: []OrderLine{},
	}
}
