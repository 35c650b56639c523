package models

// Table is a physical table with its occupancy flag and, once something has
// been ordered, the embedded order document.
//
// Occupied keeps the polarity of the persisted documents: true means the
// table is FREE, false means it is occupied. Counter-intuitive, but the
// stored and wire format depend on it; everything else in the codebase goes
// through IsFree/intent-named operations instead of reading the flag raw.
type Table struct {
	ID       int    `json:"id" db:"id"`
	Occupied bool   `json:"occupied" db:"occupied"`
	Order    *Order `json:"order,omitempty" db:"order_doc"`
}

// IsFree reports whether the table is free. See the polarity note on Table.
func (t *Table) IsFree() bool {
	return t.Occupied
}

// OrderView is the normalized read model for GET pedido: a table with no
// order document yet answers with an empty product list and state "empty".
type OrderView struct {
	TableID  int         `json:"tableId"`
	Products []OrderLine `json:"products"`
	State    OrderStatus `json:"state"`
}

// NewOrderView builds the view for a table's order, normalizing the
// never-ordered case.
func NewOrderView(tableID int, order *Order) *OrderView {
	if order == nil {
		return &OrderView{
			TableID:  tableID,
			Products: []OrderLine{},
			State:    StatusEmpty,
		}
	}
	products := order.Products
	if products == nil {
		products = []OrderLine{}
	}
	return &OrderView{
		TableID:  tableID,
		Products: products,
		State:    order.State,
	}
}
