// =============================================================================
// Recycle Register - Purchase Ledger
// =============================================================================
//
// The ledger records sales on the purchases table: one row per item sold,
// carrying the checkout (customer) number and the item number. Item names and
// prices are never copied into the ledger; they are read through a joined
// view of purchases against the catalog, so a price corrected in the catalog
// shows up on every receipt.
//
// ROWS:
//   Ledger rows and view rows correspond 1:1 (the purchases table is the
//   view's main table), so a row number means the same sale in both.
//
// =============================================================================

package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/recycle-register/internal/catalog"
	"github.com/ginjaninja78/recycle-register/internal/relation"
	"github.com/ginjaninja78/recycle-register/internal/types"
)

// ErrBlankID is returned when a customer or item number is blank.
var ErrBlankID = errors.New("blank customer or item number")

// Columns locates the ledger fields.
type Columns struct {
	// Customer and Item are columns of the purchases table.
	Customer int
	Item     int

	// Name, Price and Discount are columns of the joined view.
	// Discount is -1 when the catalog has no discount column.
	Name     int
	Price    int
	Discount int
}

// Ledger records purchases and prices them through a joined view.
type Ledger struct {
	purchases *relation.MemTable
	view      *relation.JoinedView
	columns   Columns
}

// New binds a ledger to the purchases table and a view whose main table is
// purchases.
func New(purchases *relation.MemTable, view *relation.JoinedView, columns Columns) (*Ledger, error) {
	if view.Main() != relation.Table(purchases) {
		return nil, fmt.Errorf("%w: view is not joined on the purchases table", relation.ErrInvalidBinding)
	}

	checks := []struct {
		name   string
		column int
		width  int
	}{
		{"customer", columns.Customer, purchases.ColumnCount()},
		{"item", columns.Item, purchases.ColumnCount()},
		{"name", columns.Name, view.ColumnCount()},
		{"price", columns.Price, view.ColumnCount()},
	}
	for _, c := range checks {
		if c.column < 0 || c.column >= c.width {
			return nil, fmt.Errorf("%w: ledger %s column %d not in [0, %d)", relation.ErrInvalidBinding, c.name, c.column, c.width)
		}
	}
	if columns.Discount >= view.ColumnCount() {
		return nil, fmt.Errorf("%w: ledger discount column %d not in view", relation.ErrInvalidBinding, columns.Discount)
	}

	return &Ledger{purchases: purchases, view: view, columns: columns}, nil
}

// ViewColumns derives the view-space columns for a catalog joined to the
// right of a purchases table with purchaseWidth columns.
func ViewColumns(customer, item, purchaseWidth int, c catalog.Columns) Columns {
	discount := -1
	if c.Discount >= 0 {
		discount = purchaseWidth + c.Discount
	}
	return Columns{
		Customer: customer,
		Item:     item,
		Name:     purchaseWidth + c.Name,
		Price:    purchaseWidth + c.Price,
		Discount: discount,
	}
}

// =============================================================================
// RECORDING
// =============================================================================

// AddItem appends a sale and returns its row.
func (l *Ledger) AddItem(customerID, itemID string) (int, error) {
	customerID = strings.TrimSpace(customerID)
	itemID = strings.TrimSpace(itemID)
	if customerID == "" || itemID == "" {
		return -1, ErrBlankID
	}

	row := make([]relation.Value, l.purchases.ColumnCount())
	row[l.columns.Customer] = relation.Text(customerID)
	row[l.columns.Item] = relation.Text(itemID)

	at, err := l.purchases.AppendRow(row...)
	if err != nil {
		return -1, fmt.Errorf("failed to record item %s: %w", itemID, err)
	}
	return at, nil
}

// RemoveItem deletes the sale at row.
func (l *Ledger) RemoveItem(row int) error {
	if err := l.purchases.RemoveRows(row, 1); err != nil {
		return fmt.Errorf("failed to remove row %d: %w", row, err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Len returns the number of recorded sales.
func (l *Ledger) Len() int {
	return l.purchases.RowCount()
}

// RowsForCustomer returns the rows recorded under customerID, in order.
func (l *Ledger) RowsForCustomer(customerID string) ([]int, error) {
	customerID = strings.TrimSpace(customerID)

	var rows []int
	for row := 0; row < l.purchases.RowCount(); row++ {
		v, err := l.purchases.Cell(row, l.columns.Customer)
		if err != nil {
			return nil, err
		}
		if v.String() == customerID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// NextCustomerID returns one more than the highest numeric customer number
// in the ledger, starting at "1". Non-numeric numbers are ignored.
func (l *Ledger) NextCustomerID() (string, error) {
	highest := 0
	for row := 0; row < l.purchases.RowCount(); row++ {
		v, err := l.purchases.Cell(row, l.columns.Customer)
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(v.String())); err == nil && n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1), nil
}

// Purchase reads one sale through the view.
func (l *Ledger) Purchase(row int) (types.Purchase, error) {
	read := func(column int) (relation.Value, error) {
		v, err := l.view.Cell(row, column)
		if err != nil {
			return relation.NoValue, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		return v, nil
	}

	customer, err := read(l.columns.Customer)
	if err != nil {
		return types.Purchase{}, err
	}
	item, err := read(l.columns.Item)
	if err != nil {
		return types.Purchase{}, err
	}
	p := types.Purchase{Row: row, CustomerID: customer.String(), ItemID: item.String()}

	name, err := read(l.columns.Name)
	if err != nil {
		return types.Purchase{}, err
	}
	price, err := read(l.columns.Price)
	if err != nil {
		return types.Purchase{}, err
	}

	if _, matched := l.view.Mapper().ToSource(relation.Coordinate{Row: row, Column: l.columns.Price}); !matched {
		return p, nil
	}
	p.Matched = true
	p.Name = name.String()

	p.Price, err = catalog.ParsePrice(price.String())
	if err != nil {
		return types.Purchase{}, fmt.Errorf("row %d: %w", row, err)
	}

	if l.columns.Discount >= 0 {
		discount, err := read(l.columns.Discount)
		if err != nil {
			return types.Purchase{}, err
		}
		if !discount.IsEmpty() {
			if p.Price, err = catalog.ParsePrice(discount.String()); err != nil {
				return types.Purchase{}, fmt.Errorf("row %d discount: %w", row, err)
			}
		}
	}

	return p, nil
}

// Price returns the price charged for the sale at row, and false when the
// item is not in the catalog.
func (l *Ledger) Price(row int) (decimal.Decimal, bool, error) {
	p, err := l.Purchase(row)
	if err != nil {
		return decimal.Zero, false, err
	}
	return p.Price, p.Matched, nil
}

// Receipt lists the purchases of one customer with their total.
func (l *Ledger) Receipt(customerID string) (types.Receipt, error) {
	rows, err := l.RowsForCustomer(customerID)
	if err != nil {
		return types.Receipt{}, err
	}

	receipt := types.Receipt{CustomerID: strings.TrimSpace(customerID), Total: decimal.Zero}
	for _, row := range rows {
		p, err := l.Purchase(row)
		if err != nil {
			return types.Receipt{}, err
		}
		receipt.Lines = append(receipt.Lines, p)
		if p.Matched {
			receipt.Total = receipt.Total.Add(p.Price)
		} else {
			receipt.Unmatched++
		}
	}

	return receipt, nil
}

// Total returns the amount owed by customerID.
func (l *Ledger) Total(customerID string) (decimal.Decimal, error) {
	receipt, err := l.Receipt(customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return receipt.Total, nil
}
