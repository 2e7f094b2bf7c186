// =============================================================================
// Recycle Register - Item Catalog
// =============================================================================
//
// The catalog answers "what is item N and what does it cost" from the item
// sheet. It reads straight from a relation.Table and keeps a key index that
// is marked stale on every table event and rebuilt on the next lookup.
//
// PRICES:
//   Prices are parsed with shopspring/decimal. Currency marks and thousands
//   separators ("¥1,200", "1,200円") are stripped first. A blank discount
//   cell means the item is not marked down.
//
// =============================================================================

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/recycle-register/internal/relation"
	"github.com/ginjaninja78/recycle-register/internal/types"
)

// ErrBadPrice is returned when a price cell is not a number.
var ErrBadPrice = errors.New("invalid price")

// Columns locates the catalog fields. Column indices are 0-based.
type Columns struct {
	Key      int
	Name     int
	Price    int
	Discount int // -1 when the catalog has no discount column
}

// Catalog looks items up by item number.
type Catalog struct {
	table   relation.Table
	columns Columns

	index  relation.KeyIndex
	stale  bool
	cancel func()
}

// New binds a catalog to table.
//
// RETURNS:
//   - The catalog.
//   - An error wrapping relation.ErrInvalidBinding if a column is outside
//     the table.
func New(table relation.Table, columns Columns) (*Catalog, error) {
	width := table.ColumnCount()
	checks := []struct {
		name   string
		column int
	}{
		{"key", columns.Key},
		{"name", columns.Name},
		{"price", columns.Price},
	}
	for _, c := range checks {
		if c.column < 0 || c.column >= width {
			return nil, fmt.Errorf("%w: catalog %s column %d not in [0, %d)", relation.ErrInvalidBinding, c.name, c.column, width)
		}
	}
	if columns.Discount >= width || columns.Discount < -1 {
		return nil, fmt.Errorf("%w: catalog discount column %d not in [-1, %d)", relation.ErrInvalidBinding, columns.Discount, width)
	}

	c := &Catalog{table: table, columns: columns, stale: true}
	c.cancel = table.Subscribe(func(relation.Event) { c.stale = true })

	return c, nil
}

// Close stops tracking the table.
func (c *Catalog) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Columns returns the column binding.
func (c *Catalog) Columns() Columns {
	return c.columns
}

// Find returns the item with the given number.
//
// RETURNS:
//   - The item and true when found.
//   - false when no row carries itemID.
//   - An error if the row cannot be read or a price is malformed.
func (c *Catalog) Find(itemID string) (types.Item, bool, error) {
	if c.stale || c.index == nil {
		index, err := relation.BuildKeyIndex(c.table, c.columns.Key)
		if err != nil {
			return types.Item{}, false, fmt.Errorf("failed to index catalog: %w", err)
		}
		c.index = index
		c.stale = false
	}

	row, ok := c.index.Lookup(relation.Text(strings.TrimSpace(itemID)))
	if !ok {
		return types.Item{}, false, nil
	}

	item, err := c.item(row)
	if err != nil {
		return types.Item{}, false, err
	}
	return item, true, nil
}

// Items returns every catalog row with a non-empty item number.
func (c *Catalog) Items() ([]types.Item, error) {
	var items []types.Item
	for row := 0; row < c.table.RowCount(); row++ {
		key, err := c.table.Cell(row, c.columns.Key)
		if err != nil {
			return nil, err
		}
		if key.IsEmpty() {
			continue
		}

		item, err := c.item(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// item reads one catalog row.
func (c *Catalog) item(row int) (types.Item, error) {
	read := func(column int) (relation.Value, error) {
		v, err := c.table.Cell(row, column)
		if err != nil {
			return relation.NoValue, fmt.Errorf("failed to read catalog row %d: %w", row, err)
		}
		return v, nil
	}

	key, err := read(c.columns.Key)
	if err != nil {
		return types.Item{}, err
	}
	name, err := read(c.columns.Name)
	if err != nil {
		return types.Item{}, err
	}
	price, err := read(c.columns.Price)
	if err != nil {
		return types.Item{}, err
	}

	item := types.Item{ID: key.String(), Name: name.String(), Row: row}

	item.InitialPrice, err = ParsePrice(price.String())
	if err != nil {
		return types.Item{}, fmt.Errorf("item %s: %w", item.ID, err)
	}

	if c.columns.Discount >= 0 {
		discount, err := read(c.columns.Discount)
		if err != nil {
			return types.Item{}, err
		}
		if !discount.IsEmpty() {
			d, err := ParsePrice(discount.String())
			if err != nil {
				return types.Item{}, fmt.Errorf("item %s discount: %w", item.ID, err)
			}
			item.DiscountPrice = decimal.NewNullDecimal(d)
		}
	}

	return item, nil
}

// priceReplacer strips currency marks and separators.
var priceReplacer = strings.NewReplacer(",", "", "¥", "", "￥", "", "円", "", "$", "", " ", "", "　", "")

// ParsePrice parses a price cell. A blank cell is zero.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := priceReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	return d, nil
}
