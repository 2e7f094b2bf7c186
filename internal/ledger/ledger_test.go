package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/recycle-register/internal/catalog"
	"github.com/ginjaninja78/recycle-register/internal/relation"
)

type fixture struct {
	items     *relation.MemTable
	purchases *relation.MemTable
	view      *relation.JoinedView
	ledger    *Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	items, err := relation.NewTextTable("raw", [][]string{
		{"Item No", "Name", "Price", "Discount"},
		{"10001", "Teapot", "500", ""},
		{"10002", "Lamp", "1200", "800"},
		{"10003", "Vase", "300", ""},
	}, 1)
	require.NoError(t, err)

	purchases, err := relation.NewTextTable("会計録", [][]string{
		{"会計番号", "商品番号"},
		{"1", "10001"},
		{"1", "10002"},
		{"2", "10003"},
	}, 1)
	require.NoError(t, err)

	view, err := relation.NewJoinedView(purchases, 1, items, 0)
	require.NoError(t, err)
	t.Cleanup(view.Close)

	cols := ViewColumns(0, 1, purchases.ColumnCount(), catalog.Columns{Key: 0, Name: 1, Price: 2, Discount: 3})
	l, err := New(purchases, view, cols)
	require.NoError(t, err)

	return &fixture{items: items, purchases: purchases, view: view, ledger: l}
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func TestViewColumns(t *testing.T) {
	cols := ViewColumns(0, 1, 2, catalog.Columns{Key: 0, Name: 1, Price: 2, Discount: 3})
	assert.Equal(t, Columns{Customer: 0, Item: 1, Name: 3, Price: 4, Discount: 5}, cols)

	cols = ViewColumns(0, 1, 2, catalog.Columns{Key: 0, Name: 1, Price: 2, Discount: -1})
	assert.Equal(t, -1, cols.Discount)
}

func TestReceipt(t *testing.T) {
	f := newFixture(t)

	receipt, err := f.ledger.Receipt("1")
	require.NoError(t, err)

	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, "Teapot", receipt.Lines[0].Name)
	assert.True(t, dec(500).Equal(receipt.Lines[0].Price))
	assert.Equal(t, "Lamp", receipt.Lines[1].Name)
	assert.True(t, dec(800).Equal(receipt.Lines[1].Price), "discount price is charged")
	assert.True(t, dec(1300).Equal(receipt.Total))
	assert.Zero(t, receipt.Unmatched)
}

func TestAddItem_PricedThroughView(t *testing.T) {
	f := newFixture(t)

	row, err := f.ledger.AddItem("2", "10001")
	require.NoError(t, err)
	assert.Equal(t, 3, row)

	price, ok, err := f.ledger.Price(row)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, dec(500).Equal(price))

	total, err := f.ledger.Total("2")
	require.NoError(t, err)
	assert.True(t, dec(800).Equal(total))
}

func TestAddItem_UnknownItem(t *testing.T) {
	f := newFixture(t)

	row, err := f.ledger.AddItem("3", "99999")
	require.NoError(t, err)

	p, err := f.ledger.Purchase(row)
	require.NoError(t, err)
	assert.False(t, p.Matched)
	assert.Equal(t, "99999", p.ItemID)

	receipt, err := f.ledger.Receipt("3")
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Unmatched)
	assert.True(t, receipt.Total.IsZero())
}

func TestAddItem_BlankIDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.AddItem(" ", "10001")
	assert.ErrorIs(t, err, ErrBlankID)
	_, err = f.ledger.AddItem("1", "")
	assert.ErrorIs(t, err, ErrBlankID)
	assert.Equal(t, 3, f.ledger.Len())
}

func TestRemoveItem_KeepsViewAligned(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ledger.RemoveItem(0))

	p, err := f.ledger.Purchase(0)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)

	total, err := f.ledger.Total("1")
	require.NoError(t, err)
	assert.True(t, dec(800).Equal(total))

	assert.ErrorIs(t, f.ledger.RemoveItem(5), relation.ErrOutOfRange)
}

func TestCatalogPriceChangeShowsOnReceipt(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.items.SetCell(0, 2, relation.Text("450")))

	total, err := f.ledger.Total("1")
	require.NoError(t, err)
	assert.True(t, dec(1250).Equal(total))
}

func TestRowsForCustomerAndNextCustomerID(t *testing.T) {
	f := newFixture(t)

	rows, err := f.ledger.RowsForCustomer("1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rows)

	next, err := f.ledger.NextCustomerID()
	require.NoError(t, err)
	assert.Equal(t, "3", next)

	_, err = f.ledger.AddItem("walk-in", "10001")
	require.NoError(t, err)
	next, err = f.ledger.NextCustomerID()
	require.NoError(t, err)
	assert.Equal(t, "3", next, "non-numeric numbers are ignored")
}

func TestNew_RejectsForeignView(t *testing.T) {
	f := newFixture(t)

	other := relation.NewMemTable("other", []string{"会計番号", "商品番号"})
	_, err := New(other, f.view, Columns{Customer: 0, Item: 1, Name: 3, Price: 4, Discount: -1})
	assert.ErrorIs(t, err, relation.ErrInvalidBinding)
}
