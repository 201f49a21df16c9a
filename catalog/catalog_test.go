package catalog

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicflow/tagsheet/product"
)

var columns = []string{"sku", "title", "subtitle", "price", "quantity"}

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, nil), mock
}

func TestItemsAll(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT sku, title, subtitle, price, quantity FROM products ORDER BY sku`)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("AC0101", "Lavender", "Soy candle", 120, 6).
			AddRow("AC0102", " Cedar ", nil, 140, 0))

	items, err := store.Items(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, product.Item{Identifier: "AC0101", Title: "Lavender", Subtitle: "Soy candle", Price: 120, Quantity: 6}, items[0])
	assert.Equal(t, "Cedar", items[1].Title)
	assert.Empty(t, items[1].Subtitle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemsFiltered(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT sku, title, subtitle, price, quantity FROM products WHERE sku LIKE $1 AND quantity > 0 ORDER BY sku LIMIT $2`)).
		WithArgs(`AC\_01%`, 10).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("AC_0101", "Lavender", "", 120, 1))

	items, err := store.Items(context.Background(), Filter{Prefix: "AC_01", InStockOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemsQueryError(t *testing.T) {
	store, mock := newStore(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT`).WillReturnError(boom)

	_, err := store.Items(context.Background(), Filter{})
	assert.ErrorIs(t, err, boom)
}

func TestItemsInvalidRow(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("", "Nameless", "", 10, 1))

	_, err := store.Items(context.Background(), Filter{})
	assert.ErrorIs(t, err, product.ErrInvalidItem)
}

func TestItemsRowError(t *testing.T) {
	store, mock := newStore(t)
	boom := errors.New("network")
	mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("AC0101", "Lavender", "", 120, 1).
			RowError(0, boom))

	_, err := store.Items(context.Background(), Filter{})
	assert.ErrorIs(t, err, boom)
}

func TestItem(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE sku = $1`)).
		WithArgs("AC0101").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("AC0101", "Lavender", "", 120, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE sku = $1`)).
		WithArgs("ZZ9999").
		WillReturnError(sql.ErrNoRows)

	it, err := store.Item(context.Background(), "AC0101")
	require.NoError(t, err)
	assert.Equal(t, 2, it.Quantity)

	_, err = store.Item(context.Background(), "ZZ9999")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenEmptyURL(t *testing.T) {
	_, err := Open(context.Background(), "", 0, nil)
	assert.Error(t, err)
}
