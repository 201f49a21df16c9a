// Package catalog reads printable items from the shop's product database.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet/product"
)

// ErrNotFound is returned by Item for an unknown identifier.
var ErrNotFound = errors.New("catalog: product not found")

// Filter narrows Items. The zero Filter selects every product.
type Filter struct {
	Prefix      string // identifier prefix, e.g. "AC01"
	InStockOnly bool   // skip products with quantity 0
	Limit       int    // 0 means no limit
}

// Store reads products from a products table with the columns sku, title,
// subtitle, price and quantity.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// New wraps an open database handle.
func New(db *sql.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Open connects to Postgres at url through the pgx driver and checks the
// connection.
func Open(ctx context.Context, url string, maxOpenConns int, log *zap.Logger) (*Store, error) {
	if url == "" {
		return nil, errors.New("catalog: database url is empty")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("catalog: opening database: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: connecting: %w", err)
	}
	return New(db, log), nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const selectProducts = `SELECT sku, title, subtitle, price, quantity FROM products`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Items returns the products matching f ordered by identifier.
func (s *Store) Items(ctx context.Context, f Filter) ([]product.Item, error) {
	var (
		where []string
		args  []any
	)
	if f.Prefix != "" {
		args = append(args, likeEscaper.Replace(f.Prefix)+"%")
		where = append(where, fmt.Sprintf("sku LIKE $%d", len(args)))
	}
	if f.InStockOnly {
		where = append(where, "quantity > 0")
	}
	query := selectProducts
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sku"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: querying products: %w", err)
	}
	defer rows.Close()

	var items []product.Item
	for rows.Next() {
		it, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: reading products: %w", err)
	}
	s.log.Debug("products loaded",
		zap.String("prefix", f.Prefix),
		zap.Bool("in_stock_only", f.InStockOnly),
		zap.Int("count", len(items)))
	return items, nil
}

// Item returns one product by identifier.
func (s *Store) Item(ctx context.Context, identifier string) (product.Item, error) {
	row := s.db.QueryRowContext(ctx, selectProducts+` WHERE sku = $1`, identifier)
	it, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return product.Item{}, fmt.Errorf("%w: %q", ErrNotFound, identifier)
	}
	return it, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner) (product.Item, error) {
	var (
		sku, title, subtitle sql.NullString
		price, quantity      sql.NullInt64
	)
	if err := sc.Scan(&sku, &title, &subtitle, &price, &quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.Item{}, err
		}
		return product.Item{}, fmt.Errorf("catalog: scanning product: %w", err)
	}
	it, err := product.New(sku.String, title.String, subtitle.String, int(price.Int64), int(quantity.Int64))
	if err != nil {
		return product.Item{}, fmt.Errorf("catalog: %w", err)
	}
	return it, nil
}
