package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/stitchworks/internal/money"
	"github.com/Simplici0/stitchworks/internal/pricing"
)

// ErrNotFound is returned when a product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item with its combo tiers.
type Product struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	BasePrice       decimal.Decimal     `json:"base_price"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	Tiers           []pricing.ComboTier `json:"tiers"`
	Active          bool                `json:"active"`
}

// Quote prices qty units of p.
func Quote(p Product, qty int) pricing.ComboPriceResult {
	return pricing.ComputeComboPrice(qty, p.BasePrice, p.Tiers, p.DiscountPercent)
}

// Store persists products and their combo tiers.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a product and its tiers in one transaction.
func (s *Store) Create(ctx context.Context, p Product) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin product transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO products (name, base_price, discount_percent, active)
		VALUES (?, ?, ?, ?)
	`, p.Name, p.BasePrice.String(), p.DiscountPercent.String(), p.Active)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read product id: %w", err)
	}

	for _, tier := range p.Tiers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO combo_tiers (product_id, min_quantity, price)
			VALUES (?, ?, ?)
		`, id, tier.MinQuantity, tier.Price.String()); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert combo tier: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit product transaction: %w", err)
	}
	return id, nil
}

// Get loads a product and its tiers.
func (s *Store) Get(ctx context.Context, id int64) (Product, error) {
	var (
		p        Product
		base     string
		discount string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, base_price, discount_percent, active
		FROM products
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &base, &discount, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("query product %d: %w", id, err)
	}
	p.BasePrice = money.Coerce(base)
	p.DiscountPercent = money.Coerce(discount)

	tiers, err := s.tiers(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.Tiers = tiers
	return p, nil
}

// List returns all products, newest first, with their tiers.
func (s *Store) List(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, base_price, discount_percent, active
		FROM products
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var (
			p        Product
			base     string
			discount string
		)
		if err := rows.Scan(&p.ID, &p.Name, &base, &discount, &p.Active); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.BasePrice = money.Coerce(base)
		p.DiscountPercent = money.Coerce(discount)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	rows.Close()

	for i := range products {
		tiers, err := s.tiers(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Tiers = tiers
	}

	return products, nil
}

func (s *Store) tiers(ctx context.Context, productID int64) ([]pricing.ComboTier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT min_quantity, price
		FROM combo_tiers
		WHERE product_id = ?
		ORDER BY min_quantity ASC, id ASC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("query combo tiers: %w", err)
	}
	defer rows.Close()

	tiers := make([]pricing.ComboTier, 0)
	for rows.Next() {
		var (
			tier  pricing.ComboTier
			price string
		)
		if err := rows.Scan(&tier.MinQuantity, &price); err != nil {
			return nil, fmt.Errorf("scan combo tier: %w", err)
		}
		tier.Price = money.Coerce(price)
		tiers = append(tiers, tier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate combo tiers: %w", err)
	}
	return tiers, nil
}
