package seed

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	defaultProductName = "Cotton Crew Neck Tee"
	defaultStyleName   = "Crew Neck Tee - Basic"
)

// defaultOperations is the demo rate card in its stored JSON form.
const defaultOperations = `[
	{"operation_name": "Cutting", "categories": [{"name": "Fabric cutting", "rate": 2.5}], "commission_percent": 0, "round_off": null},
	{"operation_name": "Stitching (Singer) - Shoulder & Neck", "categories": [{"name": "Shoulder join", "rate": 3}, {"name": "Neck rib attach", "rate": 4.5}], "commission_percent": 10, "round_off": null},
	{"operation_name": "Stitching (Power Table) - Overlock/Flatlock", "categories": [{"name": "Side seam overlock", "rate": 5}, {"name": "Bottom hem flatlock", "rate": 3.5}], "commission_percent": 10, "round_off": 9.5},
	{"operation_name": "Checking & Packing", "categories": [{"name": "QC", "rate": 1.5}, {"job_name": "Poly bag", "rate": 1}], "commission_percent": 0, "round_off": null}
]`

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureProduct(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureRateCard(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureProduct(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE name = ? LIMIT 1)`, defaultProductName).Scan(&exists); err != nil {
		return fmt.Errorf("check default product existence: %w", err)
	}
	if exists {
		return nil
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO products (name, base_price, discount_percent, active)
		VALUES (?, ?, ?, ?)
	`, defaultProductName, "500", "0", true)
	if err != nil {
		return fmt.Errorf("insert default product: %w", err)
	}
	stats.Inserts++

	productID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read default product id: %w", err)
	}

	for _, tier := range []struct {
		minQuantity int
		price       string
	}{
		{3, "1350"},
		{10, "4000"},
	} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO combo_tiers (product_id, min_quantity, price)
			VALUES (?, ?, ?)
		`, productID, tier.minQuantity, tier.price); err != nil {
			return fmt.Errorf("insert default combo tier: %w", err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureRateCard(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rate_cards WHERE style_name = ? LIMIT 1)`, defaultStyleName).Scan(&exists); err != nil {
		return fmt.Errorf("check default rate card existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rate_cards (style_name, rate_per_piece, operations_json, notes)
		VALUES (?, ?, ?, ?)
	`, defaultStyleName, "35", defaultOperations, "Demo CMT rate card"); err != nil {
		return fmt.Errorf("insert default rate card: %w", err)
	}
	stats.Inserts++
	return nil
}
