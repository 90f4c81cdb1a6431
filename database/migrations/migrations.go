// Package migrations holds the schema of the inventory image and the
// migrations of the reporting mirror. Mirror migrations register
// themselves from init(); importing this package is enough to make them
// visible to the runner.
package migrations

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/pkg/orm"
)

// ProductsTableDDL is the products table as every image must carry it.
const ProductsTableDDL = `CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	unitPrice REAL NOT NULL,
	quantity INTEGER NOT NULL,
	category TEXT
)`

// legacyTable is where images written by the browser app keep their rows,
// with Portuguese column names.
const legacyTable = "produtos"

const copyLegacyRows = `INSERT INTO products (id, name, unitPrice, quantity, category)
	SELECT id, nome, preco, quantidade, categoria FROM produtos`

// EnsureProductsTable creates the products table when it is missing. It
// never alters an existing table. An image that still carries the browser
// app's produtos table gets its rows moved into an empty products table,
// and produtos is dropped so deleted rows cannot come back on a later open.
func EnsureProductsTable(ctx context.Context, db *gorm.DB) error {
	if err := orm.On(ctx, db).Exec(ProductsTableDDL); err != nil {
		return fmt.Errorf("ensure products table: %w", err)
	}
	if err := adoptLegacyRows(ctx, db); err != nil {
		return fmt.Errorf("ensure products table: %w", err)
	}
	return nil
}

func adoptLegacyRows(ctx context.Context, db *gorm.DB) error {
	var tables int64
	if err := orm.On(ctx, db).Scan(&tables,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, legacyTable); err != nil {
		return fmt.Errorf("look up %s: %w", legacyTable, err)
	}
	if tables == 0 {
		return nil
	}

	var rows int64
	if err := orm.On(ctx, db).Scan(&rows, `SELECT count(*) FROM products`); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if rows > 0 {
		return nil
	}

	return orm.On(ctx, db).Transaction(func(tx *orm.Query) error {
		if err := tx.Exec(copyLegacyRows); err != nil {
			return fmt.Errorf("copy %s rows: %w", legacyTable, err)
		}
		if err := tx.Exec("DROP TABLE " + legacyTable); err != nil {
			return fmt.Errorf("drop %s: %w", legacyTable, err)
		}
		return nil
	})
}
