// Command seed-db loads a gzipped JSON bundle of reference data (categories,
// suppliers, products) into the database. Rows carry explicit identifiers and
// are upserted, so re-running the command is safe.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/northwind-api/internal/postgres"
)

type seedBundle struct {
	Categories []categoryJSON `json:"categories"`
	Suppliers  []supplierJSON `json:"suppliers"`
	Products   []productJSON  `json:"products"`
}

type categoryJSON struct {
	ID          int    `json:"id"`
	Name        string `json:"categoryName"`
	Description string `json:"description"`
}

type supplierJSON struct {
	ID           int    `json:"id"`
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName"`
	ContactTitle string `json:"contactTitle"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

type productJSON struct {
	ID              int             `json:"id"`
	Name            string          `json:"productName"`
	SupplierID      int             `json:"supplierId"`
	CategoryID      int             `json:"categoryId"`
	QuantityPerUnit string          `json:"quantityPerUnit"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	UnitsInStock    int             `json:"unitsInStock"`
	Discontinued    bool            `json:"discontinued"`
}

func main() {
	var (
		databaseURL string
		seedFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedFile, "seed-file", "db/seed/northwind.json.gz", "path to gzipped seed bundle")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedFile string) error {
	bundle, err := readBundle(seedFile)
	if err != nil {
		return errors.Wrap(err, "read seed bundle")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Categories and suppliers are independent; products reference both and
	// go in after.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return seedCategories(gctx, pool, bundle.Categories) })
	g.Go(func() error { return seedSuppliers(gctx, pool, bundle.Suppliers) })
	if err := g.Wait(); err != nil {
		return err
	}

	return seedProducts(ctx, pool, bundle.Products)
}

func readBundle(path string) (*seedBundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "gzip reader")
	}
	defer zr.Close()

	var bundle seedBundle
	if err := json.NewDecoder(zr).Decode(&bundle); err != nil {
		return nil, errors.Wrap(err, "parse JSON")
	}
	return &bundle, nil
}

const upsertCategorySQL = `
INSERT INTO categories (category_id, category_name, description)
VALUES ($1, $2, $3)
ON CONFLICT (category_id) DO UPDATE
SET category_name = EXCLUDED.category_name,
    description   = EXCLUDED.description`

func seedCategories(ctx context.Context, pool *pgxpool.Pool, categories []categoryJSON) error {
	slog.Info("upserting categories", slog.Int("count", len(categories)))

	for _, c := range categories {
		if _, err := pool.Exec(ctx, upsertCategorySQL, c.ID, c.Name, c.Description); err != nil {
			return errors.Wrapf(err, "upsert category %d", c.ID)
		}
	}
	return syncSequence(ctx, pool, "categories", "category_id")
}

const upsertSupplierSQL = `
INSERT INTO suppliers (supplier_id, company_name, contact_name, contact_title, city, country, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (supplier_id) DO UPDATE
SET company_name  = EXCLUDED.company_name,
    contact_name  = EXCLUDED.contact_name,
    contact_title = EXCLUDED.contact_title,
    city          = EXCLUDED.city,
    country       = EXCLUDED.country,
    phone         = EXCLUDED.phone`

func seedSuppliers(ctx context.Context, pool *pgxpool.Pool, suppliers []supplierJSON) error {
	slog.Info("upserting suppliers", slog.Int("count", len(suppliers)))

	for _, s := range suppliers {
		if _, err := pool.Exec(ctx, upsertSupplierSQL,
			s.ID, s.CompanyName, s.ContactName, s.ContactTitle, s.City, s.Country, s.Phone,
		); err != nil {
			return errors.Wrapf(err, "upsert supplier %d", s.ID)
		}
	}
	return syncSequence(ctx, pool, "suppliers", "supplier_id")
}

const upsertProductSQL = `
INSERT INTO products (product_id, product_name, supplier_id, category_id, quantity_per_unit, unit_price, units_in_stock, discontinued)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (product_id) DO UPDATE
SET product_name      = EXCLUDED.product_name,
    supplier_id       = EXCLUDED.supplier_id,
    category_id       = EXCLUDED.category_id,
    quantity_per_unit = EXCLUDED.quantity_per_unit,
    unit_price        = EXCLUDED.unit_price,
    units_in_stock    = EXCLUDED.units_in_stock,
    discontinued      = EXCLUDED.discontinued`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []productJSON) error {
	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.SupplierID, p.CategoryID,
			p.QuantityPerUnit, p.UnitPrice, p.UnitsInStock, p.Discontinued,
		); err != nil {
			return errors.Wrapf(err, "upsert product %d", p.ID)
		}
	}
	return syncSequence(ctx, pool, "products", "product_id")
}

// syncSequence bumps a serial sequence past the explicit identifiers we just
// inserted so subsequent API-created rows do not collide.
func syncSequence(ctx context.Context, pool *pgxpool.Pool, table, column string) error {
	_, err := pool.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence($1, $2), (SELECT COALESCE(MAX(`+column+`), 1) FROM `+table+`))`,
		table, column,
	)
	return errors.Wrapf(err, "sync %s sequence", table)
}
