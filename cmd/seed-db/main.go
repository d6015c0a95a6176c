// Command seed-db loads the catalog, branches and promotions from a JSON
// file into the database. Existing rows are updated in place, so the seeder
// is safe to re-run.
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
	"github.com/shopspring/decimal"

	"github.com/leandrosq/pizzaria-backend/internal/domain/branch"
	"github.com/leandrosq/pizzaria-backend/internal/domain/catalog"
	"github.com/leandrosq/pizzaria-backend/internal/domain/customer"
	"github.com/leandrosq/pizzaria-backend/internal/domain/promotion"
	"github.com/leandrosq/pizzaria-backend/internal/storage/postgres"
)

type seedFile struct {
	Sizes       []catalog.Size        `json:"sizes"`
	Flavors     []catalog.Flavor      `json:"flavors"`
	Complements []catalog.Complement  `json:"complements"`
	Drinks      []catalog.Drink       `json:"drinks"`
	Branches    []branch.Branch       `json:"branches"`
	Customers   []customer.Customer   `json:"customers"`
	Promotions  []promotion.Promotion `json:"promotions"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/catalog.json", "path to catalog seed JSON file")
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

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	slog.Info("reading seed file", slog.String("path", seedPath))

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
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

	if err := seedCatalog(ctx, pool, &seed); err != nil {
		return err
	}
	if err := seedBranches(ctx, pool, seed.Branches); err != nil {
		return err
	}
	if err := seedCustomers(ctx, pool, seed.Customers); err != nil {
		return err
	}
	return seedPromotions(ctx, pool, seed.Promotions)
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, seed *seedFile) error {
	slog.Info("upserting sizes", slog.Int("count", len(seed.Sizes)))
	for _, s := range seed.Sizes {
		_, err := pool.Exec(ctx, `
			INSERT INTO pizza_sizes (id, name, slices)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = $2, slices = $3`,
			s.ID, s.Name, s.Slices)
		if err != nil {
			return errors.Wrapf(err, "upsert size %s", s.ID)
		}
	}

	slog.Info("upserting flavors", slog.Int("count", len(seed.Flavors)))
	for _, f := range seed.Flavors {
		if !f.Type.Valid() {
			return errors.Errorf("flavor %s: unknown type %q", f.ID, f.Type)
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO pizza_flavors (id, name, ingredients, price, type)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET name = $2, ingredients = $3, price = $4, type = $5`,
			f.ID, f.Name, f.Ingredients, f.Price, string(f.Type))
		if err != nil {
			return errors.Wrapf(err, "upsert flavor %s", f.ID)
		}
	}

	slog.Info("upserting complements", slog.Int("count", len(seed.Complements)))
	for _, c := range seed.Complements {
		_, err := pool.Exec(ctx, `
			INSERT INTO pizza_complements (id, name, price)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = $2, price = $3`,
			c.ID, c.Name, c.Price)
		if err != nil {
			return errors.Wrapf(err, "upsert complement %s", c.ID)
		}
	}

	slog.Info("upserting drinks", slog.Int("count", len(seed.Drinks)))
	for _, d := range seed.Drinks {
		_, err := pool.Exec(ctx, `
			INSERT INTO drinks (id, name, price)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = $2, price = $3`,
			d.ID, d.Name, d.Price)
		if err != nil {
			return errors.Wrapf(err, "upsert drink %s", d.ID)
		}
	}
	return nil
}

func seedBranches(ctx context.Context, pool *pgxpool.Pool, branches []branch.Branch) error {
	slog.Info("upserting branches", slog.Int("count", len(branches)))
	for _, b := range branches {
		_, err := pool.Exec(ctx, `
			INSERT INTO branches (id, name, address, phone)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = $2, address = $3, phone = $4`,
			b.ID, b.Name, b.Address, b.Phone)
		if err != nil {
			return errors.Wrapf(err, "upsert branch %s", b.ID)
		}
	}
	return nil
}

func seedCustomers(ctx context.Context, pool *pgxpool.Pool, customers []customer.Customer) error {
	slog.Info("upserting customers", slog.Int("count", len(customers)))
	for _, c := range customers {
		_, err := pool.Exec(ctx, `
			INSERT INTO customers (id, name, phone, address)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = $2, phone = $3, address = $4`,
			c.ID, c.Name, c.Phone, c.Address)
		if err != nil {
			return errors.Wrapf(err, "upsert customer %s", c.ID)
		}
	}
	return nil
}

func seedPromotions(ctx context.Context, pool *pgxpool.Pool, promotions []promotion.Promotion) error {
	slog.Info("upserting promotions", slog.Int("count", len(promotions)))
	for _, p := range promotions {
		if p.Price.LessThan(decimal.Zero) {
			return errors.Errorf("promotion %s: negative price", p.ID)
		}
		slots, err := json.Marshal(p.Pizzas)
		if err != nil {
			return errors.Wrapf(err, "marshal promotion %s slots", p.ID)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO promotions (id, name, description, price, highlighted, drink_ids, pizzas)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = $2, description = $3, price = $4,
				highlighted = $5, drink_ids = $6, pizzas = $7`,
			p.ID, p.Name, p.Description, p.Price, p.Highlighted, p.DrinkIDs, slots)
		if err != nil {
			return errors.Wrapf(err, "upsert promotion %s", p.ID)
		}

		slog.Info("upserted promotion", slog.String("id", p.ID), slog.String("name", p.Name))
	}
	return nil
}
