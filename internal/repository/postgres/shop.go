package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/service/shop"
)

// ShopRepo implements shop.Repository against PostgreSQL. The timeline is
// stored as a JSONB column, so Upsert replaces a shop's whole state in one
// statement and concurrent batches never observe a half-written merge.
type ShopRepo struct{ db *sql.DB }

// NewShopRepo creates a Postgres-backed shop repository.
func NewShopRepo(db *sql.DB) *ShopRepo { return &ShopRepo{db: db} }

// EnsureSchema creates the shops table when it doesn't exist yet.
func (r *ShopRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS shops (
			shop_domain  TEXT PRIMARY KEY,
			shop_name    TEXT NOT NULL DEFAULT '',
			shop_country TEXT NOT NULL DEFAULT '',
			shop_email   TEXT NOT NULL DEFAULT '',
			events       JSONB NOT NULL DEFAULT '[]',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure shops schema: %w", err)
	}
	return nil
}

func (r *ShopRepo) Get(ctx context.Context, shopDomain string) (*domain.ShopRecord, error) {
	rec := &domain.ShopRecord{}
	var events []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT shop_domain, shop_name, shop_country, shop_email, events
		FROM shops
		WHERE shop_domain = $1
	`, shopDomain).Scan(&rec.Domain, &rec.Info.Name, &rec.Info.Country, &rec.Info.Email, &events)
	if err == sql.ErrNoRows {
		return nil, shop.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	if err := json.Unmarshal(events, &rec.Events); err != nil {
		return nil, fmt.Errorf("decode events for %s: %w", shopDomain, err)
	}
	return rec, nil
}

func (r *ShopRepo) List(ctx context.Context) ([]domain.ShopRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT shop_domain, shop_name, shop_country, shop_email, events
		FROM shops
		ORDER BY shop_domain ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	var out []domain.ShopRecord
	for rows.Next() {
		var rec domain.ShopRecord
		var events []byte
		if err := rows.Scan(&rec.Domain, &rec.Info.Name, &rec.Info.Country, &rec.Info.Email, &events); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		if err := json.Unmarshal(events, &rec.Events); err != nil {
			return nil, fmt.Errorf("decode events for %s: %w", rec.Domain, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *ShopRepo) Upsert(ctx context.Context, rec *domain.ShopRecord) (bool, error) {
	events, err := json.Marshal(rec.Events)
	if err != nil {
		return false, fmt.Errorf("encode events for %s: %w", rec.Domain, err)
	}

	// xmax = 0 only on freshly inserted rows, which distinguishes insert
	// from update without a second round trip.
	var created bool
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO shops (shop_domain, shop_name, shop_country, shop_email, events, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (shop_domain) DO UPDATE SET
			shop_name    = EXCLUDED.shop_name,
			shop_country = EXCLUDED.shop_country,
			shop_email   = EXCLUDED.shop_email,
			events       = EXCLUDED.events,
			updated_at   = NOW()
		RETURNING (xmax = 0)
	`, rec.Domain, rec.Info.Name, rec.Info.Country, rec.Info.Email, events).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert shop %s: %w", rec.Domain, err)
	}
	return created, nil
}

func (r *ShopRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shops`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shops: %w", err)
	}
	return n, nil
}
