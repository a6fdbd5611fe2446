// Package storage keeps a local SQLite copy of the sales ledger so
// reports stay available when the remote store cannot be reached.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kolipanel/internal/core"

	_ "modernc.org/sqlite"
)

const syncedAtKey = "synced_at"

// Mirror persists the last known ledger snapshot.
type Mirror struct {
	db *sql.DB
}

func NewMirror(dbPath string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Mirror{db: db}, nil
}

func (m *Mirror) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// ReplaceSnapshot swaps the stored ledger for the given one. The whole
// snapshot is replaced in a single transaction so readers never see a
// half-synced ledger.
func (m *Mirror) ReplaceSnapshot(ctx context.Context, sales []core.Sale, syncedAt time.Time) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("clear sales: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales (
			id, company_name, material_cost, gross_revenue, production_minutes,
			tax_rate_percent, tax_amount, markup, allocated_overhead,
			net_profit, profit_margin_percent, notes, country_code, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sales {
		if s.ID == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			s.ID, s.CompanyName, s.MaterialCost, s.GrossRevenue, s.ProductionMinutes,
			s.TaxRatePercent, s.TaxAmount, s.Markup, s.AllocatedOverhead,
			s.NetProfit, s.ProfitMarginPercent, s.Notes, s.CountryCode, s.Timestamp,
		); err != nil {
			return fmt.Errorf("insert sale %s: %w", s.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		syncedAtKey, syncedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("record sync time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Ledger snapshot mirrored",
		"component", "storage",
		"sales", len(sales),
	)
	return nil
}

// LoadSnapshot returns the mirrored ledger and when it was last synced.
// An empty mirror yields no sales and a zero time, not an error.
func (m *Mirror) LoadSnapshot(ctx context.Context) ([]core.Sale, time.Time, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, company_name, material_cost, gross_revenue, production_minutes,
		       tax_rate_percent, tax_amount, markup, allocated_overhead,
		       net_profit, profit_margin_percent, notes, country_code, recorded_at
		FROM sales`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []core.Sale
	for rows.Next() {
		var s core.Sale
		if err := rows.Scan(
			&s.ID, &s.CompanyName, &s.MaterialCost, &s.GrossRevenue, &s.ProductionMinutes,
			&s.TaxRatePercent, &s.TaxAmount, &s.Markup, &s.AllocatedOverhead,
			&s.NetProfit, &s.ProfitMarginPercent, &s.Notes, &s.CountryCode, &s.Timestamp,
		); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate sales: %w", err)
	}

	var raw string
	err = m.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_meta WHERE key = ?`, syncedAtKey,
	).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return sales, time.Time{}, nil
	case err != nil:
		return nil, time.Time{}, fmt.Errorf("read sync time: %w", err)
	}

	syncedAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return sales, time.Time{}, nil
	}
	return sales, syncedAt, nil
}
