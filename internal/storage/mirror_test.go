package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"kolipanel/internal/core"
)

func newTestMirror(t *testing.T) *Mirror {
	t.Helper()
	m, err := NewMirror(filepath.Join(t.TempDir(), "data", "ledger.db"))
	if err != nil {
		t.Fatalf("NewMirror: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := newTestMirror(t)
	ctx := context.Background()

	syncedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	in := []core.Sale{
		{
			ID:                  "-Ox1",
			CompanyName:         "Acme",
			MaterialCost:        300,
			GrossRevenue:        1200,
			ProductionMinutes:   60,
			TaxRatePercent:      20,
			TaxAmount:           200,
			Markup:              700,
			AllocatedOverhead:   60,
			NetProfit:           640,
			ProfitMarginPercent: 64,
			Notes:               "rush order",
			CountryCode:         "TR",
			Timestamp:           "01-06-2024 11:59:00",
		},
		{
			ID:          "-Ox2",
			CompanyName: "Globex",
			CountryCode: "DE",
			Timestamp:   "28-05-2024 09:00:00",
		},
	}

	if err := m.ReplaceSnapshot(ctx, in, syncedAt); err != nil {
		t.Fatalf("ReplaceSnapshot: %v", err)
	}

	out, gotSynced, err := m.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(out))
	}
	if !gotSynced.Equal(syncedAt) {
		t.Fatalf("synced at = %v, want %v", gotSynced, syncedAt)
	}

	byID := map[string]core.Sale{}
	for _, s := range out {
		byID[s.ID] = s
	}
	got, ok := byID["-Ox1"]
	if !ok {
		t.Fatal("sale -Ox1 missing from snapshot")
	}
	if got.CompanyName != "Acme" || got.NetProfit != 640 || got.Timestamp != "01-06-2024 11:59:00" {
		t.Fatalf("unexpected sale round trip: %+v", got)
	}
	if got.Notes != "rush order" {
		t.Fatalf("notes = %q", got.Notes)
	}
}

func TestSnapshotReplaceDropsStale(t *testing.T) {
	m := newTestMirror(t)
	ctx := context.Background()

	first := []core.Sale{
		{ID: "-a", CompanyName: "Old Co", Timestamp: "01-01-2024 00:00:00"},
		{ID: "-b", CompanyName: "Stale Co", Timestamp: "02-01-2024 00:00:00"},
	}
	if err := m.ReplaceSnapshot(ctx, first, time.Now()); err != nil {
		t.Fatalf("first ReplaceSnapshot: %v", err)
	}

	second := []core.Sale{
		{ID: "-c", CompanyName: "New Co", Timestamp: "03-01-2024 00:00:00"},
	}
	if err := m.ReplaceSnapshot(ctx, second, time.Now()); err != nil {
		t.Fatalf("second ReplaceSnapshot: %v", err)
	}

	out, _, err := m.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(out) != 1 || out[0].ID != "-c" {
		t.Fatalf("stale rows survived replace: %+v", out)
	}
}

func TestSnapshotSkipsSalesWithoutID(t *testing.T) {
	m := newTestMirror(t)
	ctx := context.Background()

	in := []core.Sale{
		{ID: "", CompanyName: "Nameless", Timestamp: "01-01-2024 00:00:00"},
		{ID: "-keep", CompanyName: "Kept", Timestamp: "01-01-2024 00:00:00"},
	}
	if err := m.ReplaceSnapshot(ctx, in, time.Now()); err != nil {
		t.Fatalf("ReplaceSnapshot: %v", err)
	}

	out, _, err := m.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(out) != 1 || out[0].ID != "-keep" {
		t.Fatalf("expected only identified sales, got %+v", out)
	}
}

func TestEmptyMirror(t *testing.T) {
	m := newTestMirror(t)

	out, syncedAt, err := m.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot on empty mirror: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty snapshot, got %d sales", len(out))
	}
	if !syncedAt.IsZero() {
		t.Fatalf("expected zero sync time, got %v", syncedAt)
	}
}
