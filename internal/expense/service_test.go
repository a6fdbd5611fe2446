package expense

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"kolipanel/internal/core"
	"kolipanel/internal/store/memory"
)

func TestGetAllZeroFillsMissingKeys(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	_ = st.Set(ctx, "config", map[string]float64{"rent": 9000, "staff": 9000})

	svc := NewService(st)
	cfg := svc.GetAll(ctx)
	if len(cfg) != len(core.ExpenseCategories) {
		t.Fatalf("expected %d keys, got %d", len(core.ExpenseCategories), len(cfg))
	}
	if cfg[core.CategoryRent] != 9000 {
		t.Fatalf("rent=%v", cfg[core.CategoryRent])
	}
	if cfg[core.CategoryGlue] != 0 {
		t.Fatalf("glue=%v, want 0", cfg[core.CategoryGlue])
	}
}

func TestTotalAndPerMinuteRate(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	_ = st.Set(ctx, "config", map[string]float64{"rent": 9000, "staff": 9000})

	svc := NewService(st)
	if got := svc.TotalMonthly(ctx); got != 18000 {
		t.Fatalf("total=%v want 18000", got)
	}
	// 18000 per month over 18000 working minutes is exactly 1/minute
	if got := svc.PerMinuteRate(ctx); got != 1 {
		t.Fatalf("rate=%v want 1", got)
	}
}

func TestReplaceAllIsMergePatch(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	_ = st.Set(ctx, "config", map[string]float64{"rent": 100, "staff": 200})

	svc := NewService(st)
	err := svc.ReplaceAll(ctx, core.ExpenseConfig{core.CategoryRent: 999})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	cfg := svc.GetAll(ctx)
	if cfg[core.CategoryRent] != 999 {
		t.Fatalf("rent=%v", cfg[core.CategoryRent])
	}
	if cfg[core.CategoryStaff] != 200 {
		t.Fatalf("staff=%v, partial update must not touch it", cfg[core.CategoryStaff])
	}
}

func TestReplaceAllRejectsBadConfig(t *testing.T) {
	svc := NewService(memory.New())
	if err := svc.ReplaceAll(context.Background(), core.ExpenseConfig{core.CategoryRent: -5}); err == nil {
		t.Fatalf("expected error for negative amount")
	}
	if err := svc.ReplaceAll(context.Background(), core.ExpenseConfig{"coffee": 5}); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestEnsureDefaultsSeedsOnce(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	svc := NewService(st)

	if err := svc.EnsureDefaults(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	raw, _ := st.Get(ctx, "config")
	var cfg map[string]float64
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cfg) != len(core.ExpenseCategories) {
		t.Fatalf("seeded %d keys", len(cfg))
	}

	// A second call must not clobber existing values.
	if err := svc.ReplaceAll(ctx, core.ExpenseConfig{core.CategoryRent: 7}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := svc.EnsureDefaults(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if got := svc.GetAll(ctx)[core.CategoryRent]; got != 7 {
		t.Fatalf("rent=%v after re-seed", got)
	}
}

type failingStore struct {
	*memory.Store
}

func (failingStore) Get(context.Context, string) (json.RawMessage, error) {
	return nil, errors.New("network down")
}

func TestGetAllDegradesToZeros(t *testing.T) {
	svc := NewService(failingStore{memory.New()})
	cfg := svc.GetAll(context.Background())
	if cfg.Total() != 0 {
		t.Fatalf("expected zero config on store failure, got total %v", cfg.Total())
	}
}
