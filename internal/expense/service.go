// Package expense manages the fixed monthly expense configuration
// stored under the config subtree.
package expense

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"kolipanel/internal/core"
	"kolipanel/internal/store"
)

const configPath = "config"

// WorkingMinutesPerMonth converts monthly fixed expense to a
// per-minute rate: an assumed 30-day month at 10 working hours a day
// (600 minutes x 30). Business policy, not user-configurable.
const WorkingMinutesPerMonth = 18000

type Service struct {
	store store.Client
}

func NewService(st store.Client) *Service {
	return &Service{store: st}
}

// GetAll returns the current config with every category present.
// Store failures degrade to an all-zero config; the caller cannot
// distinguish "unreachable" from "never configured" and does not
// need to.
func (s *Service) GetAll(ctx context.Context) core.ExpenseConfig {
	raw, err := s.store.Get(ctx, configPath)
	if err != nil {
		slog.WarnContext(ctx, "Expense config unavailable, using zeros", "error", err)
		return core.ExpenseConfig{}.Normalized()
	}
	if raw == nil {
		return core.ExpenseConfig{}.Normalized()
	}

	var cfg core.ExpenseConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		slog.WarnContext(ctx, "Expense config malformed, using zeros", "error", err)
		return core.ExpenseConfig{}.Normalized()
	}
	return cfg.Normalized()
}

// TotalMonthly sums all categories.
func (s *Service) TotalMonthly(ctx context.Context) float64 {
	return s.GetAll(ctx).Total()
}

// PerMinuteRate is the monthly total spread over the assumed working
// minutes of a month.
func (s *Service) PerMinuteRate(ctx context.Context) float64 {
	return s.TotalMonthly(ctx) / WorkingMinutesPerMonth
}

// ReplaceAll merge-patches the given categories into the stored
// config. A partial map touches only the keys it carries.
func (s *Service) ReplaceAll(ctx context.Context, cfg core.ExpenseConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("expense config: %w", err)
	}
	if len(cfg) == 0 {
		return nil
	}
	if err := s.store.Update(ctx, configPath, cfg); err != nil {
		return fmt.Errorf("save expense config: %w", err)
	}
	slog.InfoContext(ctx, "Expense config updated", "categories", len(cfg))
	return nil
}

// EnsureDefaults seeds an all-zero config on first run so the store
// always carries the full category set.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	raw, err := s.store.Get(ctx, configPath)
	if err != nil {
		return fmt.Errorf("check expense config: %w", err)
	}
	if raw != nil {
		return nil
	}
	if err := s.store.Set(ctx, configPath, core.ExpenseConfig{}.Normalized()); err != nil {
		return fmt.Errorf("seed expense config: %w", err)
	}
	slog.InfoContext(ctx, "Seeded default expense config")
	return nil
}
