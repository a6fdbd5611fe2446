// Package ledger owns the authoritative sales collection in the
// remote store. Sales are append-mostly: created, listed, deleted,
// never updated in place.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"kolipanel/internal/core"
	"kolipanel/internal/store"
)

const salesPath = "sales"

type Service struct {
	store store.Client
	now   func() time.Time
}

func NewService(st store.Client) *Service {
	return &Service{store: st, now: time.Now}
}

// Create builds the full sale record from the validated input and its
// calculation, stamps the creation time, and appends it to the store.
// Monetary fields are rounded to 2 decimals here -- once, at the
// persistence boundary.
func (s *Service) Create(ctx context.Context, in core.SaleInput, calc core.CalcResult) (core.Sale, error) {
	if err := in.Validate(); err != nil {
		return core.Sale{}, err
	}

	sale := core.Sale{
		CompanyName:         strings.TrimSpace(in.CompanyName),
		MaterialCost:        core.Round2(in.MaterialCost),
		GrossRevenue:        core.Round2(in.GrossRevenue),
		ProductionMinutes:   calc.ProductionMinutes,
		TaxRatePercent:      in.TaxRatePercent,
		TaxAmount:           core.Round2(calc.TaxAmount),
		Markup:              core.Round2(calc.Markup),
		AllocatedOverhead:   core.Round2(calc.AllocatedOverhead),
		NetProfit:           core.Round2(calc.NetProfit),
		ProfitMarginPercent: core.Round2(calc.ProfitMarginPercent),
		Notes:               strings.TrimSpace(in.Notes),
		CountryCode:         in.Country(),
		Timestamp:           core.FormatSaleTime(s.now()),
	}

	id, err := s.store.Push(ctx, salesPath, sale)
	if err != nil {
		return core.Sale{}, fmt.Errorf("create sale: %w", err)
	}
	sale.ID = id

	slog.InfoContext(ctx, "Sale recorded",
		"id", id,
		"company", sale.CompanyName,
		"net_profit", sale.NetProfit,
		"margin_percent", sale.ProfitMarginPercent)
	return sale, nil
}

// ListAll returns every sale, newest first. Ordering is a descending
// sort on the raw timestamp string, exactly as stored records have
// always been ordered; within one month and year this matches
// chronological order, across boundaries it may not. ListChronological
// is the strict variant. Store failures degrade to an empty list.
func (s *Service) ListAll(ctx context.Context) []core.Sale {
	sales := s.fetch(ctx)
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Timestamp > sales[j].Timestamp
	})
	return sales
}

// ListChronological returns every sale sorted strictly by parsed
// creation time, newest first. Records with unparseable timestamps
// sort last.
func (s *Service) ListChronological(ctx context.Context) []core.Sale {
	sales := s.fetch(ctx)
	sort.SliceStable(sales, func(i, j int) bool {
		ti, erri := core.ParseSaleTime(sales[i].Timestamp)
		tj, errj := core.ParseSaleTime(sales[j].Timestamp)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ti.After(tj)
	})
	return sales
}

// Delete removes one sale by id. A missing id is treated as already
// deleted; only transport failure reports false.
func (s *Service) Delete(ctx context.Context, id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/.") {
		return false
	}
	if err := s.store.Delete(ctx, salesPath+"/"+id); err != nil {
		slog.WarnContext(ctx, "Sale delete failed", "id", id, "error", err)
		return false
	}
	slog.InfoContext(ctx, "Sale deleted", "id", id)
	return true
}

// fetch loads the raw collection, attaches store keys and drops
// tombstoned entries.
func (s *Service) fetch(ctx context.Context) []core.Sale {
	raw, err := s.store.Get(ctx, salesPath)
	if err != nil {
		slog.WarnContext(ctx, "Sales unavailable", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var records map[string]*core.Sale
	if err := json.Unmarshal(raw, &records); err != nil {
		slog.WarnContext(ctx, "Sales collection malformed", "error", err)
		return nil
	}

	sales := make([]core.Sale, 0, len(records))
	for id, rec := range records {
		if rec == nil {
			continue
		}
		rec.ID = id
		sales = append(sales, *rec)
	}
	return sales
}
