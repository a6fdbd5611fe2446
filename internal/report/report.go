// Package report rolls the sales ledger up into the summaries the UI
// and the map dashboard render. Everything here is a pure fold over an
// in-memory slice; callers fetch the ledger first.
package report

import (
	"sort"
	"strings"

	"kolipanel/internal/core"
)

// GlobalStats is the headline reduction over a set of sales.
type GlobalStats struct {
	Count                int     `json:"count"`
	TotalRevenue         float64 `json:"totalRevenue"`
	TotalProfit          float64 `json:"totalProfit"`
	AverageMarginPercent float64 `json:"averageMarginPercent"`
}

// CompanyStat aggregates one company's sales. DisplayName keeps the
// first-seen casing; grouping is case-folded and trimmed.
type CompanyStat struct {
	DisplayName  string  `json:"companyName"`
	CountryCode  string  `json:"countryCode"`
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalProfit  float64 `json:"totalProfit"`
}

// CompanyDetail is the drill-down view for a single company.
type CompanyDetail struct {
	CompanyName          string      `json:"companyName"`
	Count                int         `json:"count"`
	TotalRevenue         float64     `json:"totalRevenue"`
	TotalProfit          float64     `json:"totalProfit"`
	AverageMarginPercent float64     `json:"averageMarginPercent"`
	Sales                []core.Sale `json:"sales"`
}

// CountryStat is the per-country rollup behind the map view.
type CountryStat struct {
	CompanyCount int     `json:"uniqueCompanyCount"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// MonthBucket is one month of a company's yearly series.
type MonthBucket struct {
	Month   int     `json:"month"` // 1-12
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

func companyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Global reduces all sales to the headline numbers. Empty input
// yields all zeros.
func Global(sales []core.Sale) GlobalStats {
	var stats GlobalStats
	if len(sales) == 0 {
		return stats
	}
	var marginSum float64
	for _, s := range sales {
		stats.Count++
		stats.TotalRevenue += s.GrossRevenue
		stats.TotalProfit += s.NetProfit
		marginSum += s.ProfitMarginPercent
	}
	stats.AverageMarginPercent = marginSum / float64(stats.Count)
	return stats
}

// CompaniesSummary groups sales by company, most sales first. Sales
// without a company name are skipped.
func CompaniesSummary(sales []core.Sale) []CompanyStat {
	index := make(map[string]int)
	var out []CompanyStat

	for _, s := range sales {
		key := companyKey(s.CompanyName)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, CompanyStat{
				DisplayName: strings.TrimSpace(s.CompanyName),
				CountryCode: s.CountryCode,
			})
		}
		out[i].Count++
		out[i].TotalRevenue += s.GrossRevenue
		out[i].TotalProfit += s.NetProfit
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// SearchCompanies matches the grouped summary by case-insensitive
// substring on the display name, returning at most 10 suggestions.
func SearchCompanies(sales []core.Sale, query string) []CompanyStat {
	query = companyKey(query)
	if query == "" {
		return nil
	}

	var matches []CompanyStat
	for _, c := range CompaniesSummary(sales) {
		if strings.Contains(strings.ToLower(c.DisplayName), query) {
			matches = append(matches, c)
			if len(matches) == 10 {
				break
			}
		}
	}
	return matches
}

// Detail filters the ledger to one company (case-insensitive exact
// match) and aggregates it. Returns nil when the company has no
// sales; an unknown company is an empty result, not an error.
func Detail(sales []core.Sale, companyName string) *CompanyDetail {
	key := companyKey(companyName)
	if key == "" {
		return nil
	}

	var matching []core.Sale
	for _, s := range sales {
		if companyKey(s.CompanyName) == key {
			matching = append(matching, s)
		}
	}
	if len(matching) == 0 {
		return nil
	}

	d := &CompanyDetail{
		CompanyName: strings.TrimSpace(matching[0].CompanyName),
		Sales:       matching,
	}
	var marginSum float64
	for _, s := range matching {
		d.Count++
		d.TotalRevenue += s.GrossRevenue
		d.TotalProfit += s.NetProfit
		marginSum += s.ProfitMarginPercent
	}
	d.AverageMarginPercent = marginSum / float64(d.Count)
	return d
}

// CountryBreakdown counts distinct companies and sums revenue per
// country code. Companies are case-folded before entering a country's
// set, so "Acme" and "ACME" are one company.
func CountryBreakdown(sales []core.Sale) map[string]CountryStat {
	companies := make(map[string]map[string]struct{})
	revenue := make(map[string]float64)

	for _, s := range sales {
		key := companyKey(s.CompanyName)
		if key == "" {
			continue
		}
		country := s.CountryCode
		if country == "" {
			country = core.DefaultCountry
		}
		set, ok := companies[country]
		if !ok {
			set = make(map[string]struct{})
			companies[country] = set
		}
		set[key] = struct{}{}
		revenue[country] += s.GrossRevenue
	}

	out := make(map[string]CountryStat, len(companies))
	for country, set := range companies {
		out[country] = CountryStat{
			CompanyCount: len(set),
			TotalRevenue: revenue[country],
		}
	}
	return out
}

// MonthlySeries buckets one company's sales for one calendar year
// into 12 months, January through December, zero-filled. An empty
// companyName keeps every sale, which is how the yearly overview is
// built. Sales whose timestamps cannot be parsed are skipped.
func MonthlySeries(sales []core.Sale, companyName string, year int) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i].Month = i + 1
	}

	key := companyKey(companyName)
	for _, s := range sales {
		if key != "" && companyKey(s.CompanyName) != key {
			continue
		}
		y, m, ok := core.SaleYearMonth(s.Timestamp)
		if !ok || y != year {
			continue
		}
		b := &buckets[m-1]
		b.Count++
		b.Revenue += s.GrossRevenue
		b.Profit += s.NetProfit
	}
	return buckets
}

// ForYear filters sales to one calendar year, tolerant of both stored
// date orders.
func ForYear(sales []core.Sale, year int) []core.Sale {
	var out []core.Sale
	for _, s := range sales {
		if y, _, ok := core.SaleYearMonth(s.Timestamp); ok && y == year {
			out = append(out, s)
		}
	}
	return out
}
