package core

import (
	"errors"
	"strings"
)

// DefaultCountry is the home-market country code assigned to sales
// that do not specify one.
const DefaultCountry = "TR"

// ExpenseCategory is one of the fixed monthly expense categories.
type ExpenseCategory string

const (
	CategoryRent           ExpenseCategory = "rent"
	CategoryStaff          ExpenseCategory = "staff"
	CategoryMisc           ExpenseCategory = "misc"
	CategoryElectricity    ExpenseCategory = "electricity"
	CategoryFood           ExpenseCategory = "food"
	CategorySocialSecurity ExpenseCategory = "social_security"
	CategoryFuel           ExpenseCategory = "fuel"
	CategoryGlue           ExpenseCategory = "glue"
	CategoryPaint          ExpenseCategory = "paint"
	CategoryString         ExpenseCategory = "string"
	CategoryWithholdingTax ExpenseCategory = "withholding_tax"
	CategoryAdvanceTax     ExpenseCategory = "advance_tax"
	CategoryAccounting     ExpenseCategory = "accounting"
)

// ExpenseCategories lists every category in display order. The set is
// fixed: the stored config always carries all of them, missing keys
// read as 0.
var ExpenseCategories = []ExpenseCategory{
	CategoryRent,
	CategoryStaff,
	CategoryMisc,
	CategoryElectricity,
	CategoryFood,
	CategorySocialSecurity,
	CategoryFuel,
	CategoryGlue,
	CategoryPaint,
	CategoryString,
	CategoryWithholdingTax,
	CategoryAdvanceTax,
	CategoryAccounting,
}

// ExpenseConfig maps each monthly expense category to its amount.
type ExpenseConfig map[ExpenseCategory]float64

// Normalized returns a copy with every known category present
// (missing keys filled with 0) and unknown keys dropped.
func (c ExpenseConfig) Normalized() ExpenseConfig {
	out := make(ExpenseConfig, len(ExpenseCategories))
	for _, cat := range ExpenseCategories {
		out[cat] = c[cat]
	}
	return out
}

// Total returns the total monthly expense across all categories.
func (c ExpenseConfig) Total() float64 {
	var total float64
	for _, cat := range ExpenseCategories {
		total += c[cat]
	}
	return total
}

// Validate rejects negative amounts and unknown category keys.
func (c ExpenseConfig) Validate() error {
	known := make(map[ExpenseCategory]bool, len(ExpenseCategories))
	for _, cat := range ExpenseCategories {
		known[cat] = true
	}
	for cat, amount := range c {
		if !known[cat] {
			return ErrUnknownCategory
		}
		if amount < 0 {
			return ErrNegativeAmount
		}
	}
	return nil
}

// Sale is one completed transaction. Once created it is immutable
// except for deletion; derived fields are computed at creation time
// and never recomputed when the expense config changes later.
type Sale struct {
	ID                  string  `json:"-"`
	CompanyName         string  `json:"companyName"`
	MaterialCost        float64 `json:"materialCost"`
	GrossRevenue        float64 `json:"grossRevenue"`
	ProductionMinutes   int     `json:"productionMinutes"`
	TaxRatePercent      float64 `json:"taxRatePercent"`
	TaxAmount           float64 `json:"taxAmount"`
	Markup              float64 `json:"markup"`
	AllocatedOverhead   float64 `json:"allocatedOverhead"`
	NetProfit           float64 `json:"netProfit"`
	ProfitMarginPercent float64 `json:"profitMarginPercent"`
	Notes               string  `json:"notes,omitempty"`
	CountryCode         string  `json:"countryCode"`
	Timestamp           string  `json:"timestamp"`
}

// SaleInput is the user-supplied part of a sale, collected by the UI
// before calculation and persistence.
type SaleInput struct {
	CompanyName       string  `json:"companyName"`
	MaterialCost      float64 `json:"materialCost"`
	GrossRevenue      float64 `json:"grossRevenue"`
	ProductionMinutes int     `json:"productionMinutes"`
	TaxRatePercent    float64 `json:"taxRatePercent"`
	Notes             string  `json:"notes"`
	CountryCode       string  `json:"countryCode"`
}

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrEmptyCompany    = errors.New("empty company name")
	ErrUnknownCategory = errors.New("unknown expense category")
)

func (in SaleInput) Validate() error {
	if strings.TrimSpace(in.CompanyName) == "" {
		return ErrEmptyCompany
	}
	if len(in.CompanyName) > 200 {
		return errors.New("company name too long (max 200 characters)")
	}
	if in.MaterialCost < 0 || in.GrossRevenue < 0 {
		return ErrNegativeAmount
	}
	if in.TaxRatePercent < 0 {
		return errors.New("negative tax rate")
	}
	if len(in.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	if in.CountryCode != "" && len(in.CountryCode) != 2 {
		return errors.New("country code must be 2 letters")
	}
	return nil
}

// Country returns the sale's country code, defaulting to the home market.
func (in SaleInput) Country() string {
	code := strings.ToUpper(strings.TrimSpace(in.CountryCode))
	if code == "" {
		return DefaultCountry
	}
	return code
}
