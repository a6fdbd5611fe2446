package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"kolipanel/internal/report"
)

func yearParam(r *http.Request) int {
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 1900 && y < 3000 {
			return y
		}
	}
	return time.Now().Year()
}

func (s *Server) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	sales := s.listSales(r, orderRecorded)
	writeJSON(w, http.StatusOK, report.Global(sales))
}

func (s *Server) handleYearlyStats(w http.ResponseWriter, r *http.Request) {
	year := yearParam(r)
	sales := report.ForYear(s.listSales(r, orderRecorded), year)
	writeJSON(w, http.StatusOK, struct {
		Year   int                  `json:"year"`
		Totals report.GlobalStats   `json:"totals"`
		Months []report.MonthBucket `json:"months"`
	}{
		Year:   year,
		Totals: report.Global(sales),
		Months: report.MonthlySeries(sales, "", year),
	})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	sales := s.listSales(r, orderRecorded)
	stats := report.CompaniesSummary(sales)
	if stats == nil {
		stats = []report.CompanyStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCompanySearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	stats := report.SearchCompanies(s.listSales(r, orderRecorded), q)
	if stats == nil {
		stats = []report.CompanyStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCompanyDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing company name")
		return
	}
	detail := report.Detail(s.listSales(r, orderRecorded), name)
	if detail == nil {
		// The collection and search endpoints answer unknown names with an
		// empty list; a named-resource URL answers 404 instead.
		writeError(w, http.StatusNotFound, "unknown company")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCompanyMonthly(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing company name")
		return
	}
	year := yearParam(r)
	months := report.MonthlySeries(s.listSales(r, orderRecorded), name, year)
	writeJSON(w, http.StatusOK, struct {
		CompanyName string               `json:"companyName"`
		Year        int                  `json:"year"`
		Months      []report.MonthBucket `json:"months"`
	}{CompanyName: name, Year: year, Months: months})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	sales := s.listSales(r, orderRecorded)
	writeJSON(w, http.StatusOK, report.CountryBreakdown(sales))
}
