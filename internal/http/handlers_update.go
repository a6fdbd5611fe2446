package http

import (
	"log/slog"
	"net/http"
)

type updateCheckResponse struct {
	CurrentVersion  string `json:"currentVersion"`
	LatestVersion   string `json:"latestVersion,omitempty"`
	UpdateAvailable bool   `json:"updateAvailable"`
	Notes           string `json:"notes,omitempty"`
}

func (s *Server) handleUpdateCheck(w http.ResponseWriter, r *http.Request) {
	m, newer, err := s.upd.Check(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Update check failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not check for updates")
		return
	}
	resp := updateCheckResponse{
		CurrentVersion:  s.upd.CurrentVersion(),
		UpdateAvailable: newer,
	}
	if m != nil {
		resp.LatestVersion = m.Version
		resp.Notes = m.Notes
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		CurrentVersion string `json:"currentVersion"`
		State          string `json:"state"`
	}{
		CurrentVersion: s.upd.CurrentVersion(),
		State:          string(s.upd.State()),
	})
}
