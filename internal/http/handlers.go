package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"homebudget/internal/core"
	"homebudget/internal/services"
	"homebudget/internal/store"
)

type evaluationResponse struct {
	Snapshot  *core.Snapshot    `json:"snapshot"`
	Metrics   core.Metrics      `json:"metrics"`
	Chart     core.Chart        `json:"chart"`
	Health    []core.HealthItem `json:"health"`
	Formatted map[string]string `json:"formatted"`
}

func (s *Server) evaluation() evaluationResponse {
	m, chart, health := s.svc.Evaluate()
	return evaluationResponse{
		Snapshot: s.svc.Current(),
		Metrics:  m,
		Chart:    chart,
		Health:   health,
		Formatted: map[string]string{
			"income":        core.FormatINR(m.Income),
			"totalExpenses": core.FormatINR(m.TotalExpenses),
			"savings":       core.FormatINR(m.Savings),
			"savingsRate":   core.FormatPercent(m.SavingsRate),
			"investments":   core.FormatINR(m.InvestmentsTotal),
			"assets":        core.FormatINRCompact(m.AssetsTotal),
			"liabilities":   core.FormatINRCompact(m.LiabilitiesTotal),
			"netWorth":      core.FormatINRCompact(m.NetWorth),
		},
	}
}

// handleBudget serves the working snapshot. GET returns the current
// evaluation; POST replaces the snapshot wholesale and returns the new one.
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.evaluation())
	case http.MethodPost:
		var snap core.Snapshot
		if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
			writeError(w, http.StatusBadRequest, "invalid budget payload")
			return
		}
		s.svc.ReplaceCurrent(&snap)
		writeJSON(w, http.StatusOK, s.evaluation())
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSnapshotSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	year, month := parseYearMonth(r)

	if err := s.svc.Save(r.Context(), year, month); err != nil {
		slog.ErrorContext(r.Context(), "Snapshot save error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to save snapshot")
		return
	}

	s.incomeCache.Delete(store.SnapshotKey(year, month))
	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": month,
		"label": monthName(month),
	})
}

func (s *Server) handleSnapshotLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	year, month := parseYearMonth(r)

	err := s.svc.Load(r.Context(), year, month)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no saved budget for this month")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot load error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	writeJSON(w, http.StatusOK, s.evaluation())
}

func (s *Server) handleSnapshotDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	year, month := parseYearMonth(r)

	if err := s.svc.Delete(r.Context(), year, month); err != nil {
		slog.ErrorContext(r.Context(), "Snapshot delete error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to delete snapshot")
		return
	}
	s.incomeCache.Delete(store.SnapshotKey(year, month))
	w.WriteHeader(http.StatusNoContent)
}

type savedMonthEntry struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Label  string  `json:"label"`
	Income float64 `json:"income"`
}

// handleSnapshotList lists saved months, newest first, with each month's
// income. Incomes come from a small LRU cache; a miss costs one store read.
func (s *Server) handleSnapshotList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	months, err := s.svc.ListSaved(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot list error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}

	entries := make([]savedMonthEntry, 0, len(months))
	for _, m := range months {
		entry := savedMonthEntry{Year: m.Year, Month: m.Month, Label: monthName(m.Month)}

		key := store.SnapshotKey(m.Year, m.Month)
		if income, ok := s.incomeCache.Get(key); ok {
			entry.Income = income
		} else if snap, err := s.svc.LoadSaved(r.Context(), m.Year, m.Month); err == nil {
			entry.Income = snap.Income
			s.incomeCache.Set(key, snap.Income)
		}
		entries = append(entries, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{"snapshots": entries})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.svc.Schema(),
		"order":      core.CategoryOrder,
	})
}

type editItemRequest struct {
	Category core.CategoryKey `json:"category"`
	ItemKey  string           `json:"itemKey"`
	Label    string           `json:"label"`
}

func decodeEditRequest(w http.ResponseWriter, r *http.Request) (editItemRequest, bool) {
	var req editItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid edit payload")
		return req, false
	}
	return req, true
}

// writeEditError maps schema edit failures onto HTTP statuses.
func writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoEditSession):
		writeError(w, http.StatusConflict, "no schema edit in progress")
	case errors.Is(err, core.ErrLastItem):
		writeError(w, http.StatusUnprocessableEntity, "cannot delete the last item in a category")
	case errors.Is(err, core.ErrUnknownCategory), errors.Is(err, core.ErrUnknownItem):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "schema edit failed")
	}
}

func (s *Server) handleEditBegin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.svc.BeginEdit()
	schema, err := s.svc.EditSchema()
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": schema})
}

func (s *Server) handleEditRename(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, ok := decodeEditRequest(w, r)
	if !ok {
		return
	}
	if err := s.svc.RenameItem(req.Category, req.ItemKey, req.Label); err != nil {
		writeEditError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEditDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, ok := decodeEditRequest(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteItem(req.Category, req.ItemKey); err != nil {
		writeEditError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEditAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, ok := decodeEditRequest(w, r)
	if !ok {
		return
	}
	key, err := s.svc.AddItem(req.Category)
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"itemKey": key})
}

func (s *Server) handleEditCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.svc.CommitEdit(r.Context()); err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.svc.Schema()})
}

func (s *Server) handleEditDiscard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.svc.DiscardEdit(); err != nil {
		writeEditError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"theme": s.svc.Theme(r.Context())})
	case http.MethodPost:
		var req struct {
			Theme string `json:"theme"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid theme payload")
			return
		}
		if err := s.svc.SetTheme(r.Context(), req.Theme); err != nil {
			if errors.Is(err, services.ErrInvalidTheme) {
				writeError(w, http.StatusUnprocessableEntity, "theme must be light or dark")
				return
			}
			slog.ErrorContext(r.Context(), "Theme save error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save theme")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
