package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"splitbook/internal/core"
	"splitbook/internal/services"
)

type addIncomeRequest struct {
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	CategoryID int64           `json:"category_id"`
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	var req addIncomeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	req.Name = sanitizeInput(req.Name)
	if req.Name == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "name is required")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.incomes.AddIncome(r.Context(), callerID, services.AddIncomeInput{
		Name:       req.Name,
		Icon:       sanitizeInput(req.Icon),
		Amount:     req.Amount,
		Date:       date,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, toTransactionView(*tx))
}

// handleListIncomes serves the current month by default; an explicit
// from/to range overrides it.
func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	start, end, hasRange, err := parseRange(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	var txs []core.Transaction
	if hasRange {
		txs, err = s.incomes.ListInRange(r.Context(), callerID, start, end)
	} else {
		txs, err = s.incomes.ListCurrentMonth(r.Context(), callerID)
	}
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, toTransactionViews(txs))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.incomes.DeleteIncome(r.Context(), callerID, id); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
