package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"splitbook/internal/core"
	"splitbook/internal/services"
)

type addExpenseRequest struct {
	Name   string          `json:"name"`
	Icon   string          `json:"icon"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	// Expenses are shared unless the client says otherwise.
	Splittable *bool `json:"splittable"`
	CategoryID int64 `json:"category_id"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	var req addExpenseRequest
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

	splittable := true
	if req.Splittable != nil {
		splittable = *req.Splittable
	}

	tx, err := s.expenses.AddExpense(r.Context(), callerID, services.AddExpenseInput{
		Name:       req.Name,
		Icon:       sanitizeInput(req.Icon),
		Amount:     req.Amount,
		Date:       date,
		Splittable: splittable,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, toTransactionView(*tx))
}

// handleListExpenses serves the current month by default; an explicit
// from/to range overrides it.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	start, end, hasRange, err := parseRange(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	var txs []core.Transaction
	if hasRange {
		txs, err = s.expenses.ListInRange(r.Context(), callerID, start, end)
	} else {
		txs, err = s.expenses.ListCurrentMonth(r.Context(), callerID)
	}
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, toTransactionViews(txs))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), callerID, id); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type settleDebtRequest struct {
	ReceiverID int64           `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func (s *Server) handleSettleDebt(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	var req settleDebtRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.expenses.SettleDebt(r.Context(), callerID, req.ReceiverID, req.Amount)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, toTransactionView(*tx))
}
