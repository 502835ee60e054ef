package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"splitbook/internal/services"
)

type registerRequest struct {
	FullName        string          `json:"full_name"`
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	ProfileImageURL string          `json:"profile_image_url"`
	BudgetLimit     decimal.Decimal `json:"budget_limit"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	req.FullName = sanitizeInput(req.FullName)
	req.Email = strings.ToLower(sanitizeInput(req.Email))
	if req.FullName == "" || req.Email == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "full_name and email are required")
		return
	}

	profile, err := s.profiles.Register(r.Context(), services.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: sanitizeInput(req.ProfileImageURL),
		BudgetLimit:     req.BudgetLimit,
	})
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, toProfileView(profile))
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "token is required")
		return
	}

	if err := s.profiles.Activate(r.Context(), token); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "activated"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	token, profile, err := s.profiles.Authenticate(r.Context(), strings.ToLower(sanitizeInput(req.Email)), req.Password)
	if err != nil {
		// A failed login is always reported as 401, never 403/404, so
		// the response does not leak whether the address is registered.
		writeError(r.Context(), w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"token":   token,
		"profile": toProfileView(profile),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.caller(w, r)
	if !ok {
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toProfileView(profile))
}

type updateBudgetRequest struct {
	BudgetLimit decimal.Decimal `json:"budget_limit"`
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	var req updateBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}
	if req.BudgetLimit.IsNegative() {
		writeError(r.Context(), w, http.StatusBadRequest, "budget_limit must not be negative")
		return
	}

	profile, err := s.profiles.UpdateBudget(r.Context(), callerID, req.BudgetLimit)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, toProfileView(profile))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	views := make([]categoryView, len(categories))
	for i, c := range categories {
		views[i] = toCategoryView(c)
	}
	writeJSON(r.Context(), w, http.StatusOK, views)
}
