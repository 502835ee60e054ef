package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitbook/internal/audit"
	"splitbook/internal/core"
	"splitbook/internal/services"
	"splitbook/internal/storage"
)

type noopEvictor struct{}

func (noopEvictor) Evict([]int64) {}

func newExpenseTestServer(t *testing.T) (*Server, *storage.SQLiteRepository, *core.Profile) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	profile := &core.Profile{
		FullName:     "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, repo.CreateProfile(context.Background(), profile))

	members := services.NewProfileService(repo, nil, nil, "")
	expenses := services.NewExpenseService(repo, members, audit.NewRecorder(repo), nil, noopEvictor{})

	return &Server{expenses: expenses}, repo, profile
}

func postExpense(t *testing.T, srv *Server, callerID int64, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), callerIDKey, callerID))
	rec := httptest.NewRecorder()
	srv.handleAddExpense(rec, req)
	return rec
}

func TestHandleAddExpense_SplittableDefaultsTrue(t *testing.T) {
	srv, repo, alice := newExpenseTestServer(t)

	rec := postExpense(t, srv, alice.ID,
		`{"name":"Dinner","amount":"90.00","date":"2026-09-01","category_id":3}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view transactionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.True(t, view.Splittable, "an expense with no splittable field is shared")

	stored, err := repo.GetTransaction(context.Background(), view.ID)
	require.NoError(t, err)
	assert.True(t, stored.Splittable)
}

func TestHandleAddExpense_SplittableFalseHonored(t *testing.T) {
	srv, repo, alice := newExpenseTestServer(t)

	rec := postExpense(t, srv, alice.ID,
		`{"name":"Haircut","amount":"25.00","date":"2026-09-01","splittable":false,"category_id":3}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view transactionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.False(t, view.Splittable)

	stored, err := repo.GetTransaction(context.Background(), view.ID)
	require.NoError(t, err)
	assert.False(t, stored.Splittable)
}

func TestHandleAddExpense_NameRequired(t *testing.T) {
	srv, _, alice := newExpenseTestServer(t)

	rec := postExpense(t, srv, alice.ID,
		`{"name":"   ","amount":"10.00","date":"2026-09-01","category_id":3}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
