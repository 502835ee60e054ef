// Package http exposes the JSON API. Handlers resolve the caller from
// the session token, delegate to the services and translate domain
// errors into status codes.
package http

import (
	"context"
	"net/http"
	"sync"

	"splitbook/internal/auth"
	"splitbook/internal/dashboard"
	"splitbook/internal/services"
)

type Server struct {
	http.Server

	profiles    *services.ProfileService
	expenses    *services.ExpenseService
	incomes     *services.IncomeService
	groups      *services.GroupService
	dash        *dashboard.Service
	tokens      *auth.JWTManager
	catalog     services.Store
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(
	addr string,
	profiles *services.ProfileService,
	expenses *services.ExpenseService,
	incomes *services.IncomeService,
	groups *services.GroupService,
	dash *dashboard.Service,
	tokens *auth.JWTManager,
	catalog services.Store,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		profiles:    profiles,
		expenses:    expenses,
		incomes:     incomes,
		groups:      groups,
		dash:        dash,
		tokens:      tokens,
		catalog:     catalog,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Public endpoints
	mux.HandleFunc("POST /api/register", s.withRequestLogging(s.handleRegister))
	mux.HandleFunc("GET /api/activate", s.withRequestLogging(s.handleActivate))
	mux.HandleFunc("POST /api/login", s.withRequestLogging(s.handleLogin))

	// Authenticated endpoints
	mux.HandleFunc("GET /api/profile", s.protected(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile/budget", s.protected(s.handleUpdateBudget))
	mux.HandleFunc("GET /api/categories", s.protected(s.handleListCategories))

	mux.HandleFunc("POST /api/expenses", s.protected(s.handleAddExpense))
	mux.HandleFunc("GET /api/expenses", s.protected(s.handleListExpenses))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.protected(s.handleDeleteExpense))

	mux.HandleFunc("POST /api/incomes", s.protected(s.handleAddIncome))
	mux.HandleFunc("GET /api/incomes", s.protected(s.handleListIncomes))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.protected(s.handleDeleteIncome))

	mux.HandleFunc("POST /api/settlements", s.protected(s.handleSettleDebt))
	mux.HandleFunc("GET /api/dashboard", s.protected(s.handleDashboard))

	mux.HandleFunc("POST /api/group", s.protected(s.handleCreateGroup))
	mux.HandleFunc("POST /api/group/join", s.protected(s.handleJoinGroup))
	mux.HandleFunc("POST /api/group/invite", s.protected(s.handleInviteMember))
	mux.HandleFunc("GET /api/group/members", s.protected(s.handleGroupMembers))
	mux.HandleFunc("GET /api/group/debts", s.protected(s.handleGroupDebts))
	mux.HandleFunc("GET /api/activity", s.protected(s.handleActivity))

	return s
}

// protected stacks the request logging and auth middleware.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return s.withRequestLogging(s.requireAuth(next))
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
