package http

import "net/http"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	snap, err := s.dash.Get(r.Context(), callerID)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, toSnapshotView(snap))
}
