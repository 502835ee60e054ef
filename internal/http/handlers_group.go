package http

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"
)

const defaultActivityLimit = 20

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	code, err := s.groups.CreateGroup(r.Context(), callerID)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, map[string]string{"group_id": code})
}

type joinGroupRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	var req joinGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.groups.JoinGroup(r.Context(), callerID, req.Code); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "joined"})
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleInviteMember(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	var req inviteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.ToLower(sanitizeInput(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid email address")
		return
	}

	if err := s.groups.InviteMember(r.Context(), callerID, email); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusAccepted, map[string]string{"status": "invited"})
}

func (s *Server) handleGroupMembers(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	members, err := s.groups.Members(r.Context(), callerID)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, toMemberViews(members))
}

func (s *Server) handleGroupDebts(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	plan, err := s.groups.GroupDebts(r.Context(), callerID)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, toInstructionViews(plan))
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	callerID, _ := CallerID(r.Context())

	limit := defaultActivityLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := s.groups.Activity(r.Context(), callerID, limit)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, toActivityViews(entries))
}
