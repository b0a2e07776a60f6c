package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clientbook/clientbook/internal/auth"
	"github.com/clientbook/clientbook/internal/crm"
)

type createClientRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

type updateClientRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (h *handlers) createClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "name is required")
		return
	}

	c, err := h.deps.Clients.Create(r.Context(), auth.UserIDFromContext(r.Context()), crm.CreateClientInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handlers) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.deps.Clients.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if clients == nil {
		clients = []*crm.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *handlers) getClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.Clients.GetForOwner(r.Context(),
		chi.URLParam(r, "clientID"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) updateClient(w http.ResponseWriter, r *http.Request) {
	var req updateClientRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "name must not be empty")
		return
	}

	c, err := h.deps.Clients.Update(r.Context(),
		chi.URLParam(r, "clientID"), auth.UserIDFromContext(r.Context()),
		crm.UpdateClientInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) deleteClient(w http.ResponseWriter, r *http.Request) {
	err := h.deps.Clients.Delete(r.Context(),
		chi.URLParam(r, "clientID"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
