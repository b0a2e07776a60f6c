package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clientbook/clientbook/internal/auth"
	"github.com/clientbook/clientbook/internal/crm"
	"github.com/clientbook/clientbook/internal/meeting"
	"github.com/clientbook/clientbook/internal/summarize"
)

const dateLayout = "2006-01-02"

type documentMeetingRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type documentForNewClientRequest struct {
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Date        string `json:"date"`
	Notes       string `json:"notes"`
}

type scheduleMeetingRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// parseDate parses a YYYY-MM-DD request field. An empty field yields the zero
// time so the workflow's own required-field check fires; a malformed one is a
// validation error here.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func (h *handlers) documentMeeting(w http.ResponseWriter, r *http.Request) {
	var req documentMeetingRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "date must be YYYY-MM-DD")
		return
	}

	m, err := h.deps.Meetings.DocumentMeeting(r.Context(),
		auth.UserIDFromContext(r.Context()), chi.URLParam(r, "clientID"), date, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *handlers) documentMeetingForNewClient(w http.ResponseWriter, r *http.Request) {
	var req documentForNewClientRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "date must be YYYY-MM-DD")
		return
	}

	c, m, err := h.deps.Meetings.DocumentMeetingForNewClient(r.Context(),
		auth.UserIDFromContext(r.Context()), req.ClientName, req.ClientPhone, date, req.Notes)
	if err != nil {
		// The client may have been created before the failure. Surface it so
		// the caller knows the partial outcome rather than retrying blindly.
		var sumErr *summarize.Error
		if c != nil && errors.As(err, &sumErr) {
			writeJSON(w, http.StatusBadGateway, struct {
				errorEnvelope
				Client *crm.Client `json:"client"`
			}{
				errorEnvelope: errorEnvelope{Error: errorDetail{
					Code:    codeSummarization,
					Message: sumErr.Error(),
				}},
				Client: c,
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Client  *crm.Client      `json:"client"`
		Meeting *meeting.Meeting `json:"meeting"`
	}{Client: c, Meeting: m})
}

func (h *handlers) scheduleMeeting(w http.ResponseWriter, r *http.Request) {
	var req scheduleMeetingRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "date must be YYYY-MM-DD")
		return
	}

	sm, err := h.deps.Meetings.ScheduleMeeting(r.Context(),
		auth.UserIDFromContext(r.Context()), chi.URLParam(r, "clientID"), date, req.Time)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sm)
}

func (h *handlers) listMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.deps.Meetings.ListMeetings(r.Context(),
		auth.UserIDFromContext(r.Context()), chi.URLParam(r, "clientID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if meetings == nil {
		meetings = []*meeting.Meeting{}
	}
	writeJSON(w, http.StatusOK, meetings)
}

func (h *handlers) listScheduled(w http.ResponseWriter, r *http.Request) {
	scheduled, err := h.deps.Meetings.ListScheduled(r.Context(),
		auth.UserIDFromContext(r.Context()), chi.URLParam(r, "clientID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if scheduled == nil {
		scheduled = []*meeting.ScheduledMeeting{}
	}
	writeJSON(w, http.StatusOK, scheduled)
}

func (h *handlers) clientSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.deps.Meetings.ClientSummary(r.Context(),
		auth.UserIDFromContext(r.Context()), chi.URLParam(r, "clientID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handlers) calendarDay(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "date query parameter is required")
		return
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "date must be YYYY-MM-DD")
		return
	}

	entries, err := h.deps.Meetings.CalendarDay(r.Context(), auth.UserIDFromContext(r.Context()), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
