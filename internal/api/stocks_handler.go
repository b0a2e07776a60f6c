package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// stockQuote serves the quote widget. Watchlist symbols are answered from the
// refresh cache; anything else is fetched on demand and cached so the next
// lookup within the refresh window is free.
func (h *handlers) stockQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if symbol == "" {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "symbol is required")
		return
	}

	if h.deps.Cache != nil {
		if q, ok := h.deps.Cache.Get(symbol); ok {
			writeJSON(w, http.StatusOK, q)
			return
		}
	}

	if h.deps.Quotes == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "quote not available")
		return
	}

	q, err := h.deps.Quotes.Quote(r.Context(), symbol)
	if err != nil {
		slog.Warn("stock quote fetch failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusBadGateway, codeQuoteFailed, "could not fetch quote")
		return
	}
	if h.deps.Cache != nil {
		h.deps.Cache.Put(q)
	}
	writeJSON(w, http.StatusOK, q)
}
