package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/mesto-api/internal/auth"
	"github.com/sakif/mesto-api/internal/service"
)

// CardHandler serves the protected /cards routes.
type CardHandler struct {
	cards  *service.CardService
	logger *slog.Logger
}

func NewCardHandler(cards *service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{cards: cards, logger: logger}
}

type createCardRequest struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// HandleList returns all cards.
//
// HTTP: GET /cards
func (h *CardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// HandleCreate creates a card owned by the caller.
//
// HTTP: POST /cards
func (h *CardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "authorization required"})
		return
	}

	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid JSON body"})
		return
	}

	card, err := h.cards.Create(r.Context(), identity, req.Name, req.Link)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// HandleDelete deletes a card the caller owns and returns the deleted
// record.
//
// HTTP: DELETE /cards/{cardId}
// Responses: 200 | 400 malformed id | 403 not the owner | 404 missing.
func (h *CardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "authorization required"})
		return
	}

	card, err := h.cards.Delete(r.Context(), identity, r.PathValue("cardId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// HandleLike adds the caller's like to a card.
//
// HTTP: PUT /cards/{cardId}/likes
func (h *CardHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "authorization required"})
		return
	}

	card, err := h.cards.Like(r.Context(), identity, r.PathValue("cardId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// HandleDislike removes the caller's like from a card.
//
// HTTP: DELETE /cards/{cardId}/likes
func (h *CardHandler) HandleDislike(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "authorization required"})
		return
	}

	card, err := h.cards.Dislike(r.Context(), identity, r.PathValue("cardId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}
