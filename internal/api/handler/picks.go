package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edgestake/pickwire/internal/api/response"
	"github.com/edgestake/pickwire/internal/cache"
	"github.com/edgestake/pickwire/internal/store"
	"github.com/edgestake/pickwire/pkg/models"
)

// gamePickTTL bounds the read-through cache for per-game pick lookups. Picks
// are effectively immutable once written, so a short TTL only limits staleness
// after a manual re-run.
const gamePickTTL = 5 * time.Minute

var validResults = map[string]bool{
	models.ResultBet:   true,
	models.ResultLean:  true,
	models.ResultNoBet: true,
}

// NewListPicksHandler returns an http.HandlerFunc for GET /api/v1/picks.
func NewListPicksHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		result := q.Get("result")
		if result != "" && !validResults[result] {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"result must be one of BET, LEAN, NO_BET", nil)
			return
		}

		page, limit := parsePagination(q.Get("page"), q.Get("limit"))

		picks, total, err := s.ListPicks(r.Context(), store.PickFilter{
			Result: result,
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list picks", nil)
			return
		}

		response.Collection(w, picks, response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}

// NewGetPickHandler returns an http.HandlerFunc for GET /api/v1/picks/{pickID}.
func NewGetPickHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, chi.URLParam(r, "pickID"), "pickID")
		if !ok {
			return
		}

		pick, err := s.GetPick(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Pick not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load pick", nil)
			return
		}
		response.JSON(w, pick)
	}
}

// NewGamePickHandler returns an http.HandlerFunc for
// GET /api/v1/games/{gameID}/pick, with a Redis read-through cache.
func NewGamePickHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, ok := parseID(w, chi.URLParam(r, "gameID"), "gameID")
		if !ok {
			return
		}

		key := cache.GamePickKey(gameID)
		if raw, found, err := c.Get(r.Context(), key); err == nil && found {
			response.JSON(w, json.RawMessage(raw))
			return
		}

		pick, err := s.GetPickByGameID(r.Context(), gameID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND",
					"No pick exists for this game", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load pick", nil)
			return
		}

		if encoded, err := json.Marshal(pick); err == nil {
			_ = c.Set(r.Context(), key, encoded, gamePickTTL)
		}
		response.JSON(w, pick)
	}
}
