package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/edgestake/pickwire/internal/api/response"
	"github.com/edgestake/pickwire/internal/store"
	"github.com/edgestake/pickwire/pkg/models"
)

var validEfforts = map[string]bool{
	"minimal": true,
	"low":     true,
	"medium":  true,
	"high":    true,
}

// settingsResponse is the external view of the settings row. The raw API
// credential is never returned; callers only learn whether one is set.
type settingsResponse struct {
	Model              string    `json:"openai_model"`
	ReasoningEffort    string    `json:"reasoning_effort"`
	HasAPIKey          bool      `json:"has_api_key"`
	PicksEnabled       bool      `json:"picks_enabled"`
	Concurrency        int       `json:"concurrency"`
	PollSeconds        int       `json:"poll_seconds"`
	MaxRetries         int       `json:"max_retries"`
	AllowTotalsDefault bool      `json:"allow_totals_default"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toSettingsResponse(s *models.Settings) settingsResponse {
	return settingsResponse{
		Model:              s.Model,
		ReasoningEffort:    s.ReasoningEffort,
		HasAPIKey:          s.OpenAIAPIKey != nil && *s.OpenAIAPIKey != "",
		PicksEnabled:       s.PicksEnabled,
		Concurrency:        s.Concurrency,
		PollSeconds:        s.PollSeconds,
		MaxRetries:         s.MaxRetries,
		AllowTotalsDefault: s.AllowTotalsDefault,
		UpdatedAt:          s.UpdatedAt,
	}
}

// NewGetSettingsHandler returns an http.HandlerFunc for GET /api/v1/settings.
func NewGetSettingsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.GetOrCreateSettings(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load settings", nil)
			return
		}
		response.JSON(w, toSettingsResponse(settings))
	}
}

// NewUpdateSettingsHandler returns an http.HandlerFunc for PUT /api/v1/settings.
// Omitted fields keep their current value; the worker picks changes up on its
// next cycle.
func NewUpdateSettingsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OpenAIAPIKey       *string `json:"openai_api_key"`
			Model              *string `json:"openai_model"`
			ReasoningEffort    *string `json:"reasoning_effort"`
			PicksEnabled       *bool   `json:"picks_enabled"`
			Concurrency        *int    `json:"concurrency"`
			PollSeconds        *int    `json:"poll_seconds"`
			MaxRetries         *int    `json:"max_retries"`
			AllowTotalsDefault *bool   `json:"allow_totals_default"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.ReasoningEffort != nil && !validEfforts[*req.ReasoningEffort] {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"reasoning_effort must be one of minimal, low, medium, high", nil)
			return
		}
		if req.Model != nil && *req.Model == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"openai_model cannot be empty", nil)
			return
		}
		if req.Concurrency != nil && (*req.Concurrency < 1 || *req.Concurrency > 16) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"concurrency must be between 1 and 16", nil)
			return
		}
		if req.PollSeconds != nil && (*req.PollSeconds < 5 || *req.PollSeconds > 3600) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"poll_seconds must be between 5 and 3600", nil)
			return
		}
		if req.MaxRetries != nil && (*req.MaxRetries < 0 || *req.MaxRetries > 10) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"max_retries must be between 0 and 10", nil)
			return
		}

		settings, err := s.GetOrCreateSettings(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load settings", nil)
			return
		}

		if req.OpenAIAPIKey != nil {
			if *req.OpenAIAPIKey == "" {
				settings.OpenAIAPIKey = nil
			} else {
				settings.OpenAIAPIKey = req.OpenAIAPIKey
			}
		}
		if req.Model != nil {
			settings.Model = *req.Model
		}
		if req.ReasoningEffort != nil {
			settings.ReasoningEffort = *req.ReasoningEffort
		}
		if req.PicksEnabled != nil {
			settings.PicksEnabled = *req.PicksEnabled
		}
		if req.Concurrency != nil {
			settings.Concurrency = *req.Concurrency
		}
		if req.PollSeconds != nil {
			settings.PollSeconds = *req.PollSeconds
		}
		if req.MaxRetries != nil {
			settings.MaxRetries = *req.MaxRetries
		}
		if req.AllowTotalsDefault != nil {
			settings.AllowTotalsDefault = *req.AllowTotalsDefault
		}
		settings.UpdatedAt = time.Now().UTC()

		if err := s.UpdateSettings(r.Context(), settings); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to update settings", nil)
			return
		}
		response.JSON(w, toSettingsResponse(settings))
	}
}
