package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/e-ashitey/smart-history-manager/internal/services"
)

const defaultDetectionWindow = 7 * 24 * time.Hour

type SuggestionHandler struct {
	service services.SmartHistoryService
}

func NewSuggestionHandler(service services.SmartHistoryService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// Detect returns ranked suggestions for the requested window. Without
// start/end parameters the window is the last seven days. An empty
// result is a valid outcome, not an error, and encodes as [].
func (h *SuggestionHandler) Detect(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	suggestions, err := h.service.GetSuggestions(start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(suggestions)
}

// Ignore records an explicit user dismissal of a suggestion.
func (h *SuggestionHandler) Ignore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var ignoreRequest struct {
		Domains []string `json:"domains"`
	}
	if err := json.NewDecoder(r.Body).Decode(&ignoreRequest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(ignoreRequest.Domains) == 0 {
		http.Error(w, "At least one domain is required", http.StatusBadRequest)
		return
	}

	if err := h.service.IgnoreSuggestion(id, ignoreRequest.Domains); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"id":      id,
		"ignored": len(ignoreRequest.Domains),
		"message": "Suggestion dismissed",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func parseWindow(r *http.Request) (int64, int64, error) {
	end := time.Now().UnixMilli()
	start := end - defaultDetectionWindow.Milliseconds()

	var err error
	if raw := r.URL.Query().Get("end"); raw != "" {
		if end, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return 0, 0, err
		}
		start = end - defaultDetectionWindow.Milliseconds()
	}
	if raw := r.URL.Query().Get("start"); raw != "" {
		if start, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return 0, 0, err
		}
	}

	return start, end, nil
}
