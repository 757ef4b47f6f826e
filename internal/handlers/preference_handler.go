package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/e-ashitey/smart-history-manager/internal/services"
)

type PreferenceHandler struct {
	service services.SmartHistoryService
}

func NewPreferenceHandler(service services.SmartHistoryService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

func (h *PreferenceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.service.GetPreferences()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

func (h *PreferenceHandler) Set(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	domain := vars["domain"]

	var prefRequest struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&prefRequest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.SetPreference(domain, prefRequest.Value); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]string{
		"domain": domain,
		"value":  prefRequest.Value,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *PreferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	domain := vars["domain"]

	if err := h.service.RemovePreference(domain); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
