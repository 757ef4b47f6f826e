package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/e-ashitey/smart-history-manager/internal/handlers"
	"github.com/e-ashitey/smart-history-manager/internal/repositories"
	"github.com/e-ashitey/smart-history-manager/internal/services"
	"github.com/e-ashitey/smart-history-manager/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	if level, err := logrus.ParseLevel(getenv("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(level)
	}

	dataDir := getenv("DATA_DIR", "./data")
	store := storage.NewAppendLogStorage(dataDir)
	defer store.Close()

	historyRepo := repositories.NewHistoryRepository(store)
	preferenceRepo := repositories.NewPreferenceRepository(store)
	ignoreRepo := repositories.NewIgnoreRepository(store)

	cacheTTL := time.Duration(getenvInt("CACHE_TTL_SECONDS", 60)) * time.Second
	service := services.NewSmartHistoryService(historyRepo, preferenceRepo, ignoreRepo, cacheTTL)

	suggestionHandler := handlers.NewSuggestionHandler(service)
	preferenceHandler := handlers.NewPreferenceHandler(service)
	historyHandler := handlers.NewHistoryHandler(service)

	router := mux.NewRouter()

	router.HandleFunc("/api/suggestions", suggestionHandler.Detect).Methods("GET")
	router.HandleFunc("/api/suggestions/{id}/ignore", suggestionHandler.Ignore).Methods("POST")

	router.HandleFunc("/api/preferences", preferenceHandler.GetAll).Methods("GET")
	router.HandleFunc("/api/preferences/{domain}", preferenceHandler.Set).Methods("PUT")
	router.HandleFunc("/api/preferences/{domain}", preferenceHandler.Delete).Methods("DELETE")

	router.HandleFunc("/api/history", historyHandler.Get).Methods("GET")
	router.HandleFunc("/api/history/count", historyHandler.GetCount).Methods("GET")
	router.HandleFunc("/api/history/sync", historyHandler.Sync).Methods("POST")

	// Health/ping endpoint for extension testing
	router.HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	}).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	port := getenv("PORT", "8080")

	logrus.WithFields(logrus.Fields{
		"port":     port,
		"data_dir": dataDir,
	}).Info("smart-history-manager API starting")

	logrus.Fatal(http.ListenAndServe(":"+port, c.Handler(router)))
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
