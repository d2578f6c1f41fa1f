package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/SpongeBobBD/logflow-processor/internal/config"
	"github.com/SpongeBobBD/logflow-processor/internal/query"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.Writers.ClickHouse.Enabled {
		log.Fatalf("ClickHouse writer is not enabled in config. API server cannot start.")
	}

	// Initialize querier over the export sink
	querier, err := query.NewClickHouseQuerier(cfg.Writers.ClickHouse)
	if err != nil {
		log.Fatalf("Failed to create querier: %v", err)
	}

	// Initialize router
	r := mux.NewRouter()

	apiHandler := &APIHandler{querier: querier}

	r.HandleFunc("/api/v1/tags/top", apiHandler.topTagsHandler).Methods("GET")
	r.HandleFunc("/api/v1/port-protocols", apiHandler.portProtocolsHandler).Methods("GET")

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	querier query.Querier
}

// parseSince reads an optional RFC3339 "since" query parameter.
func parseSince(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return time.Time{}, nil
	}
	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid 'since' parameter: %v", err)
	}
	return since, nil
}

// topTagsHandler serves aggregated tag counts across exported runs.
func (h *APIHandler) topTagsHandler(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, fmt.Sprintf("invalid 'limit' parameter: %s", raw), http.StatusBadRequest)
			return
		}
	}

	totals, err := h.querier.TopTags(r.Context(), since, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query tag counts: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, totals)
}

// portProtocolsHandler serves aggregated port/protocol counts across exported runs.
func (h *APIHandler) portProtocolsHandler(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	totals, err := h.querier.PortProtocolCounts(r.Context(), since)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query port/protocol counts: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, totals)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}
