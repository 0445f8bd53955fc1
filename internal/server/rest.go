package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/amityadav/policyfeed/internal/core"
	"github.com/amityadav/policyfeed/internal/feed"
	"github.com/amityadav/policyfeed/internal/middleware"
	"github.com/amityadav/policyfeed/internal/store"
)

// RecordReader exposes the persisted dataset and the latest run
type RecordReader interface {
	Records(ctx context.Context) feed.Dataset
	LastRun() *core.RunReport
}

// RunHistory lists past runs
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]store.RunRecord, error)
}

// Trigger starts a pipeline run in the background. It returns
// core.ErrRunInProgress when a run is already going.
type Trigger interface {
	Trigger() error
}

// Services groups all dependencies for REST handlers
type Services struct {
	Records RecordReader
	Runs    RunHistory // optional
	Worker  Trigger
	Auth    *middleware.AdminAuth
}

// CreateRESTHandler creates REST API endpoints
func CreateRESTHandler(services Services) http.HandlerFunc {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth(services.Records))
	mux.HandleFunc("GET /api/records", handleRecords(services.Records))
	mux.HandleFunc("GET /api/runs", handleRuns(services.Runs))
	mux.Handle("POST /api/feed/refresh", services.Auth.Require(handleFeedRefresh(services.Worker)))

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		mux.ServeHTTP(w, r)
	}
}

func handleHealth(records RecordReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{"status": "ok"}
		if last := records.LastRun(); last != nil {
			resp["last_run"] = map[string]interface{}{
				"id":          last.ID,
				"mode":        last.Mode,
				"finished_at": last.FinishedAt,
				"inserted":    last.Stats.Inserted,
				"total":       last.Total,
				"ok":          last.Err == nil,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleRecords(records RecordReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r)
		if !ok {
			return
		}
		data := records.Records(r.Context()).Truncate(limit)
		writeJSON(w, http.StatusOK, data)
	}
}

func handleRuns(runs RunHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runs == nil {
			http.Error(w, `{"error": "run log is disabled"}`, http.StatusServiceUnavailable)
			return
		}
		limit, ok := parseLimit(w, r)
		if !ok {
			return
		}
		list, err := runs.Recent(r.Context(), limit)
		if err != nil {
			log.Printf("[REST] Failed to list runs: %v", err)
			http.Error(w, `{"error": "failed to list runs"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleFeedRefresh(worker Trigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, _ := middleware.GetSubject(r.Context())
		log.Printf("[REST] Pipeline refresh requested by %s", subject)
		if err := worker.Trigger(); err != nil {
			if errors.Is(err, core.ErrRunInProgress) {
				writeJSON(w, http.StatusConflict, map[string]string{
					"status":  "busy",
					"message": "A pipeline run is already in progress",
				})
				return
			}
			log.Printf("[REST] Failed to trigger pipeline: %v", err)
			http.Error(w, `{"error": "failed to start pipeline run"}`, http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "accepted",
			"message": "Pipeline run started in background",
		})
	}
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		http.Error(w, `{"error": "limit must be a non-negative integer"}`, http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("[REST] Failed to encode response: %v", err)
	}
}
